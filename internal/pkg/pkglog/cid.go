package pkglog

import "context"

type correlationIDKey struct{}

// CorrelationID returns the request correlation ID carried by ctx, or "" when
// the context did not pass through the router.
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// WithCorrelationID returns a copy of ctx carrying cid.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

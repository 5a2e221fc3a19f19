package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkglog"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"
	// HeaderCloudTrace is set by Google front ends as TRACE_ID/SPAN_ID;o=OPTIONS.
	HeaderCloudTrace = "X-Cloud-Trace-Context"
)

const maxCorrelationIDLen = 128

func cleanCorrelationID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

// cloudTraceID extracts TRACE_ID from an X-Cloud-Trace-Context value.
func cloudTraceID(v string) string {
	traceID, _, _ := strings.Cut(v, "/")
	traceID, _, _ = strings.Cut(traceID, ";")
	return cleanCorrelationID(traceID)
}

// requestCorrelationID picks the first usable ID from the request headers.
func requestCorrelationID(r *http.Request) string {
	if cid := cleanCorrelationID(r.Header.Get(HeaderCorrelationID)); cid != "" {
		return cid
	}
	if cid := cleanCorrelationID(r.Header.Get(HeaderRequestID)); cid != "" {
		return cid
	}
	return cloudTraceID(r.Header.Get(HeaderCloudTrace))
}

func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := requestCorrelationID(r)
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.WithCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

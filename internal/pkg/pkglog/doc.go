// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys (ts, severity, file).
//   - Tagging every record with the service name and, for requests, the
//     correlation ID set by the router.
package pkglog

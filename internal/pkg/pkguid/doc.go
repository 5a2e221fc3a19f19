// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy:
//   - String IDs (UUIDs) tag every request with a correlation ID.
//   - Numeric IDs (Snowflake) name warehouse load jobs through Prefixed.
package pkguid

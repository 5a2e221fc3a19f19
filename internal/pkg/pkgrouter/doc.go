// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping, logging, recovery and correlation ID
// propagation. Every body it writes carries a "status" field; failures add
// "details" (the error text) and "code" (the pkgerror code).
package pkgrouter

// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Values come from registered defaults, an optional YAML file and environment
// variables; the environment beats the file and the file beats the defaults.
// Business code should depend on the Config interface so it stays easy to test
// and does not care where values come from.
package pkgconfig

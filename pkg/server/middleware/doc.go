// Package middleware provides the HTTP middleware chain of the validation
// service: request IDs, access logging with metrics, and panic recovery.
package middleware

// Package middleware wraps a ports.BookingStore with cross-cutting storage
// behavior, such as encrypting patient details at rest.
package middleware

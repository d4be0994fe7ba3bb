package middleware

import "github.com/anurags10/medibook/pkg/ports"

// Middleware allows wrapping a BookingStore to add behavior.
type Middleware func(ports.BookingStore) ports.BookingStore

// Chain wraps store so that the first middleware is the outermost.
func Chain(store ports.BookingStore, mws ...Middleware) ports.BookingStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

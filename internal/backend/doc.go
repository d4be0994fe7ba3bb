// Package backend is a reference implementation of the scheduling service the
// conversation engine talks to. It enumerates slots over a fixed working day,
// refuses double bookings and keeps bookings in a ports.BookingStore.
package backend

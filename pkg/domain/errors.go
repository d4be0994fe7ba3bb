package domain

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a turn arrives while a remote call is still outstanding.
var ErrBusy = errors.New("conversation is awaiting a remote reply")

// ErrBookingNotFound is returned by the scheduling service for unknown booking ids.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotUnavailable is returned when a requested slot is taken or outside working hours.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInvalidRequest is returned when a request fails validation at the service boundary.
var ErrInvalidRequest = errors.New("invalid request")

// RemoteCallError reports a failed call against the scheduling service.
// Message holds the server-supplied error when one was returned.
type RemoteCallError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// ErrBookingInactive is returned when rescheduling or cancelling a booking
// that was already rescheduled or cancelled.
var ErrBookingInactive = errors.New("booking is no longer active")

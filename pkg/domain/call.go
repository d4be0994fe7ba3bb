package domain

// Remote operation names, used in logs, metrics and RemoteCallError.Op.
const (
	OpAvailability = "availability"
	OpBook         = "book"
	OpReschedule   = "reschedule"
	OpCancel       = "cancel"
)

// RemoteCall is a request for the host to perform one scheduling service operation.
// Like State it is sealed; each variant carries a complete request.
type RemoteCall interface {
	Op() string
	Intent() Intent
	call()
}

// AvailabilityCall asks for the slots of Type on Date.
type AvailabilityCall struct {
	Type AppointmentType `json:"type"`
	Date string          `json:"date"`
}

// BookCall confirms a booking. Selection is kept so a failure can fall back
// to date resolution while preserving the type.
type BookCall struct {
	Selection Selection      `json:"selection"`
	Request   BookingRequest `json:"request"`
}

type RescheduleCall struct {
	Request RescheduleRequest `json:"request"`
}

type CancelCall struct {
	Request CancelRequest `json:"request"`
}

func (AvailabilityCall) Op() string     { return OpAvailability }
func (AvailabilityCall) Intent() Intent { return IntentBook }
func (BookCall) Op() string             { return OpBook }
func (BookCall) Intent() Intent         { return IntentBook }
func (RescheduleCall) Op() string       { return OpReschedule }
func (RescheduleCall) Intent() Intent   { return IntentReschedule }
func (CancelCall) Op() string           { return OpCancel }
func (CancelCall) Intent() Intent       { return IntentCancel }

func (AvailabilityCall) call() {}
func (BookCall) call()         {}
func (RescheduleCall) call()   {}
func (CancelCall) call()       {}

// RemoteResult is the host's answer to a RemoteCall.
// Exactly one payload field is meaningful, selected by the call's Op. Err is set on failure.
type RemoteResult struct {
	Slots      []AvailabilitySlot
	Booking    BookingConfirmation
	Reschedule RescheduleConfirmation
	Cancel     CancelConfirmation
	Err        error
}

package domain

// Step identifies the position of a conversation within its flow.
type Step string

const (
	StepAwaitingIntent Step = "awaiting_intent"

	StepBookType   Step = "book_type"
	StepBookDate   Step = "book_date"
	StepBookSlot   Step = "book_slot"
	StepBookName   Step = "book_name"
	StepBookEmail  Step = "book_email"
	StepBookPhone  Step = "book_phone"
	StepBookReason Step = "book_reason"

	StepRescheduleBookingID Step = "reschedule_booking_id"
	StepRescheduleDate      Step = "reschedule_date"
	StepRescheduleTime      Step = "reschedule_time"

	StepCancelBookingID Step = "cancel_booking_id"
	StepCancelReason    Step = "cancel_reason"

	// StepComplete is the terminal step shared by all flows.
	StepComplete Step = "complete"

	// StepAwaitingRemote marks a conversation parked on a scheduling service call.
	StepAwaitingRemote Step = "awaiting_remote"
)

// State is a sealed variant: only the types declared in this file implement it.
// Each variant holds exactly the fields that are populated at its step, so a
// confirm step can never observe a missing field.
type State interface {
	Intent() Intent
	Step() Step
	state()
}

// Idle is the initial state; no intent has been chosen yet.
type Idle struct{}

// Selection is the appointment chosen so far in the booking flow.
type Selection struct {
	Type AppointmentType  `json:"type"`
	Date string           `json:"date"`
	Slot AvailabilitySlot `json:"slot"`
}

type (
	// BookAwaitType waits for the user to pick an appointment type.
	BookAwaitType struct{}

	// BookAwaitDate waits for a date for the chosen type.
	BookAwaitDate struct {
		Type AppointmentType `json:"type"`
	}

	// BookAwaitSlot holds the slots of the most recent availability fetch only.
	BookAwaitSlot struct {
		Type  AppointmentType    `json:"type"`
		Date  string             `json:"date"`
		Slots []AvailabilitySlot `json:"slots"`
	}

	BookAwaitName struct {
		Selection
	}

	BookAwaitEmail struct {
		Selection
		Name string `json:"name"`
	}

	BookAwaitPhone struct {
		Selection
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	BookAwaitReason struct {
		Selection
		Patient Patient `json:"patient"`
	}

	// BookComplete is terminal.
	BookComplete struct {
		Request      BookingRequest      `json:"request"`
		Confirmation BookingConfirmation `json:"confirmation"`
	}
)

type (
	RescheduleAwaitBookingID struct{}

	RescheduleAwaitDate struct {
		BookingID string `json:"bookingId"`
	}

	RescheduleAwaitTime struct {
		BookingID string `json:"bookingId"`
		Date      string `json:"date"`
	}

	// RescheduleComplete is terminal.
	RescheduleComplete struct {
		Confirmation RescheduleConfirmation `json:"confirmation"`
	}
)

type (
	CancelAwaitBookingID struct{}

	CancelAwaitReason struct {
		BookingID string `json:"bookingId"`
	}

	// CancelComplete is terminal.
	CancelComplete struct {
		Confirmation CancelConfirmation `json:"confirmation"`
	}
)

// AwaitingRemote parks a conversation while Call is in flight.
// Turns arriving in this state are rejected with ErrBusy.
type AwaitingRemote struct {
	Call RemoteCall `json:"call"`
}

func (Idle) Intent() Intent { return IntentNone }
func (Idle) Step() Step     { return StepAwaitingIntent }

func (BookAwaitType) Intent() Intent   { return IntentBook }
func (BookAwaitType) Step() Step       { return StepBookType }
func (BookAwaitDate) Intent() Intent   { return IntentBook }
func (BookAwaitDate) Step() Step       { return StepBookDate }
func (BookAwaitSlot) Intent() Intent   { return IntentBook }
func (BookAwaitSlot) Step() Step       { return StepBookSlot }
func (BookAwaitName) Intent() Intent   { return IntentBook }
func (BookAwaitName) Step() Step       { return StepBookName }
func (BookAwaitEmail) Intent() Intent  { return IntentBook }
func (BookAwaitEmail) Step() Step      { return StepBookEmail }
func (BookAwaitPhone) Intent() Intent  { return IntentBook }
func (BookAwaitPhone) Step() Step      { return StepBookPhone }
func (BookAwaitReason) Intent() Intent { return IntentBook }
func (BookAwaitReason) Step() Step     { return StepBookReason }
func (BookComplete) Intent() Intent    { return IntentBook }
func (BookComplete) Step() Step        { return StepComplete }

func (RescheduleAwaitBookingID) Intent() Intent { return IntentReschedule }
func (RescheduleAwaitBookingID) Step() Step     { return StepRescheduleBookingID }
func (RescheduleAwaitDate) Intent() Intent      { return IntentReschedule }
func (RescheduleAwaitDate) Step() Step          { return StepRescheduleDate }
func (RescheduleAwaitTime) Intent() Intent      { return IntentReschedule }
func (RescheduleAwaitTime) Step() Step          { return StepRescheduleTime }
func (RescheduleComplete) Intent() Intent       { return IntentReschedule }
func (RescheduleComplete) Step() Step           { return StepComplete }

func (CancelAwaitBookingID) Intent() Intent { return IntentCancel }
func (CancelAwaitBookingID) Step() Step     { return StepCancelBookingID }
func (CancelAwaitReason) Intent() Intent    { return IntentCancel }
func (CancelAwaitReason) Step() Step        { return StepCancelReason }
func (CancelComplete) Intent() Intent       { return IntentCancel }
func (CancelComplete) Step() Step           { return StepComplete }

func (a AwaitingRemote) Intent() Intent {
	if a.Call == nil {
		return IntentNone
	}
	return a.Call.Intent()
}
func (AwaitingRemote) Step() Step { return StepAwaitingRemote }

func (Idle) state()                     {}
func (BookAwaitType) state()            {}
func (BookAwaitDate) state()            {}
func (BookAwaitSlot) state()            {}
func (BookAwaitName) state()            {}
func (BookAwaitEmail) state()           {}
func (BookAwaitPhone) state()           {}
func (BookAwaitReason) state()          {}
func (BookComplete) state()             {}
func (RescheduleAwaitBookingID) state() {}
func (RescheduleAwaitDate) state()      {}
func (RescheduleAwaitTime) state()      {}
func (RescheduleComplete) state()       {}
func (CancelAwaitBookingID) state()     {}
func (CancelAwaitReason) state()        {}
func (CancelComplete) state()           {}
func (AwaitingRemote) state()           {}

// IsTerminal reports whether s ends its flow.
func IsTerminal(s State) bool {
	return s.Step() == StepComplete
}

// Snapshot is a serializable view of a State for adapters and logs.
type Snapshot struct {
	Intent   Intent `json:"intent,omitempty"`
	Step     Step   `json:"step"`
	Terminal bool   `json:"terminal"`
	Data     State  `json:"data,omitempty"`
}

// NewSnapshot captures s.
func NewSnapshot(s State) Snapshot {
	return Snapshot{
		Intent:   s.Intent(),
		Step:     s.Step(),
		Terminal: IsTerminal(s),
		Data:     s,
	}
}

package domain

// AppointmentTypeKey is the wire value of an appointment type.
type AppointmentTypeKey string

const (
	TypeConsultation AppointmentTypeKey = "consultation"
	TypeFollowUp     AppointmentTypeKey = "followup"
	TypePhysical     AppointmentTypeKey = "physical"
	TypeSpecialist   AppointmentTypeKey = "specialist"
)

// AppointmentType is an immutable catalog entry.
type AppointmentType struct {
	Key             AppointmentTypeKey `json:"key" yaml:"key"`
	Label           string             `json:"label" yaml:"label"`
	DurationMinutes int                `json:"durationMinutes" yaml:"duration_minutes"`
	Synonyms        []string           `json:"-" yaml:"synonyms"`
}

// AvailabilitySlot is a bookable interval as reported by the scheduling service.
// Times are HH:mm on the queried date.
type AvailabilitySlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// Booking statuses reported by the scheduling service.
const (
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCancelled   = "cancelled"
)

// NoReasonGiven replaces a skipped cancellation reason.
const NoReasonGiven = "no reason given"

// Patient holds the contact details collected during booking.
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRequest is the payload of a book call.
type BookingRequest struct {
	AppointmentType AppointmentTypeKey `json:"appointmentType"`
	Date            string             `json:"date"`
	StartTime       string             `json:"startTime"`
	Patient         Patient            `json:"patient"`
	Reason          string             `json:"reason,omitempty"`
}

// BookingConfirmation is returned by a successful book call.
type BookingConfirmation struct {
	BookingID        string `json:"bookingId"`
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmationCode"`
}

// RescheduleRequest is the payload of a reschedule call.
type RescheduleRequest struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

// RescheduleConfirmation is returned by a successful reschedule call.
type RescheduleConfirmation struct {
	BookingID         string `json:"bookingId"`
	Status            string `json:"status"`
	PreviousBookingID string `json:"previousBookingId"`
}

// CancelRequest is the payload of a cancel call.
type CancelRequest struct {
	BookingID string `json:"bookingId"`
	Reason    string `json:"reason,omitempty"`
}

// CancelConfirmation is returned by a successful cancel call.
type CancelConfirmation struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

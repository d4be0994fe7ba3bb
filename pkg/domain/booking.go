package domain

import "time"

// Booking is the scheduling service's record of an appointment.
type Booking struct {
	ID                string             `json:"id"`
	AppointmentType   AppointmentTypeKey `json:"appointmentType"`
	Date              string             `json:"date"`
	StartTime         string             `json:"startTime"`
	EndTime           string             `json:"endTime"`
	Patient           Patient            `json:"patient"`
	Reason            string             `json:"reason,omitempty"`
	Status            string             `json:"status"`
	ConfirmationCode  string             `json:"confirmationCode"`
	PreviousBookingID string             `json:"previousBookingId,omitempty"`
	CancelReason      string             `json:"cancelReason,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Active reports whether the booking still occupies its slot.
func (b Booking) Active() bool {
	return b.Status == StatusConfirmed
}

package runtime

import (
	"fmt"
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
)

const (
	greetingMessage = "Hello! I can book a new appointment for you, or reschedule or cancel an existing one. How can I help?"

	askDateFormat    = "Please give a date as YYYY-MM-DD, or say \"today\" or \"tomorrow\"."
	checkingSlots    = "Let me check availability."
	askName          = "Great. What is the patient's full name?"
	askEmail         = "What email address should we use?"
	askPhone         = "And a phone number?"
	askReason        = "Finally, what is the reason for the visit?"
	bookingInFlight  = "Confirming your booking."
	bookingFailed    = "Sorry, I could not complete that booking. Please pick another date."
	availabilityDown = "Sorry, I could not check availability right now. Please try another date."

	askRescheduleBookingID = "Sure. What is the booking ID of the appointment you want to reschedule?"
	askRescheduleDate      = "Which date would you like to move it to? Use YYYY-MM-DD, \"today\" or \"tomorrow\"."
	askRescheduleTime      = "What time? Please use HH:mm, for example 14:30."
	rescheduleInFlight     = "Rescheduling your appointment."
	rescheduleFailed       = "Sorry, I could not reschedule that appointment. Let's start over; how can I help?"

	askCancelBookingID = "Okay. What is the booking ID of the appointment you want to cancel?"
	askCancelReason    = "Can you tell me why you are cancelling? Say \"skip\" to leave it out."
	cancelInFlight     = "Cancelling your appointment."
	cancelFailed       = "Sorry, I could not cancel that appointment. Let's start over; how can I help?"

	emptyBookingID = "I need the booking ID to continue. It looks like APPT-20240115-0900."
	emptyAnswer    = "I didn't catch that, could you repeat it?"

	// SkipKeyword leaves out the cancellation reason.
	SkipKeyword = "skip"
)

func typeMenu(c *domain.Catalog) string {
	var b strings.Builder
	b.WriteString("Which type of appointment would you like?\n\n")
	for i, t := range c.Menu() {
		fmt.Fprintf(&b, "%d. %s (%d min)\n", i+1, t.Label, t.DurationMinutes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func askDate(t domain.AppointmentType) string {
	return fmt.Sprintf("A %s (%d min). Which date works for you? %s", t.Label, t.DurationMinutes, askDateFormat)
}

func slotMenu(t domain.AppointmentType, date string, slots []domain.AvailabilitySlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Available %s slots on %s:\n\n", t.Label, date)
	for i, s := range slots {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.StartTime, s.EndTime)
	}
	b.WriteString("\nReply with the slot number or its start time.")
	return b.String()
}

func noAvailability(t domain.AppointmentType, date string) string {
	return fmt.Sprintf("There is no availability for a %s on %s. Please choose another date.", t.Label, date)
}

func slotNotRecognized(n int) string {
	return fmt.Sprintf("Please pick one of the listed slots: a number from 1 to %d, or a start time like 09:00.", n)
}

func bookingConfirmed(req domain.BookingRequest, c domain.BookingConfirmation) string {
	return fmt.Sprintf("Your appointment on %s at %s is %s.\n\nBooking ID: %s\nConfirmation code: %s",
		req.Date, req.StartTime, c.Status, c.BookingID, c.ConfirmationCode)
}

func rescheduleConfirmed(c domain.RescheduleConfirmation) string {
	return fmt.Sprintf("Done, your appointment is %s.\n\nNew booking ID: %s\nPrevious booking ID: %s",
		c.Status, c.BookingID, c.PreviousBookingID)
}

func cancelConfirmed(c domain.CancelConfirmation) string {
	return fmt.Sprintf("Booking %s is now %s.", c.BookingID, c.Status)
}

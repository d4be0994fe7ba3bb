package runtime

import "github.com/anurags10/medibook/pkg/domain"

// Transition is an edge of the static flow graph.
type Transition struct {
	From  domain.Step `json:"from"`
	To    domain.Step `json:"to"`
	Label string      `json:"label"`
}

// Inspect returns every transition the machine can take, grouped by flow.
// Remote calls appear as a pass through StepAwaitingRemote.
func (m *Machine) Inspect() []Transition {
	const (
		idle   = domain.StepAwaitingIntent
		remote = domain.StepAwaitingRemote
		done   = domain.StepComplete
	)
	return []Transition{
		{idle, domain.StepBookType, "book"},
		{idle, domain.StepBookDate, "book + type"},
		{idle, domain.StepRescheduleBookingID, "reschedule"},
		{idle, domain.StepCancelBookingID, "cancel"},
		{done, idle, "next turn"},

		{domain.StepBookType, domain.StepBookDate, "type"},
		{domain.StepBookDate, remote, "availability"},
		{remote, domain.StepBookSlot, "slots"},
		{remote, domain.StepBookDate, "no slots / error"},
		{domain.StepBookSlot, domain.StepBookName, "slot"},
		{domain.StepBookName, domain.StepBookEmail, "name"},
		{domain.StepBookEmail, domain.StepBookPhone, "email"},
		{domain.StepBookPhone, domain.StepBookReason, "phone"},
		{domain.StepBookReason, remote, "book"},
		{remote, done, "confirmed"},

		{domain.StepRescheduleBookingID, domain.StepRescheduleDate, "booking id"},
		{domain.StepRescheduleDate, domain.StepRescheduleTime, "date"},
		{domain.StepRescheduleTime, remote, "reschedule"},

		{domain.StepCancelBookingID, domain.StepCancelReason, "booking id"},
		{domain.StepCancelReason, remote, "cancel"},

		{remote, idle, "reschedule/cancel error"},
	}
}

package runtime

import (
	"strings"

	"github.com/anurags10/medibook/internal/extract"
	"github.com/anurags10/medibook/pkg/domain"
)

// bookStart tries to resolve the appointment type from the turn that opened the flow.
func (m *Machine) bookStart(text string) Outcome {
	if t, ok := extract.AppointmentType(text, m.catalog); ok {
		return Outcome{State: domain.BookAwaitDate{Type: t}, Message: askDate(t)}
	}
	return Outcome{State: domain.BookAwaitType{}, Message: typeMenu(m.catalog)}
}

func (m *Machine) bookType(s domain.BookAwaitType, text string) Outcome {
	t, ok := extract.AppointmentChoice(text, m.catalog)
	if !ok {
		return Outcome{State: s, Message: typeMenu(m.catalog)}
	}
	return Outcome{State: domain.BookAwaitDate{Type: t}, Message: askDate(t)}
}

func (m *Machine) bookDate(s domain.BookAwaitDate, text string) Outcome {
	date, ok := extract.Date(text, m.now())
	if !ok {
		return Outcome{State: s, Message: askDateFormat}
	}
	return m.remote(domain.AvailabilityCall{Type: s.Type, Date: date}, checkingSlots)
}

func (m *Machine) availabilityReturned(c domain.AvailabilityCall, res domain.RemoteResult) Outcome {
	retry := domain.BookAwaitDate{Type: c.Type}
	if res.Err != nil {
		return Outcome{State: retry, Message: availabilityDown}
	}

	var open []domain.AvailabilitySlot
	for _, slot := range res.Slots {
		if !slot.Available {
			continue
		}
		open = append(open, slot)
		if len(open) == MaxListedSlots {
			break
		}
	}
	if len(open) == 0 {
		return Outcome{State: retry, Message: noAvailability(c.Type, c.Date)}
	}

	return Outcome{
		State:   domain.BookAwaitSlot{Type: c.Type, Date: c.Date, Slots: open},
		Message: slotMenu(c.Type, c.Date, open),
	}
}

func (m *Machine) bookSlot(s domain.BookAwaitSlot, text string) Outcome {
	slot, ok := extract.SlotSelection(text, s.Slots)
	if !ok {
		return Outcome{State: s, Message: slotNotRecognized(len(s.Slots))}
	}
	sel := domain.Selection{Type: s.Type, Date: s.Date, Slot: slot}
	return Outcome{State: domain.BookAwaitName{Selection: sel}, Message: askName}
}

func (m *Machine) bookName(s domain.BookAwaitName, text string) Outcome {
	name := strings.TrimSpace(text)
	if name == "" {
		return Outcome{State: s, Message: askName}
	}
	return Outcome{State: domain.BookAwaitEmail{Selection: s.Selection, Name: name}, Message: askEmail}
}

func (m *Machine) bookEmail(s domain.BookAwaitEmail, text string) Outcome {
	email := strings.TrimSpace(text)
	if email == "" {
		return Outcome{State: s, Message: askEmail}
	}
	return Outcome{
		State:   domain.BookAwaitPhone{Selection: s.Selection, Name: s.Name, Email: email},
		Message: askPhone,
	}
}

func (m *Machine) bookPhone(s domain.BookAwaitPhone, text string) Outcome {
	phone := strings.TrimSpace(text)
	if phone == "" {
		return Outcome{State: s, Message: askPhone}
	}
	patient := domain.Patient{Name: s.Name, Email: s.Email, Phone: phone}
	return Outcome{State: domain.BookAwaitReason{Selection: s.Selection, Patient: patient}, Message: askReason}
}

// bookReason collects the last field and issues the book call.
func (m *Machine) bookReason(s domain.BookAwaitReason, text string) Outcome {
	reason := strings.TrimSpace(text)
	if reason == "" {
		return Outcome{State: s, Message: askReason}
	}
	req := domain.BookingRequest{
		AppointmentType: s.Type.Key,
		Date:            s.Date,
		StartTime:       s.Slot.StartTime,
		Patient:         s.Patient,
		Reason:          reason,
	}
	return m.remote(domain.BookCall{Selection: s.Selection, Request: req}, bookingInFlight)
}

// bookReturned keeps the type on failure and sends the user back to date
// resolution, since the chosen slot may no longer be free.
func (m *Machine) bookReturned(c domain.BookCall, res domain.RemoteResult) Outcome {
	if res.Err != nil {
		return Outcome{State: domain.BookAwaitDate{Type: c.Selection.Type}, Message: bookingFailed}
	}
	return Outcome{
		State:   domain.BookComplete{Request: c.Request, Confirmation: res.Booking},
		Message: bookingConfirmed(c.Request, res.Booking),
	}
}

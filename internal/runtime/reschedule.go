package runtime

import (
	"strings"

	"github.com/anurags10/medibook/internal/extract"
	"github.com/anurags10/medibook/pkg/domain"
)

func (m *Machine) rescheduleBookingID(s domain.RescheduleAwaitBookingID, text string) Outcome {
	id := strings.TrimSpace(text)
	if id == "" {
		return Outcome{State: s, Message: emptyBookingID}
	}
	return Outcome{State: domain.RescheduleAwaitDate{BookingID: id}, Message: askRescheduleDate}
}

func (m *Machine) rescheduleDate(s domain.RescheduleAwaitDate, text string) Outcome {
	date, ok := extract.Date(text, m.now())
	if !ok {
		return Outcome{State: s, Message: askDateFormat}
	}
	return Outcome{State: domain.RescheduleAwaitTime{BookingID: s.BookingID, Date: date}, Message: askRescheduleTime}
}

func (m *Machine) rescheduleTime(s domain.RescheduleAwaitTime, text string) Outcome {
	start, ok := extract.Time(text)
	if !ok {
		return Outcome{State: s, Message: askRescheduleTime}
	}
	req := domain.RescheduleRequest{BookingID: s.BookingID, Date: s.Date, StartTime: start}
	return m.remote(domain.RescheduleCall{Request: req}, rescheduleInFlight)
}

// rescheduleReturned resets the whole conversation on failure, unlike booking.
func (m *Machine) rescheduleReturned(c domain.RescheduleCall, res domain.RemoteResult) Outcome {
	if res.Err != nil {
		return Outcome{State: domain.Idle{}, Message: rescheduleFailed}
	}
	return Outcome{
		State:   domain.RescheduleComplete{Confirmation: res.Reschedule},
		Message: rescheduleConfirmed(res.Reschedule),
	}
}

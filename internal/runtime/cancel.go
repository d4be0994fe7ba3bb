package runtime

import (
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
)

func (m *Machine) cancelBookingID(s domain.CancelAwaitBookingID, text string) Outcome {
	id := strings.TrimSpace(text)
	if id == "" {
		return Outcome{State: s, Message: emptyBookingID}
	}
	return Outcome{State: domain.CancelAwaitReason{BookingID: id}, Message: askCancelReason}
}

func (m *Machine) cancelReason(s domain.CancelAwaitReason, text string) Outcome {
	reason := strings.TrimSpace(text)
	switch {
	case reason == "":
		return Outcome{State: s, Message: emptyAnswer + " " + askCancelReason}
	case strings.EqualFold(reason, SkipKeyword):
		reason = domain.NoReasonGiven
	}
	req := domain.CancelRequest{BookingID: s.BookingID, Reason: reason}
	return m.remote(domain.CancelCall{Request: req}, cancelInFlight)
}

func (m *Machine) cancelReturned(c domain.CancelCall, res domain.RemoteResult) Outcome {
	if res.Err != nil {
		return Outcome{State: domain.Idle{}, Message: cancelFailed}
	}
	return Outcome{
		State:   domain.CancelComplete{Confirmation: res.Cancel},
		Message: cancelConfirmed(res.Cancel),
	}
}

package backend

import (
	"fmt"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// WorkingDay is the window in which appointments may take place.
type WorkingDay struct {
	Open  string
	Close string
}

// DefaultWorkingDay is 09:00 to 17:00.
var DefaultWorkingDay = WorkingDay{Open: "09:00", Close: "17:00"}

func minuteOf(hhmm string) (int, error) {
	t, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q, expected HH:mm", domain.ErrInvalidRequest, hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func clockOf(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// span is a half-open interval of minutes.
type span struct{ start, end int }

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func bookingSpan(b domain.Booking) (span, bool) {
	start, err := minuteOf(b.StartTime)
	if err != nil {
		return span{}, false
	}
	end, err := minuteOf(b.EndTime)
	if err != nil {
		return span{}, false
	}
	return span{start, end}, true
}

// generateSlots splits the working day into back-to-back slots of the given
// length. A slot is unavailable when it overlaps an active booking.
func generateSlots(day WorkingDay, minutes int, booked []domain.Booking) ([]domain.AvailabilitySlot, error) {
	open, err := minuteOf(day.Open)
	if err != nil {
		return nil, err
	}
	closing, err := minuteOf(day.Close)
	if err != nil {
		return nil, err
	}

	busy := activeSpans(booked, "")
	var out []domain.AvailabilitySlot
	for s := open; s+minutes <= closing; s += minutes {
		slot := span{s, s + minutes}
		out = append(out, domain.AvailabilitySlot{
			StartTime: clockOf(slot.start),
			EndTime:   clockOf(slot.end),
			Available: !overlapsAny(slot, busy),
		})
	}
	return out, nil
}

// activeSpans returns the intervals held by confirmed bookings other than skipID.
func activeSpans(bookings []domain.Booking, skipID string) []span {
	var out []span
	for _, b := range bookings {
		if !b.Active() || b.ID == skipID {
			continue
		}
		if sp, ok := bookingSpan(b); ok {
			out = append(out, sp)
		}
	}
	return out
}

func overlapsAny(s span, busy []span) bool {
	for _, b := range busy {
		if s.overlaps(b) {
			return true
		}
	}
	return false
}

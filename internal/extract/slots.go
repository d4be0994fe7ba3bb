package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
)

// DateLayout is the wire format of dates.
const DateLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	timePattern    = regexp.MustCompile(`\b(\d+):(\d+)(?:\s*([aApP])\.?[mM]\b\.?)?`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// AppointmentType finds the first catalog entry whose synonym occurs in text.
// Entries are tried in catalog order, so more specific types should come first.
func AppointmentType(text string, catalog *domain.Catalog) (domain.AppointmentType, bool) {
	lower := strings.ToLower(text)
	for _, t := range catalog.Types() {
		if containsAny(lower, t.Synonyms) {
			return t, true
		}
	}
	return domain.AppointmentType{}, false
}

// AppointmentChoice answers an explicit "which type?" prompt. Besides synonyms
// it accepts the 1-based position in catalog.Menu() or the bare type key.
func AppointmentChoice(text string, catalog *domain.Catalog) (domain.AppointmentType, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if digitsPattern.MatchString(trimmed) {
		menu := catalog.Menu()
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > len(menu) {
			return domain.AppointmentType{}, false
		}
		return menu[n-1], true
	}
	if t, ok := catalog.Lookup(domain.AppointmentTypeKey(trimmed)); ok {
		return t, true
	}
	return AppointmentType(text, catalog)
}

// Date recognizes a YYYY-MM-DD literal or the words "today" and "tomorrow",
// resolved against now. The literal must name a real calendar day.
func Date(text string, now time.Time) (string, bool) {
	if m := isoDatePattern.FindString(text); m != "" {
		if _, err := time.Parse(DateLayout, m); err != nil {
			return "", false
		}
		return m, true
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1).Format(DateLayout), true
	case strings.Contains(lower, "today"):
		return now.Format(DateLayout), true
	}
	return "", false
}

// Time returns the first H:mm or HH:mm literal in text as zero-padded 24-hour
// HH:mm. An am/pm suffix converts a 12-hour reading. A literal with extra
// digits ("12:345") or out of range is rejected rather than truncated.
func Time(text string) (string, bool) {
	m := timePattern.FindStringSubmatch(text)
	if m == nil || len(m[1]) > 2 || len(m[2]) != 2 {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", false
	}

	switch strings.ToLower(m[3]) {
	case "":
		if hour > 23 {
			return "", false
		}
	case "a":
		if hour < 1 || hour > 12 {
			return "", false
		}
		hour %= 12
	case "p":
		if hour < 1 || hour > 12 {
			return "", false
		}
		hour = hour%12 + 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// SlotSelection resolves a choice among slots. A purely numeric answer is a
// 1-based index and is never reinterpreted; otherwise a time literal selects
// the available slot starting at that time.
func SlotSelection(text string, slots []domain.AvailabilitySlot) (domain.AvailabilitySlot, bool) {
	trimmed := strings.TrimSpace(text)
	if digitsPattern.MatchString(trimmed) {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > len(slots) {
			return domain.AvailabilitySlot{}, false
		}
		return slots[n-1], true
	}
	start, ok := Time(trimmed)
	if !ok {
		return domain.AvailabilitySlot{}, false
	}
	for _, s := range slots {
		if s.StartTime == start && s.Available {
			return s, true
		}
	}
	return domain.AvailabilitySlot{}, false
}

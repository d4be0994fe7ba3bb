package extract

import (
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
)

var (
	rescheduleTokens = []string{"reschedule", "re-schedule", "change my appointment", "move my appointment"}
	cancelTokens     = []string{"cancel", "call off"}
)

// ClassifyIntent maps a turn to a top-level intent.
// Reschedule tokens win over cancel tokens; anything else is a booking.
func ClassifyIntent(text string) domain.Intent {
	lower := strings.ToLower(text)
	if containsAny(lower, rescheduleTokens) {
		return domain.IntentReschedule
	}
	if containsAny(lower, cancelTokens) {
		return domain.IntentCancel
	}
	return domain.IntentBook
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

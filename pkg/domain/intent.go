package domain

// Intent is the user's top-level goal for a conversation.
type Intent string

const (
	IntentNone       Intent = ""
	IntentBook       Intent = "book"
	IntentReschedule Intent = "reschedule"
	IntentCancel     Intent = "cancel"
)

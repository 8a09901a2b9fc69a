package domain

// Intent is the classified purpose of an inbound chat message. Classification
// happens once per message; the orchestrator dispatches on the result so every
// branch is testable in isolation.
type Intent int

const (
	// IntentGeneral is the default: knowledge lookup, then AI delegation.
	IntentGeneral Intent = iota
	// IntentQuiz requests generated practice questions.
	IntentQuiz
	// IntentGreeting is a greeting or a general "what can you do" message.
	IntentGreeting
	// IntentFollowUp is a brief continuation of the previous exchange.
	IntentFollowUp
)

// String returns the intent name for logging.
func (i Intent) String() string {
	switch i {
	case IntentQuiz:
		return "quiz"
	case IntentGreeting:
		return "greeting"
	case IntentFollowUp:
		return "follow_up"
	default:
		return "general"
	}
}

package service

import (
	"regexp"
	"strings"

	"github.com/spartanmed/medchat/internal/domain"
)

var (
	quizPattern = regexp.MustCompile(`(?i)\b(test|quiz|exam|practice questions?|assessment)\b`)

	greetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(hi|hello|hey|howdy|yo)\b`),
		regexp.MustCompile(`^good (morning|afternoon|evening)\b`),
		regexp.MustCompile(`^(help|what can you do|who are you)\b`),
	}

	followUpPattern = regexp.MustCompile(`(?i)\b(harder|easier|more|again|why|how|explain|continue|another|next)\b`)
)

// followUpMaxWords bounds how long a message can be and still count as a
// brief continuation of the previous exchange.
const followUpMaxWords = 4

// ClassifyIntent classifies an inbound message into exactly one intent.
// Checks run in fixed priority order: quiz, greeting, follow-up, general.
func ClassifyIntent(message string, history []domain.Turn) domain.Intent {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if quizPattern.MatchString(normalized) {
		return domain.IntentQuiz
	}

	for _, p := range greetingPatterns {
		if p.MatchString(normalized) {
			return domain.IntentGreeting
		}
	}

	if len(history) > 0 &&
		len(strings.Fields(normalized)) <= followUpMaxWords &&
		followUpPattern.MatchString(normalized) {
		return domain.IntentFollowUp
	}

	return domain.IntentGeneral
}

// rewriteFollowUp injects the prior exchange's topic into a brief follow-up
// so the AI call sees explicit context instead of a bare "more" or "harder".
func rewriteFollowUp(message string, history []domain.Turn) string {
	var lastUser string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			lastUser = history[i].Content
			break
		}
	}
	if lastUser == "" {
		return message
	}
	return "Regarding the previous question \"" + lastUser + "\": " + message
}

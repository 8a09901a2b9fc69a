package service

import (
	"context"
	"log"
	"strings"

	"github.com/spartanmed/medchat/internal/domain"
)

const (
	// historyWindow bounds how many trailing turns the AI call sees.
	historyWindow = 6

	answerMaxTokens   = 800
	answerTemperature = 0.4
)

const chatSystemPrompt = `You are the CHM curriculum assistant for medical students. Answer questions about the Shared Discovery Curriculum, board preparation, student life, and study strategy. Be concise, accurate, and supportive. If you are unsure, say so and point the student to the relevant college office.`

const greetingMessage = `Hi! I'm the CHM curriculum assistant. I can help you with:

- **Curriculum questions** — phases, schedules, learning societies, clinical skills
- **Board preparation** — USMLE Step 1 and Step 2 planning
- **Practice tests** — say "create a test for M1 week 3" and I'll generate one
- **Student resources** — research programs, wellness, academic support

What would you like to know?`

// genericFallback is the last tier: returned when the AI call fails and no
// canned topic matches.
const genericFallback = `I'm having trouble reaching my full knowledge right now, but I can still help with curriculum phases, learning societies, USMLE preparation, research programs, wellness resources, and practice test generation. Try asking about one of those, or try your question again in a moment.`

// TextGenerator is the injected generative-text capability. Implementations
// may fail with any error; callers must treat a failure as "no text".
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt string, history []domain.Turn, userMessage string, maxTokens int, temperature float32) (string, error)
}

// cannedAnswer is one keyword-matched fallback tier entry, tried in order
// when the AI call fails.
type cannedAnswer struct {
	keywords []string
	text     string
}

var cannedAnswers = []cannedAnswer{
	{
		keywords: []string{"step 1", "step one"},
		text: `**USMLE Step 1 quick guide**

Step 1 is pass/fail. CHM schedules a dedicated preparation period at the end of M3. Build a daily question-bank habit about 12 weeks out, finish one full content review pass by 8 weeks out, and take weekly NBME practice forms in the final month. The college covers one NBME form per student, and Academic Achievement offers individual study-plan consultations.`,
	},
	{
		keywords: []string{"step 2", "step two", "ck"},
		text: `**USMLE Step 2 CK quick guide**

Most students test in the summer between MCE and LCE. Shelf performance predicts CK performance, so review your weakest clerkships first, and schedule the exam at least six weeks before residency applications open. Discuss timing with your learning society mentor if you're targeting a competitive specialty.`,
	},
	{
		keywords: []string{"anatomy"},
		text: `**Anatomy study pointers**

Anatomy at CHM is taught inside the system weeks rather than as a standalone block. Use the simulation center's prosection hours, pair a spaced-repetition deck with each week's structures, and book practice rooms through the center's scheduler 48 hours ahead.`,
	},
	{
		keywords: []string{"wellness", "stress", "burnout", "counseling"},
		text: `**Wellness resources**

Confidential counseling is available with same-week appointments through the student health portal, plus a 24/7 crisis line staffed by licensed clinicians. Visits are never reported to the college. Students on rotations can use telehealth sessions scheduled around duty hours.`,
	},
}

// ChatService is the fallback orchestrator: it classifies each message and
// routes it through ordered response tiers. Answer always returns a non-empty
// string; external failures are caught here and never propagate.
type ChatService struct {
	searcher  *Searcher
	assembler *Assembler
	quiz      *QuizService
	generator TextGenerator
	limit     int
}

// NewChatService creates a ChatService. generator may be nil, in which case
// the AI tier is skipped and canned fallbacks apply directly.
func NewChatService(searcher *Searcher, assembler *Assembler, quiz *QuizService, generator TextGenerator) *ChatService {
	return &ChatService{
		searcher:  searcher,
		assembler: assembler,
		quiz:      quiz,
		generator: generator,
		limit:     DefaultSearchLimit,
	}
}

// Answer produces the assistant reply for one inbound message.
func (s *ChatService) Answer(ctx context.Context, message string, history []domain.Turn) string {
	intent := ClassifyIntent(message, history)

	switch intent {
	case domain.IntentQuiz:
		return s.quiz.Respond(ctx, message)
	case domain.IntentGreeting:
		return greetingMessage
	case domain.IntentFollowUp:
		return s.answerGeneral(ctx, rewriteFollowUp(message, history), history)
	case domain.IntentGeneral:
		return s.answerGeneral(ctx, message, history)
	default:
		return s.answerGeneral(ctx, message, history)
	}
}

func (s *ChatService) answerGeneral(ctx context.Context, message string, history []domain.Turn) string {
	// Deterministic knowledge lookup first: a direct hit beats a model call.
	results := s.searcher.Lookup(message, s.limit)
	if len(results.Matches) > 0 {
		return s.assembler.Format(results)
	}

	if s.generator != nil {
		reply, err := s.generator.GenerateText(ctx, chatSystemPrompt, trailingTurns(history, historyWindow), message, answerMaxTokens, answerTemperature)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply
		}
		if err != nil {
			log.Printf("chat: generation failed, using canned fallback: %v", err)
		}
	}

	return cannedFallback(message)
}

func cannedFallback(message string) string {
	normalized := strings.ToLower(message)
	for _, canned := range cannedAnswers {
		for _, keyword := range canned.keywords {
			if strings.Contains(normalized, keyword) {
				return canned.text
			}
		}
	}
	return genericFallback
}

func trailingTurns(history []domain.Turn, n int) []domain.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

package domain

import "fmt"

// QuizQuestion is a single generated practice question. CorrectAnswer is an
// index into Options; renderers convert it to a letter via 'A' + CorrectAnswer.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	// Rationales optionally explains each option, indexed like Options.
	Rationales []string `json:"rationales,omitempty"`
}

// ValidateQuizQuestion checks the structural invariants of a generated question.
func ValidateQuizQuestion(q *QuizQuestion) error {
	if q == nil {
		return fmt.Errorf("quiz question cannot be nil")
	}

	if q.Question == "" {
		return fmt.Errorf("quiz question text is required")
	}

	if len(q.Options) < 2 {
		return fmt.Errorf("quiz question needs at least 2 options, got %d", len(q.Options))
	}

	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct answer index %d out of range for %d options", q.CorrectAnswer, len(q.Options))
	}

	if len(q.Rationales) > 0 && len(q.Rationales) != len(q.Options) {
		return fmt.Errorf("rationales count %d does not match options count %d", len(q.Rationales), len(q.Options))
	}

	return nil
}

// CurriculumWeek is one entry of the static per-phase curriculum table.
// It is separate from the knowledge store.
type CurriculumWeek struct {
	Phase  Phase
	Week   int
	Topic  string
	Themes []string
}

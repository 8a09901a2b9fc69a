package domain

import (
	"fmt"
	"strings"
	"time"
)

// Phase identifies the curriculum stage a knowledge item or quiz applies to.
type Phase string

const (
	PhaseGeneral Phase = "general"
	PhaseM1      Phase = "M1"
	PhaseM2      Phase = "M2"
	PhaseM3      Phase = "M3"
	PhaseMCE     Phase = "MCE"
	PhaseLCE     Phase = "LCE"
)

// QuizPhases lists the phases a quiz can be generated for, in menu order.
// PhaseGeneral is a filter attribute only and is deliberately excluded.
var QuizPhases = []Phase{PhaseM1, PhaseM2, PhaseM3, PhaseMCE, PhaseLCE}

// ParsePhase matches a token against the known phases, case-insensitively.
func ParsePhase(token string) (Phase, bool) {
	t := strings.ToUpper(strings.TrimSpace(token))
	for _, p := range QuizPhases {
		if t == string(p) {
			return p, true
		}
	}
	return "", false
}

// KnowledgeItem is a curated curriculum topic record. The set of items is
// fixed at startup and never mutated; concurrent readers need no locking.
type KnowledgeItem struct {
	ID          string
	Title       string
	Content     string
	Category    string
	Subcategory string
	Phase       Phase
	Tags        []string
	Priority    int
	Reference   string
	LastUpdated time.Time

	// SearchableText is a lowercase concatenation of the fields above plus
	// any extra synonyms, built once at construction time.
	SearchableText string
}

// NewKnowledgeItem builds a KnowledgeItem and derives its searchable text
// from the given fields and synonyms.
func NewKnowledgeItem(id, title, content, category, subcategory string, phase Phase, tags []string, priority int, lastUpdated time.Time, synonyms ...string) KnowledgeItem {
	item := KnowledgeItem{
		ID:          id,
		Title:       title,
		Content:     content,
		Category:    category,
		Subcategory: subcategory,
		Phase:       phase,
		Tags:        tags,
		Priority:    priority,
		LastUpdated: lastUpdated,
	}
	item.SearchableText = buildSearchableText(item, synonyms)
	return item
}

func buildSearchableText(item KnowledgeItem, synonyms []string) string {
	parts := []string{
		item.Title,
		item.Category,
		item.Subcategory,
		string(item.Phase),
		strings.Join(item.Tags, " "),
		item.Content,
	}
	parts = append(parts, synonyms...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ValidateKnowledgeItem validates a KnowledgeItem at load time.
func ValidateKnowledgeItem(item *KnowledgeItem) error {
	if item == nil {
		return fmt.Errorf("knowledge item cannot be nil")
	}

	if item.ID == "" {
		return fmt.Errorf("knowledge item ID is required")
	}

	if item.Title == "" {
		return fmt.Errorf("knowledge item Title is required")
	}

	if item.Content == "" {
		return fmt.Errorf("knowledge item Content is required")
	}

	if item.SearchableText == "" {
		return fmt.Errorf("knowledge item SearchableText is required")
	}

	return nil
}

// ScoredMatch pairs a knowledge item with its relevance score for one query.
// Instances live only for the duration of a single search call.
type ScoredMatch struct {
	Item  *KnowledgeItem
	Score int
}

// Package knowledge holds the immutable in-memory topic store and the static
// curriculum-week table the assistant answers from.
package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spartanmed/medchat/internal/domain"
)

// Store is a read-only collection of knowledge items. It is constructed once
// at startup and safe for unlimited concurrent readers.
type Store struct {
	items []domain.KnowledgeItem
}

// NewStore validates the given items and builds a Store over them. Item order
// is preserved; the matcher relies on it for deterministic tie-breaking.
func NewStore(items []domain.KnowledgeItem) (*Store, error) {
	for i := range items {
		if err := domain.ValidateKnowledgeItem(&items[i]); err != nil {
			return nil, fmt.Errorf("knowledge item %d: %w", i, err)
		}
	}
	return &Store{items: items}, nil
}

// Len returns the number of items in the store.
func (s *Store) Len() int {
	return len(s.items)
}

// All returns every item in load order. Callers must not mutate the results.
func (s *Store) All() []*domain.KnowledgeItem {
	out := make([]*domain.KnowledgeItem, len(s.items))
	for i := range s.items {
		out[i] = &s.items[i]
	}
	return out
}

// ByID returns the item with the given ID.
func (s *Store) ByID(id string) (*domain.KnowledgeItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, domain.ErrKnowledgeItemNotFound
}

// ByCategory returns items whose category or subcategory contains substr,
// case-insensitively, sorted by priority descending. An empty substring
// matches nothing.
func (s *Store) ByCategory(substr string) []*domain.KnowledgeItem {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return nil
	}

	var out []*domain.KnowledgeItem
	for i := range s.items {
		item := &s.items[i]
		if strings.Contains(strings.ToLower(item.Category), needle) ||
			strings.Contains(strings.ToLower(item.Subcategory), needle) {
			out = append(out, item)
		}
	}
	sortByPriority(out)
	return out
}

// ByTag returns items where any tag contains tag as a case-insensitive
// substring, sorted by priority descending. An empty tag matches nothing.
func (s *Store) ByTag(tag string) []*domain.KnowledgeItem {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return nil
	}

	var out []*domain.KnowledgeItem
	for i := range s.items {
		item := &s.items[i]
		for _, t := range item.Tags {
			if strings.Contains(strings.ToLower(t), needle) {
				out = append(out, item)
				break
			}
		}
	}
	sortByPriority(out)
	return out
}

func sortByPriority(items []*domain.KnowledgeItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority > items[j].Priority
	})
}

// Curriculum is the static per-phase week table used by the quiz generator.
type Curriculum struct {
	byPhase map[domain.Phase][]domain.CurriculumWeek
}

// NewCurriculum builds a Curriculum from the given weeks, grouped by phase
// and sorted by week number.
func NewCurriculum(weeks []domain.CurriculumWeek) *Curriculum {
	byPhase := make(map[domain.Phase][]domain.CurriculumWeek)
	for _, w := range weeks {
		byPhase[w.Phase] = append(byPhase[w.Phase], w)
	}
	for phase := range byPhase {
		sort.SliceStable(byPhase[phase], func(i, j int) bool {
			return byPhase[phase][i].Week < byPhase[phase][j].Week
		})
	}
	return &Curriculum{byPhase: byPhase}
}

// WeeksFor returns the weeks defined for a phase in ascending week order.
func (c *Curriculum) WeeksFor(phase domain.Phase) []domain.CurriculumWeek {
	return c.byPhase[phase]
}

// Week returns the entry for a specific phase and week number.
func (c *Curriculum) Week(phase domain.Phase, week int) (*domain.CurriculumWeek, error) {
	for i, w := range c.byPhase[phase] {
		if w.Week == week {
			return &c.byPhase[phase][i], nil
		}
	}
	return nil, domain.ErrCurriculumWeekNotFound
}

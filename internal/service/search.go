package service

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spartanmed/medchat/internal/domain"
)

const (
	titleWeight    = 12
	tagWeight      = 10
	categoryWeight = 7
	contentWeight  = 2

	recencyBonus      = 3
	recencyWindowDays = 30

	// relevanceFloor filters near-zero coincidental matches; an item's
	// field-match score must exceed it before priority and recency boosts
	// apply.
	relevanceFloor = 5

	// minTokenLen drops short stop-word-like tokens before scoring.
	minTokenLen = 3

	// DefaultSearchLimit caps results when callers pass no limit of their own.
	DefaultSearchLimit = 5
)

// KnowledgeStore is the read-only store surface the searcher needs.
type KnowledgeStore interface {
	All() []*domain.KnowledgeItem
	ByTag(tag string) []*domain.KnowledgeItem
}

// Searcher ranks knowledge items against free-text queries using weighted
// field matches plus priority and recency boosts.
type Searcher struct {
	store KnowledgeStore

	// now is injectable so recency scoring is deterministic in tests.
	now func() time.Time
}

// NewSearcher creates a Searcher over the given store.
func NewSearcher(store KnowledgeStore) *Searcher {
	return &Searcher{store: store, now: time.Now}
}

// NewSearcherWithClock creates a Searcher with a fixed clock (for testing).
func NewSearcherWithClock(store KnowledgeStore, now func() time.Time) *Searcher {
	return &Searcher{store: store, now: now}
}

// SearchResults carries ranked matches plus the rendering mode they were
// produced under.
type SearchResults struct {
	Matches []domain.ScoredMatch
	// TagBrowse marks results produced by an exact tag lookup rather than
	// weighted scoring; the assembler renders those as a multi-item list.
	TagBrowse bool
	Tag       string
}

// Search returns the top-limit items ranked by relevance. An empty or
// whitespace-only query returns no results: with zero tokens every item would
// score only its priority and recency, which is noise, not a match. A limit
// of zero or less also returns no results.
func (s *Searcher) Search(query string, limit int) []domain.ScoredMatch {
	if limit <= 0 {
		return nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	now := s.now()
	type candidate struct {
		match domain.ScoredMatch
		order int
	}

	var candidates []candidate
	for i, item := range s.store.All() {
		score := s.scoreItem(item, tokens, now)
		if score <= relevanceFloor {
			continue
		}
		candidates = append(candidates, candidate{
			match: domain.ScoredMatch{Item: item, Score: score},
			order: i,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].match.Score != candidates[j].match.Score {
			return candidates[i].match.Score > candidates[j].match.Score
		}
		if candidates[i].match.Item.Priority != candidates[j].match.Item.Priority {
			return candidates[i].match.Item.Priority > candidates[j].match.Item.Priority
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	matches := make([]domain.ScoredMatch, len(candidates))
	for i, c := range candidates {
		matches[i] = c.match
	}
	return matches
}

// Lookup routes a query either to an exact tag browse (when the query has the
// tag-browse shape) or to weighted search.
func (s *Searcher) Lookup(query string, limit int) SearchResults {
	if tag, ok := DetectTagQuery(query); ok {
		if limit <= 0 {
			return SearchResults{TagBrowse: true, Tag: tag}
		}
		items := s.store.ByTag(tag)
		if len(items) > limit {
			items = items[:limit]
		}
		matches := make([]domain.ScoredMatch, len(items))
		for i, item := range items {
			matches[i] = domain.ScoredMatch{Item: item, Score: item.Priority}
		}
		return SearchResults{Matches: matches, TagBrowse: true, Tag: tag}
	}

	return SearchResults{Matches: s.Search(query, limit)}
}

func (s *Searcher) scoreItem(item *domain.KnowledgeItem, tokens []string, now time.Time) int {
	score := 0

	title := strings.ToLower(item.Title)
	category := strings.ToLower(item.Category)
	subcategory := strings.ToLower(item.Subcategory)

	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleWeight
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				score += tagWeight
				break
			}
		}
		if strings.Contains(category, token) || strings.Contains(subcategory, token) {
			score += categoryWeight
		}
		if strings.Contains(item.SearchableText, token) {
			score += contentWeight
		}
	}

	// The floor applies before boosts: priority and recency rank real matches,
	// they never turn a stray stop-word hit into one.
	if score <= relevanceFloor {
		return 0
	}

	// Priority is a per-item authority baseline, added once.
	score += item.Priority

	if !item.LastUpdated.IsZero() {
		age := now.Sub(item.LastUpdated)
		if age >= 0 && age <= recencyWindowDays*24*time.Hour {
			score += recencyBonus
		}
	}

	return score
}

func tokenize(query string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		if len(field) >= minTokenLen {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// tagQueryPattern recognizes the "... CHM <tag> topics ..." phrasing. This is
// a hard-coded convenience for browsing a tag, not natural language parsing.
var tagQueryPattern = regexp.MustCompile(`(?i)\bchm\s+([a-z0-9][a-z0-9 -]*?)\s+topics?\b`)

// DetectTagQuery extracts the tag from a tag-browse query, or reports no match.
func DetectTagQuery(query string) (string, bool) {
	m := tagQueryPattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	tag := strings.ToLower(strings.TrimSpace(m[1]))
	if tag == "" {
		return "", false
	}
	return tag, true
}

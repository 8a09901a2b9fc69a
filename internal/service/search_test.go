package service

import (
	"testing"
	"time"

	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func searchFixtureStore(t *testing.T) *knowledge.Store {
	t.Helper()
	old := fixedNow.AddDate(0, -6, 0)
	fresh := fixedNow.AddDate(0, 0, -10)

	store, err := knowledge.NewStore([]domain.KnowledgeItem{
		domain.NewKnowledgeItem("kb-ls", "CHM Learning Societies System",
			"The learning societies organize students into longitudinal communities with faculty mentors.",
			"Student Life", "Communities", domain.PhaseGeneral,
			[]string{"learning societies", "mentorship"}, 9, old),
		domain.NewKnowledgeItem("kb-well", "Wellness Resources",
			"Counseling, peer support, and crisis services for students.",
			"Student Life", "Wellness", domain.PhaseGeneral,
			[]string{"wellness", "counseling"}, 8, fresh),
		domain.NewKnowledgeItem("kb-res1", "Student Research Programs",
			"Summer fellowships and the longitudinal scholars track.",
			"Research", "Programs", domain.PhaseGeneral,
			[]string{"research", "fellowship"}, 7, old),
		domain.NewKnowledgeItem("kb-res2", "Research Travel Funding",
			"Conference travel support for students presenting accepted work.",
			"Research", "Funding", domain.PhaseGeneral,
			[]string{"research", "travel"}, 5, old),
		domain.NewKnowledgeItem("kb-res3", "Research Ethics Training",
			"Responsible conduct of research certification requirements.",
			"Research", "Compliance", domain.PhaseGeneral,
			[]string{"research", "ethics"}, 4, old),
	})
	require.NoError(t, err)
	return store
}

func fixtureSearcher(t *testing.T) *Searcher {
	t.Helper()
	return NewSearcherWithClock(searchFixtureStore(t), func() time.Time { return fixedNow })
}

func TestSearch_TopResultForTitleAndTagMatch(t *testing.T) {
	searcher := fixtureSearcher(t)

	results := searcher.Search("learning societies", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "kb-ls", results[0].Item.ID)
}

func TestSearch_Deterministic(t *testing.T) {
	searcher := fixtureSearcher(t)

	first := searcher.Search("research programs", 5)
	for i := 0; i < 10; i++ {
		again := searcher.Search("research programs", 5)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Item.ID, again[j].Item.ID)
			assert.Equal(t, first[j].Score, again[j].Score)
		}
	}
}

func TestSearch_RelevanceFloor(t *testing.T) {
	searcher := fixtureSearcher(t)

	for _, query := range []string{"research", "wellness counseling", "xyzzy nonexistent"} {
		for _, match := range searcher.Search(query, 10) {
			assert.Greater(t, match.Score, relevanceFloor,
				"query %q returned %s at or below the floor", query, match.Item.ID)
		}
	}
}

func TestSearch_OrderingInvariant(t *testing.T) {
	searcher := fixtureSearcher(t)

	results := searcher.Search("research", 10)
	require.GreaterOrEqual(t, len(results), 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		if results[i-1].Score == results[i].Score {
			assert.GreaterOrEqual(t, results[i-1].Item.Priority, results[i].Item.Priority)
		}
	}
}

func TestSearch_LimitRespected(t *testing.T) {
	searcher := fixtureSearcher(t)

	for _, limit := range []int{0, 1, 2, 3, 100} {
		results := searcher.Search("research", limit)
		assert.LessOrEqual(t, len(results), limit)
	}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	searcher := fixtureSearcher(t)

	assert.Empty(t, searcher.Search("", 5))
	assert.Empty(t, searcher.Search("   \t  ", 5))
	// Tokens at or below two characters are dropped entirely.
	assert.Empty(t, searcher.Search("a of to", 5))
}

func TestSearch_NoFieldMatchMeansNoResult(t *testing.T) {
	searcher := fixtureSearcher(t)

	// Priority and recency never surface an item on their own.
	assert.Empty(t, searcher.Search("xyzzy plugh frobnicate", 10))
}

func TestSearch_RecencyBonus(t *testing.T) {
	store := searchFixtureStore(t)

	// kb-well was updated 10 days before fixedNow, inside the window.
	recent := NewSearcherWithClock(store, func() time.Time { return fixedNow })
	later := NewSearcherWithClock(store, func() time.Time { return fixedNow.AddDate(0, 3, 0) })

	withBonus := recent.Search("wellness", 1)
	withoutBonus := later.Search("wellness", 1)
	require.Len(t, withBonus, 1)
	require.Len(t, withoutBonus, 1)
	assert.Equal(t, withBonus[0].Score, withoutBonus[0].Score+recencyBonus)
}

func TestDetectTagQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantTag string
		matched bool
	}{
		{"show me pattern", "show me CHM research topics", "research", true},
		{"tell me about pattern", "Tell me about CHM research topics", "research", true},
		{"singular topic", "chm wellness topic", "wellness", true},
		{"multi-word tag", "show me CHM learning societies topics", "learning societies", true},
		{"plain free text", "how do learning societies work", "", false},
		{"chm without topics marker", "what is CHM", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := DetectTagQuery(tt.query)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestLookup_TagQueryRoutesToTagLookup(t *testing.T) {
	store := searchFixtureStore(t)
	searcher := NewSearcherWithClock(store, func() time.Time { return fixedNow })

	results := searcher.Lookup("show me CHM research topics", 10)
	require.True(t, results.TagBrowse)
	assert.Equal(t, "research", results.Tag)

	// Tag browse must mirror ByTag exactly, truncated to limit.
	expected := store.ByTag("research")
	require.Len(t, results.Matches, len(expected))
	for i, match := range results.Matches {
		assert.Equal(t, expected[i].ID, match.Item.ID)
	}
}

func TestLookup_TagQueryRespectsLimit(t *testing.T) {
	searcher := fixtureSearcher(t)

	results := searcher.Lookup("show me CHM research topics", 2)
	assert.True(t, results.TagBrowse)
	assert.Len(t, results.Matches, 2)
}

func TestLookup_NonPositiveLimitReturnsNothing(t *testing.T) {
	searcher := fixtureSearcher(t)

	// Both paths treat a non-positive limit the same way.
	for _, limit := range []int{0, -1} {
		browse := searcher.Lookup("show me CHM research topics", limit)
		assert.True(t, browse.TagBrowse)
		assert.Empty(t, browse.Matches)

		free := searcher.Lookup("learning societies", limit)
		assert.Empty(t, free.Matches)
	}
}

func TestLookup_FreeTextUsesWeightedSearch(t *testing.T) {
	searcher := fixtureSearcher(t)

	results := searcher.Lookup("learning societies", 5)
	assert.False(t, results.TagBrowse)
	require.NotEmpty(t, results.Matches)
	assert.Equal(t, "kb-ls", results.Matches[0].Item.ID)
}

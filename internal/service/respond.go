package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spartanmed/medchat/internal/domain"
)

const (
	summaryMinLineLen  = 20
	summaryMaxLen      = 200
	summaryFallbackLen = 150

	maxRelatedItems = 2
)

// noMatchMessage names a few example topics so users know what the store
// actually covers. Static configuration, not derived from live data.
const noMatchMessage = `I couldn't find information about that in the curriculum knowledge base.

Try asking about topics like:
- Learning societies and mentorship
- USMLE Step 1 preparation
- Student research programs
- Wellness and counseling resources`

// Assembler formats ranked or browsed knowledge items into a single text
// reply. It is pure formatting: it never fails, degrading to the no-match
// message or blunt truncation instead.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Format renders search results for the given query.
func (a *Assembler) Format(results SearchResults) string {
	if len(results.Matches) == 0 {
		return noMatchMessage
	}

	if results.TagBrowse && len(results.Matches) > 1 {
		return a.formatTagBrowse(results)
	}

	return a.formatBestMatch(results.Matches)
}

func (a *Assembler) formatTagBrowse(results SearchResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CHM topics tagged \"%s\"\n", results.Tag)

	for i, match := range results.Matches {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		item := match.Item
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", item.Title, ExtractSummary(item.Content))
		if item.Phase != "" && item.Phase != domain.PhaseGeneral {
			fmt.Fprintf(&b, "\n*Phase: %s*\n", item.Phase)
		}
		if item.Reference != "" {
			fmt.Fprintf(&b, "\nReference: %s\n", item.Reference)
		}
		if len(item.Tags) > 0 {
			fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(item.Tags, ", "))
		}
	}

	return b.String()
}

func (a *Assembler) formatBestMatch(matches []domain.ScoredMatch) string {
	primary := matches[0].Item

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n", primary.Title, strings.TrimSpace(primary.Content))

	related := matches[1:]
	if len(related) > maxRelatedItems {
		related = related[:maxRelatedItems]
	}
	if len(related) > 0 {
		b.WriteString("\n## Related resources\n")
		for _, match := range related {
			fmt.Fprintf(&b, "\n- **%s** — %s\n", match.Item.Title, ExtractSummary(match.Item.Content))
		}
	}

	if len(primary.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(primary.Tags, ", "))
	}
	if primary.Phase != "" && primary.Phase != domain.PhaseGeneral {
		fmt.Fprintf(&b, "\n*Phase: %s*\n", primary.Phase)
	}
	if primary.Reference != "" {
		fmt.Fprintf(&b, "\nReference: %s\n", primary.Reference)
	}

	return b.String()
}

// ExtractSummary picks a one-line summary from body content: the first
// non-empty line that is not a markup marker and is at least 20 characters
// long, falling back to the first 150 characters of the raw content.
func ExtractSummary(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || startsWithMarker(trimmed) {
			continue
		}
		if len(trimmed) >= summaryMinLineLen {
			return clampSummary(trimmed)
		}
	}

	raw := strings.TrimSpace(content)
	raw = truncateAtRuneBoundary(raw, summaryFallbackLen)
	raw = strings.Join(strings.Fields(raw), " ")
	return clampSummary(raw)
}

func startsWithMarker(line string) bool {
	switch line[0] {
	case '#', '-', '*', '>', '`', '|':
		return true
	}
	// Numbered list items ("1. ...") are markers too.
	if unicode.IsDigit(rune(line[0])) && strings.Contains(line[:min(4, len(line))], ".") {
		return true
	}
	return false
}

// truncateAtRuneBoundary cuts s to at most n bytes without splitting a rune.
func truncateAtRuneBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func clampSummary(s string) string {
	if len(s) > summaryMaxLen {
		return strings.TrimSpace(truncateAtRuneBoundary(s, summaryMaxLen-3)) + "..."
	}
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "..."
}

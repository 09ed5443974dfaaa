// file: internal/matcher/matcher.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ScoredItem pairs a search result with its title similarity score.
type ScoredItem struct {
	Item  metadata.SearchResultItem `json:"item"`
	Score int                       `json:"score"`
}

// DefaultMinScore is the threshold below which a result is not considered a
// plausible match for the query.
const DefaultMinScore = 40

// ScoreTitle reports how well a result title matches a query on a 0-100
// scale. Exact matches score 100, then prefix, word-start and substring
// matches in decreasing bands; anything else falls through to edit distance.
func ScoreTitle(query, title string) int {
	q := normalizeTitle(query)
	t := normalizeTitle(title)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 100
	}

	score := 0

	if strings.HasPrefix(t, q) {
		score = max(score, 90)
	}

	words := strings.Fields(t)
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			score = max(score, 80)
			break
		}
	}

	if strings.Contains(t, q) {
		// Shorter targets are more specific matches
		ratio := float64(len(q)) / float64(len(t))
		score = max(score, 60+int(ratio*25))
	}

	// Whole-string edit distance, scaled to stay below the tiers above
	dist := fuzzy.LevenshteinDistance(q, t)
	if maxLen := max(len(q), len(t)); maxLen > 0 {
		similarity := 1.0 - float64(dist)/float64(maxLen)
		score = max(score, int(similarity*50))
	}

	// Best single word by edit distance
	for _, w := range words {
		dist := fuzzy.LevenshteinDistance(q, w)
		if wLen := max(len(q), len(w)); wLen > 0 {
			similarity := 1.0 - float64(dist)/float64(wLen)
			score = max(score, int(similarity*70))
		}
	}

	return max(score, 0)
}

// RankItems scores every item's title against the query and returns those at
// or above minScore, best first. Items with equal scores keep their upstream
// order.
func RankItems(query string, items []metadata.SearchResultItem, minScore int) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		if s := ScoreTitle(query, item.Title); s >= minScore {
			scored = append(scored, ScoredItem{Item: item, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// BestItem returns the best scoring item, or nil when nothing reaches
// minScore.
func BestItem(query string, items []metadata.SearchResultItem, minScore int) *ScoredItem {
	ranked := RankItems(query, items, minScore)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// normalizeTitle lowercases, strips everything but letters, digits and
// spaces, and collapses runs of whitespace so punctuation differences do not
// affect scoring.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

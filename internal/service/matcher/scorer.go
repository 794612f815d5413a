package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// Scorer rates the similarity of two field values on a [0, 1] scale,
// 1.0 meaning identical.
type Scorer interface {
	Score(a, b string) float64
}

// LevenshteinScorer is the default Scorer: normalized Levenshtein similarity
// over token-sorted text, so "Smith John" and "John Smith" score 1.0.
type LevenshteinScorer struct{}

// Score implements Scorer.
func (LevenshteinScorer) Score(a, b string) float64 {
	na := tokenSort(a)
	nb := tokenSort(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	longest := max(len([]rune(na)), len([]rune(nb)))
	dist := levenshtein.ComputeDistance(na, nb)
	return clamp01(1 - float64(dist)/float64(longest))
}

// tokenSort normalizes text and sorts its tokens so word order does not
// affect the distance.
func tokenSort(s string) string {
	tokens := strings.Fields(domain.NormalizeText(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

package matcher

import (
	"sort"

	"github.com/google/uuid"

	"github.com/uniplan/timetable-backend/internal/domain"
)

const (
	// maxSuggestions caps MatchResult.Suggested.
	maxSuggestions = 5

	// fieldMatchThreshold is the per-field score from which a field counts
	// as matching in a fuzzy candidate.
	fieldMatchThreshold = 0.7
)

// Fuzzy-pass weight tables. Each sums to 1.0 and the most discriminating
// field of a type carries 0.4. Fields absent on either side are skipped at
// scoring time and the remaining weights renormalized.
var (
	venueWeights = struct {
		name, location, building float64
	}{name: 0.40, location: 0.30, building: 0.30}

	lecturerWeights = struct {
		email, name, department float64
	}{email: 0.40, name: 0.35, department: 0.25}

	courseWeights = struct {
		code, name, department float64
	}{code: 0.40, name: 0.35, department: 0.25}

	studentGroupWeights = struct {
		name, department, program, yearLevel float64
	}{name: 0.40, department: 0.30, program: 0.20, yearLevel: 0.10}
)

// fieldPair is one comparable field of a row/entity pair, prepared for
// scoring. Pairs where either side is absent are never built.
type fieldPair struct {
	field  string
	weight float64
	query  string
	have   string
}

// scoreFields computes the weighted mean of the per-field scores,
// renormalizing the weights over the pairs actually present. It also
// reports which fields scored at or above fieldMatchThreshold.
func (s *Service) scoreFields(pairs []fieldPair) (float64, []string) {
	var totalWeight float64
	for _, p := range pairs {
		totalWeight += p.weight
	}
	if totalWeight == 0 {
		return 0, nil
	}

	var sum float64
	var matching []string
	for _, p := range pairs {
		score := s.scorer.Score(p.query, p.have)
		sum += score * p.weight
		if score >= fieldMatchThreshold {
			matching = append(matching, p.field)
		}
	}
	return clamp01(sum / totalWeight), matching
}

// exactResult builds the verdict for an exact rule hit: full confidence,
// automatic link, and a single suggestion carrying the hit.
func exactResult(id uuid.UUID, snapshot domain.MatchSnapshot, matching []string) *domain.MatchResult {
	return &domain.MatchResult{
		EntityID:   &id,
		Confidence: 1.0,
		Type:       domain.MatchTypeExact,
		Suggested: []domain.MatchCandidate{{
			EntityID:       id,
			Snapshot:       snapshot,
			Confidence:     1.0,
			MatchingFields: matching,
		}},
	}
}

// fuzzyResult ranks scored candidates and builds the final verdict.
// Zero-score candidates are dropped; with nothing left the result is a
// plain "no match". The best candidate links automatically when it clears
// domain.HighConfidenceThreshold.
func fuzzyResult(cands []domain.MatchCandidate) *domain.MatchResult {
	scored := make([]domain.MatchCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Confidence > 0 {
			scored = append(scored, c)
		}
	}
	if len(scored) == 0 {
		return &domain.MatchResult{
			Type:      domain.MatchTypeNone,
			Suggested: []domain.MatchCandidate{},
		}
	}

	// Stable sort keeps catalog order among equal scores, which makes the
	// ranking deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}

	res := &domain.MatchResult{
		Confidence: scored[0].Confidence,
		Type:       domain.MatchTypeFuzzy,
		Suggested:  scored,
	}
	if res.Confidence >= domain.HighConfidenceThreshold {
		id := scored[0].EntityID
		res.EntityID = &id
	}
	return res
}

// normEqual compares two values under domain.NormalizeText. Values that
// normalize to empty never match anything.
func normEqual(a, b string) bool {
	na := domain.NormalizeText(a)
	return na != "" && na == domain.NormalizeText(b)
}

// optEqual compares an optional pair; both sides must be present.
func optEqual(a, b *string) bool {
	return a != nil && b != nil && normEqual(*a, *b)
}

// optIntEqual reports whether the optional value is present and equal.
func optIntEqual(a *int, b int) bool {
	return a != nil && *a == b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

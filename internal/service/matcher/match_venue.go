package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. MatchVenue
// ---------------------------------------------------------------------------

// MatchVenue reconciles one mapped venue row against the active venue
// catalog. The exact rule is name equality, narrowed by location and
// building when the row provides them.
func (s *Service) MatchVenue(ctx context.Context, row domain.VenueRow) (*domain.MatchResult, error) {
	if strings.TrimSpace(row.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	venues, err := s.venues.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load venue catalog: %w", err)
	}

	// Exact pass, first catalog hit wins.
	for _, v := range venues {
		if !normEqual(row.Name, v.Name) {
			continue
		}
		if row.Location != nil && !optEqual(row.Location, v.Location) {
			continue
		}
		if row.Building != nil && !optEqual(row.Building, v.Building) {
			continue
		}
		return exactResult(v.ID, venueSnapshot(v), venueCoincidingFields(row, v)), nil
	}

	// Fuzzy pass over the whole catalog.
	cands := make([]domain.MatchCandidate, 0, len(venues))
	for _, v := range venues {
		confidence, matching := s.scoreFields(venuePairs(row, v))
		cands = append(cands, domain.MatchCandidate{
			EntityID:       v.ID,
			Snapshot:       venueSnapshot(v),
			Confidence:     confidence,
			MatchingFields: matching,
		})
	}

	res := fuzzyResult(cands)
	s.log.DebugContext(ctx, "venue row matched",
		slog.String("match_type", res.Type.String()),
		slog.Float64("confidence", res.Confidence))
	return res, nil
}

func venueSnapshot(v domain.Venue) domain.MatchSnapshot {
	return domain.MatchSnapshot{Kind: domain.EntityKindVenue, Venue: &v}
}

func venuePairs(row domain.VenueRow, v domain.Venue) []fieldPair {
	pairs := []fieldPair{{field: "name", weight: venueWeights.name, query: row.Name, have: v.Name}}
	if row.Location != nil && v.Location != nil {
		pairs = append(pairs, fieldPair{field: "location", weight: venueWeights.location, query: *row.Location, have: *v.Location})
	}
	if row.Building != nil && v.Building != nil {
		pairs = append(pairs, fieldPair{field: "building", weight: venueWeights.building, query: *row.Building, have: *v.Building})
	}
	return pairs
}

// venueCoincidingFields lists every populated field the row and the venue
// agree on, for the exact-hit suggestion.
func venueCoincidingFields(row domain.VenueRow, v domain.Venue) []string {
	var fields []string
	if normEqual(row.Name, v.Name) {
		fields = append(fields, "name")
	}
	if optEqual(row.Location, v.Location) {
		fields = append(fields, "location")
	}
	if optEqual(row.Building, v.Building) {
		fields = append(fields, "building")
	}
	if optIntEqual(row.Capacity, v.Capacity) {
		fields = append(fields, "capacity")
	}
	return fields
}

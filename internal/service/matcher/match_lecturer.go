package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 2. MatchLecturer
// ---------------------------------------------------------------------------

// MatchLecturer reconciles one mapped lecturer row against the active
// lecturer catalog. Exact rules in priority order: email equality, then the
// name+department pair.
func (s *Service) MatchLecturer(ctx context.Context, row domain.LecturerRow) (*domain.MatchResult, error) {
	if strings.TrimSpace(row.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	lecturers, err := s.lecturers.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lecturer catalog: %w", err)
	}

	// Exact pass. Each rule scans the whole catalog before the next one
	// runs, so an email hit always beats a name+department hit.
	if row.Email != nil {
		for _, l := range lecturers {
			if optEqual(row.Email, l.Email) {
				return exactResult(l.ID, lecturerSnapshot(l), lecturerCoincidingFields(row, l)), nil
			}
		}
	}
	if row.Department != nil {
		for _, l := range lecturers {
			if normEqual(row.Name, l.Name) && optEqual(row.Department, l.Department) {
				return exactResult(l.ID, lecturerSnapshot(l), lecturerCoincidingFields(row, l)), nil
			}
		}
	}

	// Fuzzy pass over the whole catalog.
	cands := make([]domain.MatchCandidate, 0, len(lecturers))
	for _, l := range lecturers {
		confidence, matching := s.scoreFields(lecturerPairs(row, l))
		cands = append(cands, domain.MatchCandidate{
			EntityID:       l.ID,
			Snapshot:       lecturerSnapshot(l),
			Confidence:     confidence,
			MatchingFields: matching,
		})
	}

	res := fuzzyResult(cands)
	s.log.DebugContext(ctx, "lecturer row matched",
		slog.String("match_type", res.Type.String()),
		slog.Float64("confidence", res.Confidence))
	return res, nil
}

func lecturerSnapshot(l domain.Lecturer) domain.MatchSnapshot {
	return domain.MatchSnapshot{Kind: domain.EntityKindLecturer, Lecturer: &l}
}

func lecturerPairs(row domain.LecturerRow, l domain.Lecturer) []fieldPair {
	pairs := []fieldPair{{field: "name", weight: lecturerWeights.name, query: row.Name, have: l.Name}}
	if row.Email != nil && l.Email != nil {
		pairs = append(pairs, fieldPair{field: "email", weight: lecturerWeights.email, query: *row.Email, have: *l.Email})
	}
	if row.Department != nil && l.Department != nil {
		pairs = append(pairs, fieldPair{field: "department", weight: lecturerWeights.department, query: *row.Department, have: *l.Department})
	}
	return pairs
}

// lecturerCoincidingFields lists every populated field the row and the
// lecturer agree on. An email-rule hit may well disagree on name; only what
// actually coincides is reported.
func lecturerCoincidingFields(row domain.LecturerRow, l domain.Lecturer) []string {
	var fields []string
	if normEqual(row.Name, l.Name) {
		fields = append(fields, "name")
	}
	if optEqual(row.Email, l.Email) {
		fields = append(fields, "email")
	}
	if optEqual(row.Department, l.Department) {
		fields = append(fields, "department")
	}
	if optIntEqual(row.MaxWeeklyHours, l.MaxWeeklyHours) {
		fields = append(fields, "max_weekly_hours")
	}
	if optIntEqual(row.MaxDailyHours, l.MaxDailyHours) {
		fields = append(fields, "max_daily_hours")
	}
	return fields
}

package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 3. MatchCourse
// ---------------------------------------------------------------------------

// MatchCourse reconciles one mapped course row against the active course
// catalog. Exact rules in priority order: code equality, then the
// name+department pair. Lecturer and group links never influence matching.
func (s *Service) MatchCourse(ctx context.Context, row domain.CourseRow) (*domain.MatchResult, error) {
	if strings.TrimSpace(row.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	courses, err := s.courses.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load course catalog: %w", err)
	}

	// Exact pass. Code scans the whole catalog before name+department runs.
	if row.Code != nil {
		for _, c := range courses {
			if optEqual(row.Code, c.Code) {
				return exactResult(c.ID, courseSnapshot(c), courseCoincidingFields(row, c)), nil
			}
		}
	}
	if row.Department != nil {
		for _, c := range courses {
			if normEqual(row.Name, c.Name) && optEqual(row.Department, c.Department) {
				return exactResult(c.ID, courseSnapshot(c), courseCoincidingFields(row, c)), nil
			}
		}
	}

	// Fuzzy pass over the whole catalog.
	cands := make([]domain.MatchCandidate, 0, len(courses))
	for _, c := range courses {
		confidence, matching := s.scoreFields(coursePairs(row, c))
		cands = append(cands, domain.MatchCandidate{
			EntityID:       c.ID,
			Snapshot:       courseSnapshot(c),
			Confidence:     confidence,
			MatchingFields: matching,
		})
	}

	res := fuzzyResult(cands)
	s.log.DebugContext(ctx, "course row matched",
		slog.String("match_type", res.Type.String()),
		slog.Float64("confidence", res.Confidence))
	return res, nil
}

func courseSnapshot(c domain.Course) domain.MatchSnapshot {
	return domain.MatchSnapshot{Kind: domain.EntityKindCourse, Course: &c}
}

func coursePairs(row domain.CourseRow, c domain.Course) []fieldPair {
	pairs := []fieldPair{{field: "name", weight: courseWeights.name, query: row.Name, have: c.Name}}
	if row.Code != nil && c.Code != nil {
		pairs = append(pairs, fieldPair{field: "code", weight: courseWeights.code, query: *row.Code, have: *c.Code})
	}
	if row.Department != nil && c.Department != nil {
		pairs = append(pairs, fieldPair{field: "department", weight: courseWeights.department, query: *row.Department, have: *c.Department})
	}
	return pairs
}

// courseCoincidingFields lists every populated scalar field the row and the
// course agree on.
func courseCoincidingFields(row domain.CourseRow, c domain.Course) []string {
	var fields []string
	if normEqual(row.Name, c.Name) {
		fields = append(fields, "name")
	}
	if optEqual(row.Code, c.Code) {
		fields = append(fields, "code")
	}
	if optEqual(row.Department, c.Department) {
		fields = append(fields, "department")
	}
	if optIntEqual(row.DurationMinutes, c.DurationMinutes) {
		fields = append(fields, "duration_minutes")
	}
	if row.Frequency != nil && *row.Frequency == c.Frequency {
		fields = append(fields, "frequency")
	}
	return fields
}

package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 4. MatchStudentGroup
// ---------------------------------------------------------------------------

// MatchStudentGroup reconciles one mapped student-group row against the
// active group catalog. The only exact rule is the name+department pair, so
// a row without a department can never match exactly.
func (s *Service) MatchStudentGroup(ctx context.Context, row domain.StudentGroupRow) (*domain.MatchResult, error) {
	if strings.TrimSpace(row.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	groups, err := s.groups.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load student group catalog: %w", err)
	}

	// Exact pass, first catalog hit wins.
	if row.Department != nil {
		for _, g := range groups {
			if normEqual(row.Name, g.Name) && optEqual(row.Department, g.Department) {
				return exactResult(g.ID, groupSnapshot(g), groupCoincidingFields(row, g)), nil
			}
		}
	}

	// Fuzzy pass over the whole catalog.
	cands := make([]domain.MatchCandidate, 0, len(groups))
	for _, g := range groups {
		confidence, matching := s.scoreFields(groupPairs(row, g))
		cands = append(cands, domain.MatchCandidate{
			EntityID:       g.ID,
			Snapshot:       groupSnapshot(g),
			Confidence:     confidence,
			MatchingFields: matching,
		})
	}

	res := fuzzyResult(cands)
	s.log.DebugContext(ctx, "student group row matched",
		slog.String("match_type", res.Type.String()),
		slog.Float64("confidence", res.Confidence))
	return res, nil
}

func groupSnapshot(g domain.StudentGroup) domain.MatchSnapshot {
	return domain.MatchSnapshot{Kind: domain.EntityKindStudentGroup, StudentGroup: &g}
}

func groupPairs(row domain.StudentGroupRow, g domain.StudentGroup) []fieldPair {
	pairs := []fieldPair{{field: "name", weight: studentGroupWeights.name, query: row.Name, have: g.Name}}
	if row.Department != nil && g.Department != nil {
		pairs = append(pairs, fieldPair{field: "department", weight: studentGroupWeights.department, query: *row.Department, have: *g.Department})
	}
	if row.Program != nil && g.Program != nil {
		pairs = append(pairs, fieldPair{field: "program", weight: studentGroupWeights.program, query: *row.Program, have: *g.Program})
	}
	if row.YearLevel != nil {
		pairs = append(pairs, fieldPair{
			field:  "year_level",
			weight: studentGroupWeights.yearLevel,
			query:  strconv.Itoa(*row.YearLevel),
			have:   strconv.Itoa(g.YearLevel),
		})
	}
	return pairs
}

// groupCoincidingFields lists every populated field the row and the group
// agree on.
func groupCoincidingFields(row domain.StudentGroupRow, g domain.StudentGroup) []string {
	var fields []string
	if normEqual(row.Name, g.Name) {
		fields = append(fields, "name")
	}
	if optEqual(row.Department, g.Department) {
		fields = append(fields, "department")
	}
	if optEqual(row.Program, g.Program) {
		fields = append(fields, "program")
	}
	if optIntEqual(row.YearLevel, g.YearLevel) {
		fields = append(fields, "year_level")
	}
	if optIntEqual(row.Size, g.Size) {
		fields = append(fields, "size")
	}
	return fields
}

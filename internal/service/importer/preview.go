package importer

import (
	"context"
	"fmt"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 2. PreviewImport
// ---------------------------------------------------------------------------

// PreviewImport matches every row of the batch against the catalog without
// writing anything. The sections report how an apply would treat each row
// and surface within-batch duplicate names for the review screen.
func (s *Service) PreviewImport(ctx context.Context, rows domain.MappedRows) (*ImportPreview, error) {
	if err := s.validateRows(rows); err != nil {
		return nil, err
	}

	preview := &ImportPreview{}

	names := make([]string, len(rows.Venues))
	preview.Venues.Total = len(rows.Venues)
	for i, row := range rows.Venues {
		names[i] = row.Name
		if domain.NormalizeText(row.Name) == "" {
			preview.Venues.Invalid = append(preview.Venues.Invalid, i)
			continue
		}
		res, err := s.matcher.MatchVenue(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("preview venue row %d: %w", i, err)
		}
		preview.Venues.observe(i, *res)
	}
	preview.Venues.DuplicateNames = duplicateNames(names)

	names = make([]string, len(rows.Lecturers))
	preview.Lecturers.Total = len(rows.Lecturers)
	for i, row := range rows.Lecturers {
		names[i] = row.Name
		if domain.NormalizeText(row.Name) == "" {
			preview.Lecturers.Invalid = append(preview.Lecturers.Invalid, i)
			continue
		}
		res, err := s.matcher.MatchLecturer(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("preview lecturer row %d: %w", i, err)
		}
		preview.Lecturers.observe(i, *res)
	}
	preview.Lecturers.DuplicateNames = duplicateNames(names)

	names = make([]string, len(rows.StudentGroups))
	preview.StudentGroups.Total = len(rows.StudentGroups)
	for i, row := range rows.StudentGroups {
		names[i] = row.Name
		if domain.NormalizeText(row.Name) == "" {
			preview.StudentGroups.Invalid = append(preview.StudentGroups.Invalid, i)
			continue
		}
		res, err := s.matcher.MatchStudentGroup(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("preview student group row %d: %w", i, err)
		}
		preview.StudentGroups.observe(i, *res)
	}
	preview.StudentGroups.DuplicateNames = duplicateNames(names)

	names = make([]string, len(rows.Courses))
	preview.Courses.Total = len(rows.Courses)
	for i, row := range rows.Courses {
		names[i] = row.Name
		if domain.NormalizeText(row.Name) == "" {
			preview.Courses.Invalid = append(preview.Courses.Invalid, i)
			continue
		}
		res, err := s.matcher.MatchCourse(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("preview course row %d: %w", i, err)
		}
		preview.Courses.observe(i, *res)
	}
	preview.Courses.DuplicateNames = duplicateNames(names)

	return preview, nil
}

// duplicateNames lists normalized names carried by two or more rows, with
// the row indexes that share them, in first-appearance order. Names that
// normalize to empty are ignored.
func duplicateNames(names []string) []DuplicateName {
	byName := make(map[string][]int)
	var order []string
	for i, name := range names {
		n := domain.NormalizeText(name)
		if n == "" {
			continue
		}
		if _, seen := byName[n]; !seen {
			order = append(order, n)
		}
		byName[n] = append(byName[n], i)
	}

	var dups []DuplicateName
	for _, n := range order {
		if idxs := byName[n]; len(idxs) > 1 {
			dups = append(dups, DuplicateName{Name: n, RowIndexes: idxs})
		}
	}
	return dups
}

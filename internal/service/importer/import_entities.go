package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. ImportEntities
// ---------------------------------------------------------------------------

// ImportEntities applies one mapped batch to the catalog. Entity types run
// in a fixed order (venues, lecturers, student groups, then courses, since
// course rows reference lecturer and group IDs) and rows run strictly in
// index order within a type. A row whose match carries an entity ID becomes
// a partial update of that entity; every other row becomes a create with
// documented defaults. Row failures are collected and never abort the
// batch; earlier writes are not rolled back.
func (s *Service) ImportEntities(ctx context.Context, rows domain.MappedRows, matches domain.MatchSet) (*EntityImportResult, error) {
	if err := s.validateRows(rows); err != nil {
		return nil, err
	}

	result := &EntityImportResult{StartedAt: time.Now().UTC()}

	s.importVenues(ctx, rows.Venues, matches.Venues, result)
	s.importLecturers(ctx, rows.Lecturers, matches.Lecturers, result)
	s.importStudentGroups(ctx, rows.StudentGroups, matches.StudentGroups, result)
	s.importCourses(ctx, rows.Courses, matches.Courses, result)

	result.FinishedAt = time.Now().UTC()
	s.recordRun(ctx, result)

	s.log.InfoContext(ctx, "entity import finished",
		slog.Int("created", result.TotalCreated()),
		slog.Int("updated", result.TotalUpdated()),
		slog.Int("failed", result.TotalFailed()))
	return result, nil
}

func (s *Service) importVenues(ctx context.Context, rows []domain.VenueRow, matches map[int]domain.MatchResult, result *EntityImportResult) {
	for i, row := range rows {
		if domain.NormalizeText(row.Name) == "" {
			result.Venues.fail(i, domain.EntityKindVenue, domain.ImportOperationCreate, "empty name after normalization", row.Fields())
			continue
		}

		if match, ok := matches[i]; ok && match.EntityID != nil {
			if _, err := s.venues.Update(ctx, *match.EntityID, buildVenueUpdate(row)); err != nil {
				result.Venues.fail(i, domain.EntityKindVenue, domain.ImportOperationUpdate, err.Error(), row.Fields())
				continue
			}
			result.Venues.Updated++
			continue
		}

		if _, err := s.venues.Create(ctx, buildVenue(row)); err != nil {
			result.Venues.fail(i, domain.EntityKindVenue, domain.ImportOperationCreate, err.Error(), row.Fields())
			continue
		}
		result.Venues.Created++
	}
}

func (s *Service) importLecturers(ctx context.Context, rows []domain.LecturerRow, matches map[int]domain.MatchResult, result *EntityImportResult) {
	for i, row := range rows {
		if domain.NormalizeText(row.Name) == "" {
			result.Lecturers.fail(i, domain.EntityKindLecturer, domain.ImportOperationCreate, "empty name after normalization", row.Fields())
			continue
		}

		if match, ok := matches[i]; ok && match.EntityID != nil {
			if _, err := s.lecturers.Update(ctx, *match.EntityID, buildLecturerUpdate(row)); err != nil {
				result.Lecturers.fail(i, domain.EntityKindLecturer, domain.ImportOperationUpdate, err.Error(), row.Fields())
				continue
			}
			result.Lecturers.Updated++
			continue
		}

		if _, err := s.lecturers.Create(ctx, buildLecturer(row)); err != nil {
			result.Lecturers.fail(i, domain.EntityKindLecturer, domain.ImportOperationCreate, err.Error(), row.Fields())
			continue
		}
		result.Lecturers.Created++
	}
}

func (s *Service) importStudentGroups(ctx context.Context, rows []domain.StudentGroupRow, matches map[int]domain.MatchResult, result *EntityImportResult) {
	for i, row := range rows {
		if domain.NormalizeText(row.Name) == "" {
			result.StudentGroups.fail(i, domain.EntityKindStudentGroup, domain.ImportOperationCreate, "empty name after normalization", row.Fields())
			continue
		}

		if match, ok := matches[i]; ok && match.EntityID != nil {
			if _, err := s.groups.Update(ctx, *match.EntityID, buildStudentGroupUpdate(row)); err != nil {
				result.StudentGroups.fail(i, domain.EntityKindStudentGroup, domain.ImportOperationUpdate, err.Error(), row.Fields())
				continue
			}
			result.StudentGroups.Updated++
			continue
		}

		if _, err := s.groups.Create(ctx, buildStudentGroup(row)); err != nil {
			result.StudentGroups.fail(i, domain.EntityKindStudentGroup, domain.ImportOperationCreate, err.Error(), row.Fields())
			continue
		}
		result.StudentGroups.Created++
	}
}

func (s *Service) importCourses(ctx context.Context, rows []domain.CourseRow, matches map[int]domain.MatchResult, result *EntityImportResult) {
	for i, row := range rows {
		if domain.NormalizeText(row.Name) == "" {
			result.Courses.fail(i, domain.EntityKindCourse, domain.ImportOperationCreate, "empty name after normalization", row.Fields())
			continue
		}

		if match, ok := matches[i]; ok && match.EntityID != nil {
			if _, err := s.courses.Update(ctx, *match.EntityID, buildCourseUpdate(row)); err != nil {
				result.Courses.fail(i, domain.EntityKindCourse, domain.ImportOperationUpdate, err.Error(), row.Fields())
				continue
			}
			result.Courses.Updated++
			continue
		}

		if _, err := s.courses.Create(ctx, buildCourse(row)); err != nil {
			result.Courses.fail(i, domain.EntityKindCourse, domain.ImportOperationCreate, err.Error(), row.Fields())
			continue
		}
		result.Courses.Created++
	}
}

// recordRun persists the audit record when a recorder is wired. Audit
// failure is logged and never fails the import.
func (s *Service) recordRun(ctx context.Context, result *EntityImportResult) {
	if s.runs == nil {
		return
	}

	run := &domain.ImportRun{
		Status:        domain.RunStatusCompleted,
		Venues:        result.Venues.counts(),
		Lecturers:     result.Lecturers.counts(),
		Courses:       result.Courses.counts(),
		StudentGroups: result.StudentGroups.counts(),
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
	if result.TotalFailed() > 0 {
		run.Status = domain.RunStatusPartial
	}

	if _, err := s.runs.Create(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "import run audit error",
			slog.String("error", err.Error()))
	}
}

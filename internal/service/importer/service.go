package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/uniplan/timetable-backend/internal/config"
	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type venueStore interface {
	Create(ctx context.Context, venue *domain.Venue) (*domain.Venue, error)
	Update(ctx context.Context, id uuid.UUID, params domain.VenueUpdateParams) (*domain.Venue, error)
}

type lecturerStore interface {
	Create(ctx context.Context, lecturer *domain.Lecturer) (*domain.Lecturer, error)
	Update(ctx context.Context, id uuid.UUID, params domain.LecturerUpdateParams) (*domain.Lecturer, error)
}

type courseStore interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, id uuid.UUID, params domain.CourseUpdateParams) (*domain.Course, error)
}

type studentGroupStore interface {
	Create(ctx context.Context, group *domain.StudentGroup) (*domain.StudentGroup, error)
	Update(ctx context.Context, id uuid.UUID, params domain.StudentGroupUpdateParams) (*domain.StudentGroup, error)
}

type matchService interface {
	MatchVenue(ctx context.Context, row domain.VenueRow) (*domain.MatchResult, error)
	MatchLecturer(ctx context.Context, row domain.LecturerRow) (*domain.MatchResult, error)
	MatchCourse(ctx context.Context, row domain.CourseRow) (*domain.MatchResult, error)
	MatchStudentGroup(ctx context.Context, row domain.StudentGroupRow) (*domain.MatchResult, error)
}

type runRecorder interface {
	Create(ctx context.Context, run *domain.ImportRun) (*domain.ImportRun, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service applies mapped import batches to the catalog: rows whose match
// carries an entity ID become partial updates, everything else becomes a
// create. Rows run strictly in order with per-row error isolation and no
// rollback of earlier writes.
type Service struct {
	log       *slog.Logger
	venues    venueStore
	lecturers lecturerStore
	courses   courseStore
	groups    studentGroupStore
	matcher   matchService
	runs      runRecorder
	cfg       config.ImportConfig
}

// NewService creates a new Importer service.
func NewService(
	logger *slog.Logger,
	venues venueStore,
	lecturers lecturerStore,
	courses courseStore,
	groups studentGroupStore,
	matcher matchService,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "importer"),
		venues:    venues,
		lecturers: lecturers,
		courses:   courses,
		groups:    groups,
		matcher:   matcher,
		cfg:       cfg,
	}
}

// SetRunRecorder injects the optional run audit sink.
func (s *Service) SetRunRecorder(r runRecorder) {
	s.runs = r
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// validateRows enforces the per-type batch size cap.
func (s *Service) validateRows(rows domain.MappedRows) error {
	var errs []domain.FieldError

	limit := s.cfg.MaxRowsPerType
	message := fmt.Sprintf("too many rows (max %d)", limit)
	if len(rows.Venues) > limit {
		errs = append(errs, domain.FieldError{Field: "venues", Message: message})
	}
	if len(rows.Lecturers) > limit {
		errs = append(errs, domain.FieldError{Field: "lecturers", Message: message})
	}
	if len(rows.Courses) > limit {
		errs = append(errs, domain.FieldError{Field: "courses", Message: message})
	}
	if len(rows.StudentGroups) > limit {
		errs = append(errs, domain.FieldError{Field: "student_groups", Message: message})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

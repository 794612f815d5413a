package matcher

import (
	"context"
	"log/slog"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type venueCatalog interface {
	FindAllActive(ctx context.Context) ([]domain.Venue, error)
}

type lecturerCatalog interface {
	FindAllActive(ctx context.Context) ([]domain.Lecturer, error)
}

type courseCatalog interface {
	FindAllActive(ctx context.Context) ([]domain.Course, error)
}

type studentGroupCatalog interface {
	FindAllActive(ctx context.Context) ([]domain.StudentGroup, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service reconciles mapped import rows against the active catalog. Each
// Match* operation first looks for an exact hit under a fixed rule order,
// then falls back to weighted fuzzy scoring over the whole catalog.
type Service struct {
	log       *slog.Logger
	venues    venueCatalog
	lecturers lecturerCatalog
	courses   courseCatalog
	groups    studentGroupCatalog
	scorer    Scorer
}

// NewService creates a new Matcher service with the default Levenshtein
// scorer.
func NewService(
	logger *slog.Logger,
	venues venueCatalog,
	lecturers lecturerCatalog,
	courses courseCatalog,
	groups studentGroupCatalog,
) *Service {
	return &Service{
		log:       logger.With("service", "matcher"),
		venues:    venues,
		lecturers: lecturers,
		courses:   courses,
		groups:    groups,
		scorer:    LevenshteinScorer{},
	}
}

// SetScorer replaces the similarity scorer used by the fuzzy pass.
func (s *Service) SetScorer(scorer Scorer) {
	s.scorer = scorer
}

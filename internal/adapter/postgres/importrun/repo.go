// Package importrun implements the import run audit repository using
// PostgreSQL. Runs are append-only: one row per apply invocation, never
// updated or deleted.
package importrun

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/uniplan/timetable-backend/internal/adapter/postgres"
	"github.com/uniplan/timetable-backend/internal/domain"
)

// Repo provides import run persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new import run repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const runColumns = `id, status,
	venues_created, venues_updated, venues_failed,
	lecturers_created, lecturers_updated, lecturers_failed,
	courses_created, courses_updated, courses_failed,
	student_groups_created, student_groups_updated, student_groups_failed,
	started_at, finished_at`

const createRunSQL = `
INSERT INTO import_runs (` + runColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + runColumns

const getRunByIDSQL = `
SELECT ` + runColumns + `
FROM import_runs
WHERE id = $1`

const listRecentRunsSQL = `
SELECT ` + runColumns + `
FROM import_runs
ORDER BY started_at DESC, id
LIMIT $1`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Create appends a run record and returns the persisted row. ID is generated
// here when the caller leaves it zero.
func (r *Repo) Create(ctx context.Context, run *domain.ImportRun) (*domain.ImportRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := run.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanRun(q.QueryRow(ctx, createRunSQL,
		id, run.Status,
		run.Venues.Created, run.Venues.Updated, run.Venues.Failed,
		run.Lecturers.Created, run.Lecturers.Updated, run.Lecturers.Failed,
		run.Courses.Created, run.Courses.Updated, run.Courses.Failed,
		run.StudentGroups.Created, run.StudentGroups.Updated, run.StudentGroups.Failed,
		run.StartedAt, run.FinishedAt,
	))
	if err != nil {
		return nil, mapError(err, "import_run", id)
	}

	return created, nil
}

// GetByID returns a single run record.
// Returns domain.ErrNotFound if no run with that ID exists.
func (r *Repo) GetByID(ctx context.Context, runID uuid.UUID) (*domain.ImportRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	run, err := scanRun(q.QueryRow(ctx, getRunByIDSQL, runID))
	if err != nil {
		return nil, mapError(err, "import_run", runID)
	}

	return run, nil
}

// ListRecent returns up to limit runs, newest first. Returns an empty slice
// (not nil) when no runs have been recorded.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.ImportRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listRecentRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	defer rows.Close()

	var result []domain.ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list recent runs: %w", err)
		}
		result = append(result, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}

	if result == nil {
		result = []domain.ImportRun{}
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanRun scans a single row into a domain.ImportRun.
func scanRun(row pgx.Row) (*domain.ImportRun, error) {
	var run domain.ImportRun
	err := row.Scan(
		&run.ID, &run.Status,
		&run.Venues.Created, &run.Venues.Updated, &run.Venues.Failed,
		&run.Lecturers.Created, &run.Lecturers.Updated, &run.Lecturers.Failed,
		&run.Courses.Created, &run.Courses.Updated, &run.Courses.Failed,
		&run.StudentGroups.Created, &run.StudentGroups.Updated, &run.StudentGroups.Failed,
		&run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

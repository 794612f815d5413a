// Package lecturer implements the lecturer repository using PostgreSQL.
// Lecturers are soft-deleted; every read filters on deleted_at IS NULL.
// Email is unique among active lecturers (case-insensitive partial index).
package lecturer

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/uniplan/timetable-backend/internal/adapter/postgres"
	"github.com/uniplan/timetable-backend/internal/domain"
)

// Repo provides lecturer persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lecturer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const lecturerColumns = `id, name, name_normalized, email, department, max_weekly_hours, max_daily_hours, created_at, updated_at, deleted_at`

const getLecturerByIDSQL = `
SELECT ` + lecturerColumns + `
FROM lecturers
WHERE id = $1 AND deleted_at IS NULL`

const findAllActiveLecturersSQL = `
SELECT ` + lecturerColumns + `
FROM lecturers
WHERE deleted_at IS NULL
ORDER BY name_normalized, id`

const createLecturerSQL = `
INSERT INTO lecturers (id, name, name_normalized, email, department, max_weekly_hours, max_daily_hours)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + lecturerColumns

const softDeleteLecturerSQL = `
UPDATE lecturers
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an active lecturer by primary key.
// Returns domain.ErrNotFound if the lecturer does not exist or is soft-deleted.
func (r *Repo) GetByID(ctx context.Context, lecturerID uuid.UUID) (*domain.Lecturer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanLecturer(q.QueryRow(ctx, getLecturerByIDSQL, lecturerID))
	if err != nil {
		return nil, mapError(err, "lecturer", lecturerID)
	}

	return l, nil
}

// FindAllActive returns every lecturer that has not been soft-deleted,
// ordered by normalized name. Returns an empty slice (not nil) for an empty
// catalog.
func (r *Repo) FindAllActive(ctx context.Context) ([]domain.Lecturer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, findAllActiveLecturersSQL)
	if err != nil {
		return nil, fmt.Errorf("find active lecturers: %w", err)
	}
	defer rows.Close()

	lecturers, err := scanLecturers(rows)
	if err != nil {
		return nil, fmt.Errorf("find active lecturers: %w", err)
	}

	return lecturers, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new lecturer and returns the persisted row. ID is
// generated here when the caller leaves it zero.
// Returns domain.ErrAlreadyExists when an active lecturer already holds the
// same email.
func (r *Repo) Create(ctx context.Context, lecturer *domain.Lecturer) (*domain.Lecturer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := lecturer.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanLecturer(q.QueryRow(ctx, createLecturerSQL,
		id,
		lecturer.Name,
		domain.NormalizeText(lecturer.Name),
		lecturer.Email,
		lecturer.Department,
		lecturer.MaxWeeklyHours,
		lecturer.MaxDailyHours,
	))
	if err != nil {
		return nil, mapError(err, "lecturer", id)
	}

	return created, nil
}

// Update applies the non-nil fields of params to an active lecturer and
// returns the updated row. A pointer to an empty string clears the column to
// NULL. Returns domain.ErrNotFound if the lecturer does not exist or is
// soft-deleted.
func (r *Repo) Update(ctx context.Context, lecturerID uuid.UUID, params domain.LecturerUpdateParams) (*domain.Lecturer, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, lecturerID)
	}

	b := sq.Update("lecturers").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": lecturerID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + lecturerColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name).
			Set("name_normalized", domain.NormalizeText(*params.Name))
	}
	if params.Email != nil {
		b = b.Set("email", textOrNull(*params.Email))
	}
	if params.Department != nil {
		b = b.Set("department", textOrNull(*params.Department))
	}
	if params.MaxWeeklyHours != nil {
		b = b.Set("max_weekly_hours", *params.MaxWeeklyHours)
	}
	if params.MaxDailyHours != nil {
		b = b.Set("max_daily_hours", *params.MaxDailyHours)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lecturer update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanLecturer(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "lecturer", lecturerID)
	}

	return updated, nil
}

// SoftDelete marks a lecturer as deleted without removing the row.
// Returns domain.ErrNotFound if the lecturer does not exist or is already
// deleted.
func (r *Repo) SoftDelete(ctx context.Context, lecturerID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteLecturerSQL, lecturerID)
	if err != nil {
		return mapError(err, "lecturer", lecturerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lecturer %s: %w", lecturerID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanLecturer scans a single row into a domain.Lecturer.
func scanLecturer(row pgx.Row) (*domain.Lecturer, error) {
	var l domain.Lecturer
	err := row.Scan(
		&l.ID, &l.Name, &l.NameNormalized,
		&l.Email, &l.Department,
		&l.MaxWeeklyHours, &l.MaxDailyHours,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// scanLecturers scans all rows into a domain.Lecturer slice.
func scanLecturers(rows pgx.Rows) ([]domain.Lecturer, error) {
	var result []domain.Lecturer
	for rows.Next() {
		l, err := scanLecturer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Lecturer{}
	}

	return result, nil
}

// textOrNull maps an empty string to NULL, anything else to itself.
func textOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
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
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// Package studentgroup implements the student group repository using
// PostgreSQL. Groups are soft-deleted; every read filters on
// deleted_at IS NULL.
package studentgroup

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

// Repo provides student group persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new student group repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const groupColumns = `id, name, name_normalized, department, program, year_level, size, created_at, updated_at, deleted_at`

const getGroupByIDSQL = `
SELECT ` + groupColumns + `
FROM student_groups
WHERE id = $1 AND deleted_at IS NULL`

const findAllActiveGroupsSQL = `
SELECT ` + groupColumns + `
FROM student_groups
WHERE deleted_at IS NULL
ORDER BY name_normalized, id`

const createGroupSQL = `
INSERT INTO student_groups (id, name, name_normalized, department, program, year_level, size)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + groupColumns

const softDeleteGroupSQL = `
UPDATE student_groups
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an active student group by primary key.
// Returns domain.ErrNotFound if the group does not exist or is soft-deleted.
func (r *Repo) GetByID(ctx context.Context, groupID uuid.UUID) (*domain.StudentGroup, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	g, err := scanGroup(q.QueryRow(ctx, getGroupByIDSQL, groupID))
	if err != nil {
		return nil, mapError(err, "student_group", groupID)
	}

	return g, nil
}

// FindAllActive returns every student group that has not been soft-deleted,
// ordered by normalized name. Returns an empty slice (not nil) for an empty
// catalog.
func (r *Repo) FindAllActive(ctx context.Context) ([]domain.StudentGroup, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, findAllActiveGroupsSQL)
	if err != nil {
		return nil, fmt.Errorf("find active student groups: %w", err)
	}
	defer rows.Close()

	groups, err := scanGroups(rows)
	if err != nil {
		return nil, fmt.Errorf("find active student groups: %w", err)
	}

	return groups, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new student group and returns the persisted row. ID is
// generated here when the caller leaves it zero.
func (r *Repo) Create(ctx context.Context, group *domain.StudentGroup) (*domain.StudentGroup, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := group.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanGroup(q.QueryRow(ctx, createGroupSQL,
		id,
		group.Name,
		domain.NormalizeText(group.Name),
		group.Department,
		group.Program,
		group.YearLevel,
		group.Size,
	))
	if err != nil {
		return nil, mapError(err, "student_group", id)
	}

	return created, nil
}

// Update applies the non-nil fields of params to an active student group and
// returns the updated row. A pointer to an empty string clears the column to
// NULL. Returns domain.ErrNotFound if the group does not exist or is
// soft-deleted.
func (r *Repo) Update(ctx context.Context, groupID uuid.UUID, params domain.StudentGroupUpdateParams) (*domain.StudentGroup, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, groupID)
	}

	b := sq.Update("student_groups").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": groupID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + groupColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name).
			Set("name_normalized", domain.NormalizeText(*params.Name))
	}
	if params.Department != nil {
		b = b.Set("department", textOrNull(*params.Department))
	}
	if params.Program != nil {
		b = b.Set("program", textOrNull(*params.Program))
	}
	if params.YearLevel != nil {
		b = b.Set("year_level", *params.YearLevel)
	}
	if params.Size != nil {
		b = b.Set("size", *params.Size)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build student group update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanGroup(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "student_group", groupID)
	}

	return updated, nil
}

// SoftDelete marks a student group as deleted without removing the row.
// Returns domain.ErrNotFound if the group does not exist or is already
// deleted.
func (r *Repo) SoftDelete(ctx context.Context, groupID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteGroupSQL, groupID)
	if err != nil {
		return mapError(err, "student_group", groupID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("student_group %s: %w", groupID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanGroup scans a single row into a domain.StudentGroup.
func scanGroup(row pgx.Row) (*domain.StudentGroup, error) {
	var g domain.StudentGroup
	err := row.Scan(
		&g.ID, &g.Name, &g.NameNormalized,
		&g.Department, &g.Program,
		&g.YearLevel, &g.Size,
		&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// scanGroups scans all rows into a domain.StudentGroup slice.
func scanGroups(rows pgx.Rows) ([]domain.StudentGroup, error) {
	var result []domain.StudentGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.StudentGroup{}
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

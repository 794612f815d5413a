// Package venue implements the venue repository using PostgreSQL.
// Venues are soft-deleted; every read filters on deleted_at IS NULL.
package venue

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

// Repo provides venue persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new venue repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const venueColumns = `id, name, name_normalized, location, building, capacity, created_at, updated_at, deleted_at`

const getVenueByIDSQL = `
SELECT ` + venueColumns + `
FROM venues
WHERE id = $1 AND deleted_at IS NULL`

const findAllActiveVenuesSQL = `
SELECT ` + venueColumns + `
FROM venues
WHERE deleted_at IS NULL
ORDER BY name_normalized, id`

const createVenueSQL = `
INSERT INTO venues (id, name, name_normalized, location, building, capacity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + venueColumns

const softDeleteVenueSQL = `
UPDATE venues
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an active venue by primary key.
// Returns domain.ErrNotFound if the venue does not exist or is soft-deleted.
func (r *Repo) GetByID(ctx context.Context, venueID uuid.UUID) (*domain.Venue, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	v, err := scanVenue(q.QueryRow(ctx, getVenueByIDSQL, venueID))
	if err != nil {
		return nil, mapError(err, "venue", venueID)
	}

	return v, nil
}

// FindAllActive returns every venue that has not been soft-deleted, ordered
// by normalized name. Returns an empty slice (not nil) for an empty catalog.
func (r *Repo) FindAllActive(ctx context.Context) ([]domain.Venue, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, findAllActiveVenuesSQL)
	if err != nil {
		return nil, fmt.Errorf("find active venues: %w", err)
	}
	defer rows.Close()

	venues, err := scanVenues(rows)
	if err != nil {
		return nil, fmt.Errorf("find active venues: %w", err)
	}

	return venues, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new venue and returns the persisted row. ID is generated
// here when the caller leaves it zero.
func (r *Repo) Create(ctx context.Context, venue *domain.Venue) (*domain.Venue, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := venue.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanVenue(q.QueryRow(ctx, createVenueSQL,
		id,
		venue.Name,
		domain.NormalizeText(venue.Name),
		venue.Location,
		venue.Building,
		venue.Capacity,
	))
	if err != nil {
		return nil, mapError(err, "venue", id)
	}

	return created, nil
}

// Update applies the non-nil fields of params to an active venue and returns
// the updated row. A pointer to an empty string clears the column to NULL.
// Returns domain.ErrNotFound if the venue does not exist or is soft-deleted.
func (r *Repo) Update(ctx context.Context, venueID uuid.UUID, params domain.VenueUpdateParams) (*domain.Venue, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, venueID)
	}

	b := sq.Update("venues").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": venueID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + venueColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name).
			Set("name_normalized", domain.NormalizeText(*params.Name))
	}
	if params.Location != nil {
		b = b.Set("location", textOrNull(*params.Location))
	}
	if params.Building != nil {
		b = b.Set("building", textOrNull(*params.Building))
	}
	if params.Capacity != nil {
		b = b.Set("capacity", *params.Capacity)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build venue update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanVenue(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "venue", venueID)
	}

	return updated, nil
}

// SoftDelete marks a venue as deleted without removing the row.
// Returns domain.ErrNotFound if the venue does not exist or is already deleted.
func (r *Repo) SoftDelete(ctx context.Context, venueID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteVenueSQL, venueID)
	if err != nil {
		return mapError(err, "venue", venueID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", venueID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanVenue scans a single row into a domain.Venue.
func scanVenue(row pgx.Row) (*domain.Venue, error) {
	var v domain.Venue
	err := row.Scan(
		&v.ID, &v.Name, &v.NameNormalized,
		&v.Location, &v.Building, &v.Capacity,
		&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// scanVenues scans all rows into a domain.Venue slice.
func scanVenues(rows pgx.Rows) ([]domain.Venue, error) {
	var result []domain.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Venue{}
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

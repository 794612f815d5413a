// Package course implements the course repository using PostgreSQL.
// A course row carries its scalar fields; lecturer and student-group links
// live in join tables and are written together with the course inside a
// transaction. Courses are soft-deleted; every read filters on
// deleted_at IS NULL. Code is unique among active courses
// (case-insensitive partial index).
package course

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

// Repo provides course persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new course repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const courseColumns = `id, name, name_normalized, code, department, duration_minutes, frequency, created_at, updated_at, deleted_at`

const getCourseByIDSQL = `
SELECT ` + courseColumns + `
FROM courses
WHERE id = $1 AND deleted_at IS NULL`

const findAllActiveCoursesSQL = `
SELECT ` + courseColumns + `
FROM courses
WHERE deleted_at IS NULL
ORDER BY name_normalized, id`

const createCourseSQL = `
INSERT INTO courses (id, name, name_normalized, code, department, duration_minutes, frequency)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + courseColumns

const softDeleteCourseSQL = `
UPDATE courses
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL`

const findLecturerLinksSQL = `
SELECT course_id, lecturer_id
FROM course_lecturers
WHERE course_id = ANY($1)
ORDER BY course_id, lecturer_id`

const findGroupLinksSQL = `
SELECT course_id, student_group_id
FROM course_student_groups
WHERE course_id = ANY($1)
ORDER BY course_id, student_group_id`

const deleteLecturerLinksSQL = `
DELETE FROM course_lecturers WHERE course_id = $1`

const deleteGroupLinksSQL = `
DELETE FROM course_student_groups WHERE course_id = $1`

const insertLecturerLinkSQL = `
INSERT INTO course_lecturers (course_id, lecturer_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

const insertGroupLinkSQL = `
INSERT INTO course_student_groups (course_id, student_group_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an active course with its lecturer and student-group links.
// Returns domain.ErrNotFound if the course does not exist or is soft-deleted.
func (r *Repo) GetByID(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanCourse(q.QueryRow(ctx, getCourseByIDSQL, courseID))
	if err != nil {
		return nil, mapError(err, "course", courseID)
	}

	if err := loadLinks(ctx, q, []*domain.Course{c}); err != nil {
		return nil, mapError(err, "course", courseID)
	}

	return c, nil
}

// FindAllActive returns every course that has not been soft-deleted, ordered
// by normalized name, with links attached. Returns an empty slice (not nil)
// for an empty catalog.
func (r *Repo) FindAllActive(ctx context.Context) ([]domain.Course, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, findAllActiveCoursesSQL)
	if err != nil {
		return nil, fmt.Errorf("find active courses: %w", err)
	}
	defer rows.Close()

	courses, err := scanCourses(rows)
	if err != nil {
		return nil, fmt.Errorf("find active courses: %w", err)
	}

	refs := make([]*domain.Course, len(courses))
	for i := range courses {
		refs[i] = &courses[i]
	}
	if err := loadLinks(ctx, q, refs); err != nil {
		return nil, fmt.Errorf("find active courses: %w", err)
	}

	return courses, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new course together with its lecturer and student-group
// links in one transaction and returns the persisted row. ID is generated
// here when the caller leaves it zero.
// Returns domain.ErrAlreadyExists when an active course already holds the
// same code, and domain.ErrNotFound when a linked lecturer or student group
// does not exist.
func (r *Repo) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	id := course.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var created *domain.Course
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		var err error
		created, err = scanCourse(q.QueryRow(txCtx, createCourseSQL,
			id,
			course.Name,
			domain.NormalizeText(course.Name),
			course.Code,
			course.Department,
			course.DurationMinutes,
			course.Frequency,
		))
		if err != nil {
			return err
		}

		if err := insertLinks(txCtx, q, insertLecturerLinkSQL, created.ID, course.LecturerIDs); err != nil {
			return fmt.Errorf("insert lecturer links: %w", err)
		}
		if err := insertLinks(txCtx, q, insertGroupLinkSQL, created.ID, course.StudentGroupIDs); err != nil {
			return fmt.Errorf("insert student group links: %w", err)
		}

		return loadLinks(txCtx, q, []*domain.Course{created})
	})
	if err != nil {
		return nil, mapError(err, "course", id)
	}

	return created, nil
}

// Update applies the non-nil fields of params to an active course and returns
// the updated row with links attached. A pointer to an empty string clears
// the column to NULL. Non-nil LecturerIDs or StudentGroupIDs replace the
// full link set; an empty non-nil slice removes every link. Column and link
// changes are applied in one transaction.
// Returns domain.ErrNotFound if the course does not exist or is soft-deleted.
func (r *Repo) Update(ctx context.Context, courseID uuid.UUID, params domain.CourseUpdateParams) (*domain.Course, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, courseID)
	}

	var updated *domain.Course
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		var err error
		if hasColumnChanges(params) {
			updated, err = applyColumnChanges(txCtx, q, courseID, params)
		} else {
			// Link-only update: the row itself stays untouched.
			updated, err = scanCourse(q.QueryRow(txCtx, getCourseByIDSQL, courseID))
		}
		if err != nil {
			return err
		}

		if params.LecturerIDs != nil {
			if err := replaceLinks(txCtx, q, deleteLecturerLinksSQL, insertLecturerLinkSQL, courseID, params.LecturerIDs); err != nil {
				return fmt.Errorf("replace lecturer links: %w", err)
			}
		}
		if params.StudentGroupIDs != nil {
			if err := replaceLinks(txCtx, q, deleteGroupLinksSQL, insertGroupLinkSQL, courseID, params.StudentGroupIDs); err != nil {
				return fmt.Errorf("replace student group links: %w", err)
			}
		}

		return loadLinks(txCtx, q, []*domain.Course{updated})
	})
	if err != nil {
		return nil, mapError(err, "course", courseID)
	}

	return updated, nil
}

// SoftDelete marks a course as deleted without removing the row. Join rows
// are kept; reads filter them out together with the course.
// Returns domain.ErrNotFound if the course does not exist or is already
// deleted.
func (r *Repo) SoftDelete(ctx context.Context, courseID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteCourseSQL, courseID)
	if err != nil {
		return mapError(err, "course", courseID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Update helpers
// ---------------------------------------------------------------------------

// hasColumnChanges reports whether params touches any courses column,
// as opposed to link tables only.
func hasColumnChanges(params domain.CourseUpdateParams) bool {
	return params.Name != nil || params.Code != nil || params.Department != nil ||
		params.DurationMinutes != nil || params.Frequency != nil
}

// applyColumnChanges builds and runs the partial UPDATE for scalar columns.
func applyColumnChanges(ctx context.Context, q postgres.Querier, courseID uuid.UUID, params domain.CourseUpdateParams) (*domain.Course, error) {
	b := sq.Update("courses").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": courseID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + courseColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name).
			Set("name_normalized", domain.NormalizeText(*params.Name))
	}
	if params.Code != nil {
		b = b.Set("code", textOrNull(*params.Code))
	}
	if params.Department != nil {
		b = b.Set("department", textOrNull(*params.Department))
	}
	if params.DurationMinutes != nil {
		b = b.Set("duration_minutes", *params.DurationMinutes)
	}
	if params.Frequency != nil {
		b = b.Set("frequency", *params.Frequency)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course update: %w", err)
	}

	return scanCourse(q.QueryRow(ctx, sql, args...))
}

// ---------------------------------------------------------------------------
// Link helpers
// ---------------------------------------------------------------------------

// insertLinks inserts join rows for a course using pgx.Batch. Duplicate IDs
// in the input collapse via ON CONFLICT DO NOTHING.
func insertLinks(ctx context.Context, q postgres.Querier, insertSQL string, courseID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(insertSQL, courseID, id)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// replaceLinks swaps the full link set of a course for the given IDs.
func replaceLinks(ctx context.Context, q postgres.Querier, deleteSQL, insertSQL string, courseID uuid.UUID, ids []uuid.UUID) error {
	if _, err := q.Exec(ctx, deleteSQL, courseID); err != nil {
		return err
	}
	return insertLinks(ctx, q, insertSQL, courseID, ids)
}

// loadLinks attaches lecturer and student-group IDs to the given courses in
// two grouped queries. Courses without links get empty slices, not nil.
func loadLinks(ctx context.Context, q postgres.Querier, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(courses))
	byID := make(map[uuid.UUID]*domain.Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		byID[c.ID] = c
		c.LecturerIDs = []uuid.UUID{}
		c.StudentGroupIDs = []uuid.UUID{}
	}

	if err := scanLinks(ctx, q, findLecturerLinksSQL, ids, func(courseID, linkedID uuid.UUID) {
		if c, ok := byID[courseID]; ok {
			c.LecturerIDs = append(c.LecturerIDs, linkedID)
		}
	}); err != nil {
		return fmt.Errorf("load lecturer links: %w", err)
	}

	if err := scanLinks(ctx, q, findGroupLinksSQL, ids, func(courseID, linkedID uuid.UUID) {
		if c, ok := byID[courseID]; ok {
			c.StudentGroupIDs = append(c.StudentGroupIDs, linkedID)
		}
	}); err != nil {
		return fmt.Errorf("load student group links: %w", err)
	}

	return nil
}

// scanLinks runs a two-column link query and feeds each pair to attach.
func scanLinks(ctx context.Context, q postgres.Querier, query string, courseIDs []uuid.UUID, attach func(courseID, linkedID uuid.UUID)) error {
	rows, err := q.Query(ctx, query, courseIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, linkedID uuid.UUID
		if err := rows.Scan(&courseID, &linkedID); err != nil {
			return err
		}
		attach(courseID, linkedID)
	}

	return rows.Err()
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanCourse scans a single row into a domain.Course. Links are loaded
// separately.
func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID, &c.Name, &c.NameNormalized,
		&c.Code, &c.Department,
		&c.DurationMinutes, &c.Frequency,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCourses scans all rows into a domain.Course slice.
func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	var result []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Course{}
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

package course_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniplan/timetable-backend/internal/adapter/postgres"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/course"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/testhelper"
	"github.com/uniplan/timetable-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*course.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return course.New(pool, postgres.NewTxManager(pool)), pool
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestRepo_Create_WithLinks(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	lect := testhelper.SeedLecturer(t, pool, "Linked Lecturer "+uuid.New().String()[:8])
	group := testhelper.SeedStudentGroup(t, pool, "Linked Group "+uuid.New().String()[:8])

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "Algorithms " + uuid.New().String()[:8],
		Code:            ptr("ALG-" + uuid.New().String()[:8]),
		Department:      ptr("Computer Science"),
		DurationMinutes: 90,
		Frequency:       domain.FrequencyBiweekly,
		LecturerIDs:     []uuid.UUID{lect.ID},
		StudentGroupIDs: []uuid.UUID{group.ID},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil course ID")
	}
	if created.DurationMinutes != 90 {
		t.Errorf("DurationMinutes mismatch: got %d, want 90", created.DurationMinutes)
	}
	if created.Frequency != domain.FrequencyBiweekly {
		t.Errorf("Frequency mismatch: got %s, want %s", created.Frequency, domain.FrequencyBiweekly)
	}
	if len(created.LecturerIDs) != 1 || created.LecturerIDs[0] != lect.ID {
		t.Errorf("LecturerIDs mismatch: got %v, want [%s]", created.LecturerIDs, lect.ID)
	}
	if len(created.StudentGroupIDs) != 1 || created.StudentGroupIDs[0] != group.ID {
		t.Errorf("StudentGroupIDs mismatch: got %v, want [%s]", created.StudentGroupIDs, group.ID)
	}
}

func TestRepo_Create_NoLinks(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "Standalone " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.LecturerIDs == nil || len(created.LecturerIDs) != 0 {
		t.Errorf("expected empty LecturerIDs slice, got %v", created.LecturerIDs)
	}
	if created.StudentGroupIDs == nil || len(created.StudentGroupIDs) != 0 {
		t.Errorf("expected empty StudentGroupIDs slice, got %v", created.StudentGroupIDs)
	}
}

func TestRepo_Create_DuplicateLinkIDsCollapse(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	lect := testhelper.SeedLecturer(t, pool, "Dup Link "+uuid.New().String()[:8])

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "DupLinks " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
		LecturerIDs:     []uuid.UUID{lect.ID, lect.ID},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if len(created.LecturerIDs) != 1 {
		t.Errorf("expected duplicate lecturer IDs to collapse to 1, got %d", len(created.LecturerIDs))
	}
}

func TestRepo_Create_MissingLecturer_RollsBack(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	courseID := uuid.New()
	_, err := repo.Create(ctx, &domain.Course{
		ID:              courseID,
		Name:            "Orphan " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
		LecturerIDs:     []uuid.UUID{uuid.New()}, // does not exist
	})
	assertIsDomainError(t, err, domain.ErrNotFound)

	// The course row itself must be rolled back with the failed link insert.
	var exists bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID,
	).Scan(&exists); err != nil {
		t.Fatalf("check course exists: %v", err)
	}
	if exists {
		t.Error("expected course row to be rolled back after link failure")
	}
}

func TestRepo_Create_DuplicateCode(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	code := "UNIQ-" + uuid.New().String()[:8]
	_, err := repo.Create(ctx, &domain.Course{
		Name:            "First " + code,
		Code:            &code,
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}

	// Codes are case-insensitively unique among active courses.
	lower := "uniq-" + code[5:]
	_, err = repo.Create(ctx, &domain.Course{
		Name:            "Second " + code,
		Code:            &lower,
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
	})
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

// ---------------------------------------------------------------------------
// Read tests
// ---------------------------------------------------------------------------

func TestRepo_GetByID_LoadsLinks(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	lect1 := testhelper.SeedLecturer(t, pool, "Reader One "+uuid.New().String()[:8])
	lect2 := testhelper.SeedLecturer(t, pool, "Reader Two "+uuid.New().String()[:8])
	seeded := testhelper.SeedCourse(t, pool, "Readback "+uuid.New().String()[:8], []uuid.UUID{lect1.ID, lect2.ID}, nil)

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if len(got.LecturerIDs) != 2 {
		t.Fatalf("expected 2 lecturer links, got %d", len(got.LecturerIDs))
	}
	idSet := map[uuid.UUID]bool{got.LecturerIDs[0]: true, got.LecturerIDs[1]: true}
	if !idSet[lect1.ID] || !idSet[lect2.ID] {
		t.Errorf("lecturer links mismatch: got %v", got.LecturerIDs)
	}
	if got.StudentGroupIDs == nil || len(got.StudentGroupIDs) != 0 {
		t.Errorf("expected empty StudentGroupIDs slice, got %v", got.StudentGroupIDs)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_FindAllActive_AttachesLinks(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	group := testhelper.SeedStudentGroup(t, pool, "Batch Group "+uuid.New().String()[:8])
	withLinks := testhelper.SeedCourse(t, pool, "HasLinks "+uuid.New().String()[:8], nil, []uuid.UUID{group.ID})
	bare := testhelper.SeedCourse(t, pool, "NoLinks "+uuid.New().String()[:8], nil, nil)

	got, err := repo.FindAllActive(ctx)
	if err != nil {
		t.Fatalf("FindAllActive: unexpected error: %v", err)
	}

	var foundWithLinks, foundBare bool
	for _, c := range got {
		switch c.ID {
		case withLinks.ID:
			foundWithLinks = true
			if len(c.StudentGroupIDs) != 1 || c.StudentGroupIDs[0] != group.ID {
				t.Errorf("StudentGroupIDs mismatch: got %v, want [%s]", c.StudentGroupIDs, group.ID)
			}
		case bare.ID:
			foundBare = true
			if c.LecturerIDs == nil || c.StudentGroupIDs == nil {
				t.Error("expected empty link slices, got nil")
			}
		}
	}
	if !foundWithLinks {
		t.Errorf("expected course %s in results", withLinks.ID)
	}
	if !foundBare {
		t.Errorf("expected course %s in results", bare.ID)
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestRepo_Update_ScalarFields(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "Scalars " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.CourseUpdateParams{
		DurationMinutes: ptr(120),
		Frequency:       ptr(domain.FrequencyMonthly),
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	if updated.DurationMinutes != 120 {
		t.Errorf("DurationMinutes mismatch: got %d, want 120", updated.DurationMinutes)
	}
	if updated.Frequency != domain.FrequencyMonthly {
		t.Errorf("Frequency mismatch: got %s, want %s", updated.Frequency, domain.FrequencyMonthly)
	}
	if updated.Name != created.Name {
		t.Errorf("Name changed unexpectedly: got %q", updated.Name)
	}
}

func TestRepo_Update_ReplacesLinks(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	oldLect := testhelper.SeedLecturer(t, pool, "Old "+uuid.New().String()[:8])
	newLect := testhelper.SeedLecturer(t, pool, "New "+uuid.New().String()[:8])
	group := testhelper.SeedStudentGroup(t, pool, "Stays "+uuid.New().String()[:8])

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "Relink " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
		LecturerIDs:     []uuid.UUID{oldLect.ID},
		StudentGroupIDs: []uuid.UUID{group.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Replace lecturers; leave student groups untouched (nil slice).
	updated, err := repo.Update(ctx, created.ID, domain.CourseUpdateParams{
		LecturerIDs: []uuid.UUID{newLect.ID},
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	if len(updated.LecturerIDs) != 1 || updated.LecturerIDs[0] != newLect.ID {
		t.Errorf("LecturerIDs mismatch: got %v, want [%s]", updated.LecturerIDs, newLect.ID)
	}
	if len(updated.StudentGroupIDs) != 1 || updated.StudentGroupIDs[0] != group.ID {
		t.Errorf("StudentGroupIDs should be untouched: got %v, want [%s]", updated.StudentGroupIDs, group.ID)
	}
}

func TestRepo_Update_EmptySliceClearsLinks(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	lect := testhelper.SeedLecturer(t, pool, "Cleared "+uuid.New().String()[:8])
	created, err := repo.Create(ctx, &domain.Course{
		Name:            "ClearLinks " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
		LecturerIDs:     []uuid.UUID{lect.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// An empty non-nil slice removes every link.
	updated, err := repo.Update(ctx, created.ID, domain.CourseUpdateParams{
		LecturerIDs: []uuid.UUID{},
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	if len(updated.LecturerIDs) != 0 {
		t.Errorf("expected lecturer links cleared, got %v", updated.LecturerIDs)
	}
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, uuid.New(), domain.CourseUpdateParams{DurationMinutes: ptr(45)})
	assertIsDomainError(t, err, domain.ErrNotFound)

	// Link-only updates on a missing course also report not found.
	_, err = repo.Update(ctx, uuid.New(), domain.CourseUpdateParams{LecturerIDs: []uuid.UUID{}})
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// SoftDelete tests
// ---------------------------------------------------------------------------

func TestRepo_SoftDelete(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Course{
		Name:            "Del " + uuid.New().String()[:8],
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SoftDelete(ctx, created.ID); err != nil {
		t.Fatalf("SoftDelete: unexpected error: %v", err)
	}

	_, err = repo.GetByID(ctx, created.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}

package lecturer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniplan/timetable-backend/internal/adapter/postgres/lecturer"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/testhelper"
	"github.com/uniplan/timetable-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*lecturer.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return lecturer.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create + GetByID tests
// ---------------------------------------------------------------------------

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "smith-" + uuid.New().String()[:8] + "@example.edu"
	created, err := repo.Create(ctx, &domain.Lecturer{
		Name:           "Dr. Jane Smith",
		Email:          &email,
		Department:     ptr("Computer Science"),
		MaxWeeklyHours: 20,
		MaxDailyHours:  4,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil lecturer ID")
	}
	if created.NameNormalized != "dr. jane smith" {
		t.Errorf("NameNormalized mismatch: got %q, want %q", created.NameNormalized, "dr. jane smith")
	}
	if created.MaxWeeklyHours != 20 || created.MaxDailyHours != 4 {
		t.Errorf("hours mismatch: got %d/%d, want 20/4", created.MaxWeeklyHours, created.MaxDailyHours)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("Email mismatch: got %v, want %q", got.Email, email)
	}
	if got.Department == nil || *got.Department != "Computer Science" {
		t.Errorf("Department mismatch: got %v", got.Department)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Email uniqueness tests
// ---------------------------------------------------------------------------

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "dup-" + uuid.New().String()[:8] + "@example.edu"
	_, err := repo.Create(ctx, &domain.Lecturer{Name: "First", Email: &email, MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}

	// Same email, different case -> the unique index is on lower(email).
	upper := strings.ToUpper(email)
	_, err = repo.Create(ctx, &domain.Lecturer{Name: "Second", Email: &upper, MaxWeeklyHours: 40, MaxDailyHours: 8})
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Create_NilEmailNotUnique(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	// Several lecturers without email are fine; the partial index skips NULLs.
	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, &domain.Lecturer{
			Name:           "NoEmail-" + uuid.New().String()[:8],
			MaxWeeklyHours: 40,
			MaxDailyHours:  8,
		})
		if err != nil {
			t.Fatalf("Create #%d: unexpected error: %v", i, err)
		}
	}
}

func TestRepo_SoftDelete_FreesEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "freed-" + uuid.New().String()[:8] + "@example.edu"
	first, err := repo.Create(ctx, &domain.Lecturer{Name: "Old Holder", Email: &email, MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.SoftDelete(ctx, first.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// The partial unique index only covers active rows.
	_, err = repo.Create(ctx, &domain.Lecturer{Name: "New Holder", Email: &email, MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create after soft delete: expected success, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestRepo_Update_PartialFields(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Lecturer{
		Name:           "Hours-" + uuid.New().String()[:8],
		Department:     ptr("Mathematics"),
		MaxWeeklyHours: 40,
		MaxDailyHours:  8,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.LecturerUpdateParams{
		MaxWeeklyHours: ptr(16),
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	if updated.MaxWeeklyHours != 16 {
		t.Errorf("MaxWeeklyHours mismatch: got %d, want 16", updated.MaxWeeklyHours)
	}
	if updated.MaxDailyHours != 8 {
		t.Errorf("MaxDailyHours changed unexpectedly: got %d", updated.MaxDailyHours)
	}
	if updated.Department == nil || *updated.Department != "Mathematics" {
		t.Errorf("Department changed unexpectedly: got %v", updated.Department)
	}
}

func TestRepo_Update_ClearsEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "clear-" + uuid.New().String()[:8] + "@example.edu"
	created, err := repo.Create(ctx, &domain.Lecturer{Name: "Clearer", Email: &email, MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.LecturerUpdateParams{Email: ptr("")})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}

	if updated.Email != nil {
		t.Errorf("expected Email cleared to nil, got %v", updated.Email)
	}
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, uuid.New(), domain.LecturerUpdateParams{MaxDailyHours: ptr(6)})
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// FindAllActive tests
// ---------------------------------------------------------------------------

func TestRepo_FindAllActive_SkipsDeleted(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	kept, err := repo.Create(ctx, &domain.Lecturer{Name: "Kept-" + uuid.New().String()[:8], MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create kept: %v", err)
	}
	dropped, err := repo.Create(ctx, &domain.Lecturer{Name: "Dropped-" + uuid.New().String()[:8], MaxWeeklyHours: 40, MaxDailyHours: 8})
	if err != nil {
		t.Fatalf("Create dropped: %v", err)
	}
	if err := repo.SoftDelete(ctx, dropped.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	got, err := repo.FindAllActive(ctx)
	if err != nil {
		t.Fatalf("FindAllActive: unexpected error: %v", err)
	}

	foundKept := false
	for _, l := range got {
		if l.ID == kept.ID {
			foundKept = true
		}
		if l.ID == dropped.ID {
			t.Error("soft-deleted lecturer should not be returned")
		}
	}
	if !foundKept {
		t.Errorf("expected lecturer %s in results", kept.ID)
	}
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

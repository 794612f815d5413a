package importrun_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniplan/timetable-backend/internal/adapter/postgres/importrun"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/testhelper"
	"github.com/uniplan/timetable-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*importrun.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return importrun.New(pool), pool
}

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Microsecond)
	finished := started.Add(3 * time.Second)

	created, err := repo.Create(ctx, &domain.ImportRun{
		Status:        domain.RunStatusPartial,
		Venues:        domain.RunCounts{Created: 3, Updated: 1, Failed: 0},
		Lecturers:     domain.RunCounts{Created: 2, Updated: 0, Failed: 1},
		Courses:       domain.RunCounts{Created: 5, Updated: 2, Failed: 2},
		StudentGroups: domain.RunCounts{Created: 0, Updated: 4, Failed: 0},
		StartedAt:     started,
		FinishedAt:    finished,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil run ID")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.Status != domain.RunStatusPartial {
		t.Errorf("Status mismatch: got %s, want %s", got.Status, domain.RunStatusPartial)
	}
	if got.Venues != (domain.RunCounts{Created: 3, Updated: 1, Failed: 0}) {
		t.Errorf("Venues counts mismatch: got %+v", got.Venues)
	}
	if got.Lecturers != (domain.RunCounts{Created: 2, Updated: 0, Failed: 1}) {
		t.Errorf("Lecturers counts mismatch: got %+v", got.Lecturers)
	}
	if got.Courses != (domain.RunCounts{Created: 5, Updated: 2, Failed: 2}) {
		t.Errorf("Courses counts mismatch: got %+v", got.Courses)
	}
	if got.StudentGroups != (domain.RunCounts{Created: 0, Updated: 4, Failed: 0}) {
		t.Errorf("StudentGroups counts mismatch: got %+v", got.StudentGroups)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt mismatch: got %s, want %s", got.StartedAt, started)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt mismatch: got %s, want %s", got.FinishedAt, finished)
	}
	if got.TotalFailed() != 3 {
		t.Errorf("TotalFailed mismatch: got %d, want 3", got.TotalFailed())
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_Create_InvalidStatus(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := repo.Create(ctx, &domain.ImportRun{
		Status:     domain.RunStatus("BROKEN"),
		StartedAt:  now,
		FinishedAt: now,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestRepo_ListRecent(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	// The table is shared across parallel tests; place these runs far in the
	// future so they sort before everything else.
	base := time.Now().UTC().Add(1000 * time.Hour).Truncate(time.Microsecond)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		started := base.Add(time.Duration(i) * time.Minute)
		run, err := repo.Create(ctx, &domain.ImportRun{
			Status:     domain.RunStatusCompleted,
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		ids = append(ids, run.ID)
	}

	got, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent: unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}

	// Newest first: the run created last has the latest StartedAt.
	if got[0].ID != ids[2] {
		t.Errorf("expected newest run %s first, got %s", ids[2], got[0].ID)
	}
	if got[1].ID != ids[1] {
		t.Errorf("expected run %s second, got %s", ids[1], got[1].ID)
	}
	if got[2].ID != ids[0] {
		t.Errorf("expected run %s third, got %s", ids[0], got[2].ID)
	}
}

func TestRepo_ListRecent_RespectsLimit(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, &domain.ImportRun{
			Status:     domain.RunStatusCompleted,
			StartedAt:  now,
			FinishedAt: now,
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	got, err := repo.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecent: unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 run, got %d", len(got))
	}
}

package importer

import (
	"time"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// EntityOperationResult is the outcome of one entity type within an applied
// batch: Created+Updated+Failed equals the number of rows submitted for the
// type, and every failed row has exactly one entry in Errors.
type EntityOperationResult struct {
	Created int
	Updated int
	Failed  int
	Errors  []ImportError
}

// fail records one failed row: it appends the error and increments Failed.
func (r *EntityOperationResult) fail(idx int, kind domain.EntityKind, op domain.ImportOperation, message string, row map[string]string) {
	r.Failed++
	r.Errors = append(r.Errors, ImportError{
		RowIndex:  idx,
		Entity:    kind,
		Operation: op,
		Message:   message,
		Row:       row,
	})
}

// Total is the number of rows processed for the type.
func (r EntityOperationResult) Total() int {
	return r.Created + r.Updated + r.Failed
}

func (r EntityOperationResult) counts() domain.RunCounts {
	return domain.RunCounts{Created: r.Created, Updated: r.Updated, Failed: r.Failed}
}

// EntityImportResult is the outcome of one applied batch, one
// EntityOperationResult per entity type.
type EntityImportResult struct {
	Venues        EntityOperationResult
	Lecturers     EntityOperationResult
	Courses       EntityOperationResult
	StudentGroups EntityOperationResult
	StartedAt     time.Time
	FinishedAt    time.Time
}

// TotalCreated sums creates across all entity types.
func (r *EntityImportResult) TotalCreated() int {
	return r.Venues.Created + r.Lecturers.Created + r.Courses.Created + r.StudentGroups.Created
}

// TotalUpdated sums updates across all entity types.
func (r *EntityImportResult) TotalUpdated() int {
	return r.Venues.Updated + r.Lecturers.Updated + r.Courses.Updated + r.StudentGroups.Updated
}

// TotalFailed sums failed rows across all entity types.
func (r *EntityImportResult) TotalFailed() int {
	return r.Venues.Failed + r.Lecturers.Failed + r.Courses.Failed + r.StudentGroups.Failed
}

// ImportError describes a single failed row. Row carries the row's fields
// as rendered text so a report stays readable without the original file.
type ImportError struct {
	RowIndex  int
	Entity    domain.EntityKind
	Operation domain.ImportOperation
	Message   string
	Row       map[string]string
}

// ImportPreview reports what applying a batch would do, per entity type.
// Nothing is written during a preview.
type ImportPreview struct {
	Venues        PreviewSection
	Lecturers     PreviewSection
	Courses       PreviewSection
	StudentGroups PreviewSection
}

// MatchSet flattens the preview into the per-row match map that
// ImportEntities consumes.
func (p *ImportPreview) MatchSet() domain.MatchSet {
	return domain.MatchSet{
		Venues:        p.Venues.Matches,
		Lecturers:     p.Lecturers.Matches,
		Courses:       p.Courses.Matches,
		StudentGroups: p.StudentGroups.Matches,
	}
}

// PreviewSection summarizes one entity type of a previewed batch.
// NeedsReview counts rows whose best candidate stayed below the automatic
// threshold; applied as-is they import as creates. Invalid lists rows that
// will fail row validation when applied.
type PreviewSection struct {
	Total          int
	WillCreate     int
	WillUpdate     int
	NeedsReview    int
	Invalid        []int
	Matches        map[int]domain.MatchResult
	DuplicateNames []DuplicateName
}

func (sec *PreviewSection) observe(idx int, res domain.MatchResult) {
	if sec.Matches == nil {
		sec.Matches = make(map[int]domain.MatchResult)
	}
	sec.Matches[idx] = res

	if res.IsAutomatic() {
		sec.WillUpdate++
		return
	}
	sec.WillCreate++
	if len(res.Suggested) > 0 {
		sec.NeedsReview++
	}
}

// DuplicateName is a normalized name shared by several rows of one batch.
type DuplicateName struct {
	Name       string
	RowIndexes []int
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunCounts aggregates the outcomes for one entity type within a run.
type RunCounts struct {
	Created int
	Updated int
	Failed  int
}

// Total returns the number of processed rows.
func (c RunCounts) Total() int {
	return c.Created + c.Updated + c.Failed
}

// ImportRun is the audit record of one apply invocation. Runs are
// append-only; a failed row never removes the record of earlier writes.
type ImportRun struct {
	ID            uuid.UUID
	Status        RunStatus
	Venues        RunCounts
	Lecturers     RunCounts
	Courses       RunCounts
	StudentGroups RunCounts
	StartedAt     time.Time
	FinishedAt    time.Time
}

// TotalCreated sums creates across all entity types.
func (r ImportRun) TotalCreated() int {
	return r.Venues.Created + r.Lecturers.Created + r.Courses.Created + r.StudentGroups.Created
}

// TotalUpdated sums updates across all entity types.
func (r ImportRun) TotalUpdated() int {
	return r.Venues.Updated + r.Lecturers.Updated + r.Courses.Updated + r.StudentGroups.Updated
}

// TotalFailed sums failures across all entity types.
func (r ImportRun) TotalFailed() int {
	return r.Venues.Failed + r.Lecturers.Failed + r.Courses.Failed + r.StudentGroups.Failed
}

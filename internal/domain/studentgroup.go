package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudentGroup is a cohort of students that attends courses together.
type StudentGroup struct {
	ID             uuid.UUID
	Name           string
	NameNormalized string
	Department     *string
	Program        *string
	YearLevel      int
	Size           int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// IsDeleted returns true if the group has been soft-deleted.
func (g *StudentGroup) IsDeleted() bool {
	return g.DeletedAt != nil
}

// StudentGroupUpdateParams holds the fields to change on a student group.
// Nil fields are left untouched.
type StudentGroupUpdateParams struct {
	Name       *string
	Department *string
	Program    *string
	YearLevel  *int
	Size       *int
}

// IsEmpty returns true when no field is set.
func (p StudentGroupUpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Department == nil && p.Program == nil &&
		p.YearLevel == nil && p.Size == nil
}

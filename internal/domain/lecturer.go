package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lecturer is a teaching staff member with scheduling load limits.
type Lecturer struct {
	ID             uuid.UUID
	Name           string
	NameNormalized string
	Email          *string
	Department     *string
	MaxWeeklyHours int
	MaxDailyHours  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// IsDeleted returns true if the lecturer has been soft-deleted.
func (l *Lecturer) IsDeleted() bool {
	return l.DeletedAt != nil
}

// LecturerUpdateParams holds the fields to change on a lecturer.
// Nil fields are left untouched.
type LecturerUpdateParams struct {
	Name           *string
	Email          *string
	Department     *string
	MaxWeeklyHours *int
	MaxDailyHours  *int
}

// IsEmpty returns true when no field is set.
func (p LecturerUpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Department == nil &&
		p.MaxWeeklyHours == nil && p.MaxDailyHours == nil
}

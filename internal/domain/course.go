package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course is a taught unit to be placed on the timetable. Lecturer and
// student-group links are stored as join rows and loaded with the course.
type Course struct {
	ID              uuid.UUID
	Name            string
	NameNormalized  string
	Code            *string
	Department      *string
	DurationMinutes int
	Frequency       Frequency
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time

	LecturerIDs     []uuid.UUID
	StudentGroupIDs []uuid.UUID
}

// IsDeleted returns true if the course has been soft-deleted.
func (c *Course) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CourseUpdateParams holds the fields to change on a course.
// Nil fields are left untouched. LecturerIDs and StudentGroupIDs replace
// the full link set when non-nil.
type CourseUpdateParams struct {
	Name            *string
	Code            *string
	Department      *string
	DurationMinutes *int
	Frequency       *Frequency
	LecturerIDs     []uuid.UUID
	StudentGroupIDs []uuid.UUID
}

// IsEmpty returns true when no field is set.
func (p CourseUpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Department == nil &&
		p.DurationMinutes == nil && p.Frequency == nil &&
		p.LecturerIDs == nil && p.StudentGroupIDs == nil
}

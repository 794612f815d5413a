package domain

import (
	"time"

	"github.com/google/uuid"
)

// Venue is a room or hall that timetable sessions can be scheduled into.
type Venue struct {
	ID             uuid.UUID
	Name           string
	NameNormalized string
	Location       *string
	Building       *string
	Capacity       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// IsDeleted returns true if the venue has been soft-deleted.
func (v *Venue) IsDeleted() bool {
	return v.DeletedAt != nil
}

// VenueUpdateParams holds the fields to change on a venue.
// Nil fields are left untouched.
type VenueUpdateParams struct {
	Name     *string
	Location *string
	Building *string
	Capacity *int
}

// IsEmpty returns true when no field is set.
func (p VenueUpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Location == nil && p.Building == nil && p.Capacity == nil
}

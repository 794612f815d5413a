package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Mapped rows are what the upload column-mapping step hands over: every
// field the spreadsheet did not provide stays nil. Name is the only field
// every row type requires.

// VenueRow is one mapped spreadsheet row describing a venue.
type VenueRow struct {
	Name     string
	Location *string
	Building *string
	Capacity *int
}

// Fields renders the present fields as strings for error reports and
// duplicate listings. Display-only, never parsed back.
func (r VenueRow) Fields() map[string]string {
	f := map[string]string{"name": r.Name}
	putString(f, "location", r.Location)
	putString(f, "building", r.Building)
	putInt(f, "capacity", r.Capacity)
	return f
}

// LecturerRow is one mapped spreadsheet row describing a lecturer.
type LecturerRow struct {
	Name           string
	Email          *string
	Department     *string
	MaxWeeklyHours *int
	MaxDailyHours  *int
}

func (r LecturerRow) Fields() map[string]string {
	f := map[string]string{"name": r.Name}
	putString(f, "email", r.Email)
	putString(f, "department", r.Department)
	putInt(f, "max_weekly_hours", r.MaxWeeklyHours)
	putInt(f, "max_daily_hours", r.MaxDailyHours)
	return f
}

// CourseRow is one mapped spreadsheet row describing a course. Lecturer and
// group references are IDs resolved by earlier import stages.
type CourseRow struct {
	Name            string
	Code            *string
	Department      *string
	DurationMinutes *int
	Frequency       *Frequency
	LecturerIDs     []uuid.UUID
	StudentGroupIDs []uuid.UUID
}

func (r CourseRow) Fields() map[string]string {
	f := map[string]string{"name": r.Name}
	putString(f, "code", r.Code)
	putString(f, "department", r.Department)
	putInt(f, "duration_minutes", r.DurationMinutes)
	if r.Frequency != nil {
		f["frequency"] = r.Frequency.String()
	}
	putUUIDs(f, "lecturer_ids", r.LecturerIDs)
	putUUIDs(f, "student_group_ids", r.StudentGroupIDs)
	return f
}

// StudentGroupRow is one mapped spreadsheet row describing a student group.
type StudentGroupRow struct {
	Name       string
	Department *string
	Program    *string
	YearLevel  *int
	Size       *int
}

func (r StudentGroupRow) Fields() map[string]string {
	f := map[string]string{"name": r.Name}
	putString(f, "department", r.Department)
	putString(f, "program", r.Program)
	putInt(f, "year_level", r.YearLevel)
	putInt(f, "size", r.Size)
	return f
}

// MappedRows bundles one upload's mapped rows for all entity types.
type MappedRows struct {
	Venues        []VenueRow
	Lecturers     []LecturerRow
	Courses       []CourseRow
	StudentGroups []StudentGroupRow
}

// IsEmpty returns true when the batch contains no rows at all.
func (m MappedRows) IsEmpty() bool {
	return len(m.Venues) == 0 && len(m.Lecturers) == 0 &&
		len(m.Courses) == 0 && len(m.StudentGroups) == 0
}

func putString(f map[string]string, key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}

func putInt(f map[string]string, key string, v *int) {
	if v != nil {
		f[key] = strconv.Itoa(*v)
	}
}

func putUUIDs(f map[string]string, key string, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	f[key] = strings.Join(parts, ",")
}

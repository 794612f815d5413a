package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestVenueRow_Fields(t *testing.T) {
	t.Parallel()

	t.Run("only present fields rendered", func(t *testing.T) {
		t.Parallel()
		loc := "North Campus"
		row := VenueRow{Name: "Room 101", Location: &loc}

		got := row.Fields()
		if len(got) != 2 {
			t.Fatalf("expected 2 fields, got %d: %v", len(got), got)
		}
		if got["name"] != "Room 101" {
			t.Errorf("name = %q", got["name"])
		}
		if got["location"] != "North Campus" {
			t.Errorf("location = %q", got["location"])
		}
	})

	t.Run("capacity rendered as decimal", func(t *testing.T) {
		t.Parallel()
		cap := 250
		row := VenueRow{Name: "Aula", Capacity: &cap}

		if got := row.Fields()["capacity"]; got != "250" {
			t.Errorf("capacity = %q, want 250", got)
		}
	})
}

func TestCourseRow_Fields(t *testing.T) {
	t.Parallel()

	freq := FrequencyBiweekly
	dur := 90
	a := uuid.New()
	b := uuid.New()
	row := CourseRow{
		Name:            "Algorithms",
		DurationMinutes: &dur,
		Frequency:       &freq,
		LecturerIDs:     []uuid.UUID{a, b},
	}

	got := row.Fields()
	if got["frequency"] != "BIWEEKLY" {
		t.Errorf("frequency = %q", got["frequency"])
	}
	if got["duration_minutes"] != "90" {
		t.Errorf("duration_minutes = %q", got["duration_minutes"])
	}
	if got["lecturer_ids"] != a.String()+","+b.String() {
		t.Errorf("lecturer_ids = %q", got["lecturer_ids"])
	}
	if _, ok := got["student_group_ids"]; ok {
		t.Error("empty id list should not be rendered")
	}
}

func TestMappedRows_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(MappedRows{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
	rows := MappedRows{StudentGroups: []StudentGroupRow{{Name: "CS-2024-A"}}}
	if rows.IsEmpty() {
		t.Error("batch with one group should not be empty")
	}
}

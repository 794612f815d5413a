package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestMatchSnapshot_EntityName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot MatchSnapshot
		want     string
	}{
		{
			name:     "venue",
			snapshot: MatchSnapshot{Kind: EntityKindVenue, Venue: &Venue{Name: "Room 101"}},
			want:     "Room 101",
		},
		{
			name:     "lecturer",
			snapshot: MatchSnapshot{Kind: EntityKindLecturer, Lecturer: &Lecturer{Name: "Dr. Smith"}},
			want:     "Dr. Smith",
		},
		{
			name:     "course",
			snapshot: MatchSnapshot{Kind: EntityKindCourse, Course: &Course{Name: "Algorithms"}},
			want:     "Algorithms",
		},
		{
			name:     "student group",
			snapshot: MatchSnapshot{Kind: EntityKindStudentGroup, StudentGroup: &StudentGroup{Name: "CS-2024-A"}},
			want:     "CS-2024-A",
		},
		{
			name:     "kind without entity",
			snapshot: MatchSnapshot{Kind: EntityKindVenue},
			want:     "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.snapshot.EntityName(); got != tt.want {
				t.Errorf("EntityName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchResult_IsAutomatic(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	if (MatchResult{Type: MatchTypeFuzzy, Confidence: 0.9}).IsAutomatic() {
		t.Error("result without EntityID should not be automatic")
	}
	if !(MatchResult{EntityID: &id, Type: MatchTypeExact, Confidence: 1.0}).IsAutomatic() {
		t.Error("result with EntityID should be automatic")
	}
}

package domain

import "github.com/google/uuid"

// HighConfidenceThreshold is the fuzzy confidence at or above which a row is
// linked to the candidate automatically (MatchResult.EntityID populated).
// Below it the match stays a suggestion for manual review.
const HighConfidenceThreshold = 0.8

// MatchSnapshot carries the catalog entity behind a candidate so review
// screens can show it without a second lookup. Exactly one pointer, the one
// matching Kind, is non-nil.
type MatchSnapshot struct {
	Kind         EntityKind
	Venue        *Venue
	Lecturer     *Lecturer
	Course       *Course
	StudentGroup *StudentGroup
}

// EntityName returns the display name of the snapshotted entity.
func (s MatchSnapshot) EntityName() string {
	switch s.Kind {
	case EntityKindVenue:
		if s.Venue != nil {
			return s.Venue.Name
		}
	case EntityKindLecturer:
		if s.Lecturer != nil {
			return s.Lecturer.Name
		}
	case EntityKindCourse:
		if s.Course != nil {
			return s.Course.Name
		}
	case EntityKindStudentGroup:
		if s.StudentGroup != nil {
			return s.StudentGroup.Name
		}
	}
	return ""
}

// MatchCandidate is one catalog entity scored against an imported row.
type MatchCandidate struct {
	EntityID       uuid.UUID
	Snapshot       MatchSnapshot
	Confidence     float64
	MatchingFields []string
}

// MatchResult is the reconciliation verdict for a single imported row.
// Confidence is 1.0 for exact matches and 0 when nothing resembles the row.
// Suggested holds at most the top five candidates in non-increasing
// confidence order. EntityID is set only when the row may be linked without
// review: an exact match, or a fuzzy one at or above
// HighConfidenceThreshold.
type MatchResult struct {
	EntityID   *uuid.UUID
	Confidence float64
	Type       MatchType
	Suggested  []MatchCandidate
}

// IsAutomatic returns true when the result links the row without review.
func (r MatchResult) IsAutomatic() bool {
	return r.EntityID != nil
}

// MatchSet holds per-row match results for a whole mapped batch, keyed by
// row index within each entity slice. Absent indexes mean "no match ran";
// the import treats them as creates.
type MatchSet struct {
	Venues        map[int]MatchResult
	Lecturers     map[int]MatchResult
	Courses       map[int]MatchResult
	StudentGroups map[int]MatchResult
}

package domain

// EntityKind identifies the kind of catalog entity a row or result refers to.
type EntityKind string

const (
	EntityKindVenue        EntityKind = "VENUE"
	EntityKindLecturer     EntityKind = "LECTURER"
	EntityKindCourse       EntityKind = "COURSE"
	EntityKindStudentGroup EntityKind = "STUDENT_GROUP"
)

func (k EntityKind) String() string { return string(k) }

func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindVenue, EntityKindLecturer, EntityKindCourse, EntityKindStudentGroup:
		return true
	}
	return false
}

// MatchType classifies how a row was reconciled against the catalog.
type MatchType string

const (
	MatchTypeExact MatchType = "EXACT"
	MatchTypeFuzzy MatchType = "FUZZY"
	MatchTypeNone  MatchType = "NONE"
)

func (t MatchType) String() string { return string(t) }

func (t MatchType) IsValid() bool {
	switch t {
	case MatchTypeExact, MatchTypeFuzzy, MatchTypeNone:
		return true
	}
	return false
}

// ImportOperation is the kind of write attempted for an imported row.
type ImportOperation string

const (
	ImportOperationCreate ImportOperation = "CREATE"
	ImportOperationUpdate ImportOperation = "UPDATE"
)

func (o ImportOperation) String() string { return string(o) }

func (o ImportOperation) IsValid() bool {
	switch o {
	case ImportOperationCreate, ImportOperationUpdate:
		return true
	}
	return false
}

// Frequency is how often a course session repeats on the timetable.
type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

func (f Frequency) String() string { return string(f) }

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// RunStatus is the terminal state of a recorded import run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusPartial   RunStatus = "PARTIAL"
)

func (s RunStatus) String() string { return string(s) }

func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusCompleted, RunStatusPartial:
		return true
	}
	return false
}

package importer

import "github.com/uniplan/timetable-backend/internal/domain"

// Create defaults for fields a mapped row may omit. Updates never default:
// absent fields stay untouched.
const (
	defaultVenueCapacity   = 0
	defaultMaxWeeklyHours  = 40
	defaultMaxDailyHours   = 8
	defaultDurationMinutes = 60
	defaultFrequency       = domain.FrequencyWeekly
	defaultYearLevel       = 1
	defaultGroupSize       = 0
)

func buildVenue(row domain.VenueRow) *domain.Venue {
	venue := &domain.Venue{
		Name:     row.Name,
		Location: row.Location,
		Building: row.Building,
		Capacity: defaultVenueCapacity,
	}
	if row.Capacity != nil {
		venue.Capacity = *row.Capacity
	}
	return venue
}

func buildVenueUpdate(row domain.VenueRow) domain.VenueUpdateParams {
	return domain.VenueUpdateParams{
		Name:     &row.Name,
		Location: row.Location,
		Building: row.Building,
		Capacity: row.Capacity,
	}
}

func buildLecturer(row domain.LecturerRow) *domain.Lecturer {
	lecturer := &domain.Lecturer{
		Name:           row.Name,
		Email:          row.Email,
		Department:     row.Department,
		MaxWeeklyHours: defaultMaxWeeklyHours,
		MaxDailyHours:  defaultMaxDailyHours,
	}
	if row.MaxWeeklyHours != nil {
		lecturer.MaxWeeklyHours = *row.MaxWeeklyHours
	}
	if row.MaxDailyHours != nil {
		lecturer.MaxDailyHours = *row.MaxDailyHours
	}
	return lecturer
}

func buildLecturerUpdate(row domain.LecturerRow) domain.LecturerUpdateParams {
	return domain.LecturerUpdateParams{
		Name:           &row.Name,
		Email:          row.Email,
		Department:     row.Department,
		MaxWeeklyHours: row.MaxWeeklyHours,
		MaxDailyHours:  row.MaxDailyHours,
	}
}

func buildCourse(row domain.CourseRow) *domain.Course {
	course := &domain.Course{
		Name:            row.Name,
		Code:            row.Code,
		Department:      row.Department,
		DurationMinutes: defaultDurationMinutes,
		Frequency:       defaultFrequency,
		LecturerIDs:     row.LecturerIDs,
		StudentGroupIDs: row.StudentGroupIDs,
	}
	if row.DurationMinutes != nil {
		course.DurationMinutes = *row.DurationMinutes
	}
	if row.Frequency != nil {
		course.Frequency = *row.Frequency
	}
	return course
}

func buildCourseUpdate(row domain.CourseRow) domain.CourseUpdateParams {
	return domain.CourseUpdateParams{
		Name:            &row.Name,
		Code:            row.Code,
		Department:      row.Department,
		DurationMinutes: row.DurationMinutes,
		Frequency:       row.Frequency,
		LecturerIDs:     row.LecturerIDs,
		StudentGroupIDs: row.StudentGroupIDs,
	}
}

func buildStudentGroup(row domain.StudentGroupRow) *domain.StudentGroup {
	group := &domain.StudentGroup{
		Name:       row.Name,
		Department: row.Department,
		Program:    row.Program,
		YearLevel:  defaultYearLevel,
		Size:       defaultGroupSize,
	}
	if row.YearLevel != nil {
		group.YearLevel = *row.YearLevel
	}
	if row.Size != nil {
		group.Size = *row.Size
	}
	return group
}

func buildStudentGroupUpdate(row domain.StudentGroupRow) domain.StudentGroupUpdateParams {
	return domain.StudentGroupUpdateParams{
		Name:       &row.Name,
		Department: row.Department,
		Program:    row.Program,
		YearLevel:  row.YearLevel,
		Size:       row.Size,
	}
}

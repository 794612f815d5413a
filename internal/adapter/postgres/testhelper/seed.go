package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedVenue creates an active venue with the given name and filled optional
// fields. Returns a filled domain.Venue.
func SeedVenue(t *testing.T, pool *pgxpool.Pool, name string) domain.Venue {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	location := "Campus North " + suffix
	building := "Block " + suffix

	venue := domain.Venue{
		ID:             uuid.New(),
		Name:           name,
		NameNormalized: domain.NormalizeText(name),
		Location:       &location,
		Building:       &building,
		Capacity:       120,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO venues (id, name, name_normalized, location, building, capacity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		venue.ID, venue.Name, venue.NameNormalized, venue.Location, venue.Building, venue.Capacity, venue.CreatedAt, venue.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVenue insert venue: %v", err)
	}

	return venue
}

// SeedLecturer creates an active lecturer with the given name, a unique
// email, and filled optional fields. Returns a filled domain.Lecturer.
func SeedLecturer(t *testing.T, pool *pgxpool.Pool, name string) domain.Lecturer {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := "lecturer-" + suffix + "@example.edu"
	department := "Department " + suffix

	lecturer := domain.Lecturer{
		ID:             uuid.New(),
		Name:           name,
		NameNormalized: domain.NormalizeText(name),
		Email:          &email,
		Department:     &department,
		MaxWeeklyHours: 40,
		MaxDailyHours:  8,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO lecturers (id, name, name_normalized, email, department, max_weekly_hours, max_daily_hours, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lecturer.ID, lecturer.Name, lecturer.NameNormalized, lecturer.Email, lecturer.Department,
		lecturer.MaxWeeklyHours, lecturer.MaxDailyHours, lecturer.CreatedAt, lecturer.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLecturer insert lecturer: %v", err)
	}

	return lecturer
}

// SeedStudentGroup creates an active student group with the given name and
// filled optional fields. Returns a filled domain.StudentGroup.
func SeedStudentGroup(t *testing.T, pool *pgxpool.Pool, name string) domain.StudentGroup {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	department := "Department " + suffix
	program := "Program " + suffix

	group := domain.StudentGroup{
		ID:             uuid.New(),
		Name:           name,
		NameNormalized: domain.NormalizeText(name),
		Department:     &department,
		Program:        &program,
		YearLevel:      2,
		Size:           30,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO student_groups (id, name, name_normalized, department, program, year_level, size, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		group.ID, group.Name, group.NameNormalized, group.Department, group.Program,
		group.YearLevel, group.Size, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStudentGroup insert student_group: %v", err)
	}

	return group
}

// SeedCourse creates an active course with the given name, a unique code,
// and join rows for the given lecturer and student group IDs.
// Returns a filled domain.Course.
func SeedCourse(t *testing.T, pool *pgxpool.Pool, name string, lecturerIDs, studentGroupIDs []uuid.UUID) domain.Course {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	code := "CRS-" + suffix
	department := "Department " + suffix

	course := domain.Course{
		ID:              uuid.New(),
		Name:            name,
		NameNormalized:  domain.NormalizeText(name),
		Code:            &code,
		Department:      &department,
		DurationMinutes: 60,
		Frequency:       domain.FrequencyWeekly,
		CreatedAt:       now,
		UpdatedAt:       now,
		LecturerIDs:     []uuid.UUID{},
		StudentGroupIDs: []uuid.UUID{},
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO courses (id, name, name_normalized, code, department, duration_minutes, frequency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		course.ID, course.Name, course.NameNormalized, course.Code, course.Department,
		course.DurationMinutes, course.Frequency, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCourse insert course: %v", err)
	}

	for i, lecturerID := range lecturerIDs {
		_, err := pool.Exec(ctx,
			`INSERT INTO course_lecturers (course_id, lecturer_id) VALUES ($1, $2)`,
			course.ID, lecturerID,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCourse insert course_lecturer[%d]: %v", i, err)
		}
		course.LecturerIDs = append(course.LecturerIDs, lecturerID)
	}

	for i, groupID := range studentGroupIDs {
		_, err := pool.Exec(ctx,
			`INSERT INTO course_student_groups (course_id, student_group_id) VALUES ($1, $2)`,
			course.ID, groupID,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCourse insert course_student_group[%d]: %v", i, err)
		}
		course.StudentGroupIDs = append(course.StudentGroupIDs, groupID)
	}

	return course
}

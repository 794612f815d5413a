package batchimport

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/uniplan/timetable-backend/internal/domain"
)

// Wire types for the mapped-rows file. Keys follow the column-mapping step's
// output; absent keys stay nil so partial rows survive the round trip.

type venueRowFile struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
	Building *string `json:"building"`
	Capacity *int    `json:"capacity"`
}

type lecturerRowFile struct {
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	Department     *string `json:"department"`
	MaxWeeklyHours *int    `json:"max_weekly_hours"`
	MaxDailyHours  *int    `json:"max_daily_hours"`
}

type courseRowFile struct {
	Name            string   `json:"name"`
	Code            *string  `json:"code"`
	Department      *string  `json:"department"`
	DurationMinutes *int     `json:"duration_minutes"`
	Frequency       *string  `json:"frequency"`
	LecturerIDs     []string `json:"lecturer_ids"`
	StudentGroupIDs []string `json:"student_group_ids"`
}

type studentGroupRowFile struct {
	Name       string  `json:"name"`
	Department *string `json:"department"`
	Program    *string `json:"program"`
	YearLevel  *int    `json:"year_level"`
	Size       *int    `json:"size"`
}

var knownSections = map[string]bool{
	"venues":         true,
	"lecturers":      true,
	"courses":        true,
	"student_groups": true,
}

// ParseFile reads a mapped-rows JSON file into domain rows. Unknown top-level
// sections are rejected so a typo like "venue" fails loudly instead of
// silently importing nothing.
func ParseFile(path string) (domain.MappedRows, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MappedRows{}, fmt.Errorf("read mapped rows file: %w", err)
	}
	rows, err := parseRows(data)
	if err != nil {
		return domain.MappedRows{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func parseRows(data []byte) (domain.MappedRows, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return domain.MappedRows{}, err
	}
	for name := range sections {
		if !knownSections[name] {
			return domain.MappedRows{}, fmt.Errorf("unknown entity section %q", name)
		}
	}

	var file struct {
		Venues        []venueRowFile        `json:"venues"`
		Lecturers     []lecturerRowFile     `json:"lecturers"`
		Courses       []courseRowFile       `json:"courses"`
		StudentGroups []studentGroupRowFile `json:"student_groups"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.MappedRows{}, err
	}

	var rows domain.MappedRows
	for _, v := range file.Venues {
		rows.Venues = append(rows.Venues, domain.VenueRow{
			Name:     v.Name,
			Location: v.Location,
			Building: v.Building,
			Capacity: v.Capacity,
		})
	}
	for _, l := range file.Lecturers {
		rows.Lecturers = append(rows.Lecturers, domain.LecturerRow{
			Name:           l.Name,
			Email:          l.Email,
			Department:     l.Department,
			MaxWeeklyHours: l.MaxWeeklyHours,
			MaxDailyHours:  l.MaxDailyHours,
		})
	}
	for i, c := range file.Courses {
		row := domain.CourseRow{
			Name:            c.Name,
			Code:            c.Code,
			Department:      c.Department,
			DurationMinutes: c.DurationMinutes,
		}
		if c.Frequency != nil {
			freq := domain.Frequency(*c.Frequency)
			if !freq.IsValid() {
				return domain.MappedRows{}, fmt.Errorf("course row %d: invalid frequency %q", i, *c.Frequency)
			}
			row.Frequency = &freq
		}
		lecturerIDs, err := parseUUIDs(c.LecturerIDs)
		if err != nil {
			return domain.MappedRows{}, fmt.Errorf("course row %d: lecturer_ids: %w", i, err)
		}
		row.LecturerIDs = lecturerIDs
		groupIDs, err := parseUUIDs(c.StudentGroupIDs)
		if err != nil {
			return domain.MappedRows{}, fmt.Errorf("course row %d: student_group_ids: %w", i, err)
		}
		row.StudentGroupIDs = groupIDs
		rows.Courses = append(rows.Courses, row)
	}
	for _, g := range file.StudentGroups {
		rows.StudentGroups = append(rows.StudentGroups, domain.StudentGroupRow{
			Name:       g.Name,
			Department: g.Department,
			Program:    g.Program,
			YearLevel:  g.YearLevel,
			Size:       g.Size,
		})
	}
	return rows, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

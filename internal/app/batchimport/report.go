package batchimport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uniplan/timetable-backend/internal/domain"
	"github.com/uniplan/timetable-backend/internal/service/importer"
)

// Report is the serialized outcome of one invocation. Preview is always
// present; Apply only when the batch was actually written.
type Report struct {
	Mode        string         `json:"mode" yaml:"mode"`
	File        string         `json:"file" yaml:"file"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Preview     *PreviewReport `json:"preview,omitempty" yaml:"preview,omitempty"`
	Apply       *ApplyReport   `json:"apply,omitempty" yaml:"apply,omitempty"`
}

type PreviewReport struct {
	Venues        SectionReport `json:"venues" yaml:"venues"`
	Lecturers     SectionReport `json:"lecturers" yaml:"lecturers"`
	Courses       SectionReport `json:"courses" yaml:"courses"`
	StudentGroups SectionReport `json:"student_groups" yaml:"student_groups"`
}

type SectionReport struct {
	Total          int               `json:"total" yaml:"total"`
	WillCreate     int               `json:"will_create" yaml:"will_create"`
	WillUpdate     int               `json:"will_update" yaml:"will_update"`
	NeedsReview    int               `json:"needs_review" yaml:"needs_review"`
	InvalidRows    []int             `json:"invalid_rows,omitempty" yaml:"invalid_rows,omitempty"`
	DuplicateNames []DuplicateReport `json:"duplicate_names,omitempty" yaml:"duplicate_names,omitempty"`
	Review         []ReviewReport    `json:"review,omitempty" yaml:"review,omitempty"`
}

type DuplicateReport struct {
	Name       string `json:"name" yaml:"name"`
	RowIndexes []int  `json:"row_indexes" yaml:"row_indexes"`
}

// ReviewReport names the best suggestion for a row that needs a human look.
type ReviewReport struct {
	RowIndex   int     `json:"row_index" yaml:"row_index"`
	RowName    string  `json:"row_name" yaml:"row_name"`
	BestMatch  string  `json:"best_match" yaml:"best_match"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

type ApplyReport struct {
	Status        string        `json:"status" yaml:"status"`
	Venues        CountsReport  `json:"venues" yaml:"venues"`
	Lecturers     CountsReport  `json:"lecturers" yaml:"lecturers"`
	Courses       CountsReport  `json:"courses" yaml:"courses"`
	StudentGroups CountsReport  `json:"student_groups" yaml:"student_groups"`
	Errors        []ErrorReport `json:"errors,omitempty" yaml:"errors,omitempty"`
	StartedAt     time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt    time.Time     `json:"finished_at" yaml:"finished_at"`
}

type CountsReport struct {
	Created int `json:"created" yaml:"created"`
	Updated int `json:"updated" yaml:"updated"`
	Failed  int `json:"failed" yaml:"failed"`
}

type ErrorReport struct {
	RowIndex  int               `json:"row_index" yaml:"row_index"`
	Entity    string            `json:"entity" yaml:"entity"`
	Operation string            `json:"operation" yaml:"operation"`
	Message   string            `json:"message" yaml:"message"`
	Row       map[string]string `json:"row,omitempty" yaml:"row,omitempty"`
}

func buildPreviewReport(preview *importer.ImportPreview, rows domain.MappedRows) *PreviewReport {
	venueNames := make([]string, len(rows.Venues))
	for i, r := range rows.Venues {
		venueNames[i] = r.Name
	}
	lecturerNames := make([]string, len(rows.Lecturers))
	for i, r := range rows.Lecturers {
		lecturerNames[i] = r.Name
	}
	courseNames := make([]string, len(rows.Courses))
	for i, r := range rows.Courses {
		courseNames[i] = r.Name
	}
	groupNames := make([]string, len(rows.StudentGroups))
	for i, r := range rows.StudentGroups {
		groupNames[i] = r.Name
	}

	return &PreviewReport{
		Venues:        buildSectionReport(preview.Venues, venueNames),
		Lecturers:     buildSectionReport(preview.Lecturers, lecturerNames),
		Courses:       buildSectionReport(preview.Courses, courseNames),
		StudentGroups: buildSectionReport(preview.StudentGroups, groupNames),
	}
}

func buildSectionReport(sec importer.PreviewSection, names []string) SectionReport {
	report := SectionReport{
		Total:       sec.Total,
		WillCreate:  sec.WillCreate,
		WillUpdate:  sec.WillUpdate,
		NeedsReview: sec.NeedsReview,
		InvalidRows: sec.Invalid,
	}
	for _, dup := range sec.DuplicateNames {
		report.DuplicateNames = append(report.DuplicateNames, DuplicateReport{
			Name:       dup.Name,
			RowIndexes: dup.RowIndexes,
		})
	}

	// Map iteration order is random; sort indexes so reports are diffable.
	indexes := make([]int, 0, len(sec.Matches))
	for idx := range sec.Matches {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		res := sec.Matches[idx]
		if res.IsAutomatic() || len(res.Suggested) == 0 {
			continue
		}
		best := res.Suggested[0]
		review := ReviewReport{
			RowIndex:   idx,
			BestMatch:  best.Snapshot.EntityName(),
			Confidence: best.Confidence,
		}
		if idx < len(names) {
			review.RowName = names[idx]
		}
		report.Review = append(report.Review, review)
	}
	return report
}

func buildApplyReport(result *importer.EntityImportResult) *ApplyReport {
	status := domain.RunStatusCompleted
	if result.TotalFailed() > 0 {
		status = domain.RunStatusPartial
	}
	report := &ApplyReport{
		Status:        status.String(),
		Venues:        countsReport(result.Venues),
		Lecturers:     countsReport(result.Lecturers),
		Courses:       countsReport(result.Courses),
		StudentGroups: countsReport(result.StudentGroups),
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
	// Flatten errors in stage order so the report reads like the run.
	for _, sec := range []importer.EntityOperationResult{
		result.Venues, result.Lecturers, result.StudentGroups, result.Courses,
	} {
		for _, e := range sec.Errors {
			report.Errors = append(report.Errors, ErrorReport{
				RowIndex:  e.RowIndex,
				Entity:    e.Entity.String(),
				Operation: e.Operation.String(),
				Message:   e.Message,
				Row:       e.Row,
			})
		}
	}
	return report
}

func countsReport(r importer.EntityOperationResult) CountsReport {
	return CountsReport{Created: r.Created, Updated: r.Updated, Failed: r.Failed}
}

// WriteReport renders the report to path: .yaml/.yml get YAML, everything
// else pretty-printed JSON.
func WriteReport(path string, report Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(report)
	default:
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

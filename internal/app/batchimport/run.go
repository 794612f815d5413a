package batchimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uniplan/timetable-backend/internal/domain"
	"github.com/uniplan/timetable-backend/internal/service/importer"
)

// ImportService is the slice of the importer the tool drives.
type ImportService interface {
	PreviewImport(ctx context.Context, rows domain.MappedRows) (*importer.ImportPreview, error)
	ImportEntities(ctx context.Context, rows domain.MappedRows, matches domain.MatchSet) (*importer.EntityImportResult, error)
}

// Result summarizes one invocation for the caller's exit code.
type Result struct {
	Report     Report
	RowsFailed int
}

// HasFailures reports whether any applied row failed.
func (r Result) HasFailures() bool {
	return r.RowsFailed > 0
}

// Run executes the preview-then-apply flow: parse the mapped-rows file, run
// the matcher preview, and, when cfg.Apply is set, feed the preview's matches
// straight into the orchestrator. The report is written to cfg.Report when a
// path is configured.
func Run(ctx context.Context, cfg *Config, svc ImportService, log *slog.Logger) (Result, error) {
	rows, err := ParseFile(cfg.File)
	if err != nil {
		return Result{}, err
	}
	if rows.IsEmpty() {
		log.Warn("mapped rows file contains no rows", slog.String("file", cfg.File))
	}

	preview, err := svc.PreviewImport(ctx, rows)
	if err != nil {
		return Result{}, fmt.Errorf("preview import: %w", err)
	}

	report := Report{
		Mode:        "preview",
		File:        cfg.File,
		GeneratedAt: time.Now().UTC(),
		Preview:     buildPreviewReport(preview, rows),
	}
	logPreview(log, report.Preview)

	var result Result
	if cfg.Apply {
		applied, err := svc.ImportEntities(ctx, rows, preview.MatchSet())
		if err != nil {
			return Result{}, fmt.Errorf("apply import: %w", err)
		}
		report.Mode = "apply"
		report.Apply = buildApplyReport(applied)
		result.RowsFailed = applied.TotalFailed()

		log.Info("batch applied",
			slog.Int("created", applied.TotalCreated()),
			slog.Int("updated", applied.TotalUpdated()),
			slog.Int("failed", applied.TotalFailed()),
		)
	}

	if cfg.Report != "" {
		if err := WriteReport(cfg.Report, report); err != nil {
			return Result{}, err
		}
		log.Info("report written", slog.String("path", cfg.Report))
	}

	result.Report = report
	return result, nil
}

func logPreview(log *slog.Logger, preview *PreviewReport) {
	sections := []SectionReport{
		preview.Venues, preview.Lecturers, preview.Courses, preview.StudentGroups,
	}
	var create, update, review, invalid int
	for _, sec := range sections {
		create += sec.WillCreate
		update += sec.WillUpdate
		review += sec.NeedsReview
		invalid += len(sec.InvalidRows)
	}
	log.Info("preview complete",
		slog.Int("will_create", create),
		slog.Int("will_update", update),
		slog.Int("needs_review", review),
		slog.Int("invalid_rows", invalid),
	)
}

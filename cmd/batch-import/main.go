// Command batch-import previews and applies mapped timetable import batches.
// It reads a mapped-rows JSON file, reconciles every row against the active
// catalog, and either reports what would happen or writes the batch to
// PostgreSQL.
//
// Flags:
//
//	--file           path to the mapped-rows JSON file
//	--apply          write the batch (default: preview only)
//	--report         report output path (.yaml/.yml for YAML, else JSON)
//	--import-config  path to batch-import config YAML (optional; falls back to env)
//	--history        print the N most recent import runs and exit
//
// Exit codes: 0 = success, 1 = error or failed rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/uniplan/timetable-backend/internal/adapter/postgres"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/course"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/importrun"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/lecturer"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/studentgroup"
	"github.com/uniplan/timetable-backend/internal/adapter/postgres/venue"
	"github.com/uniplan/timetable-backend/internal/app"
	"github.com/uniplan/timetable-backend/internal/app/batchimport"
	"github.com/uniplan/timetable-backend/internal/config"
	"github.com/uniplan/timetable-backend/internal/service/importer"
	"github.com/uniplan/timetable-backend/internal/service/matcher"
)

// Compile-time interface assertion.
var _ batchimport.ImportService = (*importer.Service)(nil)

func main() {
	fileFlag := flag.String("file", "", "path to the mapped-rows JSON file")
	applyFlag := flag.Bool("apply", false, "write the batch instead of previewing")
	reportFlag := flag.String("report", "", "report output path (.yaml/.yml for YAML, else JSON)")
	importConfigFlag := flag.String("import-config", "", "path to batch-import config YAML")
	historyFlag := flag.Int("history", 0, "print the N most recent import runs and exit")
	flag.Parse()

	// Load app config (for DB connection and logging).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("batch-import starting", slog.String("version", app.BuildVersion()))

	// Load tool config; CLI flags override.
	toolCfg, err := batchimport.LoadConfig(*importConfigFlag)
	if err != nil {
		logger.Error("load batch-import config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *fileFlag != "" {
		toolCfg.File = *fileFlag
	}
	if *applyFlag {
		toolCfg.Apply = true
	}
	if *reportFlag != "" {
		toolCfg.Report = *reportFlag
	}

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// Connect to DB.
	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	venues := venue.New(pool)
	lecturers := lecturer.New(pool)
	groups := studentgroup.New(pool)
	courses := course.New(pool, txm)
	runs := importrun.New(pool)

	if *historyFlag > 0 {
		if err := printHistory(ctx, runs, *historyFlag); err != nil {
			logger.Error("list import runs", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if toolCfg.File == "" {
		logger.Error("no mapped-rows file given (use --file)")
		os.Exit(1)
	}

	matchSvc := matcher.NewService(logger, venues, lecturers, courses, groups)
	importSvc := importer.NewService(logger, venues, lecturers, courses, groups, matchSvc, appCfg.Import)
	importSvc.SetRunRecorder(runs)

	result, err := batchimport.Run(ctx, toolCfg, importSvc, logger)
	if err != nil {
		logger.Error("batch import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if result.HasFailures() {
		logger.Warn("batch applied with failed rows", slog.Int("failed", result.RowsFailed))
		os.Exit(1)
	}
}

func printHistory(ctx context.Context, runs *importrun.Repo, limit int) error {
	recent, err := runs.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Println("No import runs recorded.")
		return nil
	}
	for _, run := range recent {
		fmt.Printf("%s  %s  %-9s  created=%d updated=%d failed=%d\n",
			run.StartedAt.Format(time.RFC3339),
			run.ID,
			run.Status,
			run.TotalCreated(),
			run.TotalUpdated(),
			run.TotalFailed(),
		)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/classify"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/export"
	"github.com/joseph-ayodele/policy-renamer/internal/extract"
	"github.com/joseph-ayodele/policy-renamer/internal/ingest"
	"github.com/joseph-ayodele/policy-renamer/internal/naming"
	"github.com/joseph-ayodele/policy-renamer/internal/ocr"
	"github.com/joseph-ayodele/policy-renamer/internal/pipeline"
	"github.com/joseph-ayodele/policy-renamer/internal/resolver"
	"github.com/joseph-ayodele/policy-renamer/internal/spatial"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	var (
		dryRun  = flag.Bool("dry-run", cfg.Rename.DryRun, "compute new names without renaming")
		workers = flag.Int("workers", cfg.Batch.Workers, "number of files processed concurrently")
		watch   = flag.String("watch", cfg.Watch.Dir, "drop folder to watch instead of processing arguments")
		report  = flag.String("report", cfg.Report.Path, "write an XLSX run report to this path")
		hidden  = flag.Bool("hidden", false, "include hidden files when expanding directories")
	)
	flag.Usage = func() {
		printError("usage: %s [flags] <file-or-dir>...\n       %s [flags] -watch <dir>\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Rename.DryRun = *dryRun
	cfg.Batch.Workers = *workers
	cfg.Watch.Dir = *watch
	cfg.Report.Path = *report

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Watch.Dir == "" && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run_id travels in ctx; components add it through common.LoggerFrom
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	runLogger := common.LoggerFrom(ctx, logger)

	if cfg.TuningFile != "" {
		runLogger.Info("tuning loaded", "path", cfg.TuningFile)
	}
	runLogger.Debug("categories", "known", constants.AsStringSlice())
	for _, cat := range constants.Unimplemented() {
		runLogger.Debug("category has no detection rule", "category", cat)
	}

	proc, err := buildProcessor(cfg, logger)
	if err != nil {
		runLogger.Error("failed to build processor", "error", err)
		os.Exit(1)
	}

	var outcomes []pipeline.Outcome
	if cfg.Watch.Dir != "" {
		outcomes, err = runWatch(ctx, cfg, proc, logger)
	} else {
		outcomes, err = runBatch(ctx, cfg, proc, flag.Args(), !*hidden, logger)
	}
	if err != nil {
		runLogger.Error("run failed", "error", err)
		os.Exit(1)
	}

	if cfg.Report.Path != "" {
		// the run context may already be cancelled by a signal
		reportCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := export.NewService(runLogger).WriteFile(reportCtx, cfg.Report.Path, runID, outcomes)
		cancel()
		if err != nil {
			runLogger.Error("failed to write report", "path", cfg.Report.Path, "error", err)
			os.Exit(1)
		}
	}

	for _, o := range outcomes {
		if o.Status == constants.OutcomeFailed {
			os.Exit(1)
		}
	}
}

func buildProcessor(cfg *common.Config, logger *slog.Logger) (*pipeline.Processor, error) {
	classifier := classify.NewClassifier(logger, classify.DefaultRules())
	extra, err := classify.RulesFromTuning(cfg.Tuning.Rules)
	if err != nil {
		return nil, err
	}
	for _, r := range extra {
		classifier.Register(r)
		logger.Info("classification rule registered", "category", r.Category, "priority", r.Priority, "keywords", len(r.Keywords))
	}

	ocrEngine := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.PdftoppmBin,
		Tesseract:     cfg.OCR.TesseractBin,
		TesseractLang: cfg.OCR.Language,
		DPI:           cfg.OCR.DPI,
		ZoneDPI:       cfg.Tuning.Spatial.ZoneDPI,
		TessdataDir:   cfg.OCR.TessdataDir,
		WorkDir:       cfg.OCR.WorkDir,
		ExecTimeout:   cfg.OCR.ExecTimeout,
	}, logger)

	extractor := extract.NewPDFExtractor(extract.Config{
		MaxPages:    cfg.Tuning.MaxPages,
		MinPageText: cfg.Tuning.MinPageText,
	}, ocrEngine, logger)

	tables := resolver.NewTables(cfg.Tuning)
	locator := spatial.NewLocator(logger, cfg.Tuning.Spatial, ocrEngine)
	analyze := pipeline.NewAnalyzeStage(extractor,
		classifier,
		resolver.New(logger, cfg.Tuning, tables, locator),
		logger)

	renamer := naming.NewRenamer(naming.Config{
		DryRun:      cfg.Rename.DryRun,
		MaxAttempts: uint64(cfg.Rename.MaxAttempts),
		Backoff:     cfg.Rename.RetryBackoff,
		MaxSuffix:   cfg.Rename.MaxSuffix,
	}, logger)

	return pipeline.NewProcessor(logger, analyze, renamer), nil
}

func runBatch(ctx context.Context, cfg *common.Config, proc *pipeline.Processor, args []string, skipHidden bool, logger *slog.Logger) ([]pipeline.Outcome, error) {
	paths, stats, err := ingest.Collect(args, skipHidden)
	if err != nil {
		return nil, err
	}
	common.LoggerFrom(ctx, logger).Info("starting batch", "files", stats.Matched, "scanned", stats.Scanned, "workers", cfg.Batch.Workers, "dry_run", cfg.Rename.DryRun)

	outcomes := pipeline.NewBatch(proc, logger,
		pipeline.WithWorkers(cfg.Batch.Workers),
		pipeline.WithProcessTimeout(cfg.Batch.FileTimeout),
	).Run(ctx, paths)
	for _, o := range outcomes {
		printOutcome(o)
	}
	return outcomes, nil
}

func runWatch(ctx context.Context, cfg *common.Config, proc *pipeline.Processor, logger *slog.Logger) ([]pipeline.Outcome, error) {
	runLogger := common.LoggerFrom(ctx, logger)
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Watch.Dir},
		InitialScan: true,
		Debounce:    cfg.Watch.Debounce,
		SkipHidden:  true,
		Logger:      runLogger,
	})
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		outcomes []pipeline.Outcome
	)
	queue := pipeline.NewQueue(proc, logger,
		pipeline.WithQueueWorkers(cfg.Batch.Workers),
		pipeline.WithQueueSize(cfg.Watch.QueueSize),
		pipeline.WithQueueTimeout(cfg.Batch.FileTimeout),
		pipeline.WithQueueContext(ctx),
		pipeline.WithOutcomeHandler(func(o pipeline.Outcome) {
			printOutcome(o)
			mu.Lock()
			outcomes = append(outcomes, o)
			mu.Unlock()
		}))

loop:
	for {
		select {
		case p, ok := <-events:
			if !ok {
				break loop
			}
			queue.Enqueue(p)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			runLogger.Warn("watch error", "error", err)
		case <-ctx.Done():
			break loop
		}
	}

	runLogger.Info("shutting down watcher", "dir", cfg.Watch.Dir)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)

	mu.Lock()
	defer mu.Unlock()
	return append([]pipeline.Outcome(nil), outcomes...), nil
}

func printOutcome(o pipeline.Outcome) {
	switch o.Status {
	case constants.OutcomeRenamed, constants.OutcomePlanned:
		fmt.Printf("%-8s %s -> %s\n", o.Status, o.Path, filepath.Base(o.NewPath))
	case constants.OutcomeSkipped:
		fmt.Printf("%-8s %s\n", o.Status, o.Path)
	default:
		fmt.Printf("%-8s %s: %v\n", o.Status, o.Path, o.Err)
	}
}

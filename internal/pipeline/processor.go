// Package pipeline runs documents through extraction, classification,
// metadata resolution and renaming, one file at a time or as a batch.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/naming"
	"github.com/joseph-ayodele/policy-renamer/internal/resolver"
)

// Outcome is the per-document result. Failures are recorded here and never
// returned as errors.
type Outcome struct {
	ID         uuid.UUID
	Path       string
	Category   constants.Category
	Metadata   entity.Metadata
	Sources    resolver.Sources
	Pages      int
	OCRPages   int
	NewName    string
	NewPath    string
	Status     constants.OutcomeStatus
	Err        error
	ExtractErr error
	Duration   time.Duration
}

// Renamer moves a file to a new base name.
type Renamer interface {
	Rename(ctx context.Context, src, newName string) naming.Result
}

// Processor handles one file end to end.
type Processor struct {
	Analyze *AnalyzeStage
	Renamer Renamer
	Logger  *slog.Logger
}

func NewProcessor(logger *slog.Logger, analyze *AnalyzeStage, renamer Renamer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Analyze: analyze, Renamer: renamer, Logger: logger}
}

// ProcessFile classifies, names and renames the file at path.
func (p *Processor) ProcessFile(ctx context.Context, path string) (out Outcome) {
	start := time.Now()
	out = Outcome{ID: uuid.New(), Path: path, Category: constants.Unknown, Metadata: entity.NewMetadata()}
	ctx = common.WithDocumentID(ctx, out.ID)
	logger := common.LoggerFrom(ctx, p.Logger).With("path", path)

	defer func() {
		out.Duration = time.Since(start)
	}()

	if !constants.IsAllowedExt(filepath.Ext(path)) {
		out.Status = constants.OutcomeSkipped
		logger.Info("skipping file with unsupported extension", "ext", filepath.Ext(path))
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Status, out.Err = constants.OutcomeFailed, err
		return out
	}

	a := p.Analyze.Run(ctx, path)
	out.Category = a.Category
	out.Metadata = a.Resolution.Metadata
	out.Sources = a.Resolution.Sources
	out.ExtractErr = a.ExtractErr
	out.Pages = len(a.Document.Pages)
	for _, pg := range a.Document.Pages {
		if pg.OCR {
			out.OCRPages++
		}
	}

	out.NewName = naming.Synthesize(a.Category, out.Metadata, path)
	res := p.Renamer.Rename(ctx, path, out.NewName)
	out.NewPath = res.To
	switch res.Status {
	case constants.RenameStatusRenamed:
		out.Status = constants.OutcomeRenamed
	case constants.RenameStatusPlanned:
		out.Status = constants.OutcomePlanned
	default:
		out.Status, out.Err = constants.OutcomeFailed, res.Err
	}

	logger.Info("document processed",
		"status", out.Status,
		"category", out.Category,
		"new_name", out.NewName,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out
}

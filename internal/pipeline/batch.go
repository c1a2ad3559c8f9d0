package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

// FileProcessor handles one file.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) Outcome
}

// FileProcessorFunc adapts a function to FileProcessor.
type FileProcessorFunc func(ctx context.Context, path string) Outcome

func (f FileProcessorFunc) ProcessFile(ctx context.Context, path string) Outcome {
	return f(ctx, path)
}

// Batch processes a list of files with a bounded number of workers.
type Batch struct {
	proc    FileProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Batch)

// WithWorkers sets the pool size. One or fewer runs files sequentially.
func WithWorkers(n int) Option {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProcessTimeout bounds the time spent on a single file.
func WithProcessTimeout(d time.Duration) Option {
	return func(b *Batch) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func NewBatch(proc FileProcessor, logger *slog.Logger, opts ...Option) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Batch{proc: proc, logger: logger, workers: 1, timeout: 3 * time.Minute}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run processes paths and returns one outcome per path, in input order.
// Files not started before ctx is done are reported as FAILED.
func (b *Batch) Run(ctx context.Context, paths []string) []Outcome {
	start := time.Now()
	out := make([]Outcome, len(paths))

	if b.workers <= 1 {
		for i, p := range paths {
			out[i] = b.one(ctx, p)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(b.workers)
		for i, p := range paths {
			i, p := i, p
			g.Go(func() error {
				out[i] = b.one(ctx, p)
				return nil
			})
		}
		_ = g.Wait()
	}

	counts := map[constants.OutcomeStatus]int{}
	for _, o := range out {
		counts[o.Status]++
	}
	common.LoggerFrom(ctx, b.logger).Info("batch finished",
		"files", len(paths),
		"workers", b.workers,
		"renamed", counts[constants.OutcomeRenamed],
		"planned", counts[constants.OutcomePlanned],
		"skipped", counts[constants.OutcomeSkipped],
		"failed", counts[constants.OutcomeFailed],
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out
}

func (b *Batch) one(ctx context.Context, path string) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Path: path, Category: constants.Unknown, Metadata: entity.NewMetadata(), Status: constants.OutcomeFailed, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.proc.ProcessFile(ctx, path)
}

package naming

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	retry "github.com/sethvargo/go-retry"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
)

// Config controls rename behavior.
type Config struct {
	DryRun      bool
	MaxAttempts uint64        // total tries for transient lock errors, default 3
	Backoff     time.Duration // constant wait between tries, default 100ms
	MaxSuffix   int           // highest collision suffix tried, default 1000
}

// Result is the tagged outcome of one rename. Err is set only when Status
// is FAILED.
type Result struct {
	Status constants.RenameStatus
	From   string
	To     string
	Err    error
}

// Renamer moves files next to themselves under a new name. Target selection
// and the move happen under one lock, so concurrent callers never pick the
// same free name.
type Renamer struct {
	cfg    Config
	logger *slog.Logger
	rename func(oldpath, newpath string) error

	mu      sync.Mutex
	planned map[string]struct{}
}

// NewRenamer creates a renamer.
func NewRenamer(cfg Config, logger *slog.Logger) *Renamer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 100 * time.Millisecond
	}
	if cfg.MaxSuffix <= 0 {
		cfg.MaxSuffix = 1000
	}
	return &Renamer{cfg: cfg, logger: logger, rename: os.Rename, planned: make(map[string]struct{})}
}

// Rename moves src to newName in the same directory. An existing target is
// never overwritten: "_1", "_2", ... is appended before the extension
// until a free name is found. In dry-run mode the target is computed and
// reserved but nothing is moved.
func (r *Renamer) Rename(ctx context.Context, src, newName string) Result {
	logger := common.LoggerFrom(ctx, r.logger).With("from", src)
	res := Result{From: src}

	if newName == "" || newName != filepath.Base(newName) || newName == "." || newName == ".." {
		return r.fail(logger, res, common.ErrInvalidInput, fmt.Errorf("bad target name %q", newName))
	}
	if _, err := os.Stat(src); err != nil {
		return r.fail(logger, res, common.ErrNotFound, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.freeTarget(src, filepath.Join(filepath.Dir(src), newName))
	if err != nil {
		return r.fail(logger, res, common.ErrRename, err)
	}
	res.To = target

	if r.cfg.DryRun {
		r.planned[target] = struct{}{}
		res.Status = constants.RenameStatusPlanned
		logger.Info("rename planned", "to", target)
		return res
	}

	if target == src {
		res.Status = constants.RenameStatusRenamed
		logger.Info("file already has its target name")
		return res
	}

	attempts := 0
	backoff := retry.WithMaxRetries(r.cfg.MaxAttempts-1, retry.NewConstant(r.cfg.Backoff))
	err = retry.Do(ctx, backoff, func(context.Context) error {
		attempts++
		err := r.rename(src, target)
		if isTransient(err) {
			logger.Debug("rename blocked, retrying", "to", target, "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		res.To = ""
		return r.fail(logger, res, common.ErrRename, fmt.Errorf("after %d attempt(s): %w", attempts, err))
	}

	res.Status = constants.RenameStatusRenamed
	logger.Info("file renamed", "to", target, "attempts", attempts)
	return res
}

// freeTarget returns want, or want with the first free numeric suffix.
// src itself counts as free, so an already suffixed file stays put.
func (r *Renamer) freeTarget(src, want string) (string, error) {
	if want == src {
		return want, nil
	}
	if !r.taken(want) {
		return want, nil
	}
	ext := filepath.Ext(want)
	base := strings.TrimSuffix(want, ext)
	for i := 1; i <= r.cfg.MaxSuffix; i++ {
		cand := fmt.Sprintf("%s_%d%s", base, i, ext)
		if cand == src || !r.taken(cand) {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d suffixes", filepath.Base(want), r.cfg.MaxSuffix)
}

func (r *Renamer) taken(path string) bool {
	if _, ok := r.planned[path]; ok {
		return true
	}
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func (r *Renamer) fail(logger *slog.Logger, res Result, kind, err error) Result {
	res.Status = constants.RenameStatusFailed
	res.Err = common.NewAppError("RENAME_ERROR", "rename failed", fmt.Errorf("%w: %w", kind, err))
	logger.Warn("rename failed", "error", res.Err)
	return res
}

// isTransient reports errors caused by another process holding the file.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY) || errors.Is(err, syscall.EAGAIN)
}

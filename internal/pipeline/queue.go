package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
)

// Queue feeds files arriving over time (a watched folder) to a fixed set of
// workers. Paths the queue itself produced by renaming are ignored when they
// come back as new-file events.
type Queue struct {
	base      context.Context
	proc      FileProcessor
	logger    *slog.Logger
	workers   int
	timeout   time.Duration
	onOutcome func(Outcome)

	ch     chan string
	sendMu sync.RWMutex // held exclusively only to close ch
	wg     sync.WaitGroup
	once   sync.Once

	mu       sync.Mutex
	closed   bool
	inFlight map[string]struct{}
	produced map[string]struct{}
}

type QueueOption func(*Queue)

func WithQueueWorkers(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan string, n)
		}
	}
}

func WithQueueTimeout(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithQueueContext sets the context whose values (run ID) every file is
// processed under. Its cancellation is ignored: Shutdown drains the queue.
func WithQueueContext(ctx context.Context) QueueOption {
	return func(q *Queue) {
		if ctx != nil {
			q.base = context.WithoutCancel(ctx)
		}
	}
}

// WithOutcomeHandler registers fn to receive every outcome. It is called
// from worker goroutines.
func WithOutcomeHandler(fn func(Outcome)) QueueOption {
	return func(q *Queue) {
		q.onOutcome = fn
	}
}

func NewQueue(proc FileProcessor, logger *slog.Logger, opts ...QueueOption) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		base:     context.Background(),
		proc:     proc,
		logger:   logger,
		workers:  1,
		timeout:  3 * time.Minute,
		ch:       make(chan string, 256),
		inFlight: make(map[string]struct{}),
		produced: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.logger = common.LoggerFrom(q.base, q.logger)
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for path := range q.ch {
					ctx, cancel := context.WithTimeout(q.base, q.timeout)
					out := q.proc.ProcessFile(ctx, path)
					cancel()
					q.finish(path, out)

					if out.Status == constants.OutcomeFailed {
						q.logger.Error("processing failed", "worker_id", workerID, "path", path, "error", out.Err)
					}
					if q.onOutcome != nil {
						q.onOutcome(out)
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) finish(path string, out Outcome) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, path)
	if out.NewPath != "" && out.NewPath != path {
		q.produced[out.NewPath] = struct{}{}
	}
}

// Enqueue schedules path. It reports false when the path was dropped:
// already queued, produced by an earlier rename, or the queue is closed.
// A full queue blocks until a worker frees a slot.
func (q *Queue) Enqueue(path string) bool {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if !q.admit(path) {
		return false
	}

	select {
	case q.ch <- path:
		q.logger.Info("queued file for processing", "path", path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", path)
		q.ch <- path
	}
	return true
}

func (q *Queue) admit(path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", path)
		return false
	}
	if _, ok := q.produced[path]; ok {
		q.logger.Debug("ignoring renamed output", "path", path)
		return false
	}
	if _, ok := q.inFlight[path]; ok {
		return false
	}
	q.inFlight[path] = struct{}{}
	return true
}

// Shutdown stops accepting paths and waits for queued work to drain or for
// ctx to end.
func (q *Queue) Shutdown(ctx context.Context) {
	q.sendMu.Lock()
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.sendMu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.ch)
	q.sendMu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

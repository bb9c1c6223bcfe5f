package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Job is a unit of asynchronous work.
type Job func(ctx context.Context) error

// ErrQueueClosed is returned by Enqueue once Shutdown has begun.
var ErrQueueClosed = errors.New("dispatch queue is shut down")

// Queue decouples side-effect creation from the HTTP request that
// triggered it. Two implementations exist: a worker-pool queue for
// production and an eager queue that runs jobs inline for deterministic
// tests and single-process deployments.
type Queue interface {
	Enqueue(ctx context.Context, name string, job Job) error
}

// EagerQueue executes jobs synchronously in the caller's goroutine.
// Errors propagate to the caller, which makes event-driven side effects
// observable in tests.
type EagerQueue struct{}

func NewEagerQueue() *EagerQueue {
	return &EagerQueue{}
}

func (q *EagerQueue) Enqueue(ctx context.Context, name string, job Job) error {
	return job(ctx)
}

type queuedJob struct {
	name string
	job  Job
}

// WorkerQueue runs jobs on a fixed pool of workers fed by a buffered
// channel. Job failures are logged and swallowed; the enqueueing request
// has already been answered by the time the job runs.
//
// The jobs channel is never closed: Shutdown signals via done so that an
// Enqueue racing shutdown returns an error instead of panicking on a
// closed channel.
type WorkerQueue struct {
	workerCount int
	jobs        chan queuedJob
	done        chan struct{}
	wg          sync.WaitGroup
	logger      *slog.Logger
	closed      bool
	closeMux    sync.Mutex
}

// NewWorkerQueue creates a queue with the specified number of workers.
func NewWorkerQueue(workerCount int, logger *slog.Logger) *WorkerQueue {
	if workerCount <= 0 {
		workerCount = 4
	}
	return &WorkerQueue{
		workerCount: workerCount,
		jobs:        make(chan queuedJob, workerCount*16),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Start launches worker goroutines
func (q *WorkerQueue) Start() {
	for i := 0; i < q.workerCount; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.logger.Info("dispatch queue started", "workers", q.workerCount)
}

// Enqueue submits a job for asynchronous execution. The caller's context
// is not carried into execution: the job must outlive the request.
func (q *WorkerQueue) Enqueue(ctx context.Context, name string, job Job) error {
	q.closeMux.Lock()
	closed := q.closed
	q.closeMux.Unlock()
	if closed {
		q.logger.Warn("dispatch queue shutting down, job rejected", "job", name)
		return ErrQueueClosed
	}

	select {
	case q.jobs <- queuedJob{name: name, job: job}:
		return nil
	case <-q.done:
		// Shutdown began while we were blocked on a full buffer.
		q.logger.Warn("dispatch queue shutting down, job rejected", "job", name)
		return ErrQueueClosed
	}
}

// Shutdown stops accepting jobs, drains the backlog, and waits for the
// workers to exit. Safe to call more than once.
func (q *WorkerQueue) Shutdown() {
	q.closeMux.Lock()
	if q.closed {
		q.closeMux.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.closeMux.Unlock()
	q.wg.Wait()
	q.logger.Info("dispatch queue stopped")
}

func (q *WorkerQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case qj := <-q.jobs:
			q.run(qj)
		case <-q.done:
			// Drain whatever is already buffered, then exit.
			for {
				select {
				case qj := <-q.jobs:
					q.run(qj)
				default:
					return
				}
			}
		}
	}
}

func (q *WorkerQueue) run(qj queuedJob) {
	if err := qj.job(context.Background()); err != nil {
		// Failures never reach the originating caller.
		q.logger.Error("dispatch job failed", "job", qj.name, "error", err)
	}
}

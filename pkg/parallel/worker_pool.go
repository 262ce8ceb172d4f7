// Package parallel runs independent simulation runs on a bounded pool of
// goroutines.
package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/dd0wney/wsn-resilience/pkg/logging"
)

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")

	// ErrPoolClosed is returned when work is offered to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")

	// ErrTaskPanic wraps the value recovered from a panicking task.
	ErrTaskPanic = errors.New("task panicked")
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = 1024

// PoolOption configures a WorkerPool.
type PoolOption func(*WorkerPool)

// WithLogger sets the logger that reports recovered task panics.
func WithLogger(logger logging.Logger) PoolOption {
	return func(wp *WorkerPool) {
		wp.logger = logger.With(logging.Component("worker_pool"))
	}
}

// task is a queued unit of work. onPanic, when set, receives the recovered
// panic as an ErrTaskPanic error.
type task struct {
	run     func()
	onPanic func(error)
}

// WorkerPool manages a fixed set of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan task
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger
}

// NewWorkerPool creates a pool with the given number of workers. Zero or
// negative counts select runtime.NumCPU().
func NewWorkerPool(workers int, opts ...PoolOption) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan task, workers*2),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.runTask(task)
	}
}

// runTask isolates a panicking task so the worker keeps serving the queue.
func (wp *WorkerPool) runTask(t task) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrTaskPanic, r)
			wp.logger.Error("worker task panic recovered", logging.Error(err))
			if t.onPanic != nil {
				t.onPanic(err)
			}
		}
	}()
	t.run()
}

// Submit queues fn. It blocks while the queue is full and returns false if
// the pool is closed. A panic in fn is logged and otherwise dropped.
func (wp *WorkerPool) Submit(fn func()) bool {
	return wp.submit(task{run: fn})
}

// SubmitWithRecovery is Submit, with onPanic called from the worker when fn
// panics.
func (wp *WorkerPool) SubmitWithRecovery(fn func(), onPanic func(error)) bool {
	return wp.submit(task{run: fn, onPanic: onPanic})
}

func (wp *WorkerPool) submit(t task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- t
	return true
}

// Close stops accepting tasks and waits for the queued ones to finish.
// It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

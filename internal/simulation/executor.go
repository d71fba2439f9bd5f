package simulation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lawnchairsociety/lootodds/internal/logger"
)

var (
	// ErrWorkerClosed is returned by Submit after Close
	ErrWorkerClosed = errors.New("simulation: worker closed")

	// ErrWorkerBusy is returned by Submit when the job queue is full
	ErrWorkerBusy = errors.New("simulation: worker queue full")
)

// Executor runs simulation tasks. Submit either accepts the task, which will
// then run to completion, or returns an error so the caller can run it
// inline instead.
type Executor interface {
	Submit(task func()) error
}

// Inline runs every task synchronously on the caller's goroutine
type Inline struct{}

// Submit runs the task immediately
func (Inline) Submit(task func()) error {
	task()
	return nil
}

type job struct {
	id   uuid.UUID
	task func()
}

// Worker is a single long-lived goroutine fed by a bounded queue. Reuse one
// Worker for repeated requests instead of creating one per call.
type Worker struct {
	jobs chan job
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewWorker starts a worker with the given queue size
func NewWorker(queueSize int) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	w := &Worker{
		jobs: make(chan job, queueSize),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for j := range w.jobs {
		log := logger.With("job", j.id)
		log.Debug("worker job started", "queued", len(w.jobs))
		start := time.Now()
		j.task()
		log.Debug("worker job finished", "elapsed", time.Since(start))
	}
}

// Submit queues a task without blocking
func (w *Worker) Submit(task func()) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWorkerClosed
	}

	select {
	case w.jobs <- job{id: uuid.New(), task: task}:
		return nil
	default:
		return ErrWorkerBusy
	}
}

// Close stops accepting tasks and waits for queued ones to finish
func (w *Worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}

// Package worker runs background upload processing on a bounded pool, so
// in-flight work is tracked and drained at shutdown instead of being fired
// and forgotten.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrQueueFull means the task queue has no room; the caller should
	// reject the upload rather than block the request.
	ErrQueueFull = errors.New("worker queue is full")

	// ErrShuttingDown means the pool no longer accepts tasks.
	ErrShuttingDown = errors.New("worker pool is shutting down")
)

// Task is one unit of background work.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed number of workers over a buffered queue.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
	log   zerolog.Logger

	mu     sync.Mutex
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewPool starts workers goroutines consuming a queue of queueSize tasks.
func NewPool(workers, queueSize int, log zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:   make(chan Task, queueSize),
		log:     log.With().Str("component", "worker-pool").Logger(),
		baseCtx: ctx,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.log.Debug().Int("worker", id).Msg("task started")
		task(p.baseCtx)
		p.log.Debug().Int("worker", id).Msg("task finished")
	}
}

// Submit enqueues a task without blocking. It fails when the queue is full
// or the pool is shutting down.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrShuttingDown
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish, or until ctx expires, in which case running tasks are cancelled
// through their context.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

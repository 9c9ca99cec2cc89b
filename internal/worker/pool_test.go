package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 8, zerolog.Nop())

	var done int32
	for i := 0; i < 5; i++ {
		err := p.Submit(func(ctx context.Context) {
			atomic.AddInt32(&done, 1)
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if n := atomic.LoadInt32(&done); n != 5 {
		t.Errorf("expected 5 tasks to run, got %d", n)
	}
}

func TestPoolQueueFull(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())
	defer p.Shutdown(context.Background())

	block := make(chan struct{})
	// Occupy the single worker, then fill the single queue slot.
	p.Submit(func(ctx context.Context) { <-block })

	var err error
	deadline := time.After(time.Second)
	for {
		err = p.Submit(func(ctx context.Context) { <-block })
		if errors.Is(err, ErrQueueFull) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("never saw ErrQueueFull, last err %v", err)
		default:
		}
	}
	close(block)
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	err := p.Submit(func(ctx context.Context) {})
	if !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("expected ErrShuttingDown, got %v", err)
	}
}

func TestPoolShutdownWaitsForRunningTask(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())

	var finished int32
	started := make(chan struct{})
	p.Submit(func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
	})

	<-started
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if atomic.LoadInt32(&finished) != 1 {
		t.Error("Shutdown returned before the running task finished")
	}
}

func TestPoolShutdownDeadlineCancelsTaskContext(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())

	cancelled := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})

	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); err == nil {
		t.Fatal("expected deadline error from Shutdown")
	}

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("task context was never cancelled")
	}
}

package export

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(2)
	var running, peak atomic.Int32
	release := make(chan struct{})

	for range 5 {
		p.Go(func(context.Context) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			<-release
			running.Add(-1)
		}, func(error) {})
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	p.Wait()

	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestPool_ShutdownCancelsAndAborts(t *testing.T) {
	p := NewPool(1)
	started := make(chan struct{})
	var cancelled atomic.Bool
	var mu sync.Mutex
	var aborted []error

	p.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	}, func(error) {})
	<-started

	p.Go(func(context.Context) {
		t.Error("queued task must not run after shutdown")
	}, func(err error) {
		mu.Lock()
		aborted = append(aborted, err)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !cancelled.Load() {
		t.Error("running task did not observe cancellation")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(aborted) != 1 || !errors.Is(aborted[0], context.Canceled) {
		t.Errorf("aborted = %v, want one context.Canceled", aborted)
	}
}

func TestPool_ShutdownTimeout(t *testing.T) {
	p := NewPool(1)
	block := make(chan struct{})
	defer close(block)
	p.Go(func(context.Context) { <-block }, func(error) {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestPool_GoAfterShutdown(t *testing.T) {
	p := NewPool(1)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	var abortErr error
	p.Go(func(context.Context) {
		t.Error("task must not run after shutdown")
	}, func(err error) {
		abortErr = err
	})

	if !errors.Is(abortErr, context.Canceled) {
		t.Fatalf("abort err = %v, want context.Canceled", abortErr)
	}
	p.Wait()
}

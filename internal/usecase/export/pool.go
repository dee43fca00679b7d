package export

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs export tasks in the background with bounded concurrency.
// Tasks share a root context that Shutdown cancels.
type Pool struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool running at most maxConcurrent tasks at once.
func NewPool(maxConcurrent int) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go schedules task. If the pool shuts down before a slot frees up, abort
// is called with the cancellation cause instead. After Shutdown, abort runs
// synchronously and task never does.
func (p *Pool) Go(task func(ctx context.Context), abort func(err error)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		abort(fmt.Errorf("export pool closed: %w", context.Canceled))
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			abort(fmt.Errorf("export cancelled before start: %w", err))
			return
		}
		defer p.sem.Release(1)
		if err := p.ctx.Err(); err != nil {
			abort(fmt.Errorf("export cancelled before start: %w", err))
			return
		}
		task(p.ctx)
	}()
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown cancels running tasks and waits for them, or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("export pool shutdown: %w", ctx.Err())
	}
}

package render

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs render jobs with a fixed number of concurrent workers. Go never
// blocks the caller.
type Pool struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool. workers <= 0 means one worker per CPU.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(workers)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go schedules job. It reports false once the pool is closed.
func (p *Pool) Go(job func(ctx context.Context)) bool {
	if p.ctx.Err() != nil {
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			// jobs always run; a cancelled ctx tells them to give up
			job(p.ctx)
			return
		}
		defer p.sem.Release(1)
		job(p.ctx)
	}()
	return true
}

// Wait blocks until every scheduled job has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close cancels the pool context and waits for every job. Jobs still
// queued run once with the cancelled context.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Package parallel provides the bounded worker pool used by the kiflog
// CLI to convert batches of game description files concurrently. It
// offers controlled concurrency with backpressure so that large batches
// do not exhaust file handles or memory.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned when submitting work to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// Pool runs submitted tasks on a fixed set of worker goroutines.
// Submission applies backpressure through a bounded queue: when every
// worker is busy and the queue is full, Submit blocks until a slot
// frees or the context is done.
type Pool struct {
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewPool creates a pool with the given number of workers. A count of
// zero or less defaults to the number of CPU cores.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks: make(chan func(), workers*2),
		done:  make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			if task != nil {
				task()
			}
		case <-p.done:
			return
		}
	}
}

// Submit queues a task for execution. It blocks while the queue is full
// and returns the context's error if ctx is done first, or ErrClosed if
// the pool has been closed.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrClosed
	}
}

// Close stops the workers and waits for them to exit. Tasks still queued
// when Close is called may be dropped; callers must wait for submitted
// work to finish (for example with a sync.WaitGroup signaled by each
// task) before closing. Close is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

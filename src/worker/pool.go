package worker

import (
	"context"
	"log"
	"runtime"
	"sync"
)

// ResultCallback is invoked on job completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(name string, err error)

// Pool is a fixed-size worker pool with a small bounded queue (strict back-pressure).
// Jobs never touch drawing state; they only report back through their callback.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type job struct {
	ctx  context.Context
	name string
	run  func(context.Context) error
	cb   ResultCallback
}

const queueSlots = 4

// New creates a worker pool. Size defaults to NumCPU when size<=0.
// With size 1 jobs run in submission order.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, queueSlots)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: starting %s", j.name)
				err := runWithContext(j.ctx, j.run)
				log.Printf("Worker: %s completed, err=%v", j.name, err)
				if j.cb != nil {
					j.cb(j.name, err)
				}
			}
		}()
	}
}

// Submit enqueues a job if a queue slot is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, name string, run func(context.Context) error, cb ResultCallback) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job{ctx: ctx, name: name, run: run, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// runWithContext returns early with ctx.Err() when the context ends before run does;
// run keeps going in the background.
func runWithContext(ctx context.Context, run func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		return run(ctx)
	}
	resCh := make(chan error, 1)
	go func() { resCh <- run(ctx) }()
	select {
	case err := <-resCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

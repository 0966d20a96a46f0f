// Package parallel provides the worker pool used by the software renderer
// to rasterize framebuffer bands concurrently.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool fans independent work items out to a fixed set of goroutines.
//
// The software rasterizer partitions the framebuffer into horizontal bands
// and submits one item per band; items never share mutable state, so the
// pool needs no locking beyond the queue itself.
//
// Thread safety: Pool is safe for concurrent use after creation.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates a pool with the given number of workers.
// If workers <= 0, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting.
			for {
				select {
				case task := <-p.tasks:
					task()
				default:
					return
				}
			}
		case task := <-p.tasks:
			task()
		}
	}
}

// Do runs fn for every index in [0, n) across the pool's workers and waits
// for all invocations to finish. If the pool is closed, fn runs inline on
// the calling goroutine.
func (p *Pool) Do(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if !p.running.Load() {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var pending sync.WaitGroup
	pending.Add(n)
	for i := 0; i < n; i++ {
		i := i
		select {
		case p.tasks <- func() {
			defer pending.Done()
			fn(i)
		}:
		case <-p.done:
			// Pool is closing; run the item inline.
			fn(i)
			pending.Done()
		}
	}
	pending.Wait()
}

// Close stops the workers after draining queued work. Close is idempotent.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Package pool implements the bounded thread pool of spec.md §5: a worker
// count fixed by a CLI parameter (`cores`), over which the property drivers
// fan out their per-input and per-output-set searches, plus a cooperative
// stop-at-first-failure flag. secrets_step/randoms_step submit nothing to
// the pool: each search recursion runs synchronously inside its task.
package pool

import (
	"sync/atomic"

	co "github.com/republicprotocol/co-go"

	"github.com/CryptoExperts/ironmask-go/internal/metrics"
)

// Pool bounds concurrent task execution to a fixed worker count, layered on
// top of co-go's unbounded ParBegin/ParForAll the way core/task.Task drives
// its children in the teacher codebase.
type Pool struct {
	sem     chan struct{}
	stop    int32
	metrics *metrics.Registry
}

// New returns a pool with the given worker count. cores <= 0 is treated as
// unbounded (sem is never acquired).
func New(cores int) *Pool {
	p := &Pool{}
	if cores > 0 {
		p.sem = make(chan struct{}, cores)
	}
	return p
}

// WithMetrics attaches a metrics registry: every task submitted through Go
// or ForAll afterward increments TasksSpawned.
func (p *Pool) WithMetrics(reg *metrics.Registry) *Pool {
	p.metrics = reg
	return p
}

func (p *Pool) observeSpawn() {
	if p.metrics != nil {
		p.metrics.TasksSpawned.Inc()
	}
}

func (p *Pool) acquire() {
	if p.sem != nil {
		p.sem <- struct{}{}
	}
}

func (p *Pool) release() {
	if p.sem != nil {
		<-p.sem
	}
}

// Go runs every task concurrently (co.ParBegin), each gated by the pool's
// worker semaphore, and blocks until they all complete.
func (p *Pool) Go(tasks ...func()) {
	wrapped := make([]func(), len(tasks))
	for i, t := range tasks {
		t := t
		p.observeSpawn()
		wrapped[i] = func() {
			p.acquire()
			defer p.release()
			t()
		}
	}
	co.ParBegin(wrapped...)
}

// ForAll runs f(i) for i in [0,n) concurrently (co.ParForAll), each gated by
// the pool's worker semaphore, and blocks until they all complete.
func (p *Pool) ForAll(n int, f func(i int)) {
	slots := make([]struct{}, n)
	for range slots {
		p.observeSpawn()
	}
	co.ParForAll(slots, func(i int) {
		p.acquire()
		defer p.release()
		f(i)
	})
}

// RequestStop raises the cooperative "stop at first failure" flag (spec.md
// §5 "Cancellation"). It only sets the flag: no running task is interrupted,
// and no driver or search step in this module raises or checks it.
func (p *Pool) RequestStop() {
	atomic.StoreInt32(&p.stop, 1)
}

// StopRequested reports whether RequestStop has been called.
func (p *Pool) StopRequested() bool {
	return atomic.LoadInt32(&p.stop) != 0
}

// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool owns the workers and the shared scheduling state.

package concurrency

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momentics/frameexec/api"
)

// Pool is a fixed-size executor. Construct it once per process with New and
// tear it down with Close as the very last call.
type Pool struct {
	id       string
	threads  int
	affinity api.Affinity
	log      *zap.SugaredLogger

	state      *schedState
	completion completion
	blockingMu sync.Mutex // one blocking computation outstanding at a time
	external   sync.Mutex // owns lane `threads` for non-worker callers

	tasks     taskRegistry
	threadIDs sync.Map // OS thread id -> worker index
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    atomic.Bool

	stats counters
}

var _ api.Executor = (*Pool)(nil)

// New starts the workers and blocks until every one of them is running.
func New(opts Options) (*Pool, error) {
	opts = opts.withDefaults()

	threads := opts.Threads
	if threads < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreadCount, threads)
	}
	if threads == 0 {
		n, err := opts.Affinity.Parallelism()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParallelismUnavailable, err)
		}
		threads = n
	}

	p := &Pool{
		id:       uuid.NewString(),
		threads:  threads,
		affinity: opts.Affinity,
		state:    newSchedState(threads + 1),
	}
	p.log = opts.Logger.With("pool", p.id)
	p.completion.cond = sync.NewCond(&p.completion.mu)

	var cpus []int
	if opts.Pin {
		cpus = p.pinTargets()
	}
	p.start(cpus)

	p.log.Infow("executor started", "threads", threads, "pinned", p.stats.pinned.Load())
	return p, nil
}

// pinTargets returns the CPU ids workers should pin to; fewer ids than
// workers leaves the remaining workers unpinned.
func (p *Pool) pinTargets() []int {
	cpus, err := p.affinity.UsableCPUs()
	if err != nil {
		p.log.Warnw("cannot list usable CPUs, workers stay unpinned", "error", err)
		return nil
	}
	if p.threads > len(cpus) {
		p.log.Warnw("more workers than usable CPUs, extra workers stay unpinned",
			"threads", p.threads, "cpus", len(cpus))
	}
	return cpus
}

// start launches the workers and waits for each one to report in.
func (p *Pool) start(cpus []int) {
	ready := newStartBarrier()
	for i := 0; i < p.threads; i++ {
		w := &worker{index: i, cpu: -1}
		if i < len(cpus) {
			w.cpu = cpus[i]
		}
		p.wg.Add(1)
		go p.runWorker(w, ready)
	}
	ready.wait(p.threads)
}

// ID returns the identifier attached to this pool's log lines.
func (p *Pool) ID() string { return p.id }

// NumThreads returns the number of workers.
func (p *Pool) NumThreads() int { return p.threads }

// Close sets the shutdown flag, wakes every worker and joins them. Work that is
// already published is finished first. Close must not be called from a worker.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		s := p.state
		s.mu.Lock()
		s.shutdown = true
		s.cond.Broadcast()
		s.mu.Unlock()
		p.wg.Wait()
		p.log.Infow("executor stopped", "blocking_runs", p.stats.blockingRuns.Load())
	})
}

// startBarrier counts workers that reached their loop.
type startBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	started int
}

func newStartBarrier() *startBarrier {
	b := &startBarrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *startBarrier) arrive() {
	b.mu.Lock()
	b.started++
	b.cond.Broadcast()
	b.mu.Unlock()
}

func (b *startBarrier) wait(n int) {
	b.mu.Lock()
	for b.started < n {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

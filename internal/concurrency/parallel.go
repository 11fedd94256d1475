// File: internal/concurrency/parallel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Work-stealing parallel range. The owner publishes a job in its lane, claims
// indices itself and waits for every registered helper before returning.

package concurrency

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// rangeJob is a published index range.
type rangeJob struct {
	next atomic.Int64 // claim cursor, only increases
	_    cpu.CacheLinePad

	fn func(index, thread int)
	n  int64

	mu      sync.Mutex
	cond    *sync.Cond
	helpers int
}

func newRangeJob(n int, fn func(index, thread int)) *rangeJob {
	j := &rangeJob{fn: fn, n: int64(n)}
	j.cond = sync.NewCond(&j.mu)
	return j
}

// remaining reports whether unclaimed indices are left.
func (j *rangeJob) remaining() bool {
	return j.next.Load() < j.n
}

// drain claims and runs indices until the range is exhausted and returns how
// many this thread ran.
func (j *rangeJob) drain(thread int) int {
	ran := 0
	for {
		i := j.next.Add(1) - 1
		if i >= j.n {
			return ran
		}
		j.fn(int(i), thread)
		ran++
	}
}

func (j *rangeJob) join() {
	j.mu.Lock()
	j.helpers++
	j.mu.Unlock()
}

func (j *rangeJob) leave() {
	j.mu.Lock()
	j.helpers--
	if j.helpers == 0 {
		j.cond.Broadcast()
	}
	j.mu.Unlock()
}

// waitHelpers blocks until every registered helper has left.
func (j *rangeJob) waitHelpers() {
	j.mu.Lock()
	for j.helpers > 0 {
		j.cond.Wait()
	}
	j.mu.Unlock()
}

// ParallelIter calls fn(index, thread) once for each index in [0, n), using the
// caller and every idle worker. It returns after all indices have completed.
func (p *Pool) ParallelIter(n int, fn func(index, thread int)) {
	p.ParallelIterOn(p.ThreadIndex(), n, fn)
}

// ParallelIterOn is ParallelIter with the caller's thread index supplied
// explicitly. thread must be the index the caller was handed by the executor,
// or NonWorker.
func (p *Pool) ParallelIterOn(thread, n int, fn func(index, thread int)) {
	switch {
	case n <= 0:
		return
	case n == 1:
		fn(0, thread)
		p.stats.ownerIndices.Add(1)
		return
	}

	lane, release, ok := p.acquireLane(thread)
	if !ok {
		p.runInline(n, thread, fn)
		return
	}
	defer release()

	job := newRangeJob(n, fn)
	if !p.publish(lane, job) {
		p.runInline(n, thread, fn)
		return
	}
	defer p.retract(lane, job)

	p.stats.ownerIndices.Add(uint64(job.drain(thread)))
}

// ParallelChunks calls fn(start, end, thread) over consecutive chunks of at most
// chunk indices covering [0, n).
func (p *Pool) ParallelChunks(n, chunk int, fn func(start, end, thread int)) {
	if n <= 0 {
		return
	}
	if chunk <= 0 {
		chunk = 1
	}
	chunks := (n + chunk - 1) / chunk
	p.ParallelIterOn(p.ThreadIndex(), chunks, func(c, thread int) {
		start := c * chunk
		fn(start, min(start+chunk, n), thread)
	})
}

// acquireLane picks the slot the caller publishes into. Workers own their lane;
// non-workers share the external lane and fall back to inline execution when
// it is taken.
func (p *Pool) acquireLane(thread int) (lane int, release func(), ok bool) {
	if p.closed.Load() {
		return 0, nil, false
	}
	if p.isWorker(thread) {
		return thread, func() {}, true
	}
	if !p.external.TryLock() {
		return 0, nil, false
	}
	return p.threads, p.external.Unlock, true
}

// publish stores job in lane and wakes every idle worker. It refuses when the
// lane is already in use (a nested range on the same thread) or the pool is
// shutting down.
func (p *Pool) publish(lane int, job *rangeJob) bool {
	s := p.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown || s.ranges[lane] != nil {
		return false
	}
	s.ranges[lane] = job
	s.cond.Broadcast()
	p.stats.rangesPublished.Add(1)
	return true
}

// retract clears the lane so no new helper can join, then waits for the
// helpers that already joined.
func (p *Pool) retract(lane int, job *rangeJob) {
	s := p.state
	s.mu.Lock()
	s.ranges[lane] = nil
	s.mu.Unlock()
	job.waitHelpers()
}

func (p *Pool) runInline(n, thread int, fn func(index, thread int)) {
	p.stats.inlineRanges.Add(1)
	for i := 0; i < n; i++ {
		fn(i, thread)
	}
	p.stats.ownerIndices.Add(uint64(n))
}

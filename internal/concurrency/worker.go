// File: internal/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker loop: Idle -> ClaimedBlockingTask -> Idle, Idle -> HelpingRange -> Idle,
// Idle -> ShuttingDown.

package concurrency

import (
	"runtime"
)

// worker is one persistent executor thread.
type worker struct {
	index int
	cpu   int // -1 when unpinned
}

// runWorker is the body of a worker goroutine. The OS thread is never unlocked,
// so it terminates together with the worker.
func (p *Pool) runWorker(w *worker, ready *startBarrier) {
	defer p.wg.Done()
	runtime.LockOSThread()

	p.pin(w)
	if unregister := p.register(w.index); unregister != nil {
		defer unregister()
	}
	ready.arrive()

	p.loop(w)
}

// pin binds the worker thread to its CPU. Failures only cost locality.
func (p *Pool) pin(w *worker) {
	if w.cpu < 0 {
		return
	}
	if err := p.affinity.Pin(w.cpu); err != nil {
		p.log.Warnw("failed to pin worker, continuing unpinned", "worker", w.index, "cpu", w.cpu, "error", err)
		w.cpu = -1
		return
	}
	p.stats.pinned.Add(1)
}

// loop waits for work under the scheduling mutex. A pending blocking task is
// preferred over helping a range; shutdown is observed only when neither exists.
func (p *Pool) loop(w *worker) {
	s := p.state
	for {
		s.mu.Lock()
		for !s.shutdown && !s.hasWorkLocked() {
			s.cond.Wait()
		}

		if t := s.takePendingLocked(); t != nil {
			s.mu.Unlock()
			p.runClaimed(w, t)
			continue
		}

		if job := s.findRangeLocked(w.index + 1); job != nil {
			// Registered before the lock is released so the owner cannot
			// retire the job in between.
			job.join()
			s.mu.Unlock()
			p.help(w, job)
			continue
		}

		if s.shutdown {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// help drains indices from someone else's range, then deregisters.
func (p *Pool) help(w *worker, job *rangeJob) {
	defer job.leave()
	p.stats.helperJoins.Add(1)
	if n := job.drain(w.index); n > 0 {
		p.stats.helperIndices.Add(uint64(n))
	}
}

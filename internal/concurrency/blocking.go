// File: internal/concurrency/blocking.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking execution path: the caller publishes one computation and sleeps on a
// completion record until the worker that claimed it reports completion.

package concurrency

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/frameexec/api"
)

// completion is signalled once per blocking call by the worker that ran the
// task whose identity matches active.
type completion struct {
	active atomic.Pointer[Task]
	mu     sync.Mutex
	cond   *sync.Cond
	done   bool
}

func (c *completion) signal() {
	c.mu.Lock()
	c.done = true
	c.cond.Signal()
	c.mu.Unlock()
}

// wait blocks until signal and re-arms the record for the next call.
func (c *completion) wait() {
	c.mu.Lock()
	for !c.done {
		c.cond.Wait()
	}
	c.done = false
	c.mu.Unlock()
}

// ExecuteBlocking runs c to completion on exactly one worker while the caller
// blocks. Everything c wrote is visible to the caller once this returns.
// Called from a worker, or after Close, c is polled inline on the caller.
// Recognising a worker caller needs OS thread ids; where ThreadIndex always
// reports NonWorker a nested call from inside c never returns.
//
// Passing a computation that another call is still running panics with
// ErrPollInProgress; see taskRegistry for which computations are tracked.
func (p *Pool) ExecuteBlocking(c api.Computation) {
	if c == nil {
		return
	}
	if p.closed.Load() || p.ThreadIndex() != NonWorker {
		t, release := p.tasks.acquire(c)
		defer release()
		p.pollInline(t)
		return
	}

	p.blockingMu.Lock()
	defer p.blockingMu.Unlock()

	t, release := p.tasks.acquire(c)
	defer release()
	p.completion.active.Store(t)
	defer p.completion.active.Store(nil)

	s := p.state
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		p.pollInline(t)
		return
	}
	if s.pending != nil {
		s.mu.Unlock()
		panic("concurrency: blocking task slot already occupied")
	}
	s.pending = t
	s.cond.Signal()
	s.mu.Unlock()

	p.completion.wait()
}

// runClaimed polls a task taken from the pending slot.
func (p *Pool) runClaimed(w *worker, t *Task) {
	mustBeReady(t, w.index)
	p.stats.blockingRuns.Add(1)
	if p.completion.active.Load() == t {
		p.completion.signal()
	}
}

func (p *Pool) pollInline(t *Task) {
	mustBeReady(t, NonWorker)
	p.stats.blockingRuns.Add(1)
}

// mustBeReady polls t once. Resumable computations and double dispatch are
// contract violations with no recovery path.
func mustBeReady(t *Task, thread int) {
	state, err := t.Poll()
	if err != nil {
		panic(fmt.Errorf("concurrency: thread %d: %w", thread, err))
	}
	if state != api.PollReady {
		panic(fmt.Sprintf("concurrency: blocking computation returned %s; only single-poll computations are supported", state))
	}
}

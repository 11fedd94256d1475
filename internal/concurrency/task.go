// File: internal/concurrency/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Task adapts an api.Computation to the single-poll model of the executor.

package concurrency

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/momentics/frameexec/api"
)

// Task wraps a computation with a re-entrancy guard and a no-op waker.
type Task struct {
	computation api.Computation
	polling     atomic.Bool
	waker       noopWaker
}

// NewTask wraps c.
func NewTask(c api.Computation) *Task {
	t := &Task{computation: c}
	t.waker = noopWaker{task: t}
	return t
}

// Poll polls the computation once. A poll attempted while another goroutine is
// inside Poll returns ErrPollInProgress without touching the computation.
func (t *Task) Poll() (api.PollState, error) {
	if !t.polling.CompareAndSwap(false, true) {
		return api.PollPending, ErrPollInProgress
	}
	defer t.polling.Store(false)
	return t.computation.Poll(t.waker), nil
}

// noopWaker never schedules a second poll; Clone keeps the task identity.
type noopWaker struct {
	task *Task
}

func (w noopWaker) Wake() {}

func (w noopWaker) Clone() api.Waker { return noopWaker{task: w.task} }

// taskRegistry tracks the computations currently inside ExecuteBlocking so a
// computation shared between callers is never polled twice at once. Only
// computations with reference identity (pointers, channels) are tracked;
// function and plain value computations have no comparable identity.
type taskRegistry struct {
	inFlight sync.Map // identity -> *Task
}

// acquire wraps c in a Task and marks c in flight until release is called.
// It panics with ErrPollInProgress when c is already in flight.
func (r *taskRegistry) acquire(c api.Computation) (t *Task, release func()) {
	t = NewTask(c)
	key, ok := identityOf(c)
	if !ok {
		return t, func() {}
	}
	if _, loaded := r.inFlight.LoadOrStore(key, t); loaded {
		panic(fmt.Errorf("concurrency: computation %T: %w", c, ErrPollInProgress))
	}
	return t, func() { r.inFlight.CompareAndDelete(key, t) }
}

func identityOf(c api.Computation) (any, bool) {
	switch reflect.ValueOf(c).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return c, true
	}
	return nil, false
}

// File: internal/concurrency/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared scheduling state guarded by a single mutex and condition variable.

package concurrency

import "sync"

type schedState struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  *Task
	ranges   []*rangeJob
	shutdown bool
}

func newSchedState(lanes int) *schedState {
	s := &schedState{ranges: make([]*rangeJob, lanes)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// hasWorkLocked reports whether a worker has anything to do.
func (s *schedState) hasWorkLocked() bool {
	return s.pending != nil || s.findRangeLocked(0) != nil
}

// findRangeLocked returns a published job that still has unclaimed indices,
// scanning the lanes round-robin from start.
func (s *schedState) findRangeLocked(start int) *rangeJob {
	lanes := len(s.ranges)
	for i := 0; i < lanes; i++ {
		if job := s.ranges[(start+i)%lanes]; job != nil && job.remaining() {
			return job
		}
	}
	return nil
}

// takePendingLocked clears and returns the pending blocking task.
func (s *schedState) takePendingLocked() *Task {
	t := s.pending
	s.pending = nil
	return t
}

// File: api/computation.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-shot computation contract driven by Executor.ExecuteBlocking.

package api

// PollState is the outcome of a single Poll.
type PollState int

const (
	// PollReady means the computation ran to completion.
	PollReady PollState = iota
	// PollPending means the computation wants to be polled again. Executors in
	// this module never poll twice and treat it as a fatal contract violation.
	PollPending
)

func (s PollState) String() string {
	switch s {
	case PollReady:
		return "ready"
	case PollPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Waker is handed to Poll so the computation could request another poll.
type Waker interface {
	Wake()
	// Clone returns a waker identifying the same computation.
	Clone() Waker
}

// Computation is a unit of work expressed as a pollable state machine.
type Computation interface {
	Poll(w Waker) PollState
}

// ComputationFunc adapts a plain function into a Computation that is always
// ready after its first poll.
type ComputationFunc func()

// Poll runs f and reports PollReady.
func (f ComputationFunc) Poll(Waker) PollState {
	f()
	return PollReady
}

// File: internal/concurrency/identity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker identity. Every worker stays locked to its OS thread for its whole
// life, so no other goroutine can ever observe a worker's thread id.

package concurrency

import (
	"github.com/momentics/frameexec/affinity"
	"github.com/momentics/frameexec/api"
)

// NonWorker is reported by ThreadIndex for goroutines outside the pool.
const NonWorker = api.NonWorker

// register records the calling worker's OS thread. It returns the function
// removing the record, or nil where thread ids are unavailable.
func (p *Pool) register(index int) func() {
	tid, ok := affinity.CurrentThreadID()
	if !ok {
		return nil
	}
	p.threadIDs.Store(tid, index)
	return func() { p.threadIDs.Delete(tid) }
}

// ThreadIndex returns the worker index of the caller, or NonWorker. On
// platforms without OS thread ids every caller is reported as NonWorker; use
// ParallelIterOn with the index handed to closures to nest ranges there.
func (p *Pool) ThreadIndex() int {
	tid, ok := affinity.CurrentThreadID()
	if !ok {
		return NonWorker
	}
	if v, found := p.threadIDs.Load(tid); found {
		return v.(int)
	}
	return NonWorker
}

// isWorker reports whether thread is a valid worker index of this pool.
func (p *Pool) isWorker(thread int) bool {
	return thread >= 0 && thread < p.threads
}

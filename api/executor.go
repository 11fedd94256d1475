// File: api/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor contract for the per-frame blocking computation and the
// work-stealing parallel range.

package api

// NonWorker is the thread index reported by goroutines that are not pool workers.
const NonWorker = -1

// Executor runs one blocking computation at a time and lets any caller spread a
// bounded index range over the idle workers.
type Executor interface {
	// NumThreads returns the fixed number of worker threads.
	NumThreads() int

	// ThreadIndex returns the worker index of the calling goroutine, or NonWorker.
	ThreadIndex() int

	// ParallelIter calls fn exactly once for every index in [0, n). The caller
	// takes part in the range and returns only after every index has finished.
	ParallelIter(n int, fn func(index, thread int))

	// ParallelChunks splits [0, n) into chunks of at most chunk indices and calls
	// fn once per chunk, with the same guarantees as ParallelIter.
	ParallelChunks(n, chunk int, fn func(start, end, thread int))

	// ExecuteBlocking hands c to exactly one worker and blocks until it has
	// been polled to completion.
	ExecuteBlocking(c Computation)

	// Close stops and joins every worker. It must be the last call on the executor.
	Close()
}

// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency implements the frame task executor: a fixed set of
// workers, each locked to its own OS thread and optionally pinned to a distinct
// CPU, serving two kinds of work through one mutex/condition-variable pair:
//
//   - ExecuteBlocking: one single-shot computation per call, polled by exactly
//     one worker while the caller blocks on a completion record;
//   - ParallelIter / ParallelChunks: a bounded index range published in the
//     caller's lane, drained by the caller and by any idle worker through an
//     atomic claim cursor.
//
// Scheduling state:
//
//	pending   *Task          one blocking computation waiting to be claimed
//	ranges    []*rangeJob    one slot per lane: workers 0..N-1, external lane N
//	shutdown  bool           set once by Close
//
// A lane's slot is only written by the goroutine owning the lane. Workers that
// help a range register on the job's helper count while still holding the
// scheduling mutex, so the owner cannot retire the job between the scan and the
// registration. The owner returns only after the count drops back to zero.
package concurrency

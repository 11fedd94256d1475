// File: adapters/executor_adapter.go
// Package adapters provides glue between internal concurrency and api.Executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ExecutorAdapter implements api.Executor by delegating to concurrency.Pool and
// reporting frame timings and pool counters to an api.Control.

package adapters

import (
	"time"

	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/internal/concurrency"
)

// MetricPrefix namespaces pool counters in the control metrics.
const MetricPrefix = "executor."

// ExecutorAdapter wraps a concurrency.Pool to satisfy the api.Executor contract.
type ExecutorAdapter struct {
	pool    *concurrency.Pool
	control api.Control
}

var _ api.Executor = (*ExecutorAdapter)(nil)

// NewExecutorAdapter starts a pool with opts. A nil ctrl disables reporting.
func NewExecutorAdapter(opts concurrency.Options, ctrl api.Control) (*ExecutorAdapter, error) {
	p, err := concurrency.New(opts)
	if err != nil {
		return nil, err
	}
	ea := &ExecutorAdapter{pool: p, control: ctrl}
	if ctrl != nil {
		ctrl.SetMetric(MetricPrefix+"id", p.ID())
		ctrl.RegisterDebugProbe("executor.stats", func() any { return p.Stats() })
		ea.PublishStats()
	}
	return ea, nil
}

func (ea *ExecutorAdapter) NumThreads() int { return ea.pool.NumThreads() }

func (ea *ExecutorAdapter) ThreadIndex() int { return ea.pool.ThreadIndex() }

func (ea *ExecutorAdapter) ParallelIter(n int, fn func(index, thread int)) {
	ea.pool.ParallelIter(n, fn)
}

func (ea *ExecutorAdapter) ParallelChunks(n, chunk int, fn func(start, end, thread int)) {
	ea.pool.ParallelChunks(n, chunk, fn)
}

// ExecuteBlocking runs c as one frame and records its wall time. Nested calls
// from inside a frame are not recorded as frames.
func (ea *ExecutorAdapter) ExecuteBlocking(c api.Computation) {
	if ea.control == nil || c == nil || ea.pool.ThreadIndex() != api.NonWorker {
		ea.pool.ExecuteBlocking(c)
		return
	}
	start := time.Now()
	ea.pool.ExecuteBlocking(c)
	ea.control.RecordFrame(time.Since(start))
}

// PublishStats copies the pool counters into the control metrics.
func (ea *ExecutorAdapter) PublishStats() {
	if ea.control == nil {
		return
	}
	ea.control.SetMetrics(MetricPrefix, ea.pool.Stats())
}

// Close stops the pool and publishes the final counters.
func (ea *ExecutorAdapter) Close() {
	ea.pool.Close()
	ea.PublishStats()
}

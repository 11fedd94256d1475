// File: facade/frameexec.go
// Unified facade layer for the frameexec library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FrameExec aggregates the executor, affinity and control components behind a
// single process-wide instance built from immutable configuration.

package facade

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/momentics/frameexec/adapters"
	"github.com/momentics/frameexec/affinity"
	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/internal/concurrency"
)

// Config holds parameters immutable per run.
type Config struct {
	Threads     int                // Worker count; 0 uses the available parallelism
	PinThreads  bool               // Pin worker i to the i-th usable CPU
	StatsWindow int                // Frames kept for rolling frame statistics
	Logger      *zap.SugaredLogger // Defaults to zap.S()
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Threads:     0,
		PinThreads:  true,
		StatsWindow: 120,
	}
}

var (
	liveMu sync.Mutex
	live   *FrameExec
)

// FrameExec is the main facade type.
// It implements api.GracefulShutdown; Shutdown must be its last call.
type FrameExec struct {
	executor *adapters.ExecutorAdapter
	control  *adapters.ControlAdapter
	affinity api.Affinity
	log      *zap.SugaredLogger

	config   *Config
	mu       sync.Mutex
	shutdown bool
}

var (
	_ api.GracefulShutdown = (*FrameExec)(nil)
	_ api.Executor         = (*FrameExec)(nil)
)

// New builds the process-wide executor. Only one FrameExec may be live at a
// time; a second call before Shutdown returns api.ErrAlreadyExists.
func New(cfg *Config) (*FrameExec, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Threads < 0 {
		return nil, fmt.Errorf("threads %d: %w", cfg.Threads, api.ErrInvalidArgument)
	}

	liveMu.Lock()
	defer liveMu.Unlock()
	if live != nil {
		return nil, fmt.Errorf("frame executor: %w", api.ErrAlreadyExists)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.S()
	}
	f := &FrameExec{
		affinity: affinity.System{},
		control:  adapters.NewControlAdapter(cfg.StatsWindow),
		log:      log.Named("facade"),
		config:   cfg,
	}

	exec, err := adapters.NewExecutorAdapter(concurrency.Options{
		Threads:  cfg.Threads,
		Pin:      cfg.PinThreads,
		Affinity: f.affinity,
		Logger:   log.Named("executor"),
	}, f.control)
	if err != nil {
		return nil, fmt.Errorf("executor init failure: %w", err)
	}
	f.executor = exec

	f.control.SetMetric("config.threads", cfg.Threads)
	f.control.SetMetric("config.pin_threads", cfg.PinThreads)
	f.control.SetMetric("config.stats_window", cfg.StatsWindow)

	live = f
	f.log.Infow("frame executor ready", "threads", exec.NumThreads(), "pinned", cfg.PinThreads)
	return f, nil
}

// Shutdown joins every worker and releases the process-wide slot. Further
// calls are no-ops.
func (f *FrameExec) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shutdown {
		return nil
	}
	f.shutdown = true
	f.executor.Close()

	liveMu.Lock()
	if live == f {
		live = nil
	}
	liveMu.Unlock()

	f.log.Infow("frame executor stopped", "frames", f.control.Frames().Frames)
	return nil
}

// Close implements api.Executor by delegating to Shutdown.
func (f *FrameExec) Close() { _ = f.Shutdown() }

// GetControl returns the metrics and frame statistics interface.
func (f *FrameExec) GetControl() api.Control { return f.control }

// GetDebugAPI returns the debug probe interface.
func (f *FrameExec) GetDebugAPI() api.Debug { return f.control }

// GetAffinity returns the CPU discovery and pinning interface.
func (f *FrameExec) GetAffinity() api.Affinity { return f.affinity }

// GetExecutor returns the underlying executor.
func (f *FrameExec) GetExecutor() api.Executor { return f.executor }

// Config returns the configuration the instance was built with.
func (f *FrameExec) Config() Config { return *f.config }

func (f *FrameExec) NumThreads() int { return f.executor.NumThreads() }

func (f *FrameExec) ThreadIndex() int { return f.executor.ThreadIndex() }

func (f *FrameExec) ParallelIter(n int, fn func(index, thread int)) {
	f.executor.ParallelIter(n, fn)
}

func (f *FrameExec) ParallelChunks(n, chunk int, fn func(start, end, thread int)) {
	f.executor.ParallelChunks(n, chunk, fn)
}

// ExecuteBlocking runs c as one frame; see api.Executor.
func (f *FrameExec) ExecuteBlocking(c api.Computation) {
	f.executor.ExecuteBlocking(c)
}

// PublishStats refreshes the executor counters in the control metrics.
func (f *FrameExec) PublishStats() { f.executor.PublishStats() }

// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, frame timing and debug introspection for the executor.
//
// Provides concurrent-safe primitives:
//   - MetricsRegistry for named values published by the executor and the frame loop
//   - DebugProbes for lazily evaluated state dumps
//   - FrameStats for a rolling window of frame durations
//
// Platform probes are registered through the affinity package, which hides the
// per-OS differences.
package control

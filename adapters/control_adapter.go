// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"time"

	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/control"
)

// ControlAdapter combines metrics, debug probes and frame statistics.
type ControlAdapter struct {
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
	frames  *control.FrameStats
}

var (
	_ api.Control = (*ControlAdapter)(nil)
	_ api.Debug   = (*ControlAdapter)(nil)
)

// NewControlAdapter keeps the last window frame durations; see control.NewFrameStats.
func NewControlAdapter(window int) *ControlAdapter {
	adapter := &ControlAdapter{
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
		frames:  control.NewFrameStats(window),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats)+7)
	for k, v := range stats {
		combined[k] = v
	}
	if updated := c.metrics.Updated(); !updated.IsZero() {
		combined["metrics.updated"] = updated
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	s := c.frames.Summary()
	combined["frame.count"] = s.Frames
	combined["frame.window"] = s.Window
	combined["frame.last"] = s.Last
	combined["frame.mean"] = s.Mean
	combined["frame.min"] = s.Min
	combined["frame.max"] = s.Max
	return combined
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

// SetMetrics publishes a counter set under prefix in one update.
func (c *ControlAdapter) SetMetrics(prefix string, values map[string]int64) {
	c.metrics.SetAll(prefix, values)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

func (c *ControlAdapter) RecordFrame(d time.Duration) {
	c.frames.Record(d)
}

// Frames returns the current frame window summary.
func (c *ControlAdapter) Frames() control.FrameSummary {
	return c.frames.Summary()
}

// DumpState implements api.Debug.
func (c *ControlAdapter) DumpState() map[string]any {
	return c.debug.DumpState()
}

// RegisterProbe implements api.Debug.
func (c *ControlAdapter) RegisterProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Control exposes runtime metrics, debug probes and frame timing.
type Control interface {
	Stats() map[string]any
	SetMetric(key string, value any)
	SetMetrics(prefix string, values map[string]int64)
	RegisterDebugProbe(name string, fn func() any)
	RecordFrame(d time.Duration)
}

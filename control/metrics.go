// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for executor and frame loop monitoring.
// Exposes values in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds named metric values and the time of the last update.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// SetAll publishes every entry of values under prefix in one update.
func (mr *MetricsRegistry) SetAll(prefix string, values map[string]int64) {
	mr.mu.Lock()
	for k, v := range values {
		mr.metrics[prefix+k] = v
	}
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Updated reports when a metric was last written. Zero if never.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns a copy of the current metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

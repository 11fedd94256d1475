// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry for internal inspection.

package control

import "sync"

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
// A nil fn removes the probe.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	if fn == nil {
		delete(dp.probes, name)
		return
	}
	dp.probes[name] = fn
}

// DumpState evaluates every probe. Probes run outside the registry lock so a
// probe may itself register or dump.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	snapshot := make(map[string]func() any, len(dp.probes))
	for k, fn := range dp.probes {
		snapshot[k] = fn
	}
	dp.mu.RUnlock()

	out := make(map[string]any, len(snapshot))
	for k, fn := range snapshot {
		out[k] = fn()
	}
	return out
}

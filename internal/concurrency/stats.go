// File: internal/concurrency/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// counters are bumped from every worker; hot groups sit on separate cache lines.
type counters struct {
	blockingRuns    atomic.Uint64
	rangesPublished atomic.Uint64
	inlineRanges    atomic.Uint64
	_               cpu.CacheLinePad
	ownerIndices    atomic.Uint64
	_               cpu.CacheLinePad
	helperIndices   atomic.Uint64
	helperJoins     atomic.Uint64
	_               cpu.CacheLinePad
	pinned          atomic.Int64
}

// Stats returns basic executor metrics.
func (p *Pool) Stats() map[string]int64 {
	return map[string]int64{
		"num_threads":      int64(p.threads),
		"pinned_threads":   p.stats.pinned.Load(),
		"blocking_runs":    int64(p.stats.blockingRuns.Load()),
		"ranges_published": int64(p.stats.rangesPublished.Load()),
		"ranges_inline":    int64(p.stats.inlineRanges.Load()),
		"owner_indices":    int64(p.stats.ownerIndices.Load()),
		"helper_indices":   int64(p.stats.helperIndices.Load()),
		"helper_joins":     int64(p.stats.helperJoins.Load()),
	}
}

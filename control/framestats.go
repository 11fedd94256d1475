// control/framestats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Rolling window of frame durations.

package control

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// DefaultFrameWindow is the number of frames FrameStats keeps when no window is given.
const DefaultFrameWindow = 120

// FrameSummary is a point-in-time view of the window.
type FrameSummary struct {
	Frames int           // frames recorded since creation
	Window int           // frames currently in the window
	Last   time.Duration // most recent frame
	Mean   time.Duration
	Min    time.Duration
	Max    time.Duration
}

// FrameStats keeps the durations of the last Window frames.
type FrameStats struct {
	mu     sync.Mutex
	window int
	q      *queue.Queue
	sum    time.Duration
	last   time.Duration
	total  int
}

// NewFrameStats creates a window holding at most window frames.
// A non-positive window selects DefaultFrameWindow.
func NewFrameStats(window int) *FrameStats {
	if window <= 0 {
		window = DefaultFrameWindow
	}
	return &FrameStats{window: window, q: queue.New()}
}

// Record appends d, evicting the oldest frame once the window is full.
func (fs *FrameStats) Record(d time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.q.Length() == fs.window {
		fs.sum -= fs.q.Remove().(time.Duration)
	}
	fs.q.Add(d)
	fs.sum += d
	fs.last = d
	fs.total++
}

// Summary computes the window statistics. All durations are zero before the
// first Record.
func (fs *FrameStats) Summary() FrameSummary {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n := fs.q.Length()
	s := FrameSummary{Frames: fs.total, Window: n, Last: fs.last}
	if n == 0 {
		return s
	}
	s.Mean = fs.sum / time.Duration(n)
	s.Min = fs.q.Get(0).(time.Duration)
	s.Max = s.Min
	for i := 1; i < n; i++ {
		d := fs.q.Get(i).(time.Duration)
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
	}
	return s
}

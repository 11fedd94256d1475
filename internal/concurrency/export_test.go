// File: internal/concurrency/export_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "github.com/momentics/frameexec/api"

// WakerTask returns the task a waker handed out by Task.Poll belongs to.
func WakerTask(w api.Waker) *Task {
	if nw, ok := w.(noopWaker); ok {
		return nw.task
	}
	return nil
}

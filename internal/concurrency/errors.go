// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import (
	"errors"

	"github.com/momentics/frameexec/affinity"
)

var (
	// ErrPollInProgress is returned by Task.Poll when another goroutine is polling the same task.
	ErrPollInProgress = errors.New("task is already being polled")

	// ErrInvalidThreadCount indicates a negative worker count configuration.
	ErrInvalidThreadCount = errors.New("invalid thread count")

	// ErrParallelismUnavailable indicates the pool size could not be derived from the OS.
	ErrParallelismUnavailable = affinity.ErrParallelismUnavailable
)

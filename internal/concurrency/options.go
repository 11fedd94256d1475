// File: internal/concurrency/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"go.uber.org/zap"

	"github.com/momentics/frameexec/affinity"
	"github.com/momentics/frameexec/api"
)

// Options configures a Pool.
type Options struct {
	// Threads is the number of workers; 0 asks the OS for the usable processor count.
	Threads int
	// Pin binds worker i to the i-th usable CPU.
	Pin bool
	// Affinity discovers CPUs and pins threads. Defaults to affinity.System.
	Affinity api.Affinity
	// Logger defaults to the global zap logger named "executor".
	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Affinity == nil {
		o.Affinity = affinity.System{}
	}
	if o.Logger == nil {
		o.Logger = zap.S().Named("executor")
	}
	return o
}

// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform debug probes backed by the affinity package.

package control

import (
	"runtime"

	"github.com/momentics/frameexec/affinity"
)

// RegisterPlatformProbes registers CPU topology probes. Probes that cannot be
// answered on the current platform report the error text instead of a value.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS + "/" + runtime.GOARCH
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.parallelism", func() any {
		n, err := affinity.AvailableParallelism()
		if err != nil {
			return err.Error()
		}
		return n
	})
	dp.RegisterProbe("platform.usable_cpus", func() any {
		cpus, err := affinity.UsableCPUs()
		if err != nil {
			return err.Error()
		}
		return cpus
	})
}

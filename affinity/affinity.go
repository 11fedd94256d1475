// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity, usable-CPU discovery and OS thread
// identity. Platform-specific implementations are located in separate files
// (affinity_linux.go, affinity_windows.go, affinity_stub.go) guarded by build tags.

package affinity

import (
	"errors"
	"fmt"

	"github.com/momentics/frameexec/api"
)

var (
	// ErrNotSupported is returned where the platform cannot pin threads.
	ErrNotSupported = fmt.Errorf("affinity: %w on this platform", api.ErrNotSupported)
	// ErrInvalidCPU is returned for negative or out-of-range CPU ids.
	ErrInvalidCPU = fmt.Errorf("affinity: %w: cpu id", api.ErrInvalidArgument)
	// ErrParallelismUnavailable is returned when the OS cannot report usable processors.
	ErrParallelismUnavailable = errors.New("affinity: available parallelism unknown")
)

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// The calling goroutine must be locked to its thread (runtime.LockOSThread).
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("%w %d", ErrInvalidCPU, cpuID)
	}
	return setAffinityPlatform(cpuID)
}

// AvailableParallelism returns the number of logical processors this process may use.
func AvailableParallelism() (int, error) {
	n, err := availableParallelismPlatform()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParallelismUnavailable, err)
	}
	if n < 1 {
		return 0, ErrParallelismUnavailable
	}
	return n, nil
}

// UsableCPUs lists the logical CPU ids this process may run on, in ascending order.
func UsableCPUs() ([]int, error) {
	return usableCPUsPlatform()
}

// CurrentThreadID returns the OS id of the thread running the caller. The second
// result is false where the platform offers no thread id.
func CurrentThreadID() (uint64, bool) {
	return currentThreadIDPlatform()
}

// System implements api.Affinity on top of the package functions.
type System struct{}

var _ api.Affinity = System{}

func (System) Pin(cpuID int) error { return SetAffinity(cpuID) }
func (System) UsableCPUs() ([]int, error) { return UsableCPUs() }
func (System) Parallelism() (int, error) { return AvailableParallelism() }

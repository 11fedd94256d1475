//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms. Pinning returns an error,
// thread ids are unavailable.

package affinity

import "runtime"

// setAffinityPlatform is a stub for platforms where CPU affinity is not supported.
func setAffinityPlatform(int) error {
	return ErrNotSupported
}

func availableParallelismPlatform() (int, error) {
	return runtime.NumCPU(), nil
}

func usableCPUsPlatform() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}

func currentThreadIDPlatform() (uint64, bool) { return 0, false }

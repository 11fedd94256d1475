//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity. Only the
// first processor group (64 logical CPUs) is addressable.

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

const maxGroupCPUs = 64

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
)

func setThreadMask(mask uintptr) error {
	old, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if old == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask: %w", err)
	}
	return nil
}

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	if cpuID >= maxGroupCPUs {
		return fmt.Errorf("%w %d", ErrInvalidCPU, cpuID)
	}
	return setThreadMask(uintptr(1) << uint(cpuID))
}

func availableParallelismPlatform() (int, error) {
	return runtime.NumCPU(), nil
}

func usableCPUsPlatform() ([]int, error) {
	n := min(runtime.NumCPU(), maxGroupCPUs)
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}

func currentThreadIDPlatform() (uint64, bool) {
	return uint64(windows.GetCurrentThreadId()), true
}

// Package api
// Author: momentics@gmail.com
//
// CPU affinity and parallelism discovery contract.

package api

// Affinity pins OS threads to logical CPUs and reports what the process may use.
type Affinity interface {
	// Pin binds the calling OS thread to cpuID. The caller must hold
	// runtime.LockOSThread for the binding to stay meaningful.
	Pin(cpuID int) error
	// UsableCPUs lists the logical CPU ids the process may run on.
	UsableCPUs() ([]int, error)
	// Parallelism returns how many logical processors are usable.
	Parallelism() (int, error)
}

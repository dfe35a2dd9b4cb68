package spool

import "runtime"

// namedPoolConcurrency is the worker count for pools created by name.
// Callers size them explicitly with SetConcurrency.
const namedPoolConcurrency = 2

// DefaultConcurrency returns the worker count for the default pool:
// the hardware parallelism minus one, leaving a core for the
// dispatching thread, with a floor of two.
func DefaultConcurrency() int {
	n := runtime.NumCPU() - 1
	if n < 2 {
		n = 2
	}
	return n
}

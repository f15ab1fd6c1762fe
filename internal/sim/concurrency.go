package sim

import "runtime"

// evalConcurrency bounds how many gene evaluations an errgroup.Group may run
// at once. Capped at GOMAXPROCS since Simulator runs are CPU-bound with no
// I/O wait to hide.
func evalConcurrency() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

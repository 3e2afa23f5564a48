package allocator

import "fmt"

// OptimizationError is the single failure kind the allocator surfaces: invalid
// requests, infeasible per-item windows, hierarchy constraints naming unknown
// items, and solver exhaustion. Failures abort the whole request; nothing is
// retried internally.
type OptimizationError struct {
	Reason string
}

func (e *OptimizationError) Error() string {
	return "optimization: " + e.Reason
}

func failf(format string, args ...interface{}) error {
	return &OptimizationError{Reason: fmt.Sprintf(format, args...)}
}

package lp

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultPriority is the compiled-in backend order. The original platform
// probed an installed-solver registry at runtime; here "installed" means
// linked into the binary, so the list is static.
var DefaultPriority = []string{"simplex", "greedy"}

var backends = map[string]Backend{
	"simplex": simplexBackend{},
	"greedy":  greedyBackend{},
}

// Backends lists the compiled-in backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for _, name := range DefaultPriority {
		if _, ok := backends[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Report is an accepted solve plus which backend produced it and how long the
// winning attempt took.
type Report struct {
	Solution
	Backend  string
	Duration time.Duration
}

// ExhaustedError reports that no backend produced an accepted status.
type ExhaustedError struct {
	LastStatus Status
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no solver returned an optimal solution (last status: %s)", e.LastStatus)
}

// Solve tries backends in priority order and returns the first accepted
// solution. A non-empty override replaces the priority list with that single
// backend. Names that are not compiled in are skipped; backend failures are
// logged and the next candidate is tried.
func Solve(logger *zap.Logger, p *Problem, override string) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	candidates := DefaultPriority
	if override != "" {
		candidates = []string{override}
	}

	lastStatus := StatusError
	for _, name := range candidates {
		backend, ok := backends[name]
		if !ok {
			logger.Debug("skipping solver backend that is not compiled in",
				zap.String("op", "lp.Solve"),
				zap.String("backend", name),
			)
			continue
		}

		start := time.Now()
		solution, err := backend.Solve(p)
		elapsed := time.Since(start)
		if err != nil {
			lastStatus = solution.Status
			logger.Debug("solver backend failed, trying next candidate",
				zap.String("op", "lp.Solve"),
				zap.String("backend", name),
				zap.String("status", string(solution.Status)),
				zap.Error(err),
			)
			continue
		}
		if !solution.Status.Accepted() {
			lastStatus = solution.Status
			continue
		}

		return Report{Solution: solution, Backend: name, Duration: elapsed}, nil
	}

	return Report{}, &ExhaustedError{LastStatus: lastStatus}
}

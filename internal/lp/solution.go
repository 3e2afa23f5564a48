package lp

// Status classifies a backend's outcome.
type Status string

const (
	StatusOptimal           Status = "optimal"
	StatusOptimalInaccurate Status = "optimal_inaccurate"
	StatusInfeasible        Status = "infeasible"
	StatusUnbounded         Status = "unbounded"
	StatusUnsupported       Status = "unsupported"
	StatusError             Status = "error"
)

// Accepted reports whether a status counts as a usable solve.
func (s Status) Accepted() bool {
	return s == StatusOptimal || s == StatusOptimalInaccurate
}

// Solution is a backend's answer. Values holds one entry per problem variable
// and Objective is evaluated in the problem's maximize sense.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Backend solves an arena-form problem. Implementations must be stateless and
// safe for concurrent use.
type Backend interface {
	Name() string
	Solve(p *Problem) (Solution, error)
}

package lp

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const greedyTolerance = 1e-9

// greedyBackend solves the restricted problem shape the allocator emits when
// no hierarchy constraints are present: disjoint groups of variables with
// window bounds plus one all-variable budget equality. For that laminar
// structure a two-phase fill (satisfy every group minimum with its best
// coefficients, then pour the remaining budget into the globally best
// coefficients) is exact. Any other shape is declined so the orchestrator can
// move on.
type greedyBackend struct{}

func (greedyBackend) Name() string { return "greedy" }

type greedyGroup struct {
	vars  []int
	lower float64
	upper float64 // +Inf when unbounded
}

func (greedyBackend) Solve(p *Problem) (Solution, error) {
	if err := p.validate(); err != nil {
		return Solution{Status: StatusError}, err
	}

	budget, groups, err := classify(p)
	if err != nil {
		return Solution{Status: StatusUnsupported}, err
	}

	n := len(p.Vars)
	x := make([]float64, n)
	groupOf := make([]int, n)
	for i := range groupOf {
		groupOf[i] = -1
	}
	groupTotal := make([]float64, len(groups))
	for gi, g := range groups {
		for _, v := range g.vars {
			groupOf[v] = gi
		}
	}

	upperOf := func(v int) float64 {
		if p.Vars[v].Upper == nil {
			return math.Inf(1)
		}
		return *p.Vars[v].Upper
	}

	// Order within a group and globally is by objective coefficient, best
	// first; index breaks ties for determinism.
	byCoeff := func(vars []int) []int {
		ordered := append([]int(nil), vars...)
		sort.SliceStable(ordered, func(a, b int) bool {
			return p.Objective[ordered[a]] > p.Objective[ordered[b]]
		})
		return ordered
	}

	// Phase 1: meet every group minimum.
	for gi, g := range groups {
		need := g.lower
		if need <= greedyTolerance {
			continue
		}
		for _, v := range byCoeff(g.vars) {
			if need <= greedyTolerance {
				break
			}
			take := math.Min(need, upperOf(v)-x[v])
			if take <= 0 {
				continue
			}
			x[v] += take
			groupTotal[gi] += take
			need -= take
		}
		if need > greedyTolerance {
			return Solution{Status: StatusInfeasible}, fmt.Errorf("greedy: group %d minimum unreachable", gi)
		}
	}

	var spent float64
	for _, v := range x {
		spent += v
	}
	remaining := budget - spent
	if remaining < -greedyTolerance {
		return Solution{Status: StatusInfeasible}, fmt.Errorf("greedy: group minimums exceed budget")
	}

	// Phase 2: pour the remaining budget into the best coefficients that still
	// have variable and group headroom. Negative coefficients participate; the
	// budget equality is hard.
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	for _, v := range byCoeff(all) {
		if remaining <= greedyTolerance {
			break
		}
		headroom := upperOf(v) - x[v]
		if gi := groupOf[v]; gi >= 0 {
			headroom = math.Min(headroom, groups[gi].upper-groupTotal[gi])
		}
		take := math.Min(remaining, headroom)
		if take <= 0 {
			continue
		}
		x[v] += take
		if gi := groupOf[v]; gi >= 0 {
			groupTotal[gi] += take
		}
		remaining -= take
	}
	if remaining > greedyTolerance {
		return Solution{Status: StatusInfeasible}, fmt.Errorf("greedy: budget exceeds total capacity")
	}

	return Solution{
		Status:    StatusOptimal,
		Objective: p.Value(x),
		Values:    x,
	}, nil
}

// classify maps the arena onto the supported shape: unit coefficients
// everywhere, exactly one all-variable equality (the budget), and remaining
// rows forming disjoint variable groups.
func classify(p *Problem) (float64, []greedyGroup, error) {
	n := len(p.Vars)
	var budget *float64
	grouped := make(map[string]*greedyGroup)
	claimed := make([]bool, n)

	for _, row := range p.Rows {
		vars := make([]int, 0, len(row.Terms))
		for _, term := range row.Terms {
			if term.Coeff != 1 {
				return 0, nil, fmt.Errorf("greedy: row %s has non-unit coefficient", row.Name)
			}
			vars = append(vars, term.Var)
		}
		sort.Ints(vars)

		if len(vars) == n && row.Lower != nil && row.Upper != nil && *row.Lower == *row.Upper {
			if budget != nil && *budget != *row.Lower {
				return 0, nil, fmt.Errorf("greedy: conflicting budget rows")
			}
			budget = row.Lower
			continue
		}

		key := varsKey(vars)
		if existing, ok := grouped[key]; ok {
			mergeBound(existing, row)
			continue
		}
		for _, v := range vars {
			if claimed[v] {
				return 0, nil, fmt.Errorf("greedy: row %s overlaps another group", row.Name)
			}
			claimed[v] = true
		}
		g := &greedyGroup{vars: vars, lower: 0, upper: math.Inf(1)}
		mergeBound(g, row)
		grouped[key] = g
	}

	if budget == nil {
		return 0, nil, fmt.Errorf("greedy: no budget equality row")
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	groups := make([]greedyGroup, 0, len(grouped))
	for _, k := range keys {
		groups = append(groups, *grouped[k])
	}
	return *budget, groups, nil
}

func mergeBound(g *greedyGroup, row Row) {
	if row.Lower != nil && *row.Lower > g.lower {
		g.lower = *row.Lower
	}
	if row.Upper != nil && *row.Upper < g.upper {
		g.upper = *row.Upper
	}
}

func varsKey(vars []int) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

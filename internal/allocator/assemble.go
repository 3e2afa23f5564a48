package allocator

import (
	"fmt"

	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/internal/lp"
	"github.com/iwvelando/adspend-optimizer/pkg/mathutil"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
)

// itemPlan carries one item through the pipeline: its cleaned curve, its
// effective window, and the LP variables that represent its spend.
type itemPlan struct {
	item   *config.BudgetItem
	curve  []roicurve.Point
	window window
	vars   []int
}

// assemble builds the linear program. Each item gets one variable per curve
// segment (bounded by the segment length) or a single linear-fallback
// variable; rows pin the item window, the hard budget equality, and any
// hierarchy bounds. The objective is the literal profit form, revenue minus
// spend, kept for objective-value parity even though the budget equality makes
// it revenue-equivalent.
func assemble(req *config.OptimizerRequest, plans []itemPlan) *lp.Problem {
	problem := lp.NewProblem()

	for i := range plans {
		plan := &plans[i]
		segments := roicurve.Segments(plan.curve)
		if len(segments) > 0 {
			for j, segment := range segments {
				length := segment.Length
				v := problem.AddVariable(fmt.Sprintf("%s/seg%d", plan.item.ID, j), &length)
				problem.SetObjective(v, segment.Slope-1)
				plan.vars = append(plan.vars, v)
			}
		} else {
			v := problem.AddVariable(plan.item.ID+"/linear", nil)
			problem.SetObjective(v, mathutil.Max(plan.item.ExpectedROAS, 0)-1)
			plan.vars = append(plan.vars, v)
		}

		terms := unitTerms(plan.vars)
		min := plan.window.min
		max := plan.window.max
		problem.AddRow(plan.item.ID+"/window.min", terms, &min, nil)
		problem.AddRow(plan.item.ID+"/window.max", terms, nil, &max)
	}

	var allVars []int
	for _, plan := range plans {
		allVars = append(allVars, plan.vars...)
	}
	budget := req.TotalBudget
	problem.AddRow("budget", unitTerms(allVars), &budget, &budget)

	byID := make(map[string]*itemPlan, len(plans))
	for i := range plans {
		byID[plans[i].item.ID] = &plans[i]
	}
	for _, hc := range req.HierarchyConstraints {
		if len(hc.Members) == 0 || (hc.MinSpend == nil && hc.MaxSpend == nil) {
			continue
		}
		var memberVars []int
		for _, member := range hc.Members {
			if plan, ok := byID[member]; ok {
				memberVars = append(memberVars, plan.vars...)
			}
		}
		terms := unitTerms(memberVars)
		if hc.MinSpend != nil {
			min := *hc.MinSpend
			problem.AddRow(hc.ID+"/min", terms, &min, nil)
		}
		if hc.MaxSpend != nil {
			max := *hc.MaxSpend
			problem.AddRow(hc.ID+"/max", terms, nil, &max)
		}
	}

	return problem
}

func unitTerms(vars []int) []lp.Term {
	terms := make([]lp.Term, len(vars))
	for i, v := range vars {
		terms[i] = lp.Term{Var: v, Coeff: 1}
	}
	return terms
}

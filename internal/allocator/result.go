package allocator

import (
	"github.com/google/uuid"
	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/internal/lp"
	"github.com/iwvelando/adspend-optimizer/pkg/mathutil"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
)

// Result is one completed allocation.
type Result struct {
	Name         string             `json:"name,omitempty"`
	Spends       map[string]float64 `json:"spends"`
	Revenues     map[string]float64 `json:"revenues"`
	TotalSpend   float64            `json:"totalSpend"`
	TotalRevenue float64            `json:"totalRevenue"`
	Profit       float64            `json:"profit"`
	Diagnostics  Diagnostics        `json:"diagnostics"`
}

// Diagnostics records how the allocation was solved.
type Diagnostics struct {
	RunID            string             `json:"runId"`
	Status           string             `json:"status"`
	Solver           string             `json:"solver"`
	ObjectiveValue   float64            `json:"objectiveValue"`
	SolveTimeSeconds float64            `json:"solveTimeSeconds"`
	TotalSpend       float64            `json:"totalSpend"`
	TotalRevenue     float64            `json:"totalRevenue"`
	HierarchyActuals map[string]float64 `json:"hierarchyActuals,omitempty"`
}

// extract converts solved variables back into spends and revenues. Revenue is
// recomputed from each item's cleaned curve at the resolved spend rather than
// summed from the LP's internal segment terms, decoupling reported numbers
// from unused-segment slack.
func extract(req *config.OptimizerRequest, plans []itemPlan, report lp.Report) *Result {
	spends := make(map[string]float64, len(plans))
	revenues := make(map[string]float64, len(plans))
	var totalSpend, totalRevenue float64

	for _, plan := range plans {
		var spend float64
		for _, v := range plan.vars {
			spend += report.Values[v]
		}
		spend = mathutil.Max(spend, 0)
		revenue := roicurve.Evaluate(plan.curve, spend, plan.item.ExpectedROAS)

		spends[plan.item.ID] = spend
		revenues[plan.item.ID] = revenue
		totalSpend += spend
		totalRevenue += revenue
	}

	var hierarchyActuals map[string]float64
	if len(req.HierarchyConstraints) > 0 {
		hierarchyActuals = make(map[string]float64, len(req.HierarchyConstraints))
		for _, hc := range req.HierarchyConstraints {
			var total float64
			for _, member := range hc.Members {
				total += spends[member]
			}
			hierarchyActuals[hc.ID] = total
		}
	}

	return &Result{
		Name:         req.Name,
		Spends:       spends,
		Revenues:     revenues,
		TotalSpend:   totalSpend,
		TotalRevenue: totalRevenue,
		Profit:       totalRevenue - totalSpend,
		Diagnostics: Diagnostics{
			RunID:            uuid.NewString(),
			Status:           string(report.Status),
			Solver:           report.Backend,
			ObjectiveValue:   report.Objective,
			SolveTimeSeconds: report.Duration.Seconds(),
			TotalSpend:       totalSpend,
			TotalRevenue:     totalRevenue,
			HierarchyActuals: hierarchyActuals,
		},
	}
}

// Package allocator solves one marketing budget allocation: it cleans each
// item's ROI curve, derives effective spend windows from the request's
// guardrails, assembles a linear program, runs the solver backends in
// priority order, and extracts per-item spends and diagnostics.
//
// Optimize is pure and stateless; every LP instance, variable set, and
// constraint row is request-local, so concurrent callers need no
// coordination.
package allocator

import (
	"errors"

	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/internal/lp"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
	"go.uber.org/zap"
)

// Optimize allocates the request's total budget across its items. A non-empty
// solverOverride names a single backend instead of the default priority list.
// Every failure is an *OptimizationError; there is no partial allocation.
func Optimize(logger *zap.Logger, req config.OptimizerRequest, solverOverride string) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Normalization fills per-item defaults; work on a copied slice so the
	// caller's request is left untouched.
	req.Items = append([]config.BudgetItem(nil), req.Items...)
	req.Normalize()

	if err := config.ValidateRequest(&req); err != nil {
		return nil, failf("%s", err)
	}

	plans := make([]itemPlan, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		curve := roicurve.Clean(curveSamples(item.ROICurve))
		w, err := effectiveWindow(logger, item, curve, req.TotalBudget, req.LearningCap, req.ROASFloor)
		if err != nil {
			return nil, err
		}
		plans[i] = itemPlan{item: item, curve: curve, window: w}
	}

	problem := assemble(&req, plans)

	report, err := lp.Solve(logger, problem, solverOverride)
	if err != nil {
		var exhausted *lp.ExhaustedError
		if errors.As(err, &exhausted) {
			return nil, failf("%s", exhausted)
		}
		return nil, failf("solve failed: %s", err)
	}

	result := extract(&req, plans, report)

	logger.Info("allocation solved",
		zap.String("op", "allocator.Optimize"),
		zap.String("request", req.Name),
		zap.String("runId", result.Diagnostics.RunID),
		zap.String("solver", result.Diagnostics.Solver),
		zap.String("status", result.Diagnostics.Status),
		zap.Float64("totalSpend", result.TotalSpend),
		zap.Float64("totalRevenue", result.TotalRevenue),
		zap.Float64("profit", result.Profit),
		zap.Float64("solveTimeSeconds", result.Diagnostics.SolveTimeSeconds),
	)

	return result, nil
}

func curveSamples(points []config.CurvePoint) []roicurve.Sample {
	samples := make([]roicurve.Sample, len(points))
	for i, p := range points {
		samples[i] = roicurve.Sample{Spend: p.Spend, Revenue: p.Revenue, ROAS: p.ROAS}
	}
	return samples
}

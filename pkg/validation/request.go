// Package validation provides request lint utilities. Warnings are advisory;
// they never block an allocation.
package validation

import (
	"fmt"

	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/pkg/constants"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
)

// ValidateCurve checks one item's cleaned ROI curve for modeling smells: the
// solver assumes concavity, and duplicate spends trigger the optimistic
// higher-revenue tie-break.
func ValidateCurve(itemID string, raw []config.CurvePoint, cleaned []roicurve.Point) []string {
	var warnings []string

	segments := roicurve.Segments(cleaned)
	for i := 1; i < len(segments); i++ {
		if segments[i].Slope > segments[i-1].Slope+constants.BoundsTolerance {
			warnings = append(warnings, fmt.Sprintf("Item '%s' has a non-concave ROI curve (slope rises at segment %d); the solver assumes diminishing returns", itemID, i))
			break
		}
	}

	if len(cleaned) < countUsable(raw) {
		warnings = append(warnings, fmt.Sprintf("Item '%s' has duplicate curve spends; the higher-revenue observation was kept", itemID))
	}

	return warnings
}

// ValidateItem flags items whose inputs give the optimizer nothing to work
// with.
func ValidateItem(item config.BudgetItem) []string {
	var warnings []string

	if len(item.ROICurve) == 0 && item.ExpectedROAS <= 0 {
		warnings = append(warnings, fmt.Sprintf("Item '%s' has no ROI curve and no positive expected ROAS - it can only absorb budget at zero revenue", item.ID))
	}

	return warnings
}

// ValidateRequest lints a whole request and returns accumulated warnings.
func ValidateRequest(req *config.OptimizerRequest) []string {
	var warnings []string

	if req.LearningCap != nil && *req.LearningCap > 1 {
		warnings = append(warnings, fmt.Sprintf("Learning cap %.2f exceeds 1.0 - lower spend bounds from current spend collapse to zero", *req.LearningCap))
	}

	for _, item := range req.Items {
		warnings = append(warnings, ValidateItem(item)...)

		samples := make([]roicurve.Sample, len(item.ROICurve))
		for i, p := range item.ROICurve {
			samples[i] = roicurve.Sample{Spend: p.Spend, Revenue: p.Revenue, ROAS: p.ROAS}
		}
		cleaned := roicurve.Clean(samples)
		warnings = append(warnings, ValidateCurve(item.ID, item.ROICurve, cleaned)...)
	}

	return warnings
}

// countUsable is the cleaned-curve length to expect when no spends collide:
// the surviving raw points plus the injected origin.
func countUsable(raw []config.CurvePoint) int {
	usable := 1
	hasOrigin := false
	for _, p := range raw {
		if p.Spend < 0 {
			continue
		}
		if p.Spend <= constants.SpendEpsilon {
			hasOrigin = true
		}
		usable++
	}
	if hasOrigin {
		usable--
	}
	return usable
}

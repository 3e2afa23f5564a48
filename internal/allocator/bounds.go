package allocator

import (
	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/pkg/constants"
	"github.com/iwvelando/adspend-optimizer/pkg/mathutil"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
	"go.uber.org/zap"
)

// window is an item's effective [min, max] spend range after every guardrail
// has been applied.
type window struct {
	min float64
	max float64
}

func (w window) width() float64 { return w.max - w.min }

// effectiveWindow derives an item's spend window. Adjustments apply in a fixed
// order: inventory caps, platform minimum, learning cap, ROAS floor. An
// unbounded max resolves to the total budget first; with the hard budget
// equality no item can spend more than that anyway, and it keeps infinities
// out of the multiplier and bisection arithmetic.
func effectiveWindow(logger *zap.Logger, item *config.BudgetItem, curve []roicurve.Point, totalBudget float64, learningCap *float64, roasFloor float64) (window, error) {
	min := mathutil.Max(item.MinSpend, 0)
	max := totalBudget
	if item.MaxSpend != nil {
		max = *item.MaxSpend
	}
	max = mathutil.Max(max, min)

	switch item.InventoryStatus {
	case config.InventoryOutOfStock:
		min, max = 0, 0
	case config.InventoryLowStock:
		max = mathutil.Min(max, max*mathutil.Clamp(item.Multiplier(), 0, 1))
		max = mathutil.Max(max, min)
	}

	min = mathutil.Max(min, item.PlatformMinimum)

	if learningCap != nil && item.CurrentSpend > 0 {
		min = mathutil.Max(min, item.CurrentSpend*(1-*learningCap))
		max = mathutil.Min(max, item.CurrentSpend*(1+*learningCap))
	}

	w := window{min: min, max: max}
	if roasFloor > 0 && w.width() > constants.BoundsTolerance {
		narrowed := applyROASFloor(w, curve, item.ExpectedROAS, roasFloor)
		if narrowed.max < w.max {
			logger.Info("roas floor narrowed item spend window",
				zap.String("op", "allocator.effectiveWindow"),
				zap.String("item", item.ID),
				zap.Float64("floor", roasFloor),
				zap.Float64("originalMax", w.max),
				zap.Float64("narrowedMax", narrowed.max),
			)
		}
		w = narrowed
	}

	if w.max < w.min-constants.BoundsTolerance {
		return window{}, failf("item %s: effective max spend %.6f is below effective min spend %.6f", item.ID, w.max, w.min)
	}
	return w, nil
}

// roasAt is the revenue-per-dollar ratio at a spend. At (or within epsilon of)
// zero the ratio is the marginal slope out of the origin.
func roasAt(curve []roicurve.Point, spend, expectedROAS float64) float64 {
	s := mathutil.Max(spend, constants.SpendEpsilon)
	return roicurve.Evaluate(curve, s, expectedROAS) / s
}

// applyROASFloor caps a window's max at the largest spend whose ROAS still
// meets the floor. The fixed 60-iteration bisection with a 1e-6 bracket
// tolerance is a reproducibility contract; keep both exact.
func applyROASFloor(w window, curve []roicurve.Point, expectedROAS, floor float64) window {
	if roasAt(curve, w.max, expectedROAS) >= floor {
		return w
	}
	if roasAt(curve, w.min, expectedROAS) < floor {
		w.max = w.min
		return w
	}

	lower := w.min
	upper := w.max
	for i := 0; i < constants.BisectionIterations && upper-lower > constants.BoundsTolerance; i++ {
		mid := lower + (upper-lower)/2
		if roasAt(curve, mid, expectedROAS) >= floor {
			lower = mid
		} else {
			upper = mid
		}
	}
	w.max = lower
	return w
}

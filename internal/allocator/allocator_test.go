package allocator

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
	"go.uber.org/zap"
)

func rev(v float64) *float64 { return &v }

func curveOf(points ...[2]float64) []config.CurvePoint {
	out := make([]config.CurvePoint, len(points))
	for i, p := range points {
		out[i] = config.CurvePoint{Spend: p[0], Revenue: rev(p[1])}
	}
	return out
}

func threeItemRequest() config.OptimizerRequest {
	return config.OptimizerRequest{
		Name:        "three-channel",
		TotalBudget: 260,
		Items: []config.BudgetItem{
			{
				ID:       "A",
				MinSpend: 20,
				MaxSpend: fp(200),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{120, 360}, [2]float64{200, 560}),
			},
			{
				ID:       "B",
				MinSpend: 10,
				MaxSpend: fp(150),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{90, 216}, [2]float64{150, 330}),
			},
			{
				ID:           "C",
				MinSpend:     0,
				MaxSpend:     fp(120),
				ExpectedROAS: 1.6,
			},
		},
		HierarchyConstraints: []config.HierarchyConstraint{
			{ID: "total", Members: []string{"A", "B", "C"}, MinSpend: fp(260), MaxSpend: fp(260)},
		},
	}
}

func TestOptimizeThreeItemHierarchy(t *testing.T) {
	req := threeItemRequest()
	result, err := Optimize(zap.NewNop(), req, "")
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	sum := result.Spends["A"] + result.Spends["B"] + result.Spends["C"]
	if math.Abs(sum-260) > 1e-6 {
		t.Errorf("expected total spend 260, got %.9f", sum)
	}
	if math.Abs(result.Spends["A"]-200) > 1e-6 {
		t.Errorf("expected A spend 200, got %.9f", result.Spends["A"])
	}
	if math.Abs(result.Spends["B"]-60) > 1e-6 {
		t.Errorf("expected B spend 60, got %.9f", result.Spends["B"])
	}
	if math.Abs(result.Spends["C"]) > 1e-6 {
		t.Errorf("expected C spend 0, got %.9f", result.Spends["C"])
	}

	bounds := map[string][2]float64{"A": {20, 200}, "B": {10, 150}, "C": {0, 120}}
	for id, b := range bounds {
		spend := result.Spends[id]
		if spend < b[0]-1e-6 || spend > b[1]+1e-6 {
			t.Errorf("item %s spend %.6f outside bounds [%v, %v]", id, spend, b[0], b[1])
		}
	}

	if math.Abs(result.Diagnostics.HierarchyActuals["total"]-260) > 1e-6 {
		t.Errorf("expected hierarchy actual 260, got %.9f", result.Diagnostics.HierarchyActuals["total"])
	}
	if result.Diagnostics.Solver == "" || result.Diagnostics.RunID == "" {
		t.Errorf("expected populated diagnostics, got %+v", result.Diagnostics)
	}
}

func TestOptimizeOutOfStockItemGetsNothing(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 100,
		Items: []config.BudgetItem{
			{ID: "oos_boots", MaxSpend: fp(200), InventoryStatus: config.InventoryOutOfStock, ExpectedROAS: 5},
			{ID: "jackets", ExpectedROAS: 2},
		},
	}

	result, err := Optimize(zap.NewNop(), req, "")
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if math.Abs(result.Spends["oos_boots"]) > 1e-9 {
		t.Errorf("expected zero spend for out-of-stock item, got %.9f", result.Spends["oos_boots"])
	}
	if math.Abs(result.Spends["jackets"]-100) > 1e-6 {
		t.Errorf("expected jackets to absorb the budget, got %.9f", result.Spends["jackets"])
	}
}

func TestOptimizeROASFloorCapsSpend(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 100,
		ROASFloor:   2.8,
		Items: []config.BudgetItem{
			{
				ID:       "floor_sensitive",
				MinSpend: 50,
				MaxSpend: fp(120),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{50, 150}, [2]float64{100, 260}),
			},
			{
				ID:       "anchor",
				MaxSpend: fp(40),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{40, 136}),
			},
		},
	}

	result, err := Optimize(zap.NewNop(), req, "")
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if math.Abs(result.Spends["floor_sensitive"]-60) > 1e-6 {
		t.Errorf("expected floor_sensitive spend 60, got %.9f", result.Spends["floor_sensitive"])
	}
	if math.Abs(result.Spends["anchor"]-40) > 1e-6 {
		t.Errorf("expected anchor spend 40, got %.9f", result.Spends["anchor"])
	}
}

func TestOptimizeLearningCapClipsWindow(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 200,
		LearningCap: fp(0.25),
		Items: []config.BudgetItem{
			{ID: "capped", MinSpend: 50, MaxSpend: fp(300), CurrentSpend: 100, ExpectedROAS: 3},
			{ID: "filler", ExpectedROAS: 1.1},
		},
	}

	result, err := Optimize(zap.NewNop(), req, "")
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	// The capped item's richer ROAS would take the whole budget without the
	// learning cap; with it the window is [75, 125].
	if math.Abs(result.Spends["capped"]-125) > 1e-6 {
		t.Errorf("expected capped spend 125, got %.9f", result.Spends["capped"])
	}
	if math.Abs(result.Spends["filler"]-75) > 1e-6 {
		t.Errorf("expected filler spend 75, got %.9f", result.Spends["filler"])
	}
}

func TestOptimizeBackendsAgreeOnConcaveRequest(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 180,
		Items: []config.BudgetItem{
			{
				ID:       "search",
				MinSpend: 20,
				MaxSpend: fp(200),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{100, 300}, [2]float64{200, 450}),
			},
			{
				ID:       "social",
				MinSpend: 10,
				MaxSpend: fp(150),
				ROICurve: curveOf([2]float64{0, 0}, [2]float64{80, 200}, [2]float64{150, 298}),
			},
		},
	}

	simplex, err := Optimize(zap.NewNop(), req, "simplex")
	if err != nil {
		t.Fatalf("simplex Optimize returned error: %v", err)
	}
	greedy, err := Optimize(zap.NewNop(), req, "greedy")
	if err != nil {
		t.Fatalf("greedy Optimize returned error: %v", err)
	}

	if simplex.Diagnostics.Solver != "simplex" || greedy.Diagnostics.Solver != "greedy" {
		t.Fatalf("expected solver names simplex/greedy, got %s/%s",
			simplex.Diagnostics.Solver, greedy.Diagnostics.Solver)
	}
	for _, id := range []string{"search", "social"} {
		if math.Abs(simplex.Spends[id]-greedy.Spends[id]) > 1e-6 {
			t.Errorf("backends disagree on %s: simplex %.9f, greedy %.9f",
				id, simplex.Spends[id], greedy.Spends[id])
		}
	}
}

func TestOptimizeRevenueRecomputedFromCurve(t *testing.T) {
	req := threeItemRequest()
	result, err := Optimize(zap.NewNop(), req, "")
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	for i := range req.Items {
		item := &req.Items[i]
		curve := roicurve.Clean(curveSamples(item.ROICurve))
		expected := roicurve.Evaluate(curve, result.Spends[item.ID], item.ExpectedROAS)
		if math.Abs(result.Revenues[item.ID]-expected) > 1e-6 {
			t.Errorf("item %s: expected revenue %.6f from curve, got %.6f",
				item.ID, expected, result.Revenues[item.ID])
		}
	}
	if math.Abs(result.Profit-(result.TotalRevenue-result.TotalSpend)) > 1e-9 {
		t.Errorf("profit %.9f is not revenue minus spend", result.Profit)
	}
}

func TestOptimizeLeavesRequestUntouched(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 50,
		Items:       []config.BudgetItem{{ID: "only", ExpectedROAS: 2}},
	}
	if _, err := Optimize(zap.NewNop(), req, ""); err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if req.Items[0].InventoryStatus != "" {
		t.Errorf("caller's item was normalized in place: %+v", req.Items[0])
	}
}

func TestOptimizeFailures(t *testing.T) {
	tests := []struct {
		name     string
		req      config.OptimizerRequest
		override string
	}{
		{
			name: "duplicate item ids",
			req: config.OptimizerRequest{
				TotalBudget: 100,
				Items: []config.BudgetItem{
					{ID: "dup", ExpectedROAS: 2},
					{ID: "dup", ExpectedROAS: 2},
				},
			},
		},
		{
			name: "no items",
			req:  config.OptimizerRequest{TotalBudget: 100},
		},
		{
			name: "non-positive budget",
			req: config.OptimizerRequest{
				TotalBudget: 0,
				Items:       []config.BudgetItem{{ID: "only", ExpectedROAS: 2}},
			},
		},
		{
			name: "unknown hierarchy member",
			req: config.OptimizerRequest{
				TotalBudget: 100,
				Items:       []config.BudgetItem{{ID: "only", ExpectedROAS: 2}},
				HierarchyConstraints: []config.HierarchyConstraint{
					{ID: "ghosts", Members: []string{"missing"}, MaxSpend: fp(50)},
				},
			},
		},
		{
			name: "minimums exceed budget",
			req: config.OptimizerRequest{
				TotalBudget: 100,
				Items: []config.BudgetItem{
					{ID: "heavy", MinSpend: 500, ExpectedROAS: 2},
				},
			},
		},
		{
			name: "unknown solver override",
			req: config.OptimizerRequest{
				TotalBudget: 100,
				Items:       []config.BudgetItem{{ID: "only", ExpectedROAS: 2}},
			},
			override: "interior-point",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Optimize(zap.NewNop(), test.req, test.override)
			if err == nil {
				t.Fatal("expected error")
			}
			var optErr *OptimizationError
			if !errors.As(err, &optErr) {
				t.Fatalf("expected OptimizationError, got %T: %v", err, err)
			}
		})
	}
}

package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/pkg/roicurve"
)

func fp(v float64) *float64 { return &v }

func rawCurve(points ...[2]float64) []config.CurvePoint {
	out := make([]config.CurvePoint, len(points))
	for i, p := range points {
		revenue := p[1]
		out[i] = config.CurvePoint{Spend: p[0], Revenue: &revenue}
	}
	return out
}

func cleanRaw(raw []config.CurvePoint) []roicurve.Point {
	samples := make([]roicurve.Sample, len(raw))
	for i, p := range raw {
		samples[i] = roicurve.Sample{Spend: p.Spend, Revenue: p.Revenue, ROAS: p.ROAS}
	}
	return roicurve.Clean(samples)
}

func TestValidateCurveNonConcave(t *testing.T) {
	raw := rawCurve([2]float64{0, 0}, [2]float64{100, 100}, [2]float64{200, 400})
	warnings := ValidateCurve("spiky", raw, cleanRaw(raw))

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "non-concave") {
		t.Errorf("expected non-concave warning, got %q", warnings[0])
	}
}

func TestValidateCurveDuplicateSpends(t *testing.T) {
	raw := rawCurve([2]float64{0, 0}, [2]float64{100, 250}, [2]float64{100, 300})
	warnings := ValidateCurve("dupes", raw, cleanRaw(raw))

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "duplicate curve spends") {
		t.Errorf("expected duplicate-spend warning, got %q", warnings[0])
	}
}

func TestValidateCurveCleanInput(t *testing.T) {
	raw := rawCurve([2]float64{0, 0}, [2]float64{100, 300}, [2]float64{200, 500})
	if warnings := ValidateCurve("fine", raw, cleanRaw(raw)); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestValidateItemNoSignal(t *testing.T) {
	warnings := ValidateItem(config.BudgetItem{ID: "blank"})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "no ROI curve") {
		t.Errorf("expected no-signal warning, got %q", warnings[0])
	}

	if warnings := ValidateItem(config.BudgetItem{ID: "roas_only", ExpectedROAS: 2}); len(warnings) != 0 {
		t.Errorf("expected no warnings for roas-only item, got %v", warnings)
	}
}

func TestValidateRequestAccumulates(t *testing.T) {
	req := config.OptimizerRequest{
		TotalBudget: 100,
		LearningCap: fp(1.5),
		Items: []config.BudgetItem{
			{ID: "blank"},
			{ID: "roas_only", ExpectedROAS: 2},
			{ID: "spiky", ExpectedROAS: 2, ROICurve: rawCurve([2]float64{0, 0}, [2]float64{100, 100}, [2]float64{200, 400})},
		},
	}

	warnings := ValidateRequest(&req)
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "Learning cap") {
		t.Errorf("expected learning cap warning first, got %q", warnings[0])
	}
}

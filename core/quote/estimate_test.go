package quote

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
	"billboard-pricing/internal/errors"
)

func TestEstimate(t *testing.T) {
	a := newTestAggregator()

	tests := []struct {
		name      string
		req       EstimateRequest
		wantRate  int64
		wantGross int64
		wantTotal int64
		wantWarn  int
	}{
		{
			name:      "company monthly with category discount",
			req:       EstimateRequest{Size: "5x13", Municipality: "مصراتة", Category: types.CategoryCompany, Units: 2},
			wantRate:  20000,
			wantGross: 40000,
			wantTotal: 38000,
		},
		{
			name:      "marketer with package and installation",
			req:       EstimateRequest{Size: "5x13", Municipality: "الخمس", Category: "marketers", Units: 3, PackageMonths: 3, IncludeInstallation: true},
			wantRate:  18000,
			wantGross: 54000,
			// 54000 -5% -> 51300 -15% -> 43605, + 600
			wantTotal: 44205,
		},
		{
			name:      "day rate prorated over thirty days",
			req:       EstimateRequest{Size: "5x13", Municipality: "مصراتة", Category: types.CategoryIndividual, Units: 10, Unit: "days"},
			wantRate:  24000,
			wantGross: 8000,
			wantTotal: 8000,
			wantWarn:  1,
		},
		{
			name:      "unknown package months warns",
			req:       EstimateRequest{Size: "5x13", Municipality: "مصراتة", Category: types.CategoryIndividual, Units: 1, PackageMonths: 5},
			wantRate:  24000,
			wantGross: 24000,
			wantTotal: 24000,
			wantWarn:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := a.Estimate(tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if est.Rate.Price != tt.wantRate {
				t.Errorf("expected rate %d, got %d", tt.wantRate, est.Rate.Price)
			}
			if est.Gross != tt.wantGross {
				t.Errorf("expected gross %d, got %d", tt.wantGross, est.Gross)
			}
			if est.Total != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, est.Total)
			}
			if len(est.Warnings) != tt.wantWarn {
				t.Errorf("expected %d warnings, got %v", tt.wantWarn, est.Warnings)
			}
			if last := est.Steps[len(est.Steps)-1]; last.Step != pricing.StepTotal || last.Amount != est.Total {
				t.Errorf("expected the last step to carry the total, got %+v", last)
			}
		})
	}
}

func TestEstimateLogsMonthsNotDays(t *testing.T) {
	tests := []struct {
		name       string
		req        EstimateRequest
		wantMonths int64
	}{
		{"monthly units", EstimateRequest{Size: "5x13", Municipality: "مصراتة", Category: types.CategoryIndividual, Units: 2}, 2},
		{"day units", EstimateRequest{Size: "5x13", Municipality: "مصراتة", Category: types.CategoryIndividual, Units: 10, Unit: "days"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			a := newTestAggregator(WithLogger(zap.New(core)))

			if _, err := a.Estimate(tt.req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			entries := logs.FilterMessage("price lookup degraded").All()
			if len(entries) != 1 {
				t.Fatalf("expected one degraded lookup log, got %d", len(entries))
			}
			if got := entries[0].ContextMap()["months"]; got != tt.wantMonths {
				t.Errorf("expected months=%d, got %v", tt.wantMonths, got)
			}
		})
	}
}

func TestEstimateZone(t *testing.T) {
	a := newTestAggregator()
	est, err := a.Estimate(EstimateRequest{Size: "4x12", Municipality: "غدامس", Category: types.CategoryCompany, Units: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Zone.Zone != "طرابلس" || est.Zone.Matched != zone.MatchDefault {
		t.Errorf("expected default zone, got %+v", est.Zone)
	}
}

func TestEstimateValidation(t *testing.T) {
	a := newTestAggregator()
	tests := []struct {
		name string
		req  EstimateRequest
	}{
		{"zero units", EstimateRequest{Size: "5x13", Category: types.CategoryCompany}},
		{"no size", EstimateRequest{Category: types.CategoryCompany, Units: 1}},
		{"no category", EstimateRequest{Size: "5x13", Units: 1}},
		{"bad unit", EstimateRequest{Size: "5x13", Category: types.CategoryCompany, Units: 1, Unit: "week"}},
		{"negative package", EstimateRequest{Size: "5x13", Category: types.CategoryCompany, Units: 1, PackageMonths: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Estimate(tt.req); !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"": UnitMonth, "Months": UnitMonth, "day": UnitDay, " DAYS ": UnitDay} {
		if got, ok := ParseUnit(in); !ok || got != want {
			t.Errorf("ParseUnit(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseUnit("year"); ok {
		t.Error("expected year to be rejected")
	}
}

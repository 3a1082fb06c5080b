package types

import "testing"

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    float64
		want   int64
	}{
		{"no discount", 24000, 0, 24000},
		{"five percent", 24000, 5, 22800},
		{"full discount", 24000, 100, 0},
		{"rounds half away from zero", 25, 10, 23},
		{"rounds down below half", 1234, 15, 1049},
		{"negative clamps to zero", 1000, -5, 1000},
		{"above hundred clamps", 1000, 150, 0},
		{"fractional percent", 10000, 12.5, 8750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyDiscount(tt.amount, tt.pct); got != tt.want {
				t.Errorf("ApplyDiscount(%d, %v) = %d, want %d", tt.amount, tt.pct, got, tt.want)
			}
		})
	}
}

func TestApplyDiscountMatchesFormulaForAllPercents(t *testing.T) {
	const base = 24000
	for pct := 0; pct <= 100; pct++ {
		got := ApplyDiscount(base, float64(pct))
		// base is a multiple of 100, so the exact result is an integer
		want := int64(base * (100 - pct) / 100)
		if got != want {
			t.Errorf("pct=%d: expected %d, got %d", pct, want, got)
		}
		if again := ApplyDiscount(base, float64(pct)); again != got {
			t.Errorf("pct=%d: recomputation changed result %d -> %d", pct, got, again)
		}
	}
}

func TestScale(t *testing.T) {
	if got := Scale(500, 1.2); got != 600 {
		t.Errorf("expected 600, got %d", got)
	}
	if got := Scale(333, 1.5); got != 500 {
		t.Errorf("expected 500 (499.5 rounded up), got %d", got)
	}
	if got := Scale(1000, 0.7); got != 700 {
		t.Errorf("expected 700, got %d", got)
	}
}

func TestPercentOf(t *testing.T) {
	if got := PercentOf(205200, 0); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := PercentOf(1000, 2.5); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
}

func TestProrate(t *testing.T) {
	tests := []struct {
		amount, num, den, want int64
	}{
		{24000, 15, 30, 12000},
		{24000, 1, 30, 800},
		{1000, 1, 3, 333},
		{1000, 2, 3, 667},
		{0, 7, 30, 0},
	}
	for _, tt := range tests {
		if got := Prorate(tt.amount, tt.num, tt.den); got != tt.want {
			t.Errorf("Prorate(%d, %d, %d) = %d, want %d", tt.amount, tt.num, tt.den, got, tt.want)
		}
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := map[string]Size{
		"5x13":     "5x13",
		" 5 × 13 ": "5x13",
		"4X12":     "4x12",
		"3*8":      "3x8",
	}
	for in, want := range tests {
		if got := NormalizeSize(in); got != want {
			t.Errorf("NormalizeSize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want CustomerCategory
		ok   bool
	}{
		{"companies", CategoryCompany, true},
		{"Company", CategoryCompany, true},
		{"marketers", CategoryMarketer, true},
		{"individual", CategoryIndividual, true},
		{"agency", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if CategoryCompany.CatalogKey() != "companies" {
		t.Errorf("expected companies catalog key, got %s", CategoryCompany.CatalogKey())
	}
}

func TestParseTier(t *testing.T) {
	if tier, ok := ParseTier(" b "); !ok || tier != TierB {
		t.Errorf("expected B, got %q (%v)", tier, ok)
	}
	if _, ok := ParseTier("C"); ok {
		t.Error("C is not a known tier")
	}
}

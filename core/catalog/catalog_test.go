package catalog

import (
	"strings"
	"testing"

	"go.uber.org/multierr"

	"billboard-pricing/core/types"
	"billboard-pricing/internal/errors"
)

func loadSample(t *testing.T) *PricingCatalog {
	t.Helper()
	c, err := LoadPricingFile("testdata/sample_pricing.json")
	if err != nil {
		t.Fatalf("load sample catalog: %v", err)
	}
	return c
}

func TestDecodePricingJSON(t *testing.T) {
	c := loadSample(t)

	if c.Currency != types.CurrencyLYD {
		t.Errorf("expected currency LYD, got %s", c.Currency)
	}
	if got := len(c.Zones()); got != 3 {
		t.Fatalf("expected 3 zones, got %d", got)
	}

	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"tier A bucket 1", c.TierPrice("مصراتة", types.TierA, 1, "5x13"), 24000},
		{"tier A bucket 3", c.TierPrice("مصراتة", types.TierA, 3, "4x12"), 17500},
		{"tier B bucket 12", c.TierPrice("مصراتة", types.TierB, 12, "4x12"), 13000},
		{"company price", c.CustomerPrice("مصراتة", types.CategoryCompany, "5x13"), 20000},
		{"marketer price", c.CustomerPrice("مصراتة", types.CategoryMarketer, "4x12"), 14000},
		{"numeric string", c.CustomerPrice("بنغازي", types.CategoryCompany, "4x12"), 16500},
		{"null reads as zero", c.TierPrice("بنغازي", types.TierA, 1, "4x12"), 0},
		{"missing zone reads as zero", c.TierPrice("سرت", types.TierA, 1, "5x13"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, tt.got)
			}
		})
	}
}

func TestDecodePackagesWithYearUnit(t *testing.T) {
	c := loadSample(t)

	p, ok := c.Package(12)
	if !ok {
		t.Fatal("expected a 12 month package from the 1 year entry")
	}
	if p.DiscountPercent != 20 {
		t.Errorf("expected 20%% discount, got %v", p.DiscountPercent)
	}

	adhoc := c.PackageFor(4)
	if adhoc.DiscountPercent != 0 || adhoc.Months != 4 {
		t.Errorf("expected undiscounted 4 month duration, got %+v", adhoc)
	}
}

func TestDecodePricingJSONRejectsGarbage(t *testing.T) {
	_, err := DecodePricingJSON([]byte(`{"zones": [`))
	if !errors.IsType(err, errors.TypeCatalog) {
		t.Errorf("expected CATALOG_ERROR, got %v", err)
	}
}

func TestLoadPricingFileMissing(t *testing.T) {
	_, err := LoadPricingFile("testdata/does_not_exist.json")
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestDecodeRecordsIssues(t *testing.T) {
	doc := `{
		"currency": "LYD",
		"zones": {
			"x": {
				"name": "x",
				"prices": {"vips": {"5x13": 1}},
				"abPrices": {"C": {"1": {"5x13": 1}}, "A": {"2": {"5x13": 1}}}
			}
		},
		"packages": [{"value": 0, "unit": "month", "label": "none", "discount": 0}]
	}`
	c, err := DecodePricingJSON([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(c.Issues()); got != 3 {
		t.Errorf("expected 3 decode issues, got %d: %v", got, c.Issues())
	}
	if got := len(c.Notes()); got != 1 {
		t.Errorf("expected 1 decode note for the dropped bucket, got %d: %v", got, c.Notes())
	}
	if c.TierPrice("x", types.TierA, 2, "5x13") != 0 {
		t.Error("non-canonical bucket must not be stored")
	}

	report := c.Validate(DefaultValidationRules())
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0].Error(), "was dropped") {
		t.Errorf("expected the dropped bucket as a warning, got %v", report.Warnings)
	}
}

func TestEncodeRoundTripKeepsHash(t *testing.T) {
	c := loadSample(t)

	data, err := EncodePricingJSON(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodePricingJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Hash() == "" {
		t.Fatal("expected a content hash on a sealed catalog")
	}
	if again.Hash() != c.Hash() {
		t.Errorf("expected hash %s after round trip, got %s", c.Hash(), again.Hash())
	}
}

func TestSealedCatalogPanicsOnWrite(t *testing.T) {
	c := loadSample(t)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when writing to a sealed catalog")
		}
	}()
	c.SetTierPrice("مصراتة", types.TierA, 1, "5x13", 1)
}

func TestDefaultZoneKey(t *testing.T) {
	c := loadSample(t)
	if got := c.DefaultZoneKey(); got != "طرابلس" {
		t.Errorf("expected configured default zone, got %s", got)
	}

	open := NewPricingCatalog(types.CurrencyLYD)
	open.AddZone("b", "")
	open.AddZone("a", "")
	open.DefaultZone = "missing"
	if got := open.DefaultZoneKey(); got != "a" {
		t.Errorf("expected first zone key, got %s", got)
	}

	if got := NewPricingCatalog(types.CurrencyLYD).DefaultZoneKey(); got != "" {
		t.Errorf("expected empty default for empty catalog, got %s", got)
	}
}

func TestBucketFor(t *testing.T) {
	buckets := DefaultBuckets()
	tests := []struct {
		months int
		want   int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 3},
		{4, 3},
		{5, 3},
		{6, 6},
		{11, 6},
		{12, 12},
		{36, 12},
	}
	for _, tt := range tests {
		if got := BucketFor(buckets, tt.months); got != tt.want {
			t.Errorf("BucketFor(%d) = %d, want %d", tt.months, got, tt.want)
		}
	}
}

func TestDecodePricingHCL(t *testing.T) {
	c, err := LoadPricingFile("testdata/sample_pricing.hcl")
	if err != nil {
		t.Fatalf("load HCL catalog: %v", err)
	}

	if got := c.TierPrice("مصراتة", types.TierA, 1, "5x13"); got != 24000 {
		t.Errorf("expected 24000, got %d", got)
	}
	if got := c.CustomerPrice("مصراتة", types.CategoryCompany, "4x12"); got != 15000 {
		t.Errorf("expected 15000, got %d", got)
	}
	if c.DefaultZone != "طرابلس" {
		t.Errorf("expected default zone طرابلس, got %s", c.DefaultZone)
	}
	if c.Aliases["الخمس"] != "مصراتة" {
		t.Errorf("expected alias to مصراتة, got %q", c.Aliases["الخمس"])
	}
	if len(c.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(c.Packages))
	}
	if c.Packages[1].DiscountPercent != 5 {
		t.Errorf("expected 5%% on 3 months, got %v", c.Packages[1].DiscountPercent)
	}
}

func TestDecodePricingHCLInvalid(t *testing.T) {
	_, err := DecodePricingHCL("bad.hcl", []byte(`zone {`))
	if !errors.IsType(err, errors.TypeCatalog) {
		t.Errorf("expected CATALOG_ERROR, got %v", err)
	}
}

func TestValidateSample(t *testing.T) {
	c := loadSample(t)
	if report := c.Validate(DefaultValidationRules()); report.All() != nil {
		t.Errorf("expected sample catalog to validate, got %v", report.All())
	}
}

func TestValidateFindings(t *testing.T) {
	c := NewPricingCatalog(types.CurrencyLYD)
	c.SetTierPrice("a", types.TierA, 1, "5x13", 100)
	c.SetTierPrice("b", types.TierA, 1, "4x12", 100)
	c.DefaultZone = "nowhere"
	c.Aliases["x"] = "y"
	c.Packages = []types.PackageDuration{
		{Months: 1, Label: "1 month", DiscountPercent: 10},
		{Months: 3, Label: "3 months", DiscountPercent: 5},
		{Months: 6, Label: "6 months", DiscountPercent: 120},
	}
	c.Seal()

	report := c.Validate(DefaultValidationRules())
	if report.OK() {
		t.Fatal("expected blocking findings")
	}

	tests := []struct {
		name     string
		findings []error
		want     []string
	}{
		{"errors", report.Errors, []string{
			`package "6 months": discount 120.00%`,
			`alias "x"`,
			`defaultZone "nowhere"`,
		}},
		{"warnings", report.Warnings, []string{
			"zone a: size 4x12",
			"zone b: size 5x13",
			`package "3 months": discount 5.00% is lower`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.findings) != len(tt.want) {
				t.Fatalf("expected %d findings, got %d: %v", len(tt.want), len(tt.findings), tt.findings)
			}
			all := multierr.Combine(tt.findings...).Error()
			for _, w := range tt.want {
				if !strings.Contains(all, w) {
					t.Errorf("expected a finding mentioning %q, got %s", w, all)
				}
			}
		})
	}
}

func TestValidateWarningsOnlyIsAccepted(t *testing.T) {
	c := NewPricingCatalog(types.CurrencyLYD)
	c.SetTierPrice("a", types.TierA, 1, "5x13", 100)
	c.SetTierPrice("b", types.TierA, 1, "4x12", 100)
	c.Packages = []types.PackageDuration{
		{Months: 3, Label: "3 months", DiscountPercent: 10},
		{Months: 6, Label: "6 months", DiscountPercent: 5},
	}
	c.Seal()

	report := c.Validate(DefaultValidationRules())
	if !report.OK() {
		t.Errorf("expected no blocking findings, got %v", report.Err())
	}
	if len(report.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", report.Warnings)
	}
}

func TestStats(t *testing.T) {
	stats := loadSample(t).Stats()
	if stats.Zones != 3 {
		t.Errorf("expected 3 zones, got %d", stats.Zones)
	}
	if stats.Sizes != 2 {
		t.Errorf("expected 2 sizes, got %d", stats.Sizes)
	}
	// 16 مصراتة + 2 طرابلس; بنغازي tier prices are zero
	if stats.TierRates != 18 {
		t.Errorf("expected 18 tier rates, got %d", stats.TierRates)
	}
	if stats.CategoryRates != 10 {
		t.Errorf("expected 10 category rates, got %d", stats.CategoryRates)
	}
}

func TestInstallationCatalog(t *testing.T) {
	c, err := LoadInstallationFile("testdata/sample_installation.json")
	if err != nil {
		t.Fatalf("load installation catalog: %v", err)
	}

	z, ok := c.Zone("مصراتة")
	if !ok {
		t.Fatal("expected مصراتة installation zone")
	}
	if z.Multiplier != 1.2 || z.Prices["5x13"] != 500 {
		t.Errorf("unexpected zone %+v", z)
	}
	if c.DefaultZoneKey() != "طرابلس" {
		t.Errorf("expected default zone طرابلس, got %s", c.DefaultZoneKey())
	}
	if report := ValidateInstallation(c); report.All() != nil {
		t.Errorf("expected sample installation catalog to validate, got %v", report.All())
	}

	data, err := EncodeInstallationJSON(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodeInstallationJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if again.Hash() != c.Hash() {
		t.Errorf("expected stable hash after round trip")
	}
}

func TestValidateInstallationFindings(t *testing.T) {
	c := NewInstallationCatalog(types.CurrencyLYD)
	c.Sizes = []types.Size{"5x13", "4x12", "3x4"}
	c.AddZone(InstallationZone{Key: "a", Multiplier: 0, Prices: map[types.Size]int64{"5x13": 0, "4x12": -5}})
	c.AddZone(InstallationZone{Key: "b", Multiplier: -1, Prices: map[types.Size]int64{"5x13": 100, "4x12": 100, "3x4": 100}})
	c.Aliases["x"] = "missing"

	report := ValidateInstallation(c)
	// negative price, negative multiplier, unknown alias
	if len(report.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(report.Errors), report.Errors)
	}
	// zero multiplier, absent 3x4
	if len(report.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(report.Warnings), report.Warnings)
	}
	if strings.Contains(multierr.Combine(report.Errors...).Error(), "size 5x13") {
		t.Error("a listed price of 0 must not be a finding")
	}
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder(nil, nil)
	if h.Pricing() == nil || h.Installation() == nil {
		t.Fatal("expected empty catalogs from an unset holder")
	}

	first := loadSample(t)
	h.SetPricing(first)
	if h.Pricing() != first {
		t.Error("expected the published catalog")
	}

	second := NewPricingCatalog(types.CurrencyLYD)
	second.SetTierPrice("z", types.TierA, 1, "5x13", 1)
	h.SetPricing(second)
	if h.Pricing() != second {
		t.Error("expected the replacement catalog")
	}
	if h.Pricing().Hash() == "" {
		t.Error("expected SetPricing to seal the catalog")
	}
}

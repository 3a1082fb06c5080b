package quote

import (
	"fmt"
	"strings"

	"billboard-pricing/core/installation"
	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
	"billboard-pricing/internal/errors"
)

// Unit is the rental unit of an estimate
type Unit string

const (
	UnitMonth Unit = "month"
	UnitDay   Unit = "day"
)

// daysPerMonth prorates monthly rates for day rentals
const daysPerMonth = 30

// ParseUnit accepts singular and plural unit names; empty means month
func ParseUnit(raw string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "month", "months":
		return UnitMonth, true
	case "day", "days":
		return UnitDay, true
	default:
		return "", false
	}
}

// EstimateRequest is a single-billboard customer-type price request
type EstimateRequest struct {
	Size                types.Size             `json:"size"`
	Municipality        string                 `json:"municipality"`
	Area                string                 `json:"area,omitempty"`
	Category            types.CustomerCategory `json:"category"`
	Units               int                    `json:"units"`
	Unit                Unit                   `json:"unit,omitempty"`
	PackageMonths       int                    `json:"packageMonths,omitempty"`
	IncludeInstallation bool                   `json:"includeInstallation"`
}

// Estimate is the step-by-step breakdown of a simplified calculation
type Estimate struct {
	Size         types.Size             `json:"size"`
	Zone         zone.Resolution        `json:"zone"`
	Category     types.CustomerCategory `json:"category"`
	Rate         pricing.Lookup         `json:"rate"`
	Units        int                    `json:"units"`
	Unit         Unit                   `json:"unit"`
	Gross        int64                  `json:"gross"`
	Package      *types.PackageDuration `json:"package,omitempty"`
	Installation *installation.Price    `json:"installation,omitempty"`
	Steps        []pricing.StepResult   `json:"steps"`
	Total        int64                  `json:"total"`
	Currency     types.Currency         `json:"currency"`
	Warnings     []string               `json:"warnings"`
}

// Estimate prices one billboard in customer-type mode: the flat category
// rate scaled by the rental units, then the fixed discount pipeline.
func (a *Aggregator) Estimate(req EstimateRequest) (*Estimate, error) {
	if req.Units <= 0 {
		return nil, errors.Inputf("units must be positive, got %d", req.Units)
	}
	if strings.TrimSpace(string(req.Size)) == "" {
		return nil, errors.Input("size is required")
	}
	category, ok := types.ParseCategory(string(req.Category))
	if !ok {
		return nil, errors.Inputf("unknown customer category %q", req.Category)
	}
	unit, ok := ParseUnit(string(req.Unit))
	if !ok {
		return nil, errors.Inputf("unknown unit %q", req.Unit)
	}
	if req.PackageMonths < 0 {
		return nil, errors.Inputf("packageMonths must not be negative, got %d", req.PackageMonths)
	}

	size := types.NormalizeSize(string(req.Size))
	est := &Estimate{
		Size:     size,
		Zone:     a.resolver.ResolveDetailed(req.Municipality, req.Area),
		Category: category,
		Units:    req.Units,
		Unit:     unit,
		Currency: a.pricing.Currency,
		Warnings: []string{},
	}
	if est.Zone.Matched == zone.MatchDefault {
		est.Warnings = append(est.Warnings, fmt.Sprintf("municipality %q not recognized; priced in default zone %s", req.Municipality, est.Zone.Zone))
	}

	// the rate is monthly; a day count is not a duration in months
	months := req.Units
	if unit == UnitDay {
		months = req.PackageMonths
	}
	est.Rate = a.prices.PriceFor(size, est.Zone.Zone, pricing.ByCategory(category), months)
	if est.Rate.Degraded() {
		est.Warnings = append(est.Warnings, est.Rate.Reason)
	}

	switch unit {
	case UnitDay:
		est.Gross = types.Prorate(est.Rate.Price, int64(req.Units), daysPerMonth)
	default:
		est.Gross = est.Rate.Price * int64(req.Units)
	}

	pipeline := pricing.Pipeline{
		Base:                    est.Gross,
		CategoryDiscountPercent: a.pricing.CategoryDiscount(category),
	}
	if req.PackageMonths > 0 {
		pkg, ok := a.pricing.Package(req.PackageMonths)
		if ok {
			est.Package = &pkg
			pipeline.PackageDiscountPercent = pkg.DiscountPercent
		} else {
			est.Warnings = append(est.Warnings, fmt.Sprintf("no package defined for %d months; no package discount applied", req.PackageMonths))
		}
	}
	if req.IncludeInstallation {
		inst := a.install.PriceFor(size, est.Zone.Zone)
		est.Installation = &inst
		pipeline.Installation = inst.Amount
		if !inst.Available {
			est.Warnings = append(est.Warnings, inst.Reason)
		}
	}

	result := pipeline.Run()
	est.Steps = result.Steps
	est.Total = result.Total
	return est, nil
}

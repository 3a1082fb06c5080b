// Package catalog - Catalog validation
// Errors mark a catalog that cannot be trusted to price and block an upload.
// Warnings are advisory: the catalog still prices, and each warning would
// surface as a fallback hit at quote time.
package catalog

import (
	"fmt"

	"go.uber.org/multierr"

	"billboard-pricing/core/types"
)

// Severity grades a validation finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationRule is a pricing catalog validation rule
type ValidationRule struct {
	Name     string
	Severity Severity
	Check    func(*PricingCatalog) []error
}

// ValidationReport holds findings split by severity
type ValidationReport struct {
	Errors   []error
	Warnings []error
}

// OK reports whether the catalog may be accepted
func (r ValidationReport) OK() bool {
	return len(r.Errors) == 0
}

// Err combines the blocking findings, nil when there are none
func (r ValidationReport) Err() error {
	return multierr.Combine(r.Errors...)
}

// All combines every finding regardless of severity
func (r ValidationReport) All() error {
	return multierr.Append(r.Err(), multierr.Combine(r.Warnings...))
}

func (r *ValidationReport) add(severity Severity, findings ...error) {
	if severity == SeverityWarning {
		r.Warnings = append(r.Warnings, findings...)
		return
	}
	r.Errors = append(r.Errors, findings...)
}

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		{"decode", SeverityError, validateDecodeIssues},
		{"zones", SeverityError, validateHasZones},
		{"packages", SeverityError, validatePackages},
		{"aliases", SeverityError, validateAliases},
		{"default-zone", SeverityError, validateDefaultZone},
		{"category-discounts", SeverityError, validateCategoryDiscounts},
		{"decode-notes", SeverityWarning, validateDecodeNotes},
		{"size-coverage", SeverityWarning, validateSizeCoverage},
		{"package-order", SeverityWarning, validatePackageOrder},
	}
}

// Validate checks a catalog against validation rules
func (c *PricingCatalog) Validate(rules []ValidationRule) ValidationReport {
	var report ValidationReport
	for _, rule := range rules {
		report.add(rule.Severity, rule.Check(c)...)
	}
	return report
}

// validateDecodeIssues surfaces data the decoder could not interpret
func validateDecodeIssues(c *PricingCatalog) []error {
	return c.issues
}

// validateDecodeNotes surfaces data the decoder skipped without harm
func validateDecodeNotes(c *PricingCatalog) []error {
	return c.notes
}

func validateHasZones(c *PricingCatalog) []error {
	if len(c.zones) == 0 {
		return []error{fmt.Errorf("catalog defines no zones")}
	}
	return nil
}

// validateSizeCoverage ensures every size priced anywhere has at least one
// price in each zone, on either axis
func validateSizeCoverage(c *PricingCatalog) []error {
	var errs []error
	sizes := c.Sizes()
	for _, zone := range c.ZoneKeys() {
		tier := c.ZoneSizes(zone, AxisTier)
		category := c.ZoneSizes(zone, AxisCategory)
		for _, size := range sizes {
			if !tier[size] && !category[size] {
				errs = append(errs, fmt.Errorf("zone %s: size %s has no price in either table", zone, size))
			}
		}
	}
	return errs
}

func validatePackages(c *PricingCatalog) []error {
	var errs []error
	if len(c.Packages) == 0 {
		errs = append(errs, fmt.Errorf("catalog defines no packages"))
	}
	seen := make(map[int]bool)
	for _, p := range c.Packages {
		if p.Months <= 0 {
			errs = append(errs, fmt.Errorf("package %q: months must be positive", p.Label))
		}
		if seen[p.Months] {
			errs = append(errs, fmt.Errorf("package %q: duplicate duration of %d months", p.Label, p.Months))
		}
		seen[p.Months] = true
		if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
			errs = append(errs, fmt.Errorf("package %q: discount %.2f%% outside 0..100", p.Label, p.DiscountPercent))
		}
	}
	return errs
}

// validatePackageOrder flags longer packages with smaller discounts
func validatePackageOrder(c *PricingCatalog) []error {
	var errs []error
	for i := 1; i < len(c.Packages); i++ {
		p, prev := c.Packages[i], c.Packages[i-1]
		if p.DiscountPercent < prev.DiscountPercent {
			errs = append(errs, fmt.Errorf("package %q: discount %.2f%% is lower than the shorter %q (%.2f%%)",
				p.Label, p.DiscountPercent, prev.Label, prev.DiscountPercent))
		}
	}
	return errs
}

func validateAliases(c *PricingCatalog) []error {
	var errs []error
	for alias, zone := range c.Aliases {
		if !c.HasZone(zone) {
			errs = append(errs, fmt.Errorf("alias %q points to unknown zone %q", alias, zone))
		}
	}
	return errs
}

func validateDefaultZone(c *PricingCatalog) []error {
	if c.DefaultZone != "" && !c.HasZone(c.DefaultZone) {
		return []error{fmt.Errorf("defaultZone %q is not a zone", c.DefaultZone)}
	}
	return nil
}

func validateCategoryDiscounts(c *PricingCatalog) []error {
	var errs []error
	for _, category := range types.Categories() {
		pct := c.CategoryDiscounts[category]
		if pct < 0 || pct > 100 {
			errs = append(errs, fmt.Errorf("category %s: discount %.2f%% outside 0..100", category, pct))
		}
	}
	return errs
}

// ValidateInstallation checks an installation catalog. A listed price of 0
// is a free installation; only negative prices are errors, and sizes a zone
// does not list are warnings because they price as unavailable.
func ValidateInstallation(c *InstallationCatalog) ValidationReport {
	var report ValidationReport
	if len(c.zones) == 0 {
		report.add(SeverityError, fmt.Errorf("installation catalog defines no zones"))
	}
	for _, key := range c.ZoneKeys() {
		z := c.zones[key]
		switch {
		case z.Multiplier < 0:
			report.add(SeverityError, fmt.Errorf("installation zone %s: multiplier must not be negative, got %v", key, z.Multiplier))
		case z.Multiplier == 0:
			report.add(SeverityWarning, fmt.Errorf("installation zone %s: no multiplier, installation is unavailable", key))
		}
		for _, size := range c.Sizes {
			price, ok := z.Prices[size]
			switch {
			case !ok:
				report.add(SeverityWarning, fmt.Errorf("installation zone %s: size %s has no base price", key, size))
			case price < 0:
				report.add(SeverityError, fmt.Errorf("installation zone %s: size %s has negative base price %d", key, size, price))
			}
		}
	}
	for alias, zone := range c.Aliases {
		if _, ok := c.zones[zone]; !ok {
			report.add(SeverityError, fmt.Errorf("installation alias %q points to unknown zone %q", alias, zone))
		}
	}
	if c.DefaultZone != "" {
		if _, ok := c.zones[c.DefaultZone]; !ok {
			report.add(SeverityError, fmt.Errorf("installation defaultZone %q is not a zone", c.DefaultZone))
		}
	}
	return report
}

package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"billboard-pricing/core/catalog"
	"billboard-pricing/core/installation"
	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

// DefaultValidityDays is how long a quote stays valid
const DefaultValidityDays = 30

// Aggregator prices requests against one pair of catalog snapshots
type Aggregator struct {
	pricing      *catalog.PricingCatalog
	installation *catalog.InstallationCatalog

	resolver *zone.Resolver
	prices   *pricing.Calculator
	install  *installation.Calculator

	defaultTier  types.Tier
	validityDays int
	taxPercent   float64
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithIDGenerator sets the quote ID source
func WithIDGenerator(newID func() string) Option {
	return func(a *Aggregator) { a.newID = newID }
}

// WithDefaultTier sets the tier for billboards without a valid one
func WithDefaultTier(t types.Tier) Option {
	return func(a *Aggregator) {
		if t.IsValid() {
			a.defaultTier = t
		}
	}
}

// WithValidityDays sets the validity window
func WithValidityDays(days int) Option {
	return func(a *Aggregator) {
		if days > 0 {
			a.validityDays = days
		}
	}
}

// WithTaxPercent sets the flat tax rate
func WithTaxPercent(pct float64) Option {
	return func(a *Aggregator) { a.taxPercent = types.ClampPercent(pct) }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// NewAggregator creates an aggregator. installation may be nil, in which
// case installation is never available.
func NewAggregator(p *catalog.PricingCatalog, inst *catalog.InstallationCatalog, opts ...Option) *Aggregator {
	a := &Aggregator{
		pricing:      p,
		installation: inst,
		defaultTier:  types.TierA,
		validityDays: DefaultValidityDays,
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrGlobal(a.logger)
	if a.installation == nil {
		a.installation = catalog.NewInstallationCatalog(p.Currency)
	}

	a.resolver = zone.NewResolver(p, p.Aliases, a.logger)
	a.prices = pricing.NewCalculator(p, a.logger)
	a.install = installation.NewCalculator(a.installation, a.logger)
	return a
}

// Currency is the pricing catalog currency
func (a *Aggregator) Currency() types.Currency {
	return a.pricing.Currency
}

// ResolveZone resolves a location against the pricing catalog
func (a *Aggregator) ResolveZone(municipality, area string) zone.Resolution {
	return a.resolver.ResolveDetailed(municipality, area)
}

// PriceFor exposes the price calculator
func (a *Aggregator) PriceFor(size types.Size, zoneName string, sel pricing.Selector, months int) pricing.Lookup {
	return a.prices.PriceFor(size, zoneName, sel, months)
}

// InstallationPriceFor exposes the installation calculator
func (a *Aggregator) InstallationPriceFor(size types.Size, zoneName string) installation.Price {
	return a.install.PriceFor(size, zoneName)
}

// GenerateQuote prices every billboard for the requested duration. Items
// whose price cannot be resolved stay on the quote as zero lines with a
// warning.
func (a *Aggregator) GenerateQuote(req Request) (*Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	customer := req.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Category = normalizeCategory(customer.Category)

	pkg := a.pricing.PackageFor(req.Months)
	categoryPct := 0.0
	if req.Options.ApplyCategoryDiscount {
		categoryPct = a.pricing.CategoryDiscount(customer.Category)
	}

	createdAt := a.now().UTC()
	q := &Quote{
		ID:                      a.newID(),
		Customer:                customer,
		Package:                 pkg,
		Items:                   make([]Item, 0, len(req.Billboards)),
		TaxPercent:              a.taxPercent,
		Currency:                a.pricing.Currency,
		CreatedAt:               createdAt,
		ValidUntil:              createdAt.AddDate(0, 0, a.validityDays),
		CatalogHash:             a.pricing.Hash(),
		InstallationCatalogHash: a.installation.Hash(),
		Warnings:                []string{},
	}
	if _, ok := a.pricing.Package(req.Months); !ok {
		q.Warnings = append(q.Warnings, fmt.Sprintf("no package defined for %d months; no package discount applied", req.Months))
	}

	months := int64(req.Months)
	for _, bb := range req.Billboards {
		item, warnings := a.priceItem(bb, req.Months, pkg.DiscountPercent, categoryPct, req.Options.IncludeInstallation)
		q.Items = append(q.Items, item)
		q.Warnings = append(q.Warnings, warnings...)

		q.Subtotal += item.BasePrice * months
		q.TotalDiscount += (item.BasePrice - item.FinalPrice) * months
		q.InstallationTotal += item.InstallationPrice
	}

	taxable := q.Subtotal - q.TotalDiscount + q.InstallationTotal
	q.Tax = types.PercentOf(taxable, q.TaxPercent)
	q.Total = taxable + q.Tax

	a.logger.Info("quote generated",
		zap.String("id", q.ID),
		zap.Int("items", len(q.Items)),
		zap.Int("months", req.Months),
		zap.Int64("total", q.Total),
		zap.Int("warnings", len(q.Warnings)),
	)
	return q, nil
}

func (a *Aggregator) priceItem(bb types.Billboard, months int, packagePct, categoryPct float64, withInstallation bool) (Item, []string) {
	var warnings []string
	label := bb.ID
	if label == "" {
		label = string(bb.Size)
	}

	res := a.resolver.ResolveDetailed(bb.Municipality, bb.Area)
	if res.Matched == zone.MatchDefault {
		warnings = append(warnings, fmt.Sprintf("billboard %s: municipality %q not recognized; priced in default zone %s", label, bb.Municipality, res.Zone))
	}

	tier, ok := types.ParseTier(string(bb.PriceTier))
	if !ok {
		tier = a.defaultTier
	}

	lookup := a.prices.PriceFor(bb.Size, res.Zone, pricing.ByTier(tier), months)
	if lookup.Degraded() {
		warnings = append(warnings, fmt.Sprintf("billboard %s: %s", label, lookup.Reason))
	}

	item := Item{
		BillboardID:             bb.ID,
		Size:                    types.NormalizeSize(string(bb.Size)),
		Municipality:            bb.Municipality,
		Zone:                    res.Zone,
		ZoneMatch:               res.Matched,
		Tier:                    tier,
		BasePrice:               lookup.Price,
		FinalPrice:              pricing.FinalPrice(lookup.Price, packagePct, categoryPct),
		DiscountPercent:         types.ClampPercent(packagePct),
		CategoryDiscountPercent: types.ClampPercent(categoryPct),
		PriceSource:             lookup.Source,
		PriceOutcome:            lookup.Outcome,
	}

	if withInstallation {
		inst := a.install.PriceFor(bb.Size, res.Zone)
		item.InstallationPrice = inst.Amount
		item.InstallationAvailable = inst.Available
		if !inst.Available {
			warnings = append(warnings, fmt.Sprintf("billboard %s: %s", label, inst.Reason))
		}
	}

	item.LineTotal = item.FinalPrice*int64(months) + item.InstallationPrice
	return item, warnings
}

func validateRequest(req Request) error {
	if req.Months <= 0 {
		return errors.Inputf("months must be positive, got %d", req.Months)
	}
	if len(req.Billboards) == 0 {
		return errors.Input("at least one billboard is required")
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return errors.Input("customer name is required")
	}
	if _, ok := types.ParseCategory(string(req.Customer.Category)); req.Customer.Category != "" && !ok {
		return errors.Inputf("unknown customer category %q", req.Customer.Category)
	}
	for i, bb := range req.Billboards {
		if strings.TrimSpace(string(bb.Size)) == "" {
			return errors.Inputf("billboard %d: size is required", i)
		}
	}
	return nil
}

// normalizeCategory maps catalog spellings onto the domain name; empty means
// individual
func normalizeCategory(c types.CustomerCategory) types.CustomerCategory {
	if parsed, ok := types.ParseCategory(string(c)); ok {
		return parsed
	}
	return types.CategoryIndividual
}

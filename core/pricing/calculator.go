package pricing

import (
	"fmt"

	"go.uber.org/zap"

	"billboard-pricing/core/catalog"
	"billboard-pricing/core/types"
	"billboard-pricing/internal/logging"
)

// Calculator prices billboards against one catalog snapshot
type Calculator struct {
	catalog  *catalog.PricingCatalog
	defaults map[types.Size]int64
	logger   *zap.Logger
}

// NewCalculator creates a calculator. logger may be nil.
func NewCalculator(c *catalog.PricingCatalog, logger *zap.Logger) *Calculator {
	return &Calculator{
		catalog:  c,
		defaults: defaultSizePrices,
		logger:   logging.OrGlobal(logger),
	}
}

// Catalog returns the snapshot this calculator reads
func (c *Calculator) Catalog() *catalog.PricingCatalog {
	return c.catalog
}

// PriceFor returns the monthly base price for a size in a zone.
//
// Tier mode buckets months down to a catalog bucket and falls back
// tier price -> company price -> default table. Customer-type mode is a flat
// rate and falls back category price -> default table; scaling by duration
// is the caller's job.
func (c *Calculator) PriceFor(size types.Size, zone string, sel Selector, months int) Lookup {
	size = types.NormalizeSize(string(size))

	var l Lookup
	switch sel.Axis {
	case catalog.AxisTier:
		l = c.tierPrice(size, zone, sel.Tier, months)
	default:
		l = c.categoryPrice(size, zone, sel.Category)
	}

	if l.Degraded() {
		c.logger.Warn("price lookup degraded",
			zap.String("size", string(size)),
			zap.String("zone", zone),
			zap.String("selector", sel.String()),
			zap.Int("months", months),
			zap.String("outcome", string(l.Outcome)),
			zap.String("source", string(l.Source)),
			zap.Int64("price", l.Price),
		)
	}
	return l
}

func (c *Calculator) tierPrice(size types.Size, zone string, tier types.Tier, months int) Lookup {
	bucket := c.catalog.Bucket(months)

	if p := c.catalog.TierPrice(zone, tier, bucket, size); p > 0 {
		return Lookup{Price: p, Outcome: OutcomeFound, Source: SourceTier, Bucket: bucket}
	}
	if p := c.catalog.CustomerPrice(zone, types.CategoryCompany, size); p > 0 {
		return Lookup{
			Price:   p,
			Outcome: OutcomeDefaulted,
			Source:  SourceCustomer,
			Bucket:  bucket,
			Reason:  fmt.Sprintf("no tier %s price for %s in %s (%d month bucket); used company price", tier, size, zone, bucket),
		}
	}
	return c.fromDefaults(size, bucket, fmt.Sprintf("no tier %s or company price for %s in %s", tier, size, zone))
}

func (c *Calculator) categoryPrice(size types.Size, zone string, category types.CustomerCategory) Lookup {
	if p := c.catalog.CustomerPrice(zone, category, size); p > 0 {
		return Lookup{Price: p, Outcome: OutcomeFound, Source: SourceCustomer}
	}
	return c.fromDefaults(size, 0, fmt.Sprintf("no %s price for %s in %s", category, size, zone))
}

func (c *Calculator) fromDefaults(size types.Size, bucket int, reason string) Lookup {
	if p := c.defaults[size]; p > 0 {
		return Lookup{
			Price:   p,
			Outcome: OutcomeDefaulted,
			Source:  SourceDefault,
			Bucket:  bucket,
			Reason:  reason + "; used default size price",
		}
	}
	return Lookup{
		Outcome: OutcomeMissing,
		Source:  SourceNone,
		Bucket:  bucket,
		Reason:  reason + "; no default price for size",
	}
}

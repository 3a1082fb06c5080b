// Package installation prices billboard installation per zone and size
package installation

import (
	"fmt"

	"go.uber.org/zap"

	"billboard-pricing/core/catalog"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
	"billboard-pricing/internal/logging"
)

// Price is an installation price. Available is false when the catalog has
// no data for the zone or size. A listed price of 0 is a free installation
// and stays Available.
type Price struct {
	Amount    int64  `json:"amount"`
	Available bool   `json:"available"`
	Zone      string `json:"zone,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Calculator prices installation against one installation catalog snapshot
type Calculator struct {
	catalog  *catalog.InstallationCatalog
	resolver *zone.Resolver
	logger   *zap.Logger
}

// NewCalculator creates a calculator. logger may be nil.
func NewCalculator(c *catalog.InstallationCatalog, logger *zap.Logger) *Calculator {
	logger = logging.OrGlobal(logger)
	return &Calculator{
		catalog:  c,
		resolver: zone.NewResolver(c, c.Aliases, logger),
		logger:   logger,
	}
}

// PriceFor returns round(basePrice × multiplier) for a size in a zone. The
// zone name is resolved against the installation catalog, which may name
// its zones differently from the pricing catalog.
func (c *Calculator) PriceFor(size types.Size, zoneName string) Price {
	size = types.NormalizeSize(string(size))

	key := c.resolver.Resolve(zoneName, "")
	z, ok := c.catalog.Zone(key)
	if !ok {
		return c.unavailable(size, zoneName, "", fmt.Sprintf("no installation zone for %q", zoneName))
	}

	base, ok := z.Prices[size]
	if !ok || base < 0 {
		return c.unavailable(size, zoneName, z.Key, fmt.Sprintf("no installation price for %s in %s", size, z.Key))
	}
	if z.Multiplier <= 0 {
		return c.unavailable(size, zoneName, z.Key, fmt.Sprintf("installation zone %s has no multiplier", z.Key))
	}

	return Price{
		Amount:    types.Scale(base, z.Multiplier),
		Available: true,
		Zone:      z.Key,
	}
}

func (c *Calculator) unavailable(size types.Size, requested, resolved, reason string) Price {
	c.logger.Warn("installation price unavailable",
		zap.String("size", string(size)),
		zap.String("zone", requested),
		zap.String("resolved", resolved),
		zap.String("reason", reason),
	)
	return Price{Zone: resolved, Reason: reason}
}

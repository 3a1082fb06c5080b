package catalog

import (
	"sync/atomic"

	"billboard-pricing/core/types"
)

// Holder shares the current catalogs across goroutines. Readers take one
// snapshot per calculation; a replacement swaps the pointer wholesale and
// the last writer wins.
type Holder struct {
	pricing      atomic.Pointer[PricingCatalog]
	installation atomic.Pointer[InstallationCatalog]
}

// NewHolder creates a holder with initial catalogs; either may be nil
func NewHolder(pricing *PricingCatalog, installation *InstallationCatalog) *Holder {
	h := &Holder{}
	if pricing != nil {
		h.SetPricing(pricing)
	}
	if installation != nil {
		h.SetInstallation(installation)
	}
	return h
}

// Pricing returns the current pricing catalog, never nil
func (h *Holder) Pricing() *PricingCatalog {
	if c := h.pricing.Load(); c != nil {
		return c
	}
	return emptyPricing
}

// SetPricing seals and publishes a pricing catalog
func (h *Holder) SetPricing(c *PricingCatalog) {
	h.pricing.Store(c.Seal())
}

// Installation returns the current installation catalog, never nil
func (h *Holder) Installation() *InstallationCatalog {
	if c := h.installation.Load(); c != nil {
		return c
	}
	return emptyInstallation
}

// SetInstallation publishes an installation catalog
func (h *Holder) SetInstallation(c *InstallationCatalog) {
	c.Hash()
	h.installation.Store(c)
}

var (
	emptyPricing      = NewPricingCatalog(types.CurrencyLYD).Seal()
	emptyInstallation = func() *InstallationCatalog {
		c := NewInstallationCatalog(types.CurrencyLYD)
		c.Hash()
		return c
	}()
)

// Package catalog - Authoritative billboard pricing catalog
// Holds every zone's prices in one rate table keyed by
// (zone, size, axis, selector, bucket). The legacy customer-type table and
// the A/B tier table exist only at the wire boundary.
package catalog

import (
	"sort"

	"billboard-pricing/core/types"
)

// Axis selects which pricing axis a rate belongs to
type Axis string

const (
	// AxisTier - A/B tier prices bucketed by duration
	AxisTier Axis = "tier"
	// AxisCategory - flat customer-type prices, no duration bucket
	AxisCategory Axis = "category"
)

// RateKey uniquely identifies a price in the unified table
type RateKey struct {
	Zone     string
	Size     types.Size
	Axis     Axis
	Selector string
	Bucket   int
}

// TierKey builds the key of a tier-mode price
func TierKey(zone string, tier types.Tier, bucket int, size types.Size) RateKey {
	return RateKey{Zone: zone, Size: size, Axis: AxisTier, Selector: string(tier), Bucket: bucket}
}

// CategoryKey builds the key of a customer-type price
func CategoryKey(zone string, category types.CustomerCategory, size types.Size) RateKey {
	return RateKey{Zone: zone, Size: size, Axis: AxisCategory, Selector: string(category)}
}

// Zone is a pricing zone entry
type Zone struct {
	// Key is the catalog key the zone is stored under
	Key string
	// Name is the display name
	Name string
}

// PricingCatalog is the pricing configuration shared by all calculations.
// It is sealed after loading; a new catalog replaces it wholesale.
type PricingCatalog struct {
	Currency          types.Currency
	DefaultZone       string
	Aliases           map[string]string
	Packages          []types.PackageDuration
	Buckets           []int
	CategoryDiscounts map[types.CustomerCategory]float64

	zones  map[string]Zone
	rates  map[RateKey]int64
	issues []error
	notes  []error
	hash   string
	sealed bool
}

// NewPricingCatalog creates an empty catalog with canonical packages,
// buckets and category discounts
func NewPricingCatalog(currency types.Currency) *PricingCatalog {
	return &PricingCatalog{
		Currency:          currency,
		Aliases:           make(map[string]string),
		Packages:          DefaultPackages(),
		Buckets:           DefaultBuckets(),
		CategoryDiscounts: DefaultCategoryDiscounts(),
		zones:             make(map[string]Zone),
		rates:             make(map[RateKey]int64),
	}
}

func (c *PricingCatalog) mustBeOpen() {
	if c.sealed {
		panic("catalog: modification of sealed pricing catalog")
	}
}

// AddZone registers a zone; name defaults to key
func (c *PricingCatalog) AddZone(key, name string) {
	c.mustBeOpen()
	if name == "" {
		name = key
	}
	c.zones[key] = Zone{Key: key, Name: name}
}

// SetTierPrice stores a tier-mode price, registering the zone if needed
func (c *PricingCatalog) SetTierPrice(zone string, tier types.Tier, bucket int, size types.Size, price int64) {
	c.mustBeOpen()
	if _, ok := c.zones[zone]; !ok {
		c.AddZone(zone, "")
	}
	c.rates[TierKey(zone, tier, bucket, size)] = price
}

// SetCustomerPrice stores a customer-type price, registering the zone if needed
func (c *PricingCatalog) SetCustomerPrice(zone string, category types.CustomerCategory, size types.Size, price int64) {
	c.mustBeOpen()
	if _, ok := c.zones[zone]; !ok {
		c.AddZone(zone, "")
	}
	c.rates[CategoryKey(zone, category, size)] = price
}

// Seal freezes the catalog and computes its content hash
func (c *PricingCatalog) Seal() *PricingCatalog {
	if c.sealed {
		return c
	}
	c.hash = contentHash(encodePricing(c))
	c.sealed = true
	return c
}

// Hash returns the content hash of a sealed catalog
func (c *PricingCatalog) Hash() string {
	return c.hash
}

// Rate returns a price from the unified table; missing entries are 0
func (c *PricingCatalog) Rate(key RateKey) int64 {
	return c.rates[key]
}

// TierPrice returns tierPrices[tier][bucket][size] for a zone
func (c *PricingCatalog) TierPrice(zone string, tier types.Tier, bucket int, size types.Size) int64 {
	return c.rates[TierKey(zone, tier, bucket, size)]
}

// CustomerPrice returns customerPrices[category][size] for a zone
func (c *PricingCatalog) CustomerPrice(zone string, category types.CustomerCategory, size types.Size) int64 {
	return c.rates[CategoryKey(zone, category, size)]
}

// Zone returns a zone by key
func (c *PricingCatalog) Zone(key string) (Zone, bool) {
	z, ok := c.zones[key]
	return z, ok
}

// HasZone reports whether key names a zone
func (c *PricingCatalog) HasZone(key string) bool {
	_, ok := c.zones[key]
	return ok
}

// Zones returns all zones sorted by key
func (c *PricingCatalog) Zones() []Zone {
	out := make([]Zone, 0, len(c.zones))
	for _, z := range c.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ZoneKeys returns all zone keys sorted
func (c *PricingCatalog) ZoneKeys() []string {
	zones := c.Zones()
	keys := make([]string, len(zones))
	for i, z := range zones {
		keys[i] = z.Key
	}
	return keys
}

// DefaultZoneKey returns the designated fallback zone: DefaultZone when it
// names a zone, else the first zone key, else "".
func (c *PricingCatalog) DefaultZoneKey() string {
	if c.DefaultZone != "" && c.HasZone(c.DefaultZone) {
		return c.DefaultZone
	}
	keys := c.ZoneKeys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Sizes returns every size priced anywhere in the catalog
func (c *PricingCatalog) Sizes() []types.Size {
	seen := make(map[types.Size]struct{})
	for k := range c.rates {
		seen[k.Size] = struct{}{}
	}
	out := make([]types.Size, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	types.SortSizes(out)
	return out
}

// ZoneSizes returns the sizes a zone prices on the given axis
func (c *PricingCatalog) ZoneSizes(zone string, axis Axis) map[types.Size]bool {
	out := make(map[types.Size]bool)
	for k, v := range c.rates {
		if k.Zone == zone && k.Axis == axis && v > 0 {
			out[k.Size] = true
		}
	}
	return out
}

// Package returns the package for an exact month count
func (c *PricingCatalog) Package(months int) (types.PackageDuration, bool) {
	for _, p := range c.Packages {
		if p.Months == months {
			return p, true
		}
	}
	return types.PackageDuration{}, false
}

// PackageFor returns the package for months, or an undiscounted ad-hoc
// duration when the catalog defines none for that length
func (c *PricingCatalog) PackageFor(months int) types.PackageDuration {
	if p, ok := c.Package(months); ok {
		return p
	}
	return types.PackageDuration{Months: months, Label: monthsLabel(months)}
}

// CategoryDiscount returns the customer-category discount percent
func (c *PricingCatalog) CategoryDiscount(category types.CustomerCategory) float64 {
	return c.CategoryDiscounts[category]
}

// Bucket rounds months down to the nearest defined bucket; below all
// buckets it returns the smallest one
func (c *PricingCatalog) Bucket(months int) int {
	return BucketFor(c.Buckets, months)
}

// BucketFor implements the bucketing policy over an arbitrary bucket list
func BucketFor(buckets []int, months int) int {
	if len(buckets) == 0 {
		return months
	}
	sorted := append([]int(nil), buckets...)
	sort.Ints(sorted)

	chosen := sorted[0]
	for _, b := range sorted {
		if b <= months {
			chosen = b
		}
	}
	return chosen
}

// Issues returns data the decoder could not interpret
func (c *PricingCatalog) Issues() []error {
	return c.issues
}

// Notes returns data the decoder skipped, such as duration buckets outside
// the canonical set. Skipped data never changes a price.
func (c *PricingCatalog) Notes() []error {
	return c.notes
}

// Stats returns catalog statistics
func (c *PricingCatalog) Stats() CatalogStats {
	stats := CatalogStats{
		Zones:    len(c.zones),
		Packages: len(c.Packages),
		Sizes:    len(c.Sizes()),
	}
	for k, v := range c.rates {
		if v <= 0 {
			continue
		}
		switch k.Axis {
		case AxisTier:
			stats.TierRates++
		case AxisCategory:
			stats.CategoryRates++
		}
	}
	return stats
}

// CatalogStats holds catalog statistics
type CatalogStats struct {
	Zones         int
	Packages      int
	Sizes         int
	TierRates     int
	CategoryRates int
}

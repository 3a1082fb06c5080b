package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"billboard-pricing/core/types"
	"billboard-pricing/internal/errors"
)

// pricingDocument is the persisted catalog shape shared with the admin UI
// and the bulk import/export tooling
type pricingDocument struct {
	Zones             map[string]zoneDocument `json:"zones"`
	Packages          []packageDocument       `json:"packages"`
	Currency          string                  `json:"currency"`
	DefaultZone       string                  `json:"defaultZone,omitempty"`
	Aliases           map[string]string       `json:"aliases,omitempty"`
	CategoryDiscounts map[string]float64      `json:"categoryDiscounts,omitempty"`
}

type zoneDocument struct {
	Name     string                                     `json:"name"`
	Prices   map[string]map[string]wirePrice            `json:"prices"`
	ABPrices map[string]map[string]map[string]wirePrice `json:"abPrices"`
}

type packageDocument struct {
	Value    int     `json:"value"`
	Unit     string  `json:"unit"`
	Label    string  `json:"label"`
	Discount float64 `json:"discount"`
}

// wirePrice tolerates numbers, numeric strings and null. Anything else
// reads as 0 so a malformed entry degrades into the fallback chain.
type wirePrice int64

// UnmarshalJSON implements json.Unmarshaler
func (p *wirePrice) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*p = 0
		return nil
	}
	*p = wirePrice(types.Round(d))
	return nil
}

// DecodePricingJSON parses the persisted JSON catalog shape
func DecodePricingJSON(data []byte) (*PricingCatalog, error) {
	var doc pricingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Catalog("decode pricing catalog", err)
	}
	return doc.build(), nil
}

// EncodePricingJSON renders a catalog in the persisted JSON shape
func EncodePricingJSON(c *PricingCatalog) ([]byte, error) {
	data, err := json.MarshalIndent(documentOf(c), "", "  ")
	if err != nil {
		return nil, errors.Internal("encode pricing catalog", err)
	}
	return data, nil
}

// LoadPricingFile reads a pricing catalog from a .json or .hcl file
func LoadPricingFile(path string) (*PricingCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("pricing catalog", path)
		}
		return nil, errors.Catalog("read pricing catalog", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return DecodePricingHCL(path, data)
	}
	return DecodePricingJSON(data)
}

func (doc pricingDocument) build() *PricingCatalog {
	currency := types.Currency(doc.Currency)
	if currency == "" {
		currency = types.CurrencyLYD
	}
	c := NewPricingCatalog(currency)
	c.DefaultZone = doc.DefaultZone
	for k, v := range doc.Aliases {
		c.Aliases[k] = v
	}
	for k, pct := range doc.CategoryDiscounts {
		category, ok := types.ParseCategory(k)
		if !ok {
			c.issues = append(c.issues, fmt.Errorf("categoryDiscounts: unknown category %q", k))
			continue
		}
		c.CategoryDiscounts[category] = pct
	}

	canonical := make(map[int]bool)
	for _, b := range c.Buckets {
		canonical[b] = true
	}

	for key, zd := range doc.Zones {
		c.AddZone(key, zd.Name)

		for catKey, sizes := range zd.Prices {
			category, ok := types.ParseCategory(catKey)
			if !ok {
				c.issues = append(c.issues, fmt.Errorf("zone %s: unknown customer category %q", key, catKey))
				continue
			}
			for size, price := range sizes {
				c.SetCustomerPrice(key, category, types.NormalizeSize(size), int64(price))
			}
		}

		for tierKey, buckets := range zd.ABPrices {
			tier, ok := types.ParseTier(tierKey)
			if !ok {
				c.issues = append(c.issues, fmt.Errorf("zone %s: unknown tier %q", key, tierKey))
				continue
			}
			for bucketKey, sizes := range buckets {
				bucket, err := strconv.Atoi(strings.TrimSpace(bucketKey))
				if err != nil {
					c.issues = append(c.issues, fmt.Errorf("zone %s: tier %s: duration bucket %q is not a number", key, tier, bucketKey))
					continue
				}
				if !canonical[bucket] {
					c.notes = append(c.notes, fmt.Errorf("zone %s: tier %s: duration bucket %d is not one of %v and was dropped", key, tier, bucket, c.Buckets))
					continue
				}
				for size, price := range sizes {
					c.SetTierPrice(key, tier, bucket, types.NormalizeSize(size), int64(price))
				}
			}
		}
	}

	if doc.Packages != nil {
		c.Packages = c.Packages[:0]
		for i, pd := range doc.Packages {
			months, err := packageMonths(pd)
			if err != nil {
				c.issues = append(c.issues, fmt.Errorf("packages[%d]: %w", i, err))
				continue
			}
			label := pd.Label
			if label == "" {
				label = monthsLabel(months)
			}
			c.Packages = append(c.Packages, types.PackageDuration{
				Months:          months,
				Label:           label,
				DiscountPercent: pd.Discount,
			})
		}
		sort.SliceStable(c.Packages, func(i, j int) bool { return c.Packages[i].Months < c.Packages[j].Months })
	}

	return c.Seal()
}

func packageMonths(pd packageDocument) (int, error) {
	if pd.Value <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", pd.Value)
	}
	switch strings.ToLower(strings.TrimSpace(pd.Unit)) {
	case "", "month", "months":
		return pd.Value, nil
	case "year", "years":
		return pd.Value * 12, nil
	default:
		return 0, fmt.Errorf("unsupported unit %q", pd.Unit)
	}
}

func documentOf(c *PricingCatalog) pricingDocument {
	doc := pricingDocument{
		Zones:       make(map[string]zoneDocument, len(c.zones)),
		Currency:    string(c.Currency),
		DefaultZone: c.DefaultZone,
	}
	if len(c.Aliases) > 0 {
		doc.Aliases = c.Aliases
	}
	if len(c.CategoryDiscounts) > 0 {
		doc.CategoryDiscounts = make(map[string]float64, len(c.CategoryDiscounts))
		for category, pct := range c.CategoryDiscounts {
			doc.CategoryDiscounts[string(category)] = pct
		}
	}

	for key, z := range c.zones {
		doc.Zones[key] = zoneDocument{
			Name:     z.Name,
			Prices:   make(map[string]map[string]wirePrice),
			ABPrices: make(map[string]map[string]map[string]wirePrice),
		}
	}

	for k, price := range c.rates {
		zd := doc.Zones[k.Zone]
		switch k.Axis {
		case AxisCategory:
			catKey := types.CustomerCategory(k.Selector).CatalogKey()
			if zd.Prices[catKey] == nil {
				zd.Prices[catKey] = make(map[string]wirePrice)
			}
			zd.Prices[catKey][string(k.Size)] = wirePrice(price)
		case AxisTier:
			if zd.ABPrices[k.Selector] == nil {
				zd.ABPrices[k.Selector] = make(map[string]map[string]wirePrice)
			}
			bucketKey := strconv.Itoa(k.Bucket)
			if zd.ABPrices[k.Selector][bucketKey] == nil {
				zd.ABPrices[k.Selector][bucketKey] = make(map[string]wirePrice)
			}
			zd.ABPrices[k.Selector][bucketKey][string(k.Size)] = wirePrice(price)
		}
	}

	doc.Packages = make([]packageDocument, len(c.Packages))
	for i, p := range c.Packages {
		doc.Packages[i] = packageDocument{Value: p.Months, Unit: "month", Label: p.Label, Discount: p.DiscountPercent}
	}
	return doc
}

func encodePricing(c *PricingCatalog) []byte {
	data, _ := json.Marshal(documentOf(c))
	return data
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

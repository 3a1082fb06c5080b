package catalog

import (
	"github.com/hashicorp/hcl/v2/hclsimple"

	"billboard-pricing/internal/errors"
)

// hclDocument is the operator-authored form of the pricing catalog.
//
//	currency     = "LYD"
//	default_zone = "طرابلس"
//	aliases      = { "الخمس" = "مصراتة" }
//
//	zone "مصراتة" {
//	  prices    = { companies = { "5x13" = 20000 } }
//	  ab_prices = { A = { "1" = { "5x13" = 24000 } } }
//	}
//
//	package {
//	  value    = 3
//	  label    = "3 months"
//	  discount = 5
//	}
type hclDocument struct {
	Currency          string             `hcl:"currency,optional"`
	DefaultZone       string             `hcl:"default_zone,optional"`
	Aliases           map[string]string  `hcl:"aliases,optional"`
	CategoryDiscounts map[string]float64 `hcl:"category_discounts,optional"`
	Zones             []hclZone          `hcl:"zone,block"`
	Packages          []hclPackage       `hcl:"package,block"`
}

type hclZone struct {
	Key      string                                 `hcl:"key,label"`
	Name     string                                 `hcl:"name,optional"`
	Prices   map[string]map[string]int64            `hcl:"prices,optional"`
	ABPrices map[string]map[string]map[string]int64 `hcl:"ab_prices,optional"`
}

type hclPackage struct {
	Value    int     `hcl:"value"`
	Unit     string  `hcl:"unit,optional"`
	Label    string  `hcl:"label,optional"`
	Discount float64 `hcl:"discount,optional"`
}

// DecodePricingHCL parses an HCL catalog. filename is used for diagnostics
// and must end in .hcl.
func DecodePricingHCL(filename string, src []byte) (*PricingCatalog, error) {
	var doc hclDocument
	if err := hclsimple.Decode(filename, src, nil, &doc); err != nil {
		return nil, errors.Catalog("decode HCL pricing catalog", err)
	}
	return doc.toDocument().build(), nil
}

func (h hclDocument) toDocument() pricingDocument {
	doc := pricingDocument{
		Zones:             make(map[string]zoneDocument, len(h.Zones)),
		Currency:          h.Currency,
		DefaultZone:       h.DefaultZone,
		Aliases:           h.Aliases,
		CategoryDiscounts: h.CategoryDiscounts,
	}

	for _, z := range h.Zones {
		zd := zoneDocument{
			Name:     z.Name,
			Prices:   make(map[string]map[string]wirePrice, len(z.Prices)),
			ABPrices: make(map[string]map[string]map[string]wirePrice, len(z.ABPrices)),
		}
		for category, sizes := range z.Prices {
			zd.Prices[category] = toWire(sizes)
		}
		for tier, buckets := range z.ABPrices {
			zd.ABPrices[tier] = make(map[string]map[string]wirePrice, len(buckets))
			for bucket, sizes := range buckets {
				zd.ABPrices[tier][bucket] = toWire(sizes)
			}
		}
		doc.Zones[z.Key] = zd
	}

	if len(h.Packages) > 0 {
		doc.Packages = make([]packageDocument, len(h.Packages))
		for i, p := range h.Packages {
			doc.Packages[i] = packageDocument{Value: p.Value, Unit: p.Unit, Label: p.Label, Discount: p.Discount}
		}
	}
	return doc
}

func toWire(sizes map[string]int64) map[string]wirePrice {
	out := make(map[string]wirePrice, len(sizes))
	for size, price := range sizes {
		out[size] = wirePrice(price)
	}
	return out
}

// Package pricing computes billboard rental prices from a catalog snapshot.
// Lookups never fail: missing data degrades through a fallback chain and the
// result says which step produced the price.
package pricing

import (
	"fmt"

	"billboard-pricing/core/catalog"
	"billboard-pricing/core/types"
)

// Outcome classifies a price lookup
type Outcome string

const (
	// OutcomeFound - the requested table had a price
	OutcomeFound Outcome = "found"
	// OutcomeDefaulted - a fallback step supplied the price
	OutcomeDefaulted Outcome = "defaulted"
	// OutcomeMissing - every step yielded 0
	OutcomeMissing Outcome = "missing"
)

// Source names the fallback step that produced a price
type Source string

const (
	SourceTier     Source = "tier"
	SourceCustomer Source = "customer"
	SourceDefault  Source = "default"
	SourceNone     Source = "none"
)

// Lookup is the tagged result of a price lookup
type Lookup struct {
	Price   int64   `json:"price"`
	Outcome Outcome `json:"outcome"`
	Source  Source  `json:"source"`
	// Bucket is the duration bucket used in tier mode, 0 otherwise
	Bucket int    `json:"bucket,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Degraded reports whether the price did not come from the requested table
func (l Lookup) Degraded() bool {
	return l.Outcome != OutcomeFound
}

// Selector picks the pricing axis: an A/B tier or a customer category
type Selector struct {
	Axis     catalog.Axis
	Tier     types.Tier
	Category types.CustomerCategory
}

// ByTier selects tier-mode pricing
func ByTier(t types.Tier) Selector {
	return Selector{Axis: catalog.AxisTier, Tier: t}
}

// ByCategory selects customer-type pricing
func ByCategory(c types.CustomerCategory) Selector {
	return Selector{Axis: catalog.AxisCategory, Category: c}
}

// String returns the string representation
func (s Selector) String() string {
	if s.Axis == catalog.AxisTier {
		return fmt.Sprintf("tier %s", s.Tier)
	}
	return fmt.Sprintf("category %s", s.Category)
}

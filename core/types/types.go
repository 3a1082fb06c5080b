// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and
// the money arithmetic every calculator shares.
package types

import (
	"sort"
	"strings"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyLYD Currency = "LYD"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Size is a normalized billboard size label such as "5x13"
type Size string

// NormalizeSize canonicalizes free-form size input: " 5 × 13 " -> "5x13".
// Dimension order is preserved.
func NormalizeSize(raw string) Size {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("×", "x", "*", "x", "X", "x", " ", "").Replace(s)
	return Size(s)
}

// String returns the string representation
func (s Size) String() string {
	return string(s)
}

// SortSizes sorts sizes in place for deterministic output
func SortSizes(sizes []Size) {
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
}

// Tier is the A/B price-list classification of a billboard
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
)

// ParseTier returns the tier and whether the input named a known tier
func ParseTier(raw string) (Tier, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "A":
		return TierA, true
	case "B":
		return TierB, true
	default:
		return "", false
	}
}

// IsValid checks if the tier is a known tier
func (t Tier) IsValid() bool {
	return t == TierA || t == TierB
}

// Tiers lists the known tiers in canonical order
func Tiers() []Tier {
	return []Tier{TierA, TierB}
}

// CustomerCategory classifies the customer for legacy customer-type pricing
type CustomerCategory string

const (
	CategoryIndividual CustomerCategory = "individual"
	CategoryCompany    CustomerCategory = "company"
	CategoryMarketer   CustomerCategory = "marketer"
)

// Categories lists the known categories in canonical order
func Categories() []CustomerCategory {
	return []CustomerCategory{CategoryIndividual, CategoryCompany, CategoryMarketer}
}

// ParseCategory accepts both the singular domain name and the plural
// catalog key ("companies", "marketers", "individuals").
func ParseCategory(raw string) (CustomerCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "individual", "individuals":
		return CategoryIndividual, true
	case "company", "companies":
		return CategoryCompany, true
	case "marketer", "marketers":
		return CategoryMarketer, true
	default:
		return "", false
	}
}

// IsValid checks if the category is a known category
func (c CustomerCategory) IsValid() bool {
	switch c {
	case CategoryIndividual, CategoryCompany, CategoryMarketer:
		return true
	default:
		return false
	}
}

// CatalogKey returns the plural key used by the persisted catalog
func (c CustomerCategory) CatalogKey() string {
	switch c {
	case CategoryIndividual:
		return "individuals"
	case CategoryCompany:
		return "companies"
	case CategoryMarketer:
		return "marketers"
	default:
		return string(c)
	}
}

// Billboard is the read-only pricing input for one billboard
type Billboard struct {
	ID           string `json:"id"`
	Size         Size   `json:"size"`
	Municipality string `json:"municipality"`
	Area         string `json:"area,omitempty"`
	PriceTier    Tier   `json:"priceTier,omitempty"`
}

// Customer identifies who a quote is for
type Customer struct {
	Name     string           `json:"name"`
	Email    string           `json:"email,omitempty"`
	Phone    string           `json:"phone,omitempty"`
	Company  string           `json:"company,omitempty"`
	Category CustomerCategory `json:"category"`
}

// PackageDuration is a fixed rental term with its discount
type PackageDuration struct {
	Months          int     `json:"months"`
	Label           string  `json:"label"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Package quote aggregates priced billboards into customer quotes
package quote

import (
	"time"

	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
)

// Item is one priced billboard on a quote
type Item struct {
	BillboardID             string          `json:"billboardId"`
	Size                    types.Size      `json:"size"`
	Municipality            string          `json:"municipality,omitempty"`
	Zone                    string          `json:"zone"`
	ZoneMatch               zone.Match      `json:"zoneMatch"`
	Tier                    types.Tier      `json:"tier"`
	BasePrice               int64           `json:"basePrice"`
	FinalPrice              int64           `json:"finalPrice"`
	DiscountPercent         float64         `json:"discountPercent"`
	CategoryDiscountPercent float64         `json:"categoryDiscountPercent"`
	InstallationPrice       int64           `json:"installationPrice"`
	InstallationAvailable   bool            `json:"installationAvailable"`
	PriceSource             pricing.Source  `json:"priceSource"`
	PriceOutcome            pricing.Outcome `json:"priceOutcome"`
	LineTotal               int64           `json:"lineTotal"`
}

// Quote is an immutable priced offer
type Quote struct {
	ID                      string                `json:"id"`
	Customer                types.Customer        `json:"customer"`
	Package                 types.PackageDuration `json:"package"`
	Items                   []Item                `json:"items"`
	Subtotal                int64                 `json:"subtotal"`
	TotalDiscount           int64                 `json:"totalDiscount"`
	InstallationTotal       int64                 `json:"installationTotal"`
	TaxPercent              float64               `json:"taxPercent"`
	Tax                     int64                 `json:"tax"`
	Total                   int64                 `json:"total"`
	Currency                types.Currency        `json:"currency"`
	CreatedAt               time.Time             `json:"createdAt"`
	ValidUntil              time.Time             `json:"validUntil"`
	CatalogHash             string                `json:"catalogHash"`
	InstallationCatalogHash string                `json:"installationCatalogHash,omitempty"`
	Warnings                []string              `json:"warnings"`
}

// Expired reports whether the quote is past its validity window at t
func (q *Quote) Expired(t time.Time) bool {
	return t.After(q.ValidUntil)
}

// Months returns the rental duration of the quote
func (q *Quote) Months() int {
	return q.Package.Months
}

// Options toggle optional pricing steps
type Options struct {
	IncludeInstallation   bool `json:"includeInstallation"`
	ApplyCategoryDiscount bool `json:"applyCategoryDiscount"`
}

// Request is the input of GenerateQuote
type Request struct {
	Customer   types.Customer    `json:"customer"`
	Billboards []types.Billboard `json:"billboards"`
	Months     int               `json:"months"`
	Options    Options           `json:"options"`
}

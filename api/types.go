package api

import (
	"billboard-pricing/core/installation"
	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/core/zone"
)

// PriceRequest is the body of POST /v1/prices. Exactly one of Tier or
// Category selects the pricing axis. Zone skips resolution when set.
type PriceRequest struct {
	Size         types.Size `json:"size"`
	Municipality string     `json:"municipality,omitempty"`
	Area         string     `json:"area,omitempty"`
	Zone         string     `json:"zone,omitempty"`
	Tier         string     `json:"tier,omitempty"`
	Category     string     `json:"category,omitempty"`
	Months       int        `json:"months"`
}

// PriceResponse is a price lookup and the zone it was made in
type PriceResponse struct {
	Zone     zone.Resolution `json:"zone"`
	Selector string          `json:"selector"`
	Months   int             `json:"months"`
	Lookup   pricing.Lookup  `json:"lookup"`
	Currency types.Currency  `json:"currency"`
}

// InstallationRequest is the body of POST /v1/installation-prices
type InstallationRequest struct {
	Size         types.Size `json:"size"`
	Municipality string     `json:"municipality,omitempty"`
	Area         string     `json:"area,omitempty"`
	Zone         string     `json:"zone,omitempty"`
}

// InstallationResponse wraps an installation price. Zone is set when the
// zone was resolved from a municipality.
type InstallationResponse struct {
	Zone     *zone.Resolution   `json:"zone,omitempty"`
	Price    installation.Price `json:"price"`
	Currency types.Currency     `json:"currency"`
}

// PackagesResponse lists rental packages and category discounts
type PackagesResponse struct {
	Packages          []types.PackageDuration `json:"packages"`
	CategoryDiscounts map[string]float64      `json:"categoryDiscounts"`
	Currency          types.Currency          `json:"currency"`
}

// CatalogUpdateResponse reports an accepted catalog and any advisory
// findings it was accepted with
type CatalogUpdateResponse struct {
	Hash      string   `json:"hash"`
	Zones     int      `json:"zones"`
	Persisted bool     `json:"persisted"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

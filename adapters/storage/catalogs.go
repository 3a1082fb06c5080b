package storage

import (
	"context"
	"path"

	"billboard-pricing/core/catalog"
	"billboard-pricing/internal/errors"
)

// LoadPricing reads and decodes the stored pricing catalog
func LoadPricing(ctx context.Context, s Store) (*catalog.PricingCatalog, error) {
	doc, err := s.Get(ctx, KindPricing)
	if err != nil {
		return nil, err
	}
	if doc.Syntax == SyntaxHCL {
		return catalog.DecodePricingHCL(path.Join("store", "pricing.hcl"), doc.Data)
	}
	return catalog.DecodePricingJSON(doc.Data)
}

// SavePricing stores a pricing catalog as JSON
func SavePricing(ctx context.Context, s Store, c *catalog.PricingCatalog) error {
	data, err := catalog.EncodePricingJSON(c)
	if err != nil {
		return err
	}
	return s.Put(ctx, &Document{
		Kind:   KindPricing,
		Syntax: SyntaxJSON,
		Data:   data,
		Hash:   c.Seal().Hash(),
	})
}

// LoadInstallation reads and decodes the stored installation catalog
func LoadInstallation(ctx context.Context, s Store) (*catalog.InstallationCatalog, error) {
	doc, err := s.Get(ctx, KindInstallation)
	if err != nil {
		return nil, err
	}
	if doc.Syntax == SyntaxHCL {
		return nil, errors.New(errors.TypeCatalog, "installation catalogs are JSON only")
	}
	return catalog.DecodeInstallationJSON(doc.Data)
}

// SaveInstallation stores an installation catalog as JSON
func SaveInstallation(ctx context.Context, s Store, c *catalog.InstallationCatalog) error {
	data, err := catalog.EncodeInstallationJSON(c)
	if err != nil {
		return err
	}
	return s.Put(ctx, &Document{
		Kind:   KindInstallation,
		Syntax: SyntaxJSON,
		Data:   data,
		Hash:   c.Hash(),
	})
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"billboard-pricing/core/catalog"
	"billboard-pricing/core/types"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
)

func samplePricing() *catalog.PricingCatalog {
	c := catalog.NewPricingCatalog(types.CurrencyLYD)
	c.SetTierPrice("مصراتة", types.TierA, 1, "5x13", 24000)
	c.SetCustomerPrice("مصراتة", types.CategoryCompany, "5x13", 20000)
	c.DefaultZone = "مصراتة"
	return c.Seal()
}

func sampleInstallation() *catalog.InstallationCatalog {
	c := catalog.NewInstallationCatalog(types.CurrencyLYD)
	c.Sizes = []types.Size{"5x13"}
	c.AddZone(catalog.InstallationZone{Key: "مصراتة", Multiplier: 1.2, Prices: map[types.Size]int64{"5x13": 500}})
	return c
}

// exerciseStore runs the round trip every backend must support
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := LoadPricing(ctx, s); !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("expected NOT_FOUND from an empty store, got %v", err)
	}

	want := samplePricing()
	if err := SavePricing(ctx, s, want); err != nil {
		t.Fatalf("save pricing: %v", err)
	}
	got, err := LoadPricing(ctx, s)
	if err != nil {
		t.Fatalf("load pricing: %v", err)
	}
	if got.Hash() != want.Hash() {
		t.Errorf("expected hash %s, got %s", want.Hash(), got.Hash())
	}
	if p := got.TierPrice("مصراتة", types.TierA, 1, "5x13"); p != 24000 {
		t.Errorf("expected 24000, got %d", p)
	}

	doc, err := s.Get(ctx, KindPricing)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Hash != want.Hash() || doc.UpdatedAt.IsZero() {
		t.Errorf("expected stored hash and timestamp, got %q at %v", doc.Hash, doc.UpdatedAt)
	}

	// last writer wins
	replacement := catalog.NewPricingCatalog(types.CurrencyLYD)
	replacement.SetTierPrice("طرابلس", types.TierA, 1, "5x13", 30000)
	if err := SavePricing(ctx, s, replacement); err != nil {
		t.Fatalf("save replacement: %v", err)
	}
	got, err = LoadPricing(ctx, s)
	if err != nil {
		t.Fatalf("load replacement: %v", err)
	}
	if got.HasZone("مصراتة") || !got.HasZone("طرابلس") {
		t.Errorf("expected the replacement catalog, got zones %v", got.ZoneKeys())
	}

	inst := sampleInstallation()
	if err := SaveInstallation(ctx, s, inst); err != nil {
		t.Fatalf("save installation: %v", err)
	}
	gotInst, err := LoadInstallation(ctx, s)
	if err != nil {
		t.Fatalf("load installation: %v", err)
	}
	if z, ok := gotInst.Zone("مصراتة"); !ok || z.Multiplier != 1.2 {
		t.Errorf("unexpected installation zone %+v", z)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, NewFileStore(filepath.Join(dir, "cat", "pricing.json"), filepath.Join(dir, "cat", "installation.json")))

	if _, err := os.Stat(filepath.Join(dir, "cat", "pricing.json.tmp")); !os.IsNotExist(err) {
		t.Error("expected no temporary file after a write")
	}
}

func TestFileStoreHCL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.hcl")
	src := `
zone "مصراتة" {
  ab_prices = { A = { "1" = { "5x13" = 24000 } } }
}
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, "")

	c, err := LoadPricing(context.Background(), s)
	if err != nil {
		t.Fatalf("load HCL: %v", err)
	}
	if p := c.TierPrice("مصراتة", types.TierA, 1, "5x13"); p != 24000 {
		t.Errorf("expected 24000, got %d", p)
	}

	if err := SavePricing(context.Background(), s, samplePricing()); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR when writing JSON over HCL, got %v", err)
	}
	if _, err := LoadInstallation(context.Background(), s); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR without an installation path, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "catalogs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreKeepsTimestamp(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "catalogs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	at := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	if err := s.Put(context.Background(), &Document{Kind: KindPricing, Data: []byte(`{}`), UpdatedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}
	doc, err := s.Get(context.Background(), KindPricing)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !doc.UpdatedAt.Equal(at) || doc.Syntax != SyntaxJSON {
		t.Errorf("expected %v/json, got %v/%s", at, doc.UpdatedAt, doc.Syntax)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BILLBOARD_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BILLBOARD_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()
	if _, err := s.pool.Exec(ctx, `DELETE FROM catalog_documents`); err != nil {
		t.Fatalf("reset: %v", err)
	}
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		backend string
		wantErr errors.Type
	}{
		{"default is file", "", ""},
		{"memory", "memory", ""},
		{"sqlite", "sqlite", ""},
		{"postgres without dsn", "postgres", errors.TypeConfig},
		{"unknown", "s3", errors.TypeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.SQLitePath = filepath.Join(dir, tt.name+".db")
			s, err := Open(context.Background(), cfg)
			if tt.wantErr != "" {
				if !errors.IsType(err, tt.wantErr) {
					t.Errorf("expected %s, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s.Close()
		})
	}
}

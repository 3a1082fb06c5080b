package config

import (
	"os"
	"path/filepath"
	"testing"

	"billboard-pricing/core/types"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pricing.QuoteValidityDays != 30 {
		t.Errorf("expected 30 validity days, got %d", cfg.Pricing.QuoteValidityDays)
	}
	if cfg.Pricing.DefaultTier != types.TierA {
		t.Errorf("expected default tier A, got %s", cfg.Pricing.DefaultTier)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Pricing.TaxPercent = 2.5
	cfg.Storage.Backend = "sqlite"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Pricing.TaxPercent != 2.5 {
		t.Errorf("expected tax 2.5, got %v", loaded.Pricing.TaxPercent)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", loaded.Storage.Backend)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server":{"addr":":9090"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Archive.Backend != "memory" {
		t.Errorf("expected memory archive default, got %s", cfg.Archive.Backend)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BILLBOARD_HTTP_ADDR", ":7000")
	t.Setenv("BILLBOARD_TAX_PERCENT", "1.5")
	t.Setenv("BILLBOARD_QUOTE_VALIDITY_DAYS", "not-a-number")
	t.Setenv("BILLBOARD_ALLOWED_ORIGINS", "https://admin.example.ly, https://app.example.ly")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected :7000, got %s", cfg.Server.Addr)
	}
	if cfg.Pricing.TaxPercent != 1.5 {
		t.Errorf("expected tax 1.5, got %v", cfg.Pricing.TaxPercent)
	}
	if cfg.Pricing.QuoteValidityDays != 30 {
		t.Errorf("invalid int should keep default, got %d", cfg.Pricing.QuoteValidityDays)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://app.example.ly" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

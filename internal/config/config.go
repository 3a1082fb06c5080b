// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"billboard-pricing/core/types"
	"billboard-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Storage selects where catalogs are persisted
	Storage StorageConfig `json:"storage"`

	// Archive selects where generated quotes are kept
	Archive ArchiveConfig `json:"archive"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is used when a catalog does not name one
	Currency types.Currency `json:"currency"`

	// CatalogPath is the pricing catalog file (.json or .hcl)
	CatalogPath string `json:"catalog_path"`

	// InstallationCatalogPath is the installation catalog file
	InstallationCatalogPath string `json:"installation_catalog_path"`

	// DefaultTier is used for billboards without a valid price tier
	DefaultTier types.Tier `json:"default_tier"`

	// QuoteValidityDays is the validity window of generated quotes
	QuoteValidityDays int `json:"quote_validity_days"`

	// TaxPercent is the flat tax rate applied to quotes
	TaxPercent float64 `json:"tax_percent"`
}

// StorageConfig contains catalog store settings
type StorageConfig struct {
	// Backend is file, memory, postgres or sqlite
	Backend string `json:"backend"`

	// DSN is the PostgreSQL connection string
	DSN string `json:"dsn,omitempty"`

	// SQLitePath is the local SQLite database file
	SQLitePath string `json:"sqlite_path,omitempty"`
}

// ArchiveConfig contains quote archive settings
type ArchiveConfig struct {
	// Backend is memory or redis
	Backend string `json:"backend"`

	// RedisAddr is the Redis server address
	RedisAddr string `json:"redis_addr,omitempty"`

	// RedisDB is the Redis database index
	RedisDB int `json:"redis_db,omitempty"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// InternalToken guards catalog writes
	InternalToken string `json:"internal_token,omitempty"`

	// AllowedOrigins is the CORS allow list
	AllowedOrigins []string `json:"allowed_origins"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default quote format
	DefaultFormat string `json:"default_format"`

	// PDFFontPath is an optional UTF-8 TrueType font for PDF quotes
	PDFFontPath string `json:"pdf_font_path,omitempty"`

	// CompanyName is printed in quote headers
	CompanyName string `json:"company_name"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".billboard-pricing")

	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency:                types.CurrencyLYD,
			CatalogPath:             filepath.Join(dataDir, "pricing.json"),
			InstallationCatalogPath: filepath.Join(dataDir, "installation.json"),
			DefaultTier:             types.TierA,
			QuoteValidityDays:       30,
			TaxPercent:              0,
		},
		Storage: StorageConfig{
			Backend:    "file",
			SQLitePath: filepath.Join(dataDir, "catalog.db"),
		},
		Archive: ArchiveConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			CompanyName:   "Billboard Rentals",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from BILLBOARD_* environment variables.
func (c *Config) ApplyEnv() {
	c.Pricing.CatalogPath = envOrDefault("BILLBOARD_CATALOG_PATH", c.Pricing.CatalogPath)
	c.Pricing.InstallationCatalogPath = envOrDefault("BILLBOARD_INSTALLATION_CATALOG_PATH", c.Pricing.InstallationCatalogPath)
	c.Pricing.DefaultTier = types.Tier(envOrDefault("BILLBOARD_DEFAULT_TIER", string(c.Pricing.DefaultTier)))
	c.Pricing.QuoteValidityDays = envOrDefaultInt("BILLBOARD_QUOTE_VALIDITY_DAYS", c.Pricing.QuoteValidityDays)
	c.Pricing.TaxPercent = envOrDefaultFloat("BILLBOARD_TAX_PERCENT", c.Pricing.TaxPercent)

	c.Storage.Backend = envOrDefault("BILLBOARD_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.DSN = envOrDefault("BILLBOARD_DB_DSN", c.Storage.DSN)
	c.Storage.SQLitePath = envOrDefault("BILLBOARD_SQLITE_PATH", c.Storage.SQLitePath)

	c.Archive.Backend = envOrDefault("BILLBOARD_ARCHIVE_BACKEND", c.Archive.Backend)
	c.Archive.RedisAddr = envOrDefault("BILLBOARD_REDIS_ADDR", c.Archive.RedisAddr)
	c.Archive.RedisDB = envOrDefaultInt("BILLBOARD_REDIS_DB", c.Archive.RedisDB)

	c.Server.Addr = envOrDefault("BILLBOARD_HTTP_ADDR", c.Server.Addr)
	c.Server.InternalToken = envOrDefault("BILLBOARD_INTERNAL_TOKEN", c.Server.InternalToken)
	if v := os.Getenv("BILLBOARD_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	c.Output.PDFFontPath = envOrDefault("BILLBOARD_PDF_FONT", c.Output.PDFFontPath)
	c.Logging.Level = envOrDefault("BILLBOARD_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envOrDefault("BILLBOARD_LOG_FORMAT", c.Logging.Format)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

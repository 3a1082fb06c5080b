package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"billboard-pricing/core/types"
	"billboard-pricing/internal/errors"
)

// InstallationZone carries installation base prices for one zone
type InstallationZone struct {
	Key         string
	Name        string
	Multiplier  float64
	Prices      map[types.Size]int64
	Description string
}

// InstallationCatalog is the zone × size installation price table. It is
// independent of the rental pricing catalog.
type InstallationCatalog struct {
	Currency    types.Currency
	Sizes       []types.Size
	LastUpdated string
	DefaultZone string
	Aliases     map[string]string

	zones map[string]InstallationZone
	hash  string
}

// NewInstallationCatalog creates an empty installation catalog
func NewInstallationCatalog(currency types.Currency) *InstallationCatalog {
	return &InstallationCatalog{
		Currency: currency,
		Aliases:  make(map[string]string),
		zones:    make(map[string]InstallationZone),
	}
}

// AddZone registers an installation zone
func (c *InstallationCatalog) AddZone(z InstallationZone) {
	if z.Name == "" {
		z.Name = z.Key
	}
	if z.Prices == nil {
		z.Prices = make(map[types.Size]int64)
	}
	c.zones[z.Key] = z
	c.hash = ""
}

// Zone returns a zone by key
func (c *InstallationCatalog) Zone(key string) (InstallationZone, bool) {
	z, ok := c.zones[key]
	return z, ok
}

// ZoneKeys returns all zone keys sorted
func (c *InstallationCatalog) ZoneKeys() []string {
	keys := make([]string, 0, len(c.zones))
	for k := range c.zones {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultZoneKey returns DefaultZone when it names a zone, else the first key
func (c *InstallationCatalog) DefaultZoneKey() string {
	if _, ok := c.zones[c.DefaultZone]; ok && c.DefaultZone != "" {
		return c.DefaultZone
	}
	keys := c.ZoneKeys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Hash returns the content hash of the catalog
func (c *InstallationCatalog) Hash() string {
	if c.hash == "" {
		data, _ := json.Marshal(installationDocumentOf(c))
		c.hash = contentHash(data)
	}
	return c.hash
}

type installationDocument struct {
	Zones       map[string]installationZoneDocument `json:"zones"`
	Sizes       []string                            `json:"sizes"`
	Currency    string                              `json:"currency"`
	LastUpdated string                              `json:"lastUpdated,omitempty"`
	DefaultZone string                              `json:"defaultZone,omitempty"`
	Aliases     map[string]string                   `json:"aliases,omitempty"`
}

type installationZoneDocument struct {
	Name        string               `json:"name"`
	Multiplier  float64              `json:"multiplier"`
	Prices      map[string]listedPrice `json:"prices"`
	Description string                 `json:"description,omitempty"`
}

// listedPrice is an installation base price. Unlike wirePrice, null or
// malformed entries are not listed at all, so they never read as a free
// installation.
type listedPrice struct {
	Amount int64
	Listed bool
}

// UnmarshalJSON implements json.Unmarshaler
func (p *listedPrice) UnmarshalJSON(b []byte) error {
	var w wirePrice
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*p = listedPrice{}
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		*p = listedPrice{}
		return nil
	}
	if err := w.UnmarshalJSON(b); err != nil {
		return err
	}
	*p = listedPrice{Amount: int64(w), Listed: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (p listedPrice) MarshalJSON() ([]byte, error) {
	if !p.Listed {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount)
}

// DecodeInstallationJSON parses the persisted installation catalog shape
func DecodeInstallationJSON(data []byte) (*InstallationCatalog, error) {
	var doc installationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Catalog("decode installation catalog", err)
	}

	currency := types.Currency(doc.Currency)
	if currency == "" {
		currency = types.CurrencyLYD
	}
	c := NewInstallationCatalog(currency)
	c.LastUpdated = doc.LastUpdated
	c.DefaultZone = doc.DefaultZone
	for k, v := range doc.Aliases {
		c.Aliases[k] = v
	}
	for _, s := range doc.Sizes {
		c.Sizes = append(c.Sizes, types.NormalizeSize(s))
	}
	for key, zd := range doc.Zones {
		prices := make(map[types.Size]int64, len(zd.Prices))
		for size, price := range zd.Prices {
			if price.Listed {
				prices[types.NormalizeSize(size)] = price.Amount
			}
		}
		c.AddZone(InstallationZone{
			Key:         key,
			Name:        zd.Name,
			Multiplier:  zd.Multiplier,
			Prices:      prices,
			Description: zd.Description,
		})
	}
	return c, nil
}

// EncodeInstallationJSON renders the installation catalog in its persisted shape
func EncodeInstallationJSON(c *InstallationCatalog) ([]byte, error) {
	data, err := json.MarshalIndent(installationDocumentOf(c), "", "  ")
	if err != nil {
		return nil, errors.Internal("encode installation catalog", err)
	}
	return data, nil
}

// LoadInstallationFile reads an installation catalog JSON file
func LoadInstallationFile(path string) (*InstallationCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("installation catalog", path)
		}
		return nil, errors.Catalog("read installation catalog", err)
	}
	return DecodeInstallationJSON(data)
}

func installationDocumentOf(c *InstallationCatalog) installationDocument {
	doc := installationDocument{
		Zones:       make(map[string]installationZoneDocument, len(c.zones)),
		Sizes:       make([]string, len(c.Sizes)),
		Currency:    string(c.Currency),
		LastUpdated: c.LastUpdated,
		DefaultZone: c.DefaultZone,
	}
	if len(c.Aliases) > 0 {
		doc.Aliases = c.Aliases
	}
	for i, s := range c.Sizes {
		doc.Sizes[i] = string(s)
	}
	for key, z := range c.zones {
		prices := make(map[string]listedPrice, len(z.Prices))
		for size, price := range z.Prices {
			prices[string(size)] = listedPrice{Amount: price, Listed: true}
		}
		doc.Zones[key] = installationZoneDocument{
			Name:        z.Name,
			Multiplier:  z.Multiplier,
			Prices:      prices,
			Description: z.Description,
		}
	}
	return doc
}

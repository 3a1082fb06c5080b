// Package zone maps free-form municipality and area names onto catalog
// pricing zones. Resolution never fails: unknown places land in the
// designated default zone.
package zone

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"billboard-pricing/internal/logging"
)

// Match describes how a zone was chosen
type Match string

const (
	MatchExact   Match = "exact"
	MatchAlias   Match = "alias"
	MatchDefault Match = "default"
)

// Resolution is the outcome of resolving a location
type Resolution struct {
	Zone    string `json:"zone"`
	Matched Match  `json:"matched"`
	// Input is the string that matched; empty for default hits
	Input string `json:"input,omitempty"`
}

// Catalog is the zone data a resolver needs. Both the pricing and the
// installation catalogs satisfy it.
type Catalog interface {
	ZoneKeys() []string
	DefaultZoneKey() string
}

// Resolver resolves locations against one catalog snapshot
type Resolver struct {
	zones       map[string]string
	aliases     map[string]string
	defaultZone string
	logger      *zap.Logger
}

// NewResolver indexes a catalog's zone names and aliases. logger may be nil.
func NewResolver(c Catalog, aliases map[string]string, logger *zap.Logger) *Resolver {
	r := &Resolver{
		zones:       make(map[string]string),
		aliases:     make(map[string]string, len(aliases)),
		defaultZone: c.DefaultZoneKey(),
		logger:      logging.OrGlobal(logger),
	}
	for _, key := range c.ZoneKeys() {
		r.zones[Normalize(key)] = key
	}
	for alias, target := range aliases {
		// aliases to unknown zones are reported by catalog validation
		if zone, ok := r.zones[Normalize(target)]; ok {
			r.aliases[Normalize(alias)] = zone
		}
	}
	return r
}

// Resolve returns the zone name for a municipality and optional area
func (r *Resolver) Resolve(municipality, area string) string {
	return r.ResolveDetailed(municipality, area).Zone
}

// ResolveDetailed resolves in order: exact zone name (municipality, then
// area), alias (municipality, then area), default zone.
func (r *Resolver) ResolveDetailed(municipality, area string) Resolution {
	m, a := Normalize(municipality), Normalize(area)

	for _, in := range []string{m, a} {
		if in == "" {
			continue
		}
		if zone, ok := r.zones[in]; ok {
			return Resolution{Zone: zone, Matched: MatchExact, Input: in}
		}
	}
	for _, in := range []string{m, a} {
		if in == "" {
			continue
		}
		if zone, ok := r.aliases[in]; ok {
			return Resolution{Zone: zone, Matched: MatchAlias, Input: in}
		}
	}

	r.logger.Debug("zone resolved to default",
		zap.String("municipality", municipality),
		zap.String("area", area),
		zap.String("zone", r.defaultZone),
	)
	return Resolution{Zone: r.defaultZone, Matched: MatchDefault}
}

const tatweel = 'ـ'

// Normalize canonicalizes a place name for comparison: NFC, case fold,
// tatweel removed, whitespace trimmed and collapsed.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	s = strings.Map(func(r rune) rune {
		if r == tatweel {
			return -1
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

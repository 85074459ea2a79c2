// Package tariff - Immutable tariff tables
// Tables are built once at startup and never mutated at request time,
// so concurrent sessions read them without locking.
package tariff

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cargo-quote/core/category"
	"cargo-quote/internal/config"
)

// Tables holds every static tariff lookup structure
type Tables struct {
	tiers    map[string]map[category.Category][]Rule
	zones    map[string]string
	bands    []Band
	overage  map[string]decimal.Decimal
	exchange decimal.Decimal

	intlMarkup decimal.Decimal
	domMarkup  decimal.Decimal
	localRate  decimal.Decimal

	defaultWarehouse string
	defaultZone      string
	localZone        string

	degraded bool
}

// NewTables builds the immutable table set from a configuration
// document. Tier rules are sorted descending by density threshold and
// bands ascending by weight, so lookups never re-sort.
func NewTables(cfg *config.Config) *Tables {
	doc := cfg.Tariffs

	t := &Tables{
		tiers:            make(map[string]map[category.Category][]Rule),
		zones:            make(map[string]string),
		overage:          make(map[string]decimal.Decimal),
		exchange:         decimal.NewFromFloat(doc.ExchangeRate),
		intlMarkup:       decimal.NewFromFloat(doc.InternationalMarkup),
		domMarkup:        decimal.NewFromFloat(doc.DomesticMarkup),
		localRate:        decimal.NewFromFloat(doc.LocalDeliveryRate),
		defaultWarehouse: doc.DefaultWarehouse,
		defaultZone:      doc.DefaultZone,
		localZone:        doc.LocalZone,
		degraded:         cfg.Degraded,
	}

	for warehouse, byCategory := range doc.DensityTiers {
		cats := make(map[category.Category][]Rule, len(byCategory))
		for key, raw := range byCategory {
			rules := make([]Rule, 0, len(raw))
			for _, r := range raw {
				rules = append(rules, Rule{
					MinDensity: r.MinDensity,
					Price:      decimal.NewFromFloat(r.Price),
					Unit:       Unit(r.Unit),
				})
			}
			sort.Slice(rules, func(i, j int) bool {
				return rules[i].MinDensity > rules[j].MinDensity
			})
			cats[category.Normalize(key)] = rules
		}
		t.tiers[warehouse] = cats
	}

	for city, zone := range doc.DestinationZones {
		t.zones[normalizeCity(city)] = zone
	}

	for _, b := range doc.WeightBands {
		band := Band{
			MaxWeight:  b.MaxWeight,
			ZonePrices: make(map[string]decimal.Decimal, len(b.Zones)),
		}
		for zone, price := range b.Zones {
			band.ZonePrices[zone] = decimal.NewFromFloat(price)
		}
		t.bands = append(t.bands, band)
	}
	sort.Slice(t.bands, func(i, j int) bool {
		return t.bands[i].MaxWeight < t.bands[j].MaxWeight
	})

	for zone, rate := range doc.OverageRates {
		t.overage[zone] = decimal.NewFromFloat(rate)
	}

	if len(t.tiers) == 0 || len(t.bands) == 0 {
		t.degraded = true
	}

	return t
}

// Degraded reports whether the tables are unusable because the tariff
// configuration could not be loaded
func (t *Tables) Degraded() bool {
	return t.degraded
}

// ExchangeRate returns KZT per USD
func (t *Tables) ExchangeRate() decimal.Decimal {
	return t.exchange
}

// Warehouses lists every warehouse with a tariff table, sorted
func (t *Tables) Warehouses() []string {
	codes := make([]string, 0, len(t.tiers))
	for code := range t.tiers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// HasWarehouse reports whether a tariff table exists for the code
func (t *Tables) HasWarehouse(code string) bool {
	_, ok := t.tiers[code]
	return ok
}

// Categories lists the categories with their own tier rules for the
// warehouse, sorted. Categories served by the general fallback are not
// listed.
func (t *Tables) Categories(warehouse string) []category.Category {
	byCategory, ok := t.tiers[warehouse]
	if !ok {
		return nil
	}
	cats := make([]category.Category, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Rules resolves the tier rules for a warehouse and category.
//
// A category missing for the warehouse falls back to the warehouse's
// general rules; a missing warehouse falls back to the default
// warehouse. The second return is false only when neither fallback
// yields rules.
func (t *Tables) Rules(warehouse string, cat category.Category) ([]Rule, bool) {
	byCategory, ok := t.tiers[warehouse]
	if !ok {
		byCategory, ok = t.tiers[t.defaultWarehouse]
		if !ok {
			return nil, false
		}
	}

	if rules, ok := byCategory[cat]; ok && len(rules) > 0 {
		return rules, true
	}
	if rules, ok := byCategory[category.General]; ok && len(rules) > 0 {
		return rules, true
	}
	return nil, false
}

// Zone resolves a destination city to its zone: exact match first, then
// substring containment either way, then the default zone. Resolution
// never fails. When a fragment matches several configured cities the
// longest city name wins (ties break alphabetically), so resolution is
// independent of map iteration order.
func (t *Tables) Zone(city string) string {
	key := normalizeCity(city)
	if key == "" {
		return t.defaultZone
	}

	if zone, ok := t.zones[key]; ok {
		return zone
	}

	best := ""
	zone := t.defaultZone
	for name, z := range t.zones {
		if !strings.Contains(key, name) && !strings.Contains(name, key) {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best, zone = name, z
		}
	}

	return zone
}

// IsLocalZone reports whether the zone is the distinguished local zone
func (t *Tables) IsLocalZone(zone string) bool {
	return zone == t.localZone
}

// Bands returns the domestic weight bands, ascending by weight
func (t *Tables) Bands() []Band {
	return t.bands
}

// OverageRate returns the per-kg rate applied beyond the largest band
func (t *Tables) OverageRate(zone string) decimal.Decimal {
	if rate, ok := t.overage[zone]; ok {
		return rate
	}
	if rate, ok := t.overage[t.defaultZone]; ok {
		return rate
	}
	return decimal.Zero
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

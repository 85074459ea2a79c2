// Package tariff - International leg calculator
// Prices the warehouse -> consolidation hub segment from density tiers.
package tariff

import (
	"github.com/shopspring/decimal"

	"cargo-quote/core/category"
	"cargo-quote/internal/errors"
)

// DefaultDensityDivisor derives a volume assumption (weight/200) when
// no usable volume is supplied
const DefaultDensityDivisor = 200.0

// EffectiveVolume substitutes the default-density volume assumption for
// a missing or zero volume. The second return reports whether the
// substitution happened.
func EffectiveVolume(weight, volume float64) (float64, bool) {
	if volume <= 0 {
		return weight / DefaultDensityDivisor, true
	}
	return volume, false
}

// International prices the international leg. It is a pure function
// over the immutable tables: no I/O, no side effects.
type International struct {
	tables *Tables
}

// NewInternational creates an international leg calculator
func NewInternational(tables *Tables) *International {
	return &International{tables: tables}
}

// Compute prices one item's international leg.
//
// Density is weight/volume. A volume of zero or less is substituted by
// weight/DefaultDensityDivisor and flagged in the result; this is a
// documented fallback policy, not an error. Tier selection walks rules
// from the highest density threshold down and takes the first whose
// threshold is at or below the density (threshold equality selects the
// tier); if none qualifies, the lowest-threshold rule applies.
func (c *International) Compute(weight, volume float64, cat category.Category, warehouse string) (*InternationalResult, error) {
	if c.tables.Degraded() {
		return nil, errors.ConfigUnavailable()
	}
	if weight <= 0 {
		return nil, errors.Input("weight must be positive")
	}

	volume, assumed := EffectiveVolume(weight, volume)
	density := weight / volume

	rules, ok := c.tables.Rules(warehouse, cat)
	if !ok {
		return nil, errors.TariffNotFound(warehouse, cat.String())
	}

	rule := rules[len(rules)-1] // lowest threshold is the fallback
	for _, r := range rules {
		if r.MinDensity <= density {
			rule = r
			break
		}
	}

	quantity := weight
	if rule.Unit == UnitCubicMeter {
		quantity = volume
	}

	baseCost := rule.Price.Mul(decimal.NewFromFloat(quantity))
	markup := decimal.NewFromInt(1).Add(c.tables.intlMarkup)

	return &InternationalResult{
		Warehouse:     warehouse,
		Category:      cat,
		Density:       density,
		Volume:        volume,
		AssumedVolume: assumed,
		Unit:          rule.Unit,
		BaseRate:      rule.Price,
		BaseCost:      baseCost,
		ClientRate:    rule.Price.Mul(markup),
		ClientCost:    baseCost.Mul(markup),
	}, nil
}

// Package tariff implements the two-leg cargo tariff engine: the
// density-tiered international leg and the weight-banded, zone-priced
// domestic leg.
package tariff

import (
	"github.com/shopspring/decimal"

	"cargo-quote/core/category"
)

// Unit is the pricing unit of a tariff rule
type Unit string

const (
	// UnitKilogram prices per kg of cargo weight
	UnitKilogram Unit = "kg"

	// UnitCubicMeter prices per m3 of cargo volume
	UnitCubicMeter Unit = "m3"
)

// String returns the string representation
func (u Unit) String() string {
	return string(u)
}

// Rule is one density tier: cargo at or above MinDensity is priced at
// Price per Unit
type Rule struct {
	// MinDensity is the inclusive lower density bound in kg/m3
	MinDensity float64 `json:"min_density"`

	// Price is the unit price in USD
	Price decimal.Decimal `json:"price"`

	// Unit selects weight or volume pricing
	Unit Unit `json:"unit"`
}

// Band is one domestic weight step with fixed per-zone prices
type Band struct {
	// MaxWeight is the inclusive upper bound in kg
	MaxWeight float64 `json:"max_weight"`

	// ZonePrices maps zone identifier to the band price in KZT
	ZonePrices map[string]decimal.Decimal `json:"zone_prices"`
}

// InternationalResult is the priced international leg of one item
type InternationalResult struct {
	// Warehouse and Category are the resolved lookup keys
	Warehouse string            `json:"warehouse"`
	Category  category.Category `json:"category"`

	// Density is weight/volume in kg/m3
	Density float64 `json:"density"`

	// Volume is the effective volume used for pricing
	Volume float64 `json:"volume"`

	// AssumedVolume is set when the default-density fallback
	// (weight/200) substituted a missing or zero volume
	AssumedVolume bool `json:"assumed_volume"`

	// Unit is the pricing unit of the selected tier
	Unit Unit `json:"unit"`

	// BaseRate and BaseCost are before markup, in USD
	BaseRate decimal.Decimal `json:"base_rate"`
	BaseCost decimal.Decimal `json:"base_cost"`

	// ClientRate and ClientCost include the international markup, so a
	// previously agreed rate can be compared against a fresh one
	ClientRate decimal.Decimal `json:"client_rate"`
	ClientCost decimal.Decimal `json:"client_cost"`
}

// DomesticResult is the priced domestic leg of a shipment.
//
// The domestic figure is an estimate pending final confirmation at the
// destination hub; callers must not fold it into the contracted total
// unless explicitly combining.
type DomesticResult struct {
	// Zone is the resolved destination zone
	Zone string `json:"zone"`

	// Local is set for the local zone (no zone-band pricing)
	Local bool `json:"local"`

	// Overage is set when the weight exceeded the largest band
	Overage bool `json:"overage"`

	// BaseCost is before markup, in KZT
	BaseCost decimal.Decimal `json:"base_cost"`

	// ClientCost includes the domestic markup, in KZT
	ClientCost decimal.Decimal `json:"client_cost"`

	// Estimate flags the cost as pending confirmation at the
	// destination hub
	Estimate bool `json:"estimate"`
}

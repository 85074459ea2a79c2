// Package tariff - Domestic leg calculator
// Prices the consolidation hub -> destination city segment from
// weight bands and zones.
package tariff

import (
	"github.com/shopspring/decimal"

	"cargo-quote/internal/errors"
)

// Domestic prices the domestic leg. Like the international calculator
// it is pure over the immutable tables.
type Domestic struct {
	tables *Tables
}

// NewDomestic creates a domestic leg calculator
func NewDomestic(tables *Tables) *Domestic {
	return &Domestic{tables: tables}
}

// Compute prices the single shipment-level domestic leg for the
// aggregate weight.
//
// The zone resolves via the city map with a default-zone fallback and
// never fails. The local zone bills the configured per-kg local rate
// (possibly zero) instead of band prices. Weights beyond the largest
// band pay that band's price plus the per-zone overage rate for each
// extra kg. The result is always flagged as an estimate pending final
// confirmation at the destination hub.
func (c *Domestic) Compute(totalWeight float64, destinationCity string) (*DomesticResult, error) {
	if c.tables.Degraded() {
		return nil, errors.ConfigUnavailable()
	}
	if totalWeight <= 0 {
		return nil, errors.Input("total weight must be positive")
	}

	zone := c.tables.Zone(destinationCity)
	markup := decimal.NewFromInt(1).Add(c.tables.domMarkup)
	weight := decimal.NewFromFloat(totalWeight)

	if c.tables.IsLocalZone(zone) {
		base := c.tables.localRate.Mul(weight)
		return &DomesticResult{
			Zone:       zone,
			Local:      true,
			BaseCost:   base,
			ClientCost: base.Mul(markup),
			Estimate:   true,
		}, nil
	}

	bands := c.tables.Bands()
	for _, band := range bands {
		if totalWeight <= band.MaxWeight {
			base := c.zonePrice(band, zone)
			return &DomesticResult{
				Zone:       zone,
				BaseCost:   base,
				ClientCost: base.Mul(markup),
				Estimate:   true,
			}, nil
		}
	}

	// Beyond the largest band: its price plus per-kg overage
	last := bands[len(bands)-1]
	extra := decimal.NewFromFloat(totalWeight - last.MaxWeight)
	base := c.zonePrice(last, zone).Add(extra.Mul(c.tables.OverageRate(zone)))

	return &DomesticResult{
		Zone:       zone,
		Overage:    true,
		BaseCost:   base,
		ClientCost: base.Mul(markup),
		Estimate:   true,
	}, nil
}

func (c *Domestic) zonePrice(band Band, zone string) decimal.Decimal {
	if price, ok := band.ZonePrices[zone]; ok {
		return price
	}
	if price, ok := band.ZonePrices[c.tables.defaultZone]; ok {
		return price
	}
	return decimal.Zero
}

// Package cart aggregates line items into a single shipment quote.
//
// Each item prices its own international leg; the domestic leg is one
// shipment-level charge computed on the aggregate weight, never per
// item.
package cart

import (
	"github.com/shopspring/decimal"

	"cargo-quote/core/category"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/errors"
)

// Item is one cargo line item
type Item struct {
	// Description is the customer's free-text product description
	Description string `json:"description"`

	// Category is the resolved tariff category
	Category category.Category `json:"category"`

	// Weight in kg, must be positive
	Weight float64 `json:"weight"`

	// Volume in m3; zero means the default-density assumption applies
	Volume float64 `json:"volume"`

	// AgreedRate, when set, is a manually negotiated USD/kg rate that
	// overrides the computed tier: cost = AgreedRate * Weight
	AgreedRate *decimal.Decimal `json:"agreed_rate,omitempty"`
}

// Cart is the set of items priced together in one session. It owns its
// items for the session; carts are never shared between sessions.
type Cart struct {
	// Warehouse is the origin warehouse code for every item
	Warehouse string `json:"warehouse"`

	// City is the destination city for the domestic leg
	City string `json:"city"`

	// Items in insertion order
	Items []Item `json:"items"`
}

// Add appends an item
func (c *Cart) Add(item Item) {
	c.Items = append(c.Items, item)
}

// ItemCost is the priced international leg of one item
type ItemCost struct {
	Index       int               `json:"index"`
	Description string            `json:"description"`
	Category    category.Category `json:"category"`

	Weight        float64 `json:"weight"`
	Volume        float64 `json:"volume"`
	AssumedVolume bool    `json:"assumed_volume"`
	Density       float64 `json:"density"`

	// Unit is the pricing unit of the applied tier ("kg" for manual
	// rates)
	Unit tariff.Unit `json:"unit"`

	// Rate is the client-facing USD unit rate
	Rate decimal.Decimal `json:"rate"`

	// Manual is set when an agreed rate overrode the computed tier
	Manual bool `json:"manual"`

	// CostUSD is the client-facing international cost
	CostUSD decimal.Decimal `json:"cost_usd"`
}

// Quote is the priced cart. It is derived data: recomputed on demand
// and never persisted by the engine.
type Quote struct {
	Items []ItemCost `json:"items"`

	TotalWeight float64 `json:"total_weight"`
	TotalVolume float64 `json:"total_volume"`

	// InternationalTotalUSD is the contracted amount
	InternationalTotalUSD decimal.Decimal `json:"international_total_usd"`
	InternationalTotalKZT decimal.Decimal `json:"international_total_kzt"`

	// DomesticEstimateKZT is informational: pending final confirmation
	// at the destination hub
	DomesticEstimateKZT decimal.Decimal `json:"domestic_estimate_kzt"`
	DomesticZone        string          `json:"domestic_zone"`
	DomesticIsEstimate  bool            `json:"domestic_is_estimate"`

	// CombinedEstimateKZT is international plus domestic, for callers
	// that explicitly request the combined figure
	CombinedEstimateKZT decimal.Decimal `json:"combined_estimate_kzt"`

	// ExchangeRate is KZT per USD at pricing time
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// Pricer prices carts against the immutable tariff tables
type Pricer struct {
	intl   *tariff.International
	dom    *tariff.Domestic
	tables *tariff.Tables
}

// NewPricer creates a cart pricer
func NewPricer(tables *tariff.Tables) *Pricer {
	return &Pricer{
		intl:   tariff.NewInternational(tables),
		dom:    tariff.NewDomestic(tables),
		tables: tables,
	}
}

// Price prices the whole cart.
//
// Pricing is deterministic and side-effect free: the same cart always
// yields bit-identical results. If any item fails tier resolution the
// whole pricing fails, naming the item and category; partial quotes are
// never returned.
func (p *Pricer) Price(c *Cart) (*Quote, error) {
	if len(c.Items) == 0 {
		return nil, errors.Input("cart has no items")
	}

	quote := &Quote{
		InternationalTotalUSD: decimal.Zero,
		ExchangeRate:          p.tables.ExchangeRate(),
	}

	for i, item := range c.Items {
		cost, err := p.priceItem(i, item, c.Warehouse)
		if err != nil {
			return nil, err
		}
		quote.Items = append(quote.Items, *cost)
		quote.TotalWeight += cost.Weight
		quote.TotalVolume += cost.Volume
		quote.InternationalTotalUSD = quote.InternationalTotalUSD.Add(cost.CostUSD)
	}

	// One shipment-level domestic leg on the aggregate weight
	dom, err := p.dom.Compute(quote.TotalWeight, c.City)
	if err != nil {
		return nil, err
	}

	quote.DomesticEstimateKZT = dom.ClientCost
	quote.DomesticZone = dom.Zone
	quote.DomesticIsEstimate = dom.Estimate
	quote.InternationalTotalKZT = quote.InternationalTotalUSD.Mul(quote.ExchangeRate)
	quote.CombinedEstimateKZT = quote.InternationalTotalKZT.Add(quote.DomesticEstimateKZT)

	return quote, nil
}

func (p *Pricer) priceItem(index int, item Item, warehouse string) (*ItemCost, error) {
	res, err := p.intl.Compute(item.Weight, item.Volume, item.Category, warehouse)
	if err != nil {
		// A manually agreed rate needs no tier; only a missing tier is
		// forgivable, and only then.
		if item.AgreedRate == nil || !errors.IsType(err, errors.TypeTariffNotFound) {
			return nil, itemError(index, item.Category, err)
		}
		volume, assumed := tariff.EffectiveVolume(item.Weight, item.Volume)
		res = &tariff.InternationalResult{
			Warehouse:     warehouse,
			Category:      item.Category,
			Density:       item.Weight / volume,
			Volume:        volume,
			AssumedVolume: assumed,
			Unit:          tariff.UnitKilogram,
		}
	}

	cost := &ItemCost{
		Index:         index,
		Description:   item.Description,
		Category:      item.Category,
		Weight:        item.Weight,
		Volume:        res.Volume,
		AssumedVolume: res.AssumedVolume,
		Density:       res.Density,
		Unit:          res.Unit,
		Rate:          res.ClientRate,
		CostUSD:       res.ClientCost,
	}

	if item.AgreedRate != nil {
		cost.Manual = true
		cost.Unit = tariff.UnitKilogram
		cost.Rate = *item.AgreedRate
		cost.CostUSD = item.AgreedRate.Mul(decimal.NewFromFloat(item.Weight))
	}

	return cost, nil
}

// itemError rewraps a calculator error so the cart-level failure names
// the offending item and category without losing the error type
func itemError(index int, cat category.Category, err error) error {
	if e, ok := err.(*errors.Error); ok {
		return errors.Newf(e.Type, "item %d (category %q): %s", index+1, cat, e.Message).
			WithContext("item_index", index).
			WithContext("item_category", cat.String())
	}
	return err
}

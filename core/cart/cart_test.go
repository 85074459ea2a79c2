// Package cart - Pricing aggregation tests
package cart

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cargo-quote/core/category"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/config"
	"cargo-quote/internal/errors"
)

func testPricer() *Pricer {
	return NewPricer(tariff.NewTables(config.Default()))
}

func TestPriceSingleItem(t *testing.T) {
	cart := &Cart{Warehouse: "GZ", City: "Astana"}
	cart.Add(Item{Description: "sneakers", Category: category.General, Weight: 100, Volume: 0.5})

	quote, err := testPricer().Price(cart)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	if len(quote.Items) != 1 {
		t.Fatalf("Expected 1 priced item, got %d", len(quote.Items))
	}

	// Density 200: the GZ general 180 tier at 3.1 USD/kg, plus 30%
	item := quote.Items[0]
	if got := item.CostUSD.InexactFloat64(); got != 403 {
		t.Errorf("Expected item cost 403, got %v", got)
	}
	if got := quote.InternationalTotalKZT.InexactFloat64(); got != 403*550 {
		t.Errorf("Expected KZT total %v, got %v", 403*550, quote.InternationalTotalKZT)
	}
	if quote.DomesticZone != "3" {
		t.Errorf("Expected zone 3 for Astana, got %s", quote.DomesticZone)
	}
	if !quote.DomesticIsEstimate {
		t.Error("Expected the domestic leg to be an estimate")
	}
	if !quote.CombinedEstimateKZT.Equal(quote.InternationalTotalKZT.Add(quote.DomesticEstimateKZT)) {
		t.Error("Expected combined = international + domestic")
	}
}

func TestPriceOrderInsensitiveTotals(t *testing.T) {
	a := Item{Category: category.Clothing, Weight: 40, Volume: 0.2}
	b := Item{Category: category.Electronics, Weight: 25, Volume: 0.1}

	forward := &Cart{Warehouse: "GZ", City: "Shymkent", Items: []Item{a, b}}
	reversed := &Cart{Warehouse: "GZ", City: "Shymkent", Items: []Item{b, a}}

	p := testPricer()
	q1, err := p.Price(forward)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	q2, err := p.Price(reversed)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	if !q1.InternationalTotalUSD.Equal(q2.InternationalTotalUSD) {
		t.Errorf("Totals differ by order: %v vs %v", q1.InternationalTotalUSD, q2.InternationalTotalUSD)
	}
	if !q1.CombinedEstimateKZT.Equal(q2.CombinedEstimateKZT) {
		t.Errorf("Combined estimates differ by order: %v vs %v", q1.CombinedEstimateKZT, q2.CombinedEstimateKZT)
	}
	if q1.TotalWeight != q2.TotalWeight {
		t.Errorf("Weights differ by order: %v vs %v", q1.TotalWeight, q2.TotalWeight)
	}
}

func TestPriceSumsItemCosts(t *testing.T) {
	cart := &Cart{Warehouse: "GZ", City: "Taraz"}
	cart.Add(Item{Category: category.General, Weight: 100, Volume: 0.5})
	cart.Add(Item{Category: category.Clothing, Weight: 40, Volume: 0.2})
	cart.Add(Item{Category: category.Electronics, Weight: 25, Volume: 0.1})

	quote, err := testPricer().Price(cart)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	sum := decimal.Zero
	for _, item := range quote.Items {
		sum = sum.Add(item.CostUSD)
	}
	if !sum.Equal(quote.InternationalTotalUSD) {
		t.Errorf("Item sum %v does not match total %v", sum, quote.InternationalTotalUSD)
	}
}

func TestPriceSingleDomesticLeg(t *testing.T) {
	// Two 4 kg items must price domestically as one 8 kg shipment,
	// not as two 4 kg parcels
	cart := &Cart{Warehouse: "GZ", City: "Konaev"}
	cart.Add(Item{Category: category.General, Weight: 4, Volume: 0.02})
	cart.Add(Item{Category: category.General, Weight: 4, Volume: 0.02})

	quote, err := testPricer().Price(cart)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	// 8 kg zone 1 is the 10 kg band at 2400, plus 20%
	if got := quote.DomesticEstimateKZT.InexactFloat64(); got != 2880 {
		t.Errorf("Expected domestic estimate 2880, got %v", got)
	}
}

func TestPriceAgreedRateOverride(t *testing.T) {
	rate := decimal.NewFromFloat(4.5)
	cart := &Cart{Warehouse: "GZ", City: "Astana"}
	cart.Add(Item{Category: category.General, Weight: 10, Volume: 0.05, AgreedRate: &rate})

	quote, err := testPricer().Price(cart)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	item := quote.Items[0]
	if !item.Manual {
		t.Error("Expected the manual flag")
	}
	if got := item.CostUSD.InexactFloat64(); got != 45 {
		t.Errorf("Expected agreed-rate cost 45, got %v", got)
	}
}

func TestPriceAgreedRateSurvivesMissingTariff(t *testing.T) {
	cfg := config.Default()
	cfg.Tariffs.DefaultWarehouse = "ZZ"
	p := NewPricer(tariff.NewTables(cfg))

	rate := decimal.NewFromFloat(3.0)
	cart := &Cart{Warehouse: "XX", City: "Astana"}
	cart.Add(Item{Category: category.General, Weight: 10, Volume: 0.05, AgreedRate: &rate})

	quote, err := p.Price(cart)
	if err != nil {
		t.Fatalf("Expected the agreed rate to bypass tier resolution, got %v", err)
	}
	if got := quote.Items[0].CostUSD.InexactFloat64(); got != 30 {
		t.Errorf("Expected cost 30, got %v", got)
	}
}

func TestPriceFailureNamesItem(t *testing.T) {
	cfg := config.Default()
	cfg.Tariffs.DefaultWarehouse = "ZZ"
	p := NewPricer(tariff.NewTables(cfg))

	cart := &Cart{Warehouse: "XX", City: "Astana"}
	cart.Add(Item{Category: category.General, Weight: 10, Volume: 0.05})
	cart.Add(Item{Category: category.Shoes, Weight: 5, Volume: 0.02})

	_, err := p.Price(cart)
	if err == nil {
		t.Fatal("Expected pricing to fail")
	}
	if !errors.IsType(err, errors.TypeTariffNotFound) {
		t.Errorf("Expected TARIFF_NOT_FOUND, got %v", err)
	}
	if !strings.Contains(err.Error(), "item 1") {
		t.Errorf("Expected the failure to name the item, got %q", err.Error())
	}
}

func TestPriceEmptyCart(t *testing.T) {
	_, err := testPricer().Price(&Cart{Warehouse: "GZ", City: "Astana"})
	if err == nil {
		t.Fatal("Expected an error for an empty cart")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("Expected INPUT_ERROR, got %v", err)
	}
}

func TestPriceAssumedVolumeFlagged(t *testing.T) {
	cart := &Cart{Warehouse: "GZ", City: "Astana"}
	cart.Add(Item{Category: category.General, Weight: 50, Volume: 0})

	quote, err := testPricer().Price(cart)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	item := quote.Items[0]
	if !item.AssumedVolume {
		t.Error("Expected the assumed-volume flag")
	}
	if item.Volume != 0.25 {
		t.Errorf("Expected assumed volume 0.25, got %v", item.Volume)
	}
}

func TestExpandBoxes(t *testing.T) {
	items := ExpandBoxes(3, 20, 0.1, category.Clothing)
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Weight != 20 || item.Volume != 0.1 {
			t.Errorf("Expected 20 kg / 0.1 m3 per box, got %v / %v", item.Weight, item.Volume)
		}
	}
}

func TestExpandPallets(t *testing.T) {
	items := ExpandPallets(2, "")
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Weight != PalletWeightKg || items[0].Volume != PalletVolumeM3 {
		t.Errorf("Expected standard pallet %v kg / %v m3, got %v / %v",
			PalletWeightKg, PalletVolumeM3, items[0].Weight, items[0].Volume)
	}
	if items[0].Category != category.Furniture {
		t.Errorf("Expected the furniture fallback, got %s", items[0].Category)
	}
}

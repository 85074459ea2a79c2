// Package tariff - International leg calculator tests
package tariff

import (
	"testing"

	"cargo-quote/core/category"
	"cargo-quote/internal/config"
	"cargo-quote/internal/errors"
)

// testConfig builds a small tariff document with known numbers
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Tariffs.DensityTiers = map[string]map[string][]config.RateRule{
		"GZ": {
			"general": {
				{MinDensity: 300, Price: 3.0, Unit: "kg"},
				{MinDensity: 150, Price: 5.0, Unit: "kg"},
				{MinDensity: 100, Price: 6.0, Unit: "kg"},
				{MinDensity: 0, Price: 420, Unit: "m3"},
			},
			"obuv": {
				{MinDensity: 200, Price: 4.0, Unit: "kg"},
				{MinDensity: 0, Price: 450, Unit: "m3"},
			},
		},
	}
	return cfg
}

func TestComputeDensityTierSelection(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// 100 kg in 0.5 m3 is density 200: the 150 tier applies at 5 USD/kg
	result, err := intl.Compute(100, 0.5, category.General, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if result.Density != 200 {
		t.Errorf("Expected density 200, got %v", result.Density)
	}
	if got := result.BaseCost.InexactFloat64(); got != 500 {
		t.Errorf("Expected base cost 500, got %v", got)
	}
	if got := result.ClientCost.InexactFloat64(); got != 650 {
		t.Errorf("Expected client cost 650 after 30%% markup, got %v", got)
	}
	if result.Unit != UnitKilogram {
		t.Errorf("Expected kg pricing, got %s", result.Unit)
	}
}

func TestComputeTierBoundaryInclusive(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// Density exactly at a threshold selects that tier, not the one below
	result, err := intl.Compute(300, 1.0, category.General, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := result.BaseRate.InexactFloat64(); got != 3.0 {
		t.Errorf("Expected the 300-threshold rate 3.0 at density 300, got %v", got)
	}
}

func TestComputeCubicMeterUnit(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// 50 kg in 1 m3 is density 50: the zero tier prices per m3
	result, err := intl.Compute(50, 1.0, category.General, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if result.Unit != UnitCubicMeter {
		t.Errorf("Expected m3 pricing, got %s", result.Unit)
	}
	if got := result.BaseCost.InexactFloat64(); got != 420 {
		t.Errorf("Expected base cost 420 for 1 m3, got %v", got)
	}
}

func TestComputeVolumeAssumption(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// Zero volume substitutes weight/200, so density is always 200
	result, err := intl.Compute(50, 0, category.General, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if !result.AssumedVolume {
		t.Error("Expected AssumedVolume to be set")
	}
	if result.Volume != 0.25 {
		t.Errorf("Expected assumed volume 0.25, got %v", result.Volume)
	}
	if result.Density != 200 {
		t.Errorf("Expected density 200 under the assumption, got %v", result.Density)
	}
}

func TestComputeLowestRuleFallback(t *testing.T) {
	cfg := testConfig()
	// No zero-threshold rule: density below every threshold must still price
	cfg.Tariffs.DensityTiers["GZ"]["general"] = []config.RateRule{
		{MinDensity: 300, Price: 3.0, Unit: "kg"},
		{MinDensity: 150, Price: 5.0, Unit: "kg"},
	}
	intl := NewInternational(NewTables(cfg))

	result, err := intl.Compute(50, 1.0, category.General, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := result.BaseRate.InexactFloat64(); got != 5.0 {
		t.Errorf("Expected lowest-threshold rate 5.0 as fallback, got %v", got)
	}
}

func TestComputeCategoryFallsBackToGeneral(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// No furniture table for GZ: the general table applies
	result, err := intl.Compute(100, 0.5, category.Furniture, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := result.BaseRate.InexactFloat64(); got != 5.0 {
		t.Errorf("Expected the general rate 5.0, got %v", got)
	}
}

func TestComputeWarehouseFallsBackToDefault(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	// Unknown warehouse resolves via the default warehouse GZ
	result, err := intl.Compute(100, 0.5, category.General, "XX")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := result.BaseRate.InexactFloat64(); got != 5.0 {
		t.Errorf("Expected default-warehouse rate 5.0, got %v", got)
	}
}

func TestComputeTariffNotFound(t *testing.T) {
	cfg := testConfig()
	cfg.Tariffs.DefaultWarehouse = "ZZ"
	intl := NewInternational(NewTables(cfg))

	_, err := intl.Compute(100, 0.5, category.General, "XX")
	if err == nil {
		t.Fatal("Expected an error for an unresolvable warehouse")
	}
	if !errors.IsType(err, errors.TypeTariffNotFound) {
		t.Errorf("Expected TARIFF_NOT_FOUND, got %v", err)
	}
}

func TestComputeRejectsNonPositiveWeight(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	for _, weight := range []float64{0, -5} {
		if _, err := intl.Compute(weight, 1.0, category.General, "GZ"); err == nil {
			t.Errorf("Expected an error for weight %v", weight)
		}
	}
}

func TestComputeDegradedTables(t *testing.T) {
	intl := NewInternational(NewTables(config.Degraded()))

	_, err := intl.Compute(100, 0.5, category.General, "GZ")
	if err == nil {
		t.Fatal("Expected an error from degraded tables")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestComputeDeterministic(t *testing.T) {
	intl := NewInternational(NewTables(testConfig()))

	first, err := intl.Compute(73.5, 0.31, category.Shoes, "GZ")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := intl.Compute(73.5, 0.31, category.Shoes, "GZ")
		if err != nil {
			t.Fatalf("Compute failed on repeat: %v", err)
		}
		if !again.ClientCost.Equal(first.ClientCost) || !again.ClientRate.Equal(first.ClientRate) {
			t.Fatalf("Expected identical results, got %v then %v", first.ClientCost, again.ClientCost)
		}
	}
}

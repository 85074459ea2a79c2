// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"

	"cargo-quote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Tariffs contains the tariff tables document
	Tariffs TariffDocument `json:"tariffs"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// Degraded is set when the configuration could not be read; the
	// engine still starts but rejects pricing requests
	Degraded bool `json:"-"`
}

// RateRule is one density tier of an international tariff
type RateRule struct {
	// MinDensity is the lower density bound (kg/m3) of the tier
	MinDensity float64 `json:"min_density"`

	// Price is the unit price in USD
	Price float64 `json:"price"`

	// Unit is the pricing unit: "kg" or "m3"
	Unit string `json:"unit"`
}

// WeightBand is one domestic weight step with per-zone prices in KZT
type WeightBand struct {
	// MaxWeight is the inclusive upper bound of the band in kg
	MaxWeight float64 `json:"max_weight"`

	// Zones maps zone identifier to the band price
	Zones map[string]float64 `json:"zones"`
}

// TariffDocument is the static tariff data loaded once at startup
type TariffDocument struct {
	// ExchangeRate is KZT per USD
	ExchangeRate float64 `json:"exchange_rate"`

	// InternationalMarkup is the client markup on the international leg
	InternationalMarkup float64 `json:"international_markup"`

	// DomesticMarkup is the client markup on the domestic leg
	DomesticMarkup float64 `json:"domestic_markup"`

	// LocalDeliveryRate is the per-kg KZT rate for the local zone
	LocalDeliveryRate float64 `json:"local_delivery_rate"`

	// DefaultWarehouse is used when a warehouse has no tariff tables
	DefaultWarehouse string `json:"default_warehouse"`

	// DefaultZone is used for unrecognized destination cities
	DefaultZone string `json:"default_zone"`

	// LocalZone identifies the zone with no billed domestic leg
	LocalZone string `json:"local_zone"`

	// DensityTiers maps warehouse -> category key -> tier rules
	DensityTiers map[string]map[string][]RateRule `json:"density_tiers"`

	// DestinationZones maps normalized city name -> zone identifier
	DestinationZones map[string]string `json:"destination_zones"`

	// WeightBands are the domestic bands, ascending by MaxWeight
	WeightBands []WeightBand `json:"weight_bands"`

	// OverageRates maps zone -> per-kg KZT rate beyond the last band
	OverageRates map[string]float64 `json:"overage_rates"`
}

// Default returns a configuration with the built-in tariff tables
func Default() *Config {
	return &Config{
		Version: "1.0",
		Logging: logging.DefaultConfig(),
		Tariffs: TariffDocument{
			ExchangeRate:        550,
			InternationalMarkup: 0.30,
			DomesticMarkup:      0.20,
			LocalDeliveryRate:   250,
			DefaultWarehouse:    "GZ",
			DefaultZone:         "5",
			LocalZone:           "almaty",
			DensityTiers: map[string]map[string][]RateRule{
				"GZ": {
					"general": {
						{MinDensity: 350, Price: 2.5, Unit: "kg"},
						{MinDensity: 250, Price: 2.8, Unit: "kg"},
						{MinDensity: 180, Price: 3.1, Unit: "kg"},
						{MinDensity: 130, Price: 3.5, Unit: "kg"},
						{MinDensity: 110, Price: 3.9, Unit: "kg"},
						{MinDensity: 0, Price: 420, Unit: "m3"},
					},
					"odezhda": {
						{MinDensity: 300, Price: 2.7, Unit: "kg"},
						{MinDensity: 200, Price: 3.0, Unit: "kg"},
						{MinDensity: 120, Price: 3.6, Unit: "kg"},
						{MinDensity: 0, Price: 440, Unit: "m3"},
					},
					"elektronika": {
						{MinDensity: 250, Price: 3.4, Unit: "kg"},
						{MinDensity: 150, Price: 3.9, Unit: "kg"},
						{MinDensity: 0, Price: 480, Unit: "m3"},
					},
				},
				"FS": {
					"general": {
						{MinDensity: 300, Price: 2.6, Unit: "kg"},
						{MinDensity: 180, Price: 3.2, Unit: "kg"},
						{MinDensity: 0, Price: 430, Unit: "m3"},
					},
					"mebel": {
						{MinDensity: 200, Price: 2.9, Unit: "kg"},
						{MinDensity: 100, Price: 3.8, Unit: "kg"},
						{MinDensity: 0, Price: 410, Unit: "m3"},
					},
				},
				"IW": {
					"general": {
						{MinDensity: 350, Price: 2.4, Unit: "kg"},
						{MinDensity: 200, Price: 2.9, Unit: "kg"},
						{MinDensity: 0, Price: 400, Unit: "m3"},
					},
				},
			},
			DestinationZones: map[string]string{
				"almaty":        "almaty",
				"konaev":        "1",
				"taldykorgan":   "1",
				"shymkent":      "2",
				"taraz":         "2",
				"karaganda":     "3",
				"astana":        "3",
				"kyzylorda":     "3",
				"pavlodar":      "4",
				"semey":         "4",
				"oskemen":       "4",
				"kostanay":      "4",
				"aktobe":        "4",
				"atyrau":        "5",
				"aktau":         "5",
				"uralsk":        "5",
				"petropavlovsk": "5",
			},
			WeightBands: []WeightBand{
				{MaxWeight: 1, Zones: map[string]float64{"1": 900, "2": 1100, "3": 1300, "4": 1500, "5": 1800}},
				{MaxWeight: 3, Zones: map[string]float64{"1": 1300, "2": 1600, "3": 1900, "4": 2300, "5": 2700}},
				{MaxWeight: 5, Zones: map[string]float64{"1": 1700, "2": 2100, "3": 2500, "4": 3000, "5": 3600}},
				{MaxWeight: 10, Zones: map[string]float64{"1": 2400, "2": 3000, "3": 3600, "4": 4300, "5": 5100}},
				{MaxWeight: 20, Zones: map[string]float64{"1": 3600, "2": 4200, "3": 4800, "4": 5400, "5": 6000}},
			},
			OverageRates: map[string]float64{
				"1": 200, "2": 220, "3": 240, "4": 260, "5": 300,
			},
		},
	}
}

// Degraded returns an empty-table configuration for when the tariff
// document cannot be read. The engine starts but cannot price.
func Degraded() *Config {
	return &Config{
		Version:  "1.0",
		Logging:  logging.DefaultConfig(),
		Degraded: true,
	}
}

// Load loads configuration from a file.
//
// An empty path yields the built-in defaults. A missing or unparseable
// file never crashes the engine: Load returns a degraded configuration
// alongside the error so callers can log it and keep running.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Degraded(), err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return Degraded(), err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
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

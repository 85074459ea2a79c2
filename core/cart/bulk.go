// Package cart - Bulk item helpers
// Expands "N boxes of W kg" style requests and standard pallets into
// individual line items.
package cart

import (
	"fmt"

	"cargo-quote/core/category"
)

// Standard pallet assumptions used when a customer counts pallets
// instead of measuring cargo
const (
	PalletWeightKg = 500.0
	PalletVolumeM3 = 1.2
)

// ExpandBoxes creates count identical items
func ExpandBoxes(count int, weightEach, volumeEach float64, cat category.Category) []Item {
	if count <= 0 {
		return nil
	}
	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, Item{
			Description: fmt.Sprintf("box %d of %d", i+1, count),
			Category:    cat,
			Weight:      weightEach,
			Volume:      volumeEach,
		})
	}
	return items
}

// ExpandPallets creates count standard pallets. Pallets default to the
// furniture category; callers override when the contents are known.
func ExpandPallets(count int, cat category.Category) []Item {
	if count <= 0 {
		return nil
	}
	if cat == "" {
		cat = category.Furniture
	}
	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, Item{
			Description: fmt.Sprintf("pallet %d of %d", i+1, count),
			Category:    cat,
			Weight:      PalletWeightKg,
			Volume:      PalletVolumeM3,
		})
	}
	return items
}

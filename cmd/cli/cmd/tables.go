package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cargo-quote/core/tariff"
	"cargo-quote/internal/config"
)

var tablesWarehouse string

// tablesCmd prints the loaded tariff tables
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the loaded tariff tables",
	RunE:  runTables,
}

func init() {
	tablesCmd.Flags().StringVarP(&tablesWarehouse, "warehouse", "w", "", "limit output to one warehouse")
}

func runTables(cmd *cobra.Command, args []string) error {
	tables := tariff.NewTables(config.Get())
	if tables.Degraded() {
		return fmt.Errorf("tariff tables unavailable")
	}

	warehouses := tables.Warehouses()
	if tablesWarehouse != "" {
		up := strings.ToUpper(tablesWarehouse)
		if !tables.HasWarehouse(up) {
			return fmt.Errorf("unknown warehouse %q (have: %s)", tablesWarehouse, strings.Join(warehouses, ", "))
		}
		warehouses = []string{up}
	}

	fmt.Printf("Exchange rate: %s KZT/USD\n\n", tables.ExchangeRate().StringFixed(0))

	for _, wh := range warehouses {
		fmt.Printf("Warehouse %s\n", wh)
		for _, cat := range tables.Categories(wh) {
			rules, ok := tables.Rules(wh, cat)
			if !ok {
				continue
			}
			fmt.Printf("  %s:\n", cat)
			for _, r := range rules {
				fmt.Printf("    density >= %6.1f  $%s/%s\n", r.MinDensity, r.Price.StringFixed(2), r.Unit)
			}
		}
		fmt.Println()
	}
	return nil
}

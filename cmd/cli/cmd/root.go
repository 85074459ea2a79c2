// Package cmd provides the CLI commands for cargo-quote.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cargo-quote/internal/config"
	"cargo-quote/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cargo-quote",
	Short: "Quote cargo shipping costs from China warehouses",
	Long: `cargo-quote prices parcel and cargo shipments from China
warehouses to destination cities: a density-tiered international leg
plus a weight-banded, zone-priced domestic leg.

Examples:
  cargo-quote quote
  cargo-quote tables
  cargo-quote tables --warehouse GZ`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "tariff config file (default: built-in tables, or $CARGO_QUOTE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		path = os.Getenv("CARGO_QUOTE_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tariff config unusable, running degraded: %v\n", err)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cargo-quote version 0.1.0")
	},
}

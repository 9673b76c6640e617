package cmd

import (
	"fmt"

	"github.com/theirongolddev/tripdeck/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:     %s\n", cfg.DB())
	if cfg.General.DefaultTrip != "" {
		fmt.Printf("    Default trip: %s\n", cfg.General.DefaultTrip)
	} else {
		fmt.Println("    Default trip: not set (most relevant trip)")
	}
	if cfg.General.Timezone != "" {
		fmt.Printf("    Timezone:     %s\n", cfg.General.Timezone)
	} else {
		fmt.Println("    Timezone:     local")
	}
	fmt.Println()

	fmt.Println("  [Search]")
	fmt.Printf("    Result limit:   %d\n", cfg.Search.Limit)
	if cfg.Search.Remote {
		fmt.Printf("    Geocoder:       %s (%.1f req/s, %ds timeout)\n",
			cfg.Search.NominatimURL, cfg.Search.RatePerSec, cfg.Search.RemoteTimeoutSec)
	} else {
		fmt.Println("    Geocoder:       disabled")
	}
	if cfg.Search.CountryBias != "" {
		fmt.Printf("    Country bias:   %s\n", cfg.Search.CountryBias)
	}
	fmt.Printf("    Fallback point: %.4f, %.4f\n", cfg.Search.FallbackLat, cfg.Search.FallbackLon)
	fmt.Printf("    Gazetteer:      %d custom entries\n", len(cfg.Gazetteer))
	fmt.Println()

	fmt.Println("  [Map]")
	if cfg.Map.DefaultZoom > 0 {
		fmt.Printf("    Default zoom: %d\n", cfg.Map.DefaultZoom)
	} else {
		fmt.Println("    Default zoom: from markers")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `tripdeck setup` to reconfigure.")
	return nil
}

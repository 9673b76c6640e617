package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/tripdeck/internal/config"
	"github.com/theirongolddev/tripdeck/internal/store"
	"github.com/theirongolddev/tripdeck/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}

	dbPath := cfg.DB()
	tripOpts := []huh.Option[string]{huh.NewOption("Most relevant trip", "")}
	if s, err := store.Open(dbPath); err == nil {
		if trips, err := s.ListTrips(context.Background()); err == nil {
			for _, t := range trips {
				tripOpts = append(tripOpts, huh.NewOption(t.Name+" ("+t.ID+")", t.ID))
			}
		}
		_ = s.Close()
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	fmt.Println()
	fmt.Println("  Welcome to tripdeck!")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Database path").
				Value(&dbPath),
			huh.NewSelect[string]().
				Title("Default trip").
				Options(tripOpts...).
				Value(&cfg.General.DefaultTrip),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as Europe/Paris, empty for local time").
				Value(&cfg.General.Timezone).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := time.LoadLocation(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use the Nominatim geocoder for location search?").
				Value(&cfg.Search.Remote),
			huh.NewInput().
				Title("Country bias").
				Description("Comma-separated ISO codes, e.g. us,ca. Empty for worldwide").
				Value(&cfg.Search.CountryBias),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if dbPath != config.DefaultDBPath() {
		cfg.General.DBPath = dbPath
	} else {
		cfg.General.DBPath = ""
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `tripdeck setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import trips, itinerary items and visited places from JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	stats, err := e.store.Import(context.Background(), f, e.loc)
	if err != nil {
		return err
	}
	fmt.Printf("  Imported %d trips, %d itinerary items, %d visited places into %s\n",
		stats.Trips, stats.Items, stats.Places, e.cfg.DB())
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/tripdeck/internal/cli"
	"github.com/theirongolddev/tripdeck/internal/trip"

	"github.com/spf13/cobra"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List trips with status and budget",
	RunE:  runTrips,
}

func init() {
	rootCmd.AddCommand(tripsCmd)
}

func runTrips(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	trips, err := e.store.ListTrips(context.Background())
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Println("\n  No trips found.")
		return nil
	}

	now := time.Now()
	trip.Sort(trips, now, e.loc)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRIPS  %d total", len(trips))))
	fmt.Println()

	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		status := trip.StatusOf(t, now, e.loc).String()
		if trip.IsRecent(t, now, e.loc) {
			status += " *"
		}
		pct := trip.BudgetPercent(t.Budget, t.TotalSpent)
		rows = append(rows, []string{
			t.ID,
			cli.Truncate(t.Name, 28),
			cli.FormatDateRange(t),
			status,
			cli.FormatCurrency(t.TotalSpent) + " / " + cli.FormatCurrency(t.Budget),
			cli.FormatPercent(pct),
			cli.FormatDistance(t.TotalDistanceKm),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"ID", "Name", "Dates", "Status", "Spent", "Budget", "Distance"},
		Rows:       rows,
		RightAlign: []bool{false, false, false, false, true, true, true},
	}))
	fmt.Println(cli.RenderMuted("  * ended within the last 3 months"))
	return nil
}

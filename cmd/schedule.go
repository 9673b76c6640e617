package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/tripdeck/internal/cli"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/schedule"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Day-by-day itinerary table",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := e.resolveTrip(ctx)
	if err != nil {
		return err
	}
	d, err := e.loadDashboard(ctx, t.ID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", t.Name, cli.FormatDateRange(t))))
	fmt.Println()

	if d.Schedule.Len() == 0 {
		fmt.Println("  No itinerary items yet. Add one with `tripdeck add`.")
		return nil
	}

	for _, day := range d.Schedule.Days {
		fmt.Println(cli.RenderSection(day.Label))
		rows := make([][]string, 0, len(day.Items))
		for _, it := range day.Items {
			rows = append(rows, []string{
				schedule.FormatTime(*it.PlannedAt, e.loc),
				cli.Truncate(it.Name, 32),
				string(it.Category),
				cli.FormatHours(it.DurationHours),
				locationCell(it),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:    []string{"Time", "Item", "Category", "Duration", "Location"},
			Rows:       rows,
			RightAlign: []bool{true, false, false, true, false},
		}))
	}

	if len(d.Schedule.Unscheduled) > 0 {
		fmt.Println(cli.RenderSection("Unscheduled"))
		rows := make([][]string, 0, len(d.Schedule.Unscheduled))
		for _, it := range d.Schedule.Unscheduled {
			rows = append(rows, []string{
				cli.Truncate(it.Name, 32),
				string(it.Category),
				cli.FormatHours(it.DurationHours),
				locationCell(it),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:    []string{"Item", "Category", "Duration", "Location"},
			Rows:       rows,
			RightAlign: []bool{false, false, true, false},
		}))
	}
	return nil
}

func locationCell(it model.ItineraryItem) string {
	if it.Location == nil {
		return cli.RenderMuted("no location")
	}
	return cli.FormatCoordinate(it.Location)
}

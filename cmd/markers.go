package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/tripdeck/internal/cli"
	"github.com/theirongolddev/tripdeck/internal/markers"
	"github.com/theirongolddev/tripdeck/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagMarkersZoom  int
	flagMarkersFocus string
	flagMarkersJSON  bool
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Map markers and initial view for the trip",
	RunE:  runMarkers,
}

func init() {
	markersCmd.Flags().IntVar(&flagMarkersZoom, "zoom", 0, "Zoom level to scale markers for (0 = initial view)")
	markersCmd.Flags().StringVar(&flagMarkersFocus, "focus", "", "Marker key to center on")
	markersCmd.Flags().BoolVar(&flagMarkersJSON, "json", false, "Print markers and view as JSON")
	rootCmd.AddCommand(markersCmd)
}

func runMarkers(_ *cobra.Command, _ []string) error {
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

	board := d.Board
	if flagMarkersZoom != 0 {
		board = board.WithZoom(flagMarkersZoom)
	}
	if flagMarkersFocus != "" {
		focused, ok := board.Focus(flagMarkersFocus)
		if !ok {
			return fmt.Errorf("no marker with key %q", flagMarkersFocus)
		}
		board = focused
	}

	if flagMarkersJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			View    markers.View      `json:"view"`
			Markers []model.MapMarker `json:"markers"`
		}{board.View(), board.All()})
	}

	v := board.View()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MARKERS  %s", t.Name)))
	fmt.Println()
	center := cli.FormatCoordinate(&v.Center)
	if v.Default {
		center += " (default)"
	}
	fmt.Printf("  View: %s  zoom %d\n\n", center, v.Zoom)

	all := board.All()
	if len(all) == 0 {
		fmt.Println("  No items or visited places have a usable location.")
		return nil
	}

	rows := make([][]string, 0, len(all))
	for _, m := range all {
		kind := "item"
		if strings.HasPrefix(m.Key, model.VisitedKeyPrefix) {
			kind = "visited"
		}
		rows = append(rows, []string{
			m.Key,
			kind,
			cli.Truncate(m.Title, 28),
			cli.FormatCoordinate(&m.Position),
			fmt.Sprintf("%.1f", m.Style.Scale),
			m.Style.FillColor,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"Key", "Kind", "Title", "Position", "Scale", "Color"},
		Rows:       rows,
		RightAlign: []bool{false, false, false, false, true, false},
	}))
	return nil
}

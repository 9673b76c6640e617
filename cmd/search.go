package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/tripdeck/internal/cli"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search for a location in the gazetteer and geocoder",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	term := strings.Join(args, " ")
	res := e.searcher().Search(context.Background(), term)
	if res.TooShort {
		return fmt.Errorf("search term %q is too short", term)
	}
	if res.RemoteErr != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Remote search unavailable: %v\n", res.RemoteErr)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SEARCH  %q", res.Term)))
	fmt.Println()
	if res.Synthetic {
		fmt.Println(cli.RenderMuted("  No matches; showing an approximate placeholder."))
		fmt.Println()
	}

	rows := make([][]string, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		rows = append(rows, []string{
			c.ID,
			cli.Truncate(c.Name, 30),
			cli.Truncate(c.Label, 40),
			cli.FormatCoordinate(&c.Position),
			c.Source.String(),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Address", "Position", "Source"},
		Rows:    rows,
	}))
	return nil
}

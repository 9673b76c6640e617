package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/theirongolddev/tripdeck/internal/category"
	"github.com/theirongolddev/tripdeck/internal/cli"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/search"
	"github.com/theirongolddev/tripdeck/internal/session"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagAddCandidate string
	flagAddName      string
	flagAddNotes     string
	flagAddCategory  string
	flagAddAt        string
	flagAddDuration  string
)

var addCmd = &cobra.Command{
	Use:   "add [location term]",
	Short: "Add an itinerary item at a searched location",
	Long: "Search for a location and add an itinerary item there. Without a term the\n" +
		"command runs an interactive form.",
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddCandidate, "candidate", "", "Candidate ID to pick (default: first result)")
	addCmd.Flags().StringVar(&flagAddName, "name", "", "Item name (default: location name)")
	addCmd.Flags().StringVar(&flagAddNotes, "notes", "", "Free-text notes")
	addCmd.Flags().StringVar(&flagAddCategory, "category", "", "Category: "+categoryList())
	addCmd.Flags().StringVar(&flagAddAt, "at", "", "Planned time, YYYY-MM-DD HH:MM (empty = unscheduled)")
	addCmd.Flags().StringVar(&flagAddDuration, "duration", "", "Duration in hours")
	rootCmd.AddCommand(addCmd)
}

func categoryList() string {
	names := make([]string, 0, len(category.Categories()))
	for _, c := range category.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func runAdd(_ *cobra.Command, args []string) error {
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

	logger := log.New(os.Stderr, "  ", 0)
	sess := session.New(session.Options{
		TripID:   t.ID,
		Creator:  e.store,
		Notifier: notify.Log{Logger: logger},
		Location: e.loc,
	})
	defer sess.Close()

	interactive := len(args) == 0
	term := strings.Join(args, " ")
	if interactive {
		if err := huh.NewInput().Title("Search location").Value(&term).Run(); err != nil {
			return err
		}
	}

	res, _ := sess.Search(ctx, e.searcher(), term)
	if res.TooShort {
		return fmt.Errorf("search term %q is too short", term)
	}
	if res.Empty() {
		return fmt.Errorf("no locations found for %q", term)
	}

	pick := flagAddCandidate
	if pick == "" {
		pick = res.Candidates[0].ID
		if interactive {
			if pick, err = chooseCandidate(res); err != nil {
				return err
			}
		}
	}
	if err := sess.Select(pick); err != nil {
		return err
	}

	vals := addValues{
		name:     sess.Fields().Name,
		notes:    flagAddNotes,
		category: string(category.Parse(flagAddCategory)),
		planned:  flagAddAt,
		duration: flagAddDuration,
	}
	if flagAddName != "" {
		vals.name = flagAddName
	}
	if interactive {
		if err := vals.form(t.Name, e.loc.String()).Run(); err != nil {
			return err
		}
	}

	sess.SetName(vals.name)
	sess.SetNotes(vals.notes)
	sess.SetCategory(category.Parse(vals.category))
	sess.SetDuration(vals.duration)
	if err := sess.SetPlanned(vals.planned); err != nil {
		return err
	}

	id, err := sess.Commit(ctx)
	if err != nil {
		var ve *session.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("item not saved: %s", ve.Messages())
		}
		return err
	}
	fmt.Printf("  Added %q to %s (%s)\n", vals.name, t.Name, cli.RenderMuted(id))
	return nil
}

func chooseCandidate(res search.Result) (string, error) {
	opts := make([]huh.Option[string], 0, len(res.Candidates))
	for _, c := range res.Candidates {
		opts = append(opts, huh.NewOption(candidateOption(c), c.ID))
	}
	var id string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Results for %q", res.Term)).
		Options(opts...).
		Value(&id).
		Run()
	return id, err
}

func candidateOption(c model.LocationCandidate) string {
	if c.Label != "" && c.Label != c.Name {
		return c.Name + " · " + cli.Truncate(c.Label, 50)
	}
	return c.Name
}

type addValues struct {
	name     string
	notes    string
	category string
	planned  string
	duration string
}

func (v *addValues) form(tripName, zone string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(category.Categories()))
	for _, c := range category.Categories() {
		opts = append(opts, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("New item for "+tripName),
			huh.NewInput().
				Title("Name").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(opts...).
				Value(&v.category),
			huh.NewInput().
				Title("Planned").
				Description("YYYY-MM-DD HH:MM in "+zone+", empty for unscheduled").
				Value(&v.planned),
			huh.NewInput().
				Title("Duration (hours)").
				Value(&v.duration).
				Validate(func(s string) error {
					_, err := session.ParseDuration(s)
					return err
				}),
			huh.NewText().
				Title("Notes").
				Value(&v.notes),
		),
	)
}

// Package cmd implements the tripdeck CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/tripdeck/internal/config"
	"github.com/theirongolddev/tripdeck/internal/gazetteer"
	"github.com/theirongolddev/tripdeck/internal/geocoding"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/pipeline"
	"github.com/theirongolddev/tripdeck/internal/search"
	"github.com/theirongolddev/tripdeck/internal/store"
	"github.com/theirongolddev/tripdeck/internal/trip"

	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagTrip    string
	flagTZ      string
	flagQuiet   bool
	flagOffline bool
)

var rootCmd = &cobra.Command{
	Use:   "tripdeck",
	Short: "Trip itinerary scheduler and map marker CLI",
	Long:  "Plan trip days, place itinerary items on a map, and search for locations.",
	RunE:  runSchedule,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagTrip, "trip", "t", "", "Trip ID (default from config, else the most relevant trip)")
	rootCmd.PersistentFlags().StringVar(&flagTZ, "tz", "", "IANA timezone for day grouping (default from config, else local)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Disable the remote geocoder")
}

// env is the shared state most commands need: config, an open store and the
// resolved timezone.
type env struct {
	cfg   config.Config
	store *store.Store
	loc   *time.Location
}

var errNoTrips = errors.New("no trips found; run `tripdeck import <file.json>` first")

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if flagTZ != "" {
		cfg.General.Timezone = flagTZ
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.DB())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, store: s, loc: loc}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// resolveTrip picks the trip by flag, then config, then the first trip in
// display order.
func (e *env) resolveTrip(ctx context.Context) (model.Trip, error) {
	id := flagTrip
	if id == "" {
		id = e.cfg.General.DefaultTrip
	}
	if id != "" {
		t, err := e.store.GetTrip(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return model.Trip{}, fmt.Errorf("trip %q not found", id)
		}
		return t, err
	}

	trips, err := e.store.ListTrips(ctx)
	if err != nil {
		return model.Trip{}, err
	}
	if len(trips) == 0 {
		return model.Trip{}, errNoTrips
	}
	trip.Sort(trips, time.Now(), e.loc)
	return trips[0], nil
}

// searcher builds the location merger from the gazetteer and, unless
// disabled, the Nominatim client.
func (e *env) searcher() *search.Merger {
	local := gazetteer.Default(e.cfg.Gazetteer...)
	opts := e.cfg.SearchOptions()

	if flagOffline || !e.cfg.Search.Remote {
		return search.NewMerger(local, nil, opts)
	}
	client := geocoding.NewClient(geocoding.Config{
		BaseURL:     e.cfg.Search.NominatimURL,
		UserAgent:   e.cfg.Search.UserAgent,
		Limit:       e.cfg.Search.Limit,
		RatePerSec:  e.cfg.Search.RatePerSec,
		CountryBias: e.cfg.Search.CountryBias,
	})
	return search.NewMerger(local, client, opts)
}

// loadDashboard fetches and derives the trip, printing progress to stderr.
func (e *env) loadDashboard(ctx context.Context, tripID string) (*pipeline.Dashboard, error) {
	progressFn := func(current, total int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Loading trip [%d/%d]", current, total)
		}
	}

	d, err := pipeline.Load(ctx, e.store, tripID, pipeline.Options{
		Location: e.loc,
		Zoom:     e.cfg.Map.DefaultZoom,
		Progress: progressFn,
	})
	if !flagQuiet {
		fmt.Fprint(os.Stderr, "\r                        \r")
	}
	if err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %d items and %d visited places in %s\n",
			len(d.Items), len(d.Places), d.LoadTime.Round(time.Millisecond))
	}
	return d, nil
}

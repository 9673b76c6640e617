// Package pipeline loads a trip's records and derives the day schedule and
// map markers from them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/tripdeck/internal/markers"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/schedule"
)

// ErrFetch is matched by every *FetchError.
var ErrFetch = errors.New("pipeline: fetch failed")

// Source fetches the raw records of a trip.
type Source interface {
	GetItineraryItems(ctx context.Context, tripID string) ([]model.ItineraryItem, error)
	GetVisitedPlaces(ctx context.Context, tripID string) ([]model.VisitedPlace, error)
}

// FetchError reports which record list failed to load.
type FetchError struct {
	What string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("pipeline: fetching %s: %v", e.What, e.Err)
}

// Unwrap exposes ErrFetch and the cause.
func (e *FetchError) Unwrap() []error { return []error{ErrFetch, e.Err} }

// ProgressFunc is called as each fetch completes.
// current is the number of finished fetches, total is the fetch count.
// It may be called concurrently from the fetch goroutines.
type ProgressFunc func(current, total int)

// Options tunes Load.
type Options struct {
	Location *time.Location // day boundaries and display times; nil = Local
	Zoom     int            // initial zoom; 0 uses the projection's view
	Progress ProgressFunc
}

// Dashboard is the derived, map-ready model of one trip.
type Dashboard struct {
	TripID   string
	Items    []model.ItineraryItem
	Places   []model.VisitedPlace
	Schedule schedule.Schedule
	Board    markers.Board
	LoadedAt time.Time
	LoadTime time.Duration
}

// Load fetches items and visited places concurrently and, once both have
// resolved, builds the schedule and marker board. If either fetch fails the
// whole load fails.
func Load(ctx context.Context, src Source, tripID string, opts Options) (*Dashboard, error) {
	start := time.Now()
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	var (
		items  []model.ItineraryItem
		places []model.VisitedPlace
		done   atomic.Int32
	)
	const total = 2
	report := func() {
		n := done.Add(1)
		if opts.Progress != nil {
			opts.Progress(int(n), total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = src.GetItineraryItems(gctx, tripID)
		if err != nil {
			return &FetchError{What: "itinerary items", Err: err}
		}
		report()
		return nil
	})
	g.Go(func() error {
		var err error
		places, err = src.GetVisitedPlaces(gctx, tripID)
		if err != nil {
			return &FetchError{What: "visited places", Err: err}
		}
		report()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := Build(tripID, items, places, loc, opts.Zoom)
	d.LoadedAt = start
	d.LoadTime = time.Since(start)
	return d, nil
}

// Build derives a dashboard from already fetched records.
func Build(tripID string, items []model.ItineraryItem, places []model.VisitedPlace, loc *time.Location, zoom int) *Dashboard {
	proj := markers.Project(items, places, zoom, loc)
	board := markers.NewBoard(proj)
	if zoom > 0 {
		board = board.WithZoom(zoom)
	}
	return &Dashboard{
		TripID:   tripID,
		Items:    items,
		Places:   places,
		Schedule: schedule.Bucketize(items, loc),
		Board:    board,
	}
}

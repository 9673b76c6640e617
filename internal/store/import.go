package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// Seed is the JSON document accepted by Import.
type Seed struct {
	Trips  []SeedTrip  `json:"trips"`
	Items  []SeedItem  `json:"items"`
	Places []SeedPlace `json:"places"`
}

// SeedTrip is a trip record in a Seed. Dates use 2006-01-02.
type SeedTrip struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Budget          float64  `json:"budget"`
	TotalSpent      float64  `json:"total_spent"`
	TotalDistanceKm *float64 `json:"total_distance_km"`
}

// SeedItem is an itinerary record in a Seed. Coordinates may be numbers or
// numeric strings; anything else is stored as missing.
type SeedItem struct {
	ID            string   `json:"id"`
	TripID        string   `json:"trip_id"`
	Name          string   `json:"name"`
	Notes         string   `json:"notes"`
	Category      string   `json:"category"`
	PlannedAt     string   `json:"planned_at"`
	DurationHours *float64 `json:"duration_hours"`
	Lat           any      `json:"lat"`
	Lon           any      `json:"lon"`
}

// SeedPlace is a visited place record in a Seed.
type SeedPlace struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	Name      string `json:"name"`
	VisitDate string `json:"visit_date"`
	Lat       any    `json:"lat"`
	Lon       any    `json:"lon"`
}

// ImportStats counts the records written by Import.
type ImportStats struct {
	Trips  int
	Items  int
	Places int
}

// Import decodes a Seed from r and writes it in one transaction.
func (s *Store) Import(ctx context.Context, r io.Reader, loc *time.Location) (ImportStats, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&seed); err != nil {
		return ImportStats{}, fmt.Errorf("decoding seed: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var stats ImportStats
	for _, t := range seed.Trips {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return ImportStats{}, fmt.Errorf("trip %d: id and name are required", stats.Trips+1)
		}
		start, err := seedDate(t.StartDate)
		if err != nil {
			return ImportStats{}, fmt.Errorf("trip %s: %w", t.ID, err)
		}
		end, err := seedDate(t.EndDate)
		if err != nil {
			return ImportStats{}, fmt.Errorf("trip %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO trips
			(trip_id, name, start_date, end_date, budget, total_spent, total_distance_km, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, start, end, t.Budget, t.TotalSpent, nullFloat(t.TotalDistanceKm), now())
		if err != nil {
			return ImportStats{}, fmt.Errorf("trip %s: %w", t.ID, err)
		}
		stats.Trips++
	}

	for _, it := range seed.Items {
		if it.ID == "" || it.TripID == "" {
			return ImportStats{}, fmt.Errorf("item %d: id and trip_id are required", stats.Items+1)
		}
		planned, err := seedTime(it.PlannedAt, loc)
		if err != nil {
			return ImportStats{}, fmt.Errorf("item %s: %w", it.ID, err)
		}
		if d := it.DurationHours; d != nil && *d < 0 {
			return ImportStats{}, fmt.Errorf("item %s: duration must be a non-negative number of hours", it.ID)
		}
		category := model.Category(it.Category)
		if category == "" {
			category = model.CategoryOther
		}
		lat, lon := seedCoordinate(it.Lat, it.Lon)
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO itinerary_items
			(item_id, trip_id, name, notes, category, planned_at, duration_hours, lat, lon, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, it.TripID, it.Name, it.Notes, string(category), planned,
			nullFloat(it.DurationHours), lat, lon, now())
		if err != nil {
			return ImportStats{}, fmt.Errorf("item %s: %w", it.ID, err)
		}
		stats.Items++
	}

	for _, p := range seed.Places {
		if p.ID == "" || p.TripID == "" {
			return ImportStats{}, fmt.Errorf("place %d: id and trip_id are required", stats.Places+1)
		}
		lat, lon := seedCoordinate(p.Lat, p.Lon)
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO visited_places
			(place_id, trip_id, name, visit_date, lat, lon) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.TripID, p.Name, p.VisitDate, lat, lon)
		if err != nil {
			return ImportStats{}, fmt.Errorf("place %s: %w", p.ID, err)
		}
		stats.Places++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

func seedDate(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return nil, fmt.Errorf("bad date %q", v)
	}
	return v, nil
}

// seedTime accepts RFC3339 or a zone-less "2006-01-02T15:04" read in loc.
func seedTime(v string, loc *time.Location) (any, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(time.RFC3339), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t.Format(time.RFC3339), nil
		}
	}
	return nil, fmt.Errorf("bad planned_at %q", v)
}

// seedCoordinate keeps only usable pairs; the rest are stored as NULL.
func seedCoordinate(lat, lon any) (any, any) {
	if n, ok := lat.(json.Number); ok {
		lat = n.String()
	}
	if n, ok := lon.(json.Number); ok {
		lon = n.String()
	}
	c := model.ParseCoordinate(lat, lon)
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lon
}

// Package store provides SQLite-backed persistence for trips, itinerary items
// and visited places.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/tripdeck/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DateLayout is the storage format of trip dates.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when a trip does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the trip database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
// The path ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	dsn := ":memory:?_pragma=foreign_keys(on)"
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTrip stores a trip. An empty ID is replaced by a generated one.
func (s *Store) CreateTrip(ctx context.Context, t model.Trip) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", errors.New("store: trip name is required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO trips
		(trip_id, name, start_date, end_date, budget, total_spent, total_distance_km, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, formatDate(t.StartDate), formatDate(t.EndDate),
		t.Budget, t.TotalSpent, nullFloat(t.TotalDistanceKm), now(),
	)
	if err != nil {
		return "", fmt.Errorf("saving trip: %w", err)
	}
	return t.ID, nil
}

// GetTrip returns one trip by ID.
func (s *Store) GetTrip(ctx context.Context, id string) (model.Trip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		trip_id, name, start_date, end_date, budget, total_spent, total_distance_km
		FROM trips WHERE trip_id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trip{}, fmt.Errorf("trip %q: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTrips returns every stored trip in creation order.
func (s *Store) ListTrips(ctx context.Context) ([]model.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		trip_id, name, start_date, end_date, budget, total_spent, total_distance_km
		FROM trips ORDER BY created_at, trip_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var trips []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(r scanner) (model.Trip, error) {
	var t model.Trip
	var start, end sql.NullString
	var dist sql.NullFloat64
	if err := r.Scan(&t.ID, &t.Name, &start, &end, &t.Budget, &t.TotalSpent, &dist); err != nil {
		return model.Trip{}, err
	}
	t.StartDate = parseDate(start)
	t.EndDate = parseDate(end)
	if dist.Valid {
		d := dist.Float64
		t.TotalDistanceKm = &d
	}
	return t, nil
}

// GetItineraryItems returns the items of a trip. Rows with unusable
// coordinates come back with a nil Location.
func (s *Store) GetItineraryItems(ctx context.Context, tripID string) ([]model.ItineraryItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		item_id, trip_id, name, notes, category, planned_at, duration_hours, lat, lon
		FROM itinerary_items WHERE trip_id = ? ORDER BY created_at, item_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ItineraryItem
	for rows.Next() {
		var it model.ItineraryItem
		var category string
		var planned sql.NullString
		var duration sql.NullFloat64
		var lat, lon any
		if err := rows.Scan(&it.ID, &it.TripID, &it.Name, &it.Notes, &category,
			&planned, &duration, &lat, &lon); err != nil {
			return nil, err
		}
		it.Category = model.Category(category)
		if planned.Valid && planned.String != "" {
			t, err := time.Parse(time.RFC3339, planned.String)
			if err != nil {
				return nil, fmt.Errorf("item %s: bad planned_at %q: %w", it.ID, planned.String, err)
			}
			it.PlannedAt = &t
		}
		if duration.Valid {
			d := duration.Float64
			it.DurationHours = &d
		}
		it.Location = model.ParseCoordinate(lat, lon)
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetVisitedPlaces returns the visited places of a trip.
func (s *Store) GetVisitedPlaces(ctx context.Context, tripID string) ([]model.VisitedPlace, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		place_id, trip_id, name, visit_date, lat, lon
		FROM visited_places WHERE trip_id = ? ORDER BY visit_date, place_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var places []model.VisitedPlace
	for rows.Next() {
		var p model.VisitedPlace
		var lat, lon any
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &p.VisitDate, &lat, &lon); err != nil {
			return nil, err
		}
		p.Location = model.ParseCoordinate(lat, lon)
		places = append(places, p)
	}
	return places, rows.Err()
}

// CreateItineraryItem stores a new item and returns its generated ID.
func (s *Store) CreateItineraryItem(ctx context.Context, d model.ItemDraft) (string, error) {
	if d.TripID == "" {
		return "", errors.New("store: item has no trip")
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO itinerary_items
		(item_id, trip_id, name, notes, category, planned_at, duration_hours, lat, lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.TripID, d.Name, d.Notes, string(d.Category), nullTime(d.PlannedAt),
		nullFloat(d.DurationHours), d.Location.Lat, d.Location.Lon, now(),
	)
	if err != nil {
		return "", fmt.Errorf("saving item: %w", err)
	}
	return id, nil
}

// AddVisitedPlace stores a visited place. An empty ID is replaced by a
// generated one.
func (s *Store) AddVisitedPlace(ctx context.Context, p model.VisitedPlace) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	var lat, lon any
	if p.Location != nil {
		lat, lon = p.Location.Lat, p.Location.Lon
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO visited_places
		(place_id, trip_id, name, visit_date, lat, lon) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.TripID, p.Name, p.VisitDate, lat, lon,
	)
	if err != nil {
		return "", fmt.Errorf("saving place: %w", err)
	}
	return p.ID, nil
}

// createdLayout is fixed-width so created_at sorts lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

func now() string {
	return time.Now().UTC().Format(createdLayout)
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateLayout)
}

func parseDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(DateLayout, s.String)
	return t
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

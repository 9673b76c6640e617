package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trips (
    trip_id              TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    start_date           TEXT,
    end_date             TEXT,
    budget               REAL NOT NULL DEFAULT 0,
    total_spent          REAL NOT NULL DEFAULT 0,
    total_distance_km    REAL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS itinerary_items (
    item_id              TEXT PRIMARY KEY,
    trip_id              TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    notes                TEXT NOT NULL DEFAULT '',
    category             TEXT NOT NULL,
    planned_at           TEXT,
    duration_hours       REAL,
    lat,
    lon,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS visited_places (
    place_id             TEXT PRIMARY KEY,
    trip_id              TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    visit_date           TEXT NOT NULL DEFAULT '',
    lat,
    lon
);

CREATE INDEX IF NOT EXISTS idx_items_trip ON itinerary_items(trip_id);
CREATE INDEX IF NOT EXISTS idx_places_trip ON visited_places(trip_id);
`

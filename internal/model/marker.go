package model

// Marker keys.
const (
	ItineraryKeyPrefix = "itinerary-"
	VisitedKeyPrefix   = "visited-"
	TempMarkerKey      = "temp-marker"
)

// MarkerStyle describes how a marker icon is drawn.
type MarkerStyle struct {
	IconPath     string  `json:"iconPath"`
	FillColor    string  `json:"fillColor"`
	FillOpacity  float64 `json:"fillOpacity"`
	StrokeColor  string  `json:"strokeColor"`
	StrokeWeight float64 `json:"strokeWeight"`
	Scale        float64 `json:"scale"`
	BaseScale    float64 `json:"baseScale"`
}

// MapMarker is a derived, never persisted projection of a record.
type MapMarker struct {
	Key         string      `json:"key"`
	Position    Coordinate  `json:"position"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Style       MarkerStyle `json:"style"`
}

// CandidateSource records where a location candidate came from.
type CandidateSource int

const (
	SourceLocal CandidateSource = iota
	SourceRemote
	SourceFallback
)

func (s CandidateSource) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// LocationCandidate is one location search result.
type LocationCandidate struct {
	ID       string
	Name     string
	Label    string // formatted address
	Position Coordinate
	Source   CandidateSource
}

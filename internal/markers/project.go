// Package markers projects itinerary items and visited places onto map
// markers and owns the zoom-dependent icon scaling.
package markers

import (
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/tripdeck/internal/category"
	"github.com/theirongolddev/tripdeck/internal/model"
)

// Base icon scales per marker kind.
const (
	ItineraryBaseScale = 1.2
	VisitedBaseScale   = 1.3
	TempBaseScale      = 1.5
)

// DateTimeLayout is used for planned timestamps in marker descriptions.
const DateTimeLayout = "Jan 2, 2006, 3:04 PM"

const (
	untitledItem  = "Unnamed Itinerary Item"
	untitledPlace = "Visited Place"
	noPlannedDate = "No Planned Date"
	unknownDate   = "Unknown date"
	tempNote      = "This location will be saved."
)

// Projection is the result of projecting records onto the map.
type Projection struct {
	Markers []model.MapMarker
	View    View
}

// ScaleFor returns the icon scale for base at the given zoom level.
func ScaleFor(base float64, zoom int) float64 {
	switch {
	case zoom >= 16:
		return base * 1.2
	case zoom >= 14:
		return base * 1.0
	case zoom >= 11:
		return base * 0.8
	case zoom >= 8:
		return base * 0.7
	default:
		return base * 0.6
	}
}

// Rescale returns a copy of ms with Scale recomputed from BaseScale.
func Rescale(ms []model.MapMarker, zoom int) []model.MapMarker {
	if ms == nil {
		return nil
	}
	out := make([]model.MapMarker, len(ms))
	for i, m := range ms {
		m.Style.Scale = ScaleFor(m.Style.BaseScale, zoom)
		out[i] = m
	}
	return out
}

// Project builds markers for every item and place with a usable coordinate,
// itinerary items first. Records without one are skipped.
func Project(items []model.ItineraryItem, places []model.VisitedPlace, zoom int, loc *time.Location) Projection {
	var ms []model.MapMarker
	for _, it := range items {
		if m, ok := ItineraryMarker(it, zoom, loc); ok {
			ms = append(ms, m)
		}
	}
	for _, p := range places {
		if m, ok := VisitedMarker(p, zoom); ok {
			ms = append(ms, m)
		}
	}
	return Projection{Markers: ms, View: InitialView(ms)}
}

// ItineraryMarker projects a single item. ok is false if it has no usable
// coordinate.
func ItineraryMarker(it model.ItineraryItem, zoom int, loc *time.Location) (model.MapMarker, bool) {
	pos := model.Usable(it.Location)
	if pos == nil {
		return model.MapMarker{}, false
	}
	st := category.StyleFor(it.Category)
	title := it.Name
	if strings.TrimSpace(title) == "" {
		title = untitledItem
	}
	return model.MapMarker{
		Key:         model.ItineraryKeyPrefix + it.ID,
		Position:    *pos,
		Title:       title,
		Description: Describe(it, loc),
		Style: model.MarkerStyle{
			IconPath:     st.Path,
			FillColor:    st.Color,
			FillOpacity:  0.9,
			StrokeColor:  "white",
			StrokeWeight: 1,
			Scale:        ScaleFor(ItineraryBaseScale, zoom),
			BaseScale:    ItineraryBaseScale,
		},
	}, true
}

// VisitedMarker projects a visited place.
func VisitedMarker(p model.VisitedPlace, zoom int) (model.MapMarker, bool) {
	pos := model.Usable(p.Location)
	if pos == nil {
		return model.MapMarker{}, false
	}
	st := category.VisitedStyle()
	title := p.Name
	if strings.TrimSpace(title) == "" {
		title = untitledPlace
	}
	date := strings.TrimSpace(p.VisitDate)
	if date == "" {
		date = unknownDate
	}
	return model.MapMarker{
		Key:         model.VisitedKeyPrefix + p.ID,
		Position:    *pos,
		Title:       title,
		Description: "Visited on: " + date,
		Style: model.MarkerStyle{
			IconPath:     st.Path,
			FillColor:    st.Color,
			FillOpacity:  1,
			StrokeColor:  "white",
			StrokeWeight: 1,
			Scale:        ScaleFor(VisitedBaseScale, zoom),
			BaseScale:    VisitedBaseScale,
		},
	}, true
}

// TempMarker builds the pending-location marker for a selected candidate.
func TempMarker(c model.LocationCandidate, zoom int) model.MapMarker {
	return model.MapMarker{
		Key:         model.TempMarkerKey,
		Position:    c.Position,
		Title:       c.Name,
		Description: tempNote,
		Style: model.MarkerStyle{
			IconPath:     "M 12,2 C 8.13,2 5,5.13 5,9 c 0,5.25 7,13 7,13 s 7,-7.75 7,-13 c 0,-3.87 -3.13,-7 -7,-7 z",
			FillColor:    "#FFEB3B",
			FillOpacity:  1,
			StrokeColor:  "#000000",
			StrokeWeight: 1.5,
			Scale:        ScaleFor(TempBaseScale, zoom),
			BaseScale:    TempBaseScale,
		},
	}
}

// Describe composes the popup text for an itinerary marker.
func Describe(it model.ItineraryItem, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	if it.PlannedAt != nil {
		b.WriteString(it.PlannedAt.In(loc).Format(DateTimeLayout))
	} else {
		b.WriteString(noPlannedDate)
	}
	if it.DurationHours != nil {
		b.WriteString(" - ")
		b.WriteString(strconv.FormatFloat(*it.DurationHours, 'f', -1, 64))
		b.WriteString(" hr(s)")
	}
	if it.Notes != "" {
		b.WriteString(": ")
		b.WriteString(it.Notes)
	}
	return strings.TrimSpace(b.String())
}

package markers

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/tripdeck/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptr[T any](v T) *T { return &v }

func TestScaleFor(t *testing.T) {
	tests := []struct {
		zoom int
		want float64
	}{
		{21, 1.44},
		{16, 1.44},
		{15, 1.2},
		{14, 1.2},
		{13, 0.96},
		{11, 0.96},
		{10, 0.84},
		{8, 0.84},
		{7, 0.72},
		{5, 0.72},
		{1, 0.72},
	}
	for _, tt := range tests {
		if got := ScaleFor(1.2, tt.zoom); !approx(got, tt.want) {
			t.Errorf("ScaleFor(1.2, %d) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestRescalePreservesBase(t *testing.T) {
	ms := []model.MapMarker{{Key: "itinerary-a", Style: model.MarkerStyle{BaseScale: 1.2, Scale: 1.2}}}

	at16 := Rescale(ms, 16)
	if !approx(at16[0].Style.Scale, 1.44) {
		t.Fatalf("scale at 16 = %v, want 1.44", at16[0].Style.Scale)
	}
	at5 := Rescale(at16, 5)
	if !approx(at5[0].Style.Scale, 0.72) {
		t.Fatalf("scale at 5 = %v, want 0.72", at5[0].Style.Scale)
	}
	if at5[0].Style.BaseScale != 1.2 {
		t.Errorf("BaseScale = %v, want 1.2", at5[0].Style.BaseScale)
	}
	if ms[0].Style.Scale != 1.2 {
		t.Errorf("Rescale mutated its input: scale = %v", ms[0].Style.Scale)
	}
}

func TestRescaleNoDrift(t *testing.T) {
	ms := []model.MapMarker{
		{Key: "itinerary-a", Title: "A", Style: model.MarkerStyle{BaseScale: ItineraryBaseScale}},
		{Key: "visited-b", Title: "B", Style: model.MarkerStyle{BaseScale: VisitedBaseScale}},
	}
	for z1 := MinZoom; z1 <= MaxZoom; z1++ {
		for _, z2 := range []int{1, 9, 12, 15, 18} {
			direct := Rescale(ms, z1)
			round := Rescale(Rescale(Rescale(ms, z1), z2), z1)
			for i := range direct {
				if direct[i] != round[i] {
					t.Fatalf("z1=%d z2=%d: %+v != %+v", z1, z2, round[i], direct[i])
				}
			}
		}
	}
}

func TestProjectSkipsMissingAndInvalidCoordinates(t *testing.T) {
	items := []model.ItineraryItem{
		{ID: "1", Name: "Hotel", Category: model.CategoryAccommodation, Location: &model.Coordinate{Lat: 47.5, Lon: 19.05}},
		{ID: "2", Name: "No location"},
		{ID: "3", Name: "Broken", Location: &model.Coordinate{Lat: 200, Lon: 0}},
	}
	places := []model.VisitedPlace{
		{ID: "p1", Name: "Old town", VisitDate: "2024-05-01", Location: &model.Coordinate{Lat: 48.2, Lon: 16.37}},
		{ID: "p2"},
	}

	p := Project(items, places, 12, time.UTC)
	if len(p.Markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(p.Markers))
	}
	if p.Markers[0].Key != "itinerary-1" || p.Markers[1].Key != "visited-p1" {
		t.Errorf("keys = %s, %s", p.Markers[0].Key, p.Markers[1].Key)
	}
	if p.Markers[0].Style.FillColor != "#4CAF50" {
		t.Errorf("fill = %s, want #4CAF50", p.Markers[0].Style.FillColor)
	}
	if p.Markers[1].Description != "Visited on: 2024-05-01" {
		t.Errorf("visited description = %q", p.Markers[1].Description)
	}
	if p.View.Zoom != MultiMarkerZoom || p.View.Center != p.Markers[0].Position {
		t.Errorf("view = %+v, want first marker at zoom %d", p.View, MultiMarkerZoom)
	}
}

func TestProjectEmptyUsesDefaultView(t *testing.T) {
	p := Project([]model.ItineraryItem{{ID: "x"}}, nil, 10, time.UTC)
	if len(p.Markers) != 0 {
		t.Fatalf("got %d markers, want 0", len(p.Markers))
	}
	if !p.View.Default || p.View.Zoom != DefaultZoom || p.View.Center != DefaultCenter {
		t.Errorf("view = %+v, want default", p.View)
	}
}

func TestProjectSingleMarkerZoom(t *testing.T) {
	p := Project(nil, []model.VisitedPlace{{ID: "v", Location: &model.Coordinate{Lat: 1, Lon: 2}}}, 10, time.UTC)
	if p.View.Zoom != SingleMarkerZoom {
		t.Errorf("zoom = %d, want %d", p.View.Zoom, SingleMarkerZoom)
	}
	if p.Markers[0].Title != "Visited Place" || p.Markers[0].Description != "Visited on: Unknown date" {
		t.Errorf("fallbacks = %q / %q", p.Markers[0].Title, p.Markers[0].Description)
	}
}

func TestDescribe(t *testing.T) {
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		item model.ItineraryItem
		want string
	}{
		{"empty", model.ItineraryItem{}, "No Planned Date"},
		{"planned", model.ItineraryItem{PlannedAt: &at}, "Mar 2, 2025, 9:00 AM"},
		{"duration", model.ItineraryItem{PlannedAt: &at, DurationHours: ptr(1.5)}, "Mar 2, 2025, 9:00 AM - 1.5 hr(s)"},
		{"zero duration", model.ItineraryItem{DurationHours: ptr(0.0)}, "No Planned Date - 0 hr(s)"},
		{"notes", model.ItineraryItem{Notes: "book ahead  "}, "No Planned Date: book ahead"},
		{"all", model.ItineraryItem{PlannedAt: &at, DurationHours: ptr(2.0), Notes: "tour"}, "Mar 2, 2025, 9:00 AM - 2 hr(s): tour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.item, time.UTC); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItineraryMarkerFallbacks(t *testing.T) {
	m, ok := ItineraryMarker(model.ItineraryItem{ID: "9", Category: "Unknown", Location: &model.Coordinate{}}, 16, time.UTC)
	if !ok {
		t.Fatal("expected marker for 0,0")
	}
	if m.Title != "Unnamed Itinerary Item" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Style.FillColor != "#F44336" {
		t.Errorf("unknown category fill = %s, want Other color", m.Style.FillColor)
	}
	if !approx(m.Style.Scale, 1.44) {
		t.Errorf("scale = %v, want 1.44", m.Style.Scale)
	}
}

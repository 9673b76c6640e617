package markers

import (
	"testing"

	"github.com/theirongolddev/tripdeck/internal/model"
)

func sampleBoard() Board {
	return NewBoard(Projection{
		Markers: []model.MapMarker{
			{Key: "itinerary-1", Position: model.Coordinate{Lat: 1, Lon: 1}, Style: model.MarkerStyle{BaseScale: ItineraryBaseScale}},
			{Key: "visited-2", Position: model.Coordinate{Lat: 2, Lon: 2}, Style: model.MarkerStyle{BaseScale: VisitedBaseScale}},
		},
		View: View{Center: model.Coordinate{Lat: 1, Lon: 1}, Zoom: MultiMarkerZoom},
	})
}

func TestBoardScalesToView(t *testing.T) {
	b := sampleBoard()
	if got := b.Markers()[0].Style.Scale; !approx(got, 0.96) {
		t.Errorf("scale at zoom 12 = %v, want 0.96", got)
	}
}

func TestBoardTempMarkerReplaces(t *testing.T) {
	c := model.LocationCandidate{ID: "c", Name: "Pier", Position: model.Coordinate{Lat: 3, Lon: 3}}
	b := sampleBoard().
		WithTemp(TempMarker(c, 1)).
		WithTemp(TempMarker(c, 1))

	count := 0
	for _, m := range b.All() {
		if m.Key == model.TempMarkerKey {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("temp markers = %d, want 1", count)
	}
	if got := b.Temp().Style.Scale; !approx(got, TempBaseScale*0.8) {
		t.Errorf("temp scale = %v, want board zoom scale", got)
	}
	if b.WithoutTemp().Temp() != nil {
		t.Error("WithoutTemp kept the temp marker")
	}
	if len(b.Markers()) != 2 {
		t.Errorf("Markers() includes temp marker")
	}
}

func TestBoardZoomClamps(t *testing.T) {
	b := sampleBoard().WithZoom(MaxZoom).ZoomIn()
	if b.View().Zoom != MaxZoom {
		t.Errorf("zoom = %d, want %d", b.View().Zoom, MaxZoom)
	}
	b = b.WithZoom(MinZoom).ZoomOut()
	if b.View().Zoom != MinZoom {
		t.Errorf("zoom = %d, want %d", b.View().Zoom, MinZoom)
	}
	if got := b.Markers()[1].Style.Scale; !approx(got, VisitedBaseScale*0.6) {
		t.Errorf("visited scale at zoom 1 = %v", got)
	}
}

func TestBoardIsImmutable(t *testing.T) {
	b := sampleBoard()
	_ = b.WithZoom(18)
	if b.View().Zoom != MultiMarkerZoom {
		t.Errorf("WithZoom mutated receiver view")
	}
	if got := b.Markers()[0].Style.Scale; !approx(got, 0.96) {
		t.Errorf("WithZoom mutated receiver markers: %v", got)
	}
}

func TestBoardFocus(t *testing.T) {
	b, ok := sampleBoard().Focus("visited-2")
	if !ok {
		t.Fatal("Focus did not find marker")
	}
	v := b.View()
	if v.Zoom != FocusZoom || v.Center != (model.Coordinate{Lat: 2, Lon: 2}) {
		t.Errorf("view = %+v", v)
	}
	if b.Selected() != "visited-2" {
		t.Errorf("selected = %q", b.Selected())
	}
	if _, ok := b.Focus("missing"); ok {
		t.Error("Focus(missing) returned ok")
	}
}

func TestEmptyBoardKeepsDefaultView(t *testing.T) {
	b := NewBoard(Projection{View: DefaultView()})

	zoomed := b.WithZoom(9).ZoomIn()
	if v := zoomed.View(); !v.Default || v.Zoom != 10 {
		t.Errorf("zoomed empty view = %+v, want default at zoom 10", v)
	}

	focused := b.FocusAt(model.Coordinate{Lat: 48.85, Lon: 2.35}, CandidateZoom)
	if focused.View().Default {
		t.Error("FocusAt should leave the default view")
	}

	c := model.LocationCandidate{ID: "c", Position: model.Coordinate{Lat: 3, Lon: 3}}
	if b.WithTemp(TempMarker(c, 1)).WithZoom(9).View().Default {
		t.Error("board with a temp marker should leave the default view")
	}
	if sampleBoard().WithZoom(9).View().Default {
		t.Error("board with markers should not report the default view")
	}
}

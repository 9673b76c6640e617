package markers

import "github.com/theirongolddev/tripdeck/internal/model"

// Zoom levels used by the view policy.
const (
	MinZoom          = 1
	MaxZoom          = 21
	DefaultZoom      = 5
	SingleMarkerZoom = 15
	MultiMarkerZoom  = 12
	FocusZoom        = 16
	CandidateZoom    = 17
)

// DefaultCenter is used when there is nothing to show (San Francisco).
var DefaultCenter = model.Coordinate{Lat: 37.7749, Lon: -122.4194}

// View is a map center and zoom. Default marks the fallback view used when
// no marker has a coordinate.
type View struct {
	Center  model.Coordinate `json:"center"`
	Zoom    int              `json:"zoom"`
	Default bool             `json:"default"`
}

// DefaultView returns the view used for an empty map.
func DefaultView() View {
	return View{Center: DefaultCenter, Zoom: DefaultZoom, Default: true}
}

// InitialView centers on the first marker: zoom 15 for a single marker, 12
// for several.
func InitialView(ms []model.MapMarker) View {
	switch len(ms) {
	case 0:
		return DefaultView()
	case 1:
		return View{Center: ms[0].Position, Zoom: SingleMarkerZoom}
	default:
		return View{Center: ms[0].Position, Zoom: MultiMarkerZoom}
	}
}

// ClampZoom limits z to the supported zoom range.
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Board is an immutable map state: projected markers, an optional pending
// temp marker and the current view. Every method returns a new Board.
type Board struct {
	markers  []model.MapMarker
	temp     *model.MapMarker
	view     View
	selected string
}

// NewBoard creates a board from a projection, scaling markers to its view.
func NewBoard(p Projection) Board {
	return Board{
		markers: Rescale(p.Markers, p.View.Zoom),
		view:    p.View,
	}
}

// Markers returns a copy of the projected markers, excluding the temp marker.
func (b Board) Markers() []model.MapMarker {
	return append([]model.MapMarker(nil), b.markers...)
}

// Temp returns a copy of the temp marker, or nil.
func (b Board) Temp() *model.MapMarker {
	if b.temp == nil {
		return nil
	}
	m := *b.temp
	return &m
}

// View returns the current view.
func (b Board) View() View { return b.view }

// Selected returns the key of the focused marker, if any.
func (b Board) Selected() string { return b.selected }

// All returns every marker to draw, the temp marker last.
func (b Board) All() []model.MapMarker {
	out := b.Markers()
	if b.temp != nil {
		out = append(out, *b.temp)
	}
	return out
}

// WithTemp replaces the temp marker.
func (b Board) WithTemp(m model.MapMarker) Board {
	m.Key = model.TempMarkerKey
	m.Style.Scale = ScaleFor(m.Style.BaseScale, b.view.Zoom)
	b.temp = &m
	return b
}

// WithoutTemp removes the temp marker.
func (b Board) WithoutTemp() Board {
	b.temp = nil
	return b
}

// WithZoom sets the zoom level and rescales every marker. An empty board
// keeps its default-view flag.
func (b Board) WithZoom(z int) Board {
	z = ClampZoom(z)
	b.view.Zoom = z
	if len(b.markers) > 0 || b.temp != nil {
		b.view.Default = false
	}
	b.markers = Rescale(b.markers, z)
	if b.temp != nil {
		t := *b.temp
		t.Style.Scale = ScaleFor(t.Style.BaseScale, z)
		b.temp = &t
	}
	return b
}

// ZoomIn zooms in one level.
func (b Board) ZoomIn() Board { return b.WithZoom(b.view.Zoom + 1) }

// ZoomOut zooms out one level.
func (b Board) ZoomOut() Board { return b.WithZoom(b.view.Zoom - 1) }

// Focus centers on the marker with the given key at FocusZoom.
func (b Board) Focus(key string) (Board, bool) {
	for _, m := range b.All() {
		if m.Key == key {
			nb := b.FocusAt(m.Position, FocusZoom)
			nb.selected = key
			return nb, true
		}
	}
	return b, false
}

// FocusAt centers on c at zoom z.
func (b Board) FocusAt(c model.Coordinate, z int) Board {
	b = b.WithZoom(z)
	b.view.Center = c
	b.view.Default = false
	b.selected = ""
	return b
}

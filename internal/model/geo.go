package model

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Usable returns the coordinate if it is present and valid, else nil.
func Usable(c *Coordinate) *Coordinate {
	if c == nil || !c.Valid() {
		return nil
	}
	return c
}

// ParseCoordinate builds a coordinate from loosely typed values such as
// those scanned out of a dynamically typed column. Anything non-numeric
// or out of range yields nil.
func ParseCoordinate(lat, lon any) *Coordinate {
	la, ok := toFloat(lat)
	if !ok {
		return nil
	}
	lo, ok := toFloat(lon)
	if !ok {
		return nil
	}
	return Usable(&Coordinate{Lat: la, Lon: lo})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

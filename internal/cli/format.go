// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// FormatHours formats a duration in hours, e.g. 1.5 -> "1.5 hrs", 1 -> "1 hr".
// nil renders as "-".
func FormatHours(h *float64) string {
	if h == nil {
		return "-"
	}
	unit := "hrs"
	if *h == 1 {
		unit = "hr"
	}
	return strconv.FormatFloat(*h, 'f', -1, 64) + " " + unit
}

// FormatDistance formats a distance in kilometres, or "N/A" when unknown.
func FormatDistance(km *float64) string {
	if km == nil || math.IsNaN(*km) {
		return "N/A"
	}
	return fmt.Sprintf("%.1f km", *km)
}

// FormatCurrency formats an amount with thousands separators and two decimals.
// e.g., 1234.5 -> "$1,234.50"
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a whole percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatCoordinate renders a position with five decimals, or "-" when nil.
func FormatCoordinate(c *model.Coordinate) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f, %.5f", c.Lat, c.Lon)
}

// FormatDateRange renders trip dates as "Mar 1 - Mar 5, 2025".
func FormatDateRange(t model.Trip) string {
	switch {
	case t.StartDate.IsZero() && t.EndDate.IsZero():
		return "Dates not set"
	case t.EndDate.IsZero():
		return "From " + t.StartDate.Format("Jan 2, 2006")
	case t.StartDate.IsZero():
		return "Until " + t.EndDate.Format("Jan 2, 2006")
	case t.StartDate.Year() == t.EndDate.Year():
		return t.StartDate.Format("Jan 2") + " - " + t.EndDate.Format("Jan 2, 2006")
	default:
		return t.StartDate.Format("Jan 2, 2006") + " - " + t.EndDate.Format("Jan 2, 2006")
	}
}

// Truncate shortens s to at most n runes, ending in an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Package category maps itinerary categories to their map icon, color and
// vector path.
package category

import (
	"strings"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// Style is the visual identity of a category.
type Style struct {
	Icon  string
	Color string
	Path  string // SVG path, 24x24 viewbox
}

var styles = map[model.Category]Style{
	model.CategoryAccommodation: {
		Icon:  "standard:home",
		Color: "#4CAF50",
		Path:  "M10 20v-6h4v6h5v-8h3L12 3 2 12h3v8z",
	},
	model.CategoryRestaurant: {
		Icon:  "standard:recipe",
		Color: "#FF9800",
		Path:  "M8.1 13.34l2.83-2.83L3.91 3.5c-1.56 1.56-1.56 4.09 0 5.66l4.19 4.18zm6.78-1.81c1.53.71 3.68.21 5.27-1.38 1.91-1.91 2.28-4.65.81-6.12-1.46-1.46-4.2-1.1-6.12.81-1.59 1.59-2.09 3.74-1.38 5.27L3.7 19.87l1.41 1.41L12 14.41l6.88 6.88 1.41-1.41L13.41 13l1.47-1.47z",
	},
	model.CategoryEventActivity: {
		Icon:  "standard:event",
		Color: "#9C27B0",
		Path:  "M17 12h-5v5h5v-5zM16 1v2H8V1H6v2H5c-1.11 0-1.99.9-1.99 2L3 19c0 1.1.89 2 2 2h14c1.1 0 2-.9 2-2V5c0-1.1-.9-2-2-2h-1V1h-2zm3 18H5V8h14v11z",
	},
	model.CategorySightseeing: {
		Icon:  "standard:photo",
		Color: "#2196F3",
		Path:  "M21 19V5c0-1.1-.9-2-2-2H5c-1.1 0-2 .9-2 2v14c0 1.1.9 2 2 2h14c1.1 0 2-.9 2-2zM8.5 13.5l2.5 3.01L14.5 12l4.5 6H5l3.5-4.5z",
	},
	model.CategoryTransportation: {
		Icon:  "standard:steps",
		Color: "#607D8B",
		Path:  "M21 11.01L3 11v2h18zM3 16h18v2H3zM21 6H3v2.01L21 8z",
	},
	model.CategoryShopping: {
		Icon:  "standard:product",
		Color: "#E91E63",
		Path:  "M18 6V4c0-1.1-.9-2-2-2h-4c-1.1 0-2 .9-2 2v2H2v13c0 1.1.9 2 2 2h16c1.1 0 2-.9 2-2V6h-4zm-6-2h4v2h-4V4zM4 19V8h16v11H4z",
	},
	model.CategoryOther: {
		Icon:  "standard:default",
		Color: "#F44336",
		Path:  "M12 2C6.48 2 2 6.48 2 12s4.48 10 10 10 10-4.48 10-10S17.52 2 12 2zm0 3c1.66 0 3 1.34 3 3s-1.34 3-3 3-3-1.34-3-3 1.34-3 3-3zm0 14.2c-2.5 0-4.71-1.28-6-3.22.03-1.99 4-3.08 6-3.08 1.99 0 5.97 1.09 6 3.08-1.29 1.94-3.5 3.22-6 3.22z",
	},
}

var visited = Style{
	Icon:  "standard:location",
	Color: "#795548",
	Path:  "M 12, 2 C 8.13, 2 5, 5.13 5, 9 c 0, 5.25 7, 13 7, 13 s 7, -7.75 7, -13 c 0, -3.87 -3.13, -7 -7, -7 z m 0, 9.5 c -1.38, 0 -2.5, -1.12 -2.5, -2.5 S 10.62, 9 12, 9 s 2.5, 1.12 2.5, 2.5 S 13.38, 11.5 12, 11.5 Z",
}

var ordered = []model.Category{
	model.CategoryAccommodation,
	model.CategoryRestaurant,
	model.CategoryEventActivity,
	model.CategorySightseeing,
	model.CategoryTransportation,
	model.CategoryShopping,
	model.CategoryOther,
}

// StyleFor returns the style for c. Unknown or empty categories get Other.
func StyleFor(c model.Category) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[model.CategoryOther]
}

// VisitedStyle returns the style used for visited places.
func VisitedStyle() Style {
	return visited
}

// Categories returns the item categories in display order.
func Categories() []model.Category {
	out := make([]model.Category, len(ordered))
	copy(out, ordered)
	return out
}

// Parse normalizes free text to a known category, defaulting to Other.
func Parse(s string) model.Category {
	s = strings.TrimSpace(s)
	for _, c := range ordered {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	// "Event" and "Activity" are accepted on their own.
	if strings.EqualFold(s, "event") || strings.EqualFold(s, "activity") {
		return model.CategoryEventActivity
	}
	return model.CategoryOther
}

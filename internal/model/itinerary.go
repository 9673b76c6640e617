// Package model defines the domain types shared across tripdeck.
package model

import "time"

// Category is the activity category of an itinerary item.
type Category string

// Item categories, in display order.
const (
	CategoryAccommodation  Category = "Accommodation"
	CategoryRestaurant     Category = "Restaurant"
	CategoryEventActivity  Category = "Event/Activity"
	CategorySightseeing    Category = "Sightseeing"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryOther          Category = "Other"
)

// ItineraryItem is a planned trip activity. PlannedAt == nil means unscheduled.
type ItineraryItem struct {
	ID            string
	TripID        string
	Name          string
	Notes         string
	Category      Category
	PlannedAt     *time.Time
	DurationHours *float64
	Location      *Coordinate
}

// Scheduled reports whether the item has a planned timestamp.
func (it ItineraryItem) Scheduled() bool {
	return it.PlannedAt != nil
}

// Duration returns the duration in hours, treating unspecified as zero.
func (it ItineraryItem) Duration() float64 {
	if it.DurationHours == nil {
		return 0
	}
	return *it.DurationHours
}

// VisitedPlace is a historical, read-only location record.
type VisitedPlace struct {
	ID        string
	TripID    string
	Name      string
	VisitDate string // free text, not validated
	Location  *Coordinate
}

// ItemDraft carries the fields needed to create an itinerary item.
type ItemDraft struct {
	TripID        string
	Name          string
	Notes         string
	Category      Category
	PlannedAt     *time.Time
	DurationHours *float64
	Location      Coordinate
}

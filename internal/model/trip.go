package model

import "time"

// Trip holds the header fields of a trip. Dates are date-only and may be zero.
type Trip struct {
	ID              string
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	Budget          float64
	TotalSpent      float64
	TotalDistanceKm *float64
}

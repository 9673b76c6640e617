// Package trip derives status and budget figures for trips.
package trip

import (
	"math"
	"sort"
	"time"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// Status is a trip's position relative to today.
type Status int

const (
	StatusUnknown Status = iota
	StatusPlanned
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusPlanned:
		return "Planned"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// BudgetLevel buckets budget usage for display.
type BudgetLevel int

const (
	BudgetNormal BudgetLevel = iota
	BudgetWarning
	BudgetCritical
)

// recentMonths is how far back a trip's end date may be to count as recent.
const recentMonths = 3

// StatusOf classifies t by comparing today (in loc) to its date range.
// Trips without both dates are StatusUnknown.
func StatusOf(t model.Trip, now time.Time, loc *time.Location) Status {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return StatusUnknown
	}
	today := dateOnly(now, loc)
	start := dateOnly(t.StartDate, loc)
	end := dateOnly(t.EndDate, loc)
	switch {
	case today.Before(start):
		return StatusPlanned
	case today.After(end):
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// BudgetPercent returns spent as a percentage of budget, clamped to 0..100.
// A zero or negative budget yields 0.
func BudgetPercent(budget, spent float64) float64 {
	if budget <= 0 || math.IsNaN(spent) {
		return 0
	}
	return math.Max(0, math.Min(100, spent/budget*100))
}

// LevelFor maps a budget percentage to a display level.
func LevelFor(pct float64) BudgetLevel {
	switch {
	case pct > 90:
		return BudgetCritical
	case pct > 70:
		return BudgetWarning
	default:
		return BudgetNormal
	}
}

// IsRecent reports whether t ended within the last three months.
func IsRecent(t model.Trip, now time.Time, loc *time.Location) bool {
	if t.EndDate.IsZero() {
		return false
	}
	end := dateOnly(t.EndDate, loc)
	today := dateOnly(now, loc)
	return !end.After(today) && !end.Before(today.AddDate(0, -recentMonths, 0))
}

// Sort orders trips in place: in progress first, then planned by start date,
// then completed by most recent end date, then trips without dates.
func Sort(trips []model.Trip, now time.Time, loc *time.Location) {
	rank := map[Status]int{StatusInProgress: 0, StatusPlanned: 1, StatusCompleted: 2, StatusUnknown: 3}
	sort.SliceStable(trips, func(i, j int) bool {
		si, sj := StatusOf(trips[i], now, loc), StatusOf(trips[j], now, loc)
		if si != sj {
			return rank[si] < rank[sj]
		}
		switch si {
		case StatusCompleted:
			if !trips[i].EndDate.Equal(trips[j].EndDate) {
				return trips[i].EndDate.After(trips[j].EndDate)
			}
		case StatusPlanned, StatusInProgress:
			if !trips[i].StartDate.Equal(trips[j].StartDate) {
				return trips[i].StartDate.Before(trips[j].StartDate)
			}
		}
		return trips[i].Name < trips[j].Name
	})
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

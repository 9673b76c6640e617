// Package schedule groups itinerary items into calendar-day buckets.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/tripdeck/internal/model"
)

const (
	dateKeyLayout = "2006-01-02"
	labelLayout   = "Monday, Jan 2"
	timeLayout    = "3:04 PM"
)

// DayBucket holds the items planned on one calendar date.
type DayBucket struct {
	Key    string // YYYY-MM-DD
	Date   time.Time
	Number int
	Label  string
	Items  []model.ItineraryItem
}

// Schedule is the day-structured view of a trip's itinerary.
type Schedule struct {
	Days        []DayBucket
	Unscheduled []model.ItineraryItem
}

// Len returns the total number of items.
func (s Schedule) Len() int {
	n := len(s.Unscheduled)
	for _, d := range s.Days {
		n += len(d.Items)
	}
	return n
}

// Find returns the item with the given ID and its day number (0 when
// unscheduled).
func (s Schedule) Find(id string) (model.ItineraryItem, int, bool) {
	for _, d := range s.Days {
		for _, it := range d.Items {
			if it.ID == id {
				return it, d.Number, true
			}
		}
	}
	for _, it := range s.Unscheduled {
		if it.ID == id {
			return it, 0, true
		}
	}
	return model.ItineraryItem{}, 0, false
}

// Bucketize groups scheduled items by their date in loc and sorts
// unscheduled items by name. The input slice is not modified.
func Bucketize(items []model.ItineraryItem, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[string][]model.ItineraryItem)
	var out Schedule
	for _, it := range items {
		if it.PlannedAt == nil {
			out.Unscheduled = append(out.Unscheduled, it)
			continue
		}
		key := it.PlannedAt.In(loc).Format(dateKeyLayout)
		byDay[key] = append(byDay[key], it)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out.Days = make([]DayBucket, 0, len(keys))
	for i, k := range keys {
		dayItems := byDay[k]
		sort.SliceStable(dayItems, func(a, b int) bool {
			return Compare(dayItems[a], dayItems[b]) < 0
		})
		date, _ := time.ParseInLocation(dateKeyLayout, k, loc)
		out.Days = append(out.Days, DayBucket{
			Key:    k,
			Date:   date,
			Number: i + 1,
			Label:  Label(i+1, date),
			Items:  dayItems,
		})
	}

	sort.SliceStable(out.Unscheduled, func(a, b int) bool {
		return CompareUnscheduled(out.Unscheduled[a], out.Unscheduled[b]) < 0
	})
	return out
}

// Label returns the heading for day n, e.g. "Day 1 - Sunday, Mar 2".
func Label(n int, date time.Time) string {
	return fmt.Sprintf("Day %d - %s", n, date.Format(labelLayout))
}

// FormatTime returns the time-of-day of t in loc, e.g. "9:00 AM".
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(timeLayout)
}

// Compare orders scheduled items: planned time ascending, then longer
// duration first (unspecified counts as zero), then ID.
func Compare(a, b model.ItineraryItem) int {
	if c := compareTime(a.PlannedAt, b.PlannedAt); c != 0 {
		return c
	}
	da, db := a.Duration(), b.Duration()
	switch {
	case da > db:
		return -1
	case da < db:
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// CompareUnscheduled orders items by name, case-insensitive, empty names
// first, then ID.
func CompareUnscheduled(a, b model.ItineraryItem) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

package trip

import (
	"testing"
	"time"

	"github.com/theirongolddev/tripdeck/internal/model"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStatusOf(t *testing.T) {
	tr := model.Trip{StartDate: day("2025-05-10"), EndDate: day("2025-05-20")}
	tests := []struct {
		now  string
		want Status
	}{
		{"2025-05-09", StatusPlanned},
		{"2025-05-10", StatusInProgress},
		{"2025-05-15", StatusInProgress},
		{"2025-05-20", StatusInProgress},
		{"2025-05-21", StatusCompleted},
	}
	for _, tt := range tests {
		now := day(tt.now).Add(18 * time.Hour)
		if got := StatusOf(tr, now, time.UTC); got != tt.want {
			t.Errorf("StatusOf(now=%s) = %v, want %v", tt.now, got, tt.want)
		}
	}
	if got := StatusOf(model.Trip{}, time.Now(), time.UTC); got != StatusUnknown {
		t.Errorf("StatusOf(no dates) = %v", got)
	}
}

func TestBudgetPercent(t *testing.T) {
	tests := []struct {
		budget, spent, want float64
	}{
		{0, 100, 0},
		{-5, 1, 0},
		{1000, 250, 25},
		{1000, 1500, 100},
		{1000, -20, 0},
	}
	for _, tt := range tests {
		if got := BudgetPercent(tt.budget, tt.spent); got != tt.want {
			t.Errorf("BudgetPercent(%v, %v) = %v, want %v", tt.budget, tt.spent, got, tt.want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := map[float64]BudgetLevel{0: BudgetNormal, 70: BudgetNormal, 70.1: BudgetWarning, 90: BudgetWarning, 91: BudgetCritical}
	for pct, want := range tests {
		if got := LevelFor(pct); got != want {
			t.Errorf("LevelFor(%v) = %v, want %v", pct, got, want)
		}
	}
}

func TestIsRecent(t *testing.T) {
	now := day("2025-06-15")
	tests := []struct {
		end  string
		want bool
	}{
		{"2025-06-14", true},
		{"2025-03-15", true},
		{"2025-03-14", false},
		{"2025-07-01", false},
	}
	for _, tt := range tests {
		if got := IsRecent(model.Trip{EndDate: day(tt.end)}, now, time.UTC); got != tt.want {
			t.Errorf("IsRecent(end=%s) = %v, want %v", tt.end, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	now := day("2025-06-15")
	trips := []model.Trip{
		{Name: "old", StartDate: day("2025-01-01"), EndDate: day("2025-01-05")},
		{Name: "undated"},
		{Name: "far", StartDate: day("2025-12-01"), EndDate: day("2025-12-10")},
		{Name: "now", StartDate: day("2025-06-10"), EndDate: day("2025-06-20")},
		{Name: "soon", StartDate: day("2025-07-01"), EndDate: day("2025-07-03")},
		{Name: "recent", StartDate: day("2025-05-01"), EndDate: day("2025-05-05")},
	}
	Sort(trips, now, time.UTC)

	want := []string{"now", "soon", "far", "recent", "old", "undated"}
	for i, name := range want {
		if trips[i].Name != name {
			t.Fatalf("position %d = %s, want %s", i, trips[i].Name, name)
		}
	}
}

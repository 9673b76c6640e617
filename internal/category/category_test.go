package category

import (
	"testing"

	"github.com/theirongolddev/tripdeck/internal/model"
)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		cat   model.Category
		icon  string
		color string
	}{
		{model.CategoryAccommodation, "standard:home", "#4CAF50"},
		{model.CategoryRestaurant, "standard:recipe", "#FF9800"},
		{model.CategoryEventActivity, "standard:event", "#9C27B0"},
		{model.CategorySightseeing, "standard:photo", "#2196F3"},
		{model.CategoryTransportation, "standard:steps", "#607D8B"},
		{model.CategoryShopping, "standard:product", "#E91E63"},
		{model.CategoryOther, "standard:default", "#F44336"},
		{"", "standard:default", "#F44336"},
		{"Skydiving", "standard:default", "#F44336"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			s := StyleFor(tt.cat)
			if s.Icon != tt.icon || s.Color != tt.color {
				t.Errorf("StyleFor(%q) = {%s %s}, want {%s %s}", tt.cat, s.Icon, s.Color, tt.icon, tt.color)
			}
			if s.Path == "" {
				t.Errorf("StyleFor(%q) has empty path", tt.cat)
			}
		})
	}
}

func TestVisitedStyle(t *testing.T) {
	if got := VisitedStyle().Color; got != "#795548" {
		t.Errorf("VisitedStyle().Color = %s, want #795548", got)
	}
}

func TestParse(t *testing.T) {
	tests := map[string]model.Category{
		"restaurant":     model.CategoryRestaurant,
		" Shopping ":     model.CategoryShopping,
		"event/activity": model.CategoryEventActivity,
		"Activity":       model.CategoryEventActivity,
		"":               model.CategoryOther,
		"spa":            model.CategoryOther,
	}
	for in, want := range tests {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCategoriesIsACopy(t *testing.T) {
	cats := Categories()
	if len(cats) != 7 {
		t.Fatalf("len(Categories()) = %d, want 7", len(cats))
	}
	cats[0] = "mutated"
	if Categories()[0] != model.CategoryAccommodation {
		t.Error("Categories() exposes internal slice")
	}
}

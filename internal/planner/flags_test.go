package planner

import (
	"testing"

	"github.com/mealforge/nutriplan/internal/models"
)

func TestSubstringFlagPolicy(t *testing.T) {
	policy := SubstringFlagPolicy{}

	tests := []struct {
		name        string
		recipeFlags []string
		dietFlags   []string
		want        bool
	}{
		{"no diet flags accepts anything", []string{"chicken"}, nil, true},
		{"veg recipe for veg diet", []string{"VEG"}, []string{"VEG"}, true},
		{"chicken indicator blocks veg", []string{"chicken"}, []string{"VEG"}, false},
		{"fish indicator blocks veg", []string{"fish", "GF"}, []string{"VEG"}, false},
		{"explicit VEG overrides indicator", []string{"VEG", "fish"}, []string{"VEG"}, true},
		{"gluten indicator blocks gf", []string{"gluten"}, []string{"GF"}, false},
		{"gf recipe for gf diet", []string{"GF"}, []string{"GF"}, true},
		{"unflagged recipe passes veg", nil, []string{"VEG"}, true},
		{"lowercase diet flag still applies", []string{"salmon"}, []string{"veg"}, false},
		{"unknown diet flag ignored", []string{"chicken"}, []string{"KETO"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := models.RecipeRecord{Name: "test recipe", Flags: tt.recipeFlags}
			if got := policy.Compatible(recipe, tt.dietFlags); got != tt.want {
				t.Fatalf("Compatible(%v, %v) = %v, want %v", tt.recipeFlags, tt.dietFlags, got, tt.want)
			}
		})
	}
}

func TestFoodCompatible(t *testing.T) {
	tests := []struct {
		name      string
		dietFlags []string
		foodFlags []string
		want      bool
	}{
		{"no restrictions", nil, []string{"fish"}, true},
		{"diet subset of food flags", []string{"VEG"}, []string{"VEG", "GF"}, true},
		{"disjoint flag sets", []string{"VEG"}, []string{"fish"}, true},
		{"unflagged food", []string{"VEG", "GF"}, nil, true},
		{"partial overlap rejected", []string{"VEG", "GF"}, []string{"VEG"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			food := models.FoodRecord{Name: "test food", Flags: tt.foodFlags}
			if got := foodCompatible(tt.dietFlags, food); got != tt.want {
				t.Fatalf("foodCompatible(%v, %v) = %v, want %v", tt.dietFlags, tt.foodFlags, got, tt.want)
			}
		})
	}
}

package planner

import (
	"strings"

	"github.com/mealforge/nutriplan/internal/models"
)

// FlagPolicy decides whether a recipe is acceptable for a caller's
// dietary restrictions. It is an interface so the substring heuristic
// below can be swapped for a structured tag taxonomy without touching the
// plate-building control flow.
type FlagPolicy interface {
	Compatible(recipe models.RecipeRecord, dietFlags []string) bool
}

// nonVegIndicators are substrings of flag text that mark a recipe as
// non-vegetarian unless it explicitly declares VEG.
var nonVegIndicators = []string{"chicken", "salmon", "fish", "meat"}

const glutenIndicator = "gluten"

// SubstringFlagPolicy is the default compatibility heuristic: it inspects
// the joined flag text for indicator substrings rather than consulting a
// structured taxonomy. Known to be fragile on flags that merely mention an
// indicator word; kept deliberately cheap.
type SubstringFlagPolicy struct{}

func (SubstringFlagPolicy) Compatible(recipe models.RecipeRecord, dietFlags []string) bool {
	flagText := recipe.FlagText()

	for _, diet := range dietFlags {
		switch strings.ToUpper(strings.TrimSpace(diet)) {
		case "VEG":
			if recipe.HasFlag("VEG") {
				continue
			}
			for _, indicator := range nonVegIndicators {
				if strings.Contains(flagText, indicator) {
					return false
				}
			}
		case "GF":
			if strings.Contains(flagText, glutenIndicator) {
				return false
			}
		}
	}
	return true
}

// foodCompatible is the deliberately permissive test used for booster
// foods: a food qualifies when the caller has no restrictions, the
// caller's flags are a subset of the food's flags, or the two flag sets
// are disjoint.
func foodCompatible(dietFlags []string, food models.FoodRecord) bool {
	if len(dietFlags) == 0 {
		return true
	}

	subset := true
	disjoint := true
	for _, diet := range dietFlags {
		if food.HasFlag(diet) {
			disjoint = false
		} else {
			subset = false
		}
	}
	return subset || disjoint
}

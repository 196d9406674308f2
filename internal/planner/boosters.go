package planner

import (
	"github.com/mealforge/nutriplan/internal/models"
)

// boosterPortionGrams is the portion size attached for every booster.
const boosterPortionGrams = 50.0

// boosterCoverageDivisor converts a booster portion's nutrient amount into
// a day-coverage increment. This is the source system's rough correction
// factor, not a recomputation of the coverage formula; it has no
// documented derivation and is kept as-is.
const boosterCoverageDivisor = 10.0

// shortfallThreshold is the day-coverage percentage below which a nutrient
// becomes a booster candidate.
const shortfallThreshold = 80.0

// maxBoostedNutrients caps how many distinct nutrients get boosted per day.
const maxBoostedNutrients = 3

// boosterCandidates maps each tracked micronutrient to its candidate
// booster foods, consulted in order.
var boosterCandidates = map[string][]string{
	"Fe_mg":     {"lentils", "spinach", "beef"},
	"Ca_mg":     {"milk", "yogurt", "tofu"},
	"Folate_ug": {"spinach", "lentils", "broccoli"},
	"VitD_IU":   {"salmon", "egg", "milk"},
	"B12_ug":    {"salmon", "beef", "egg"},
	"Iodine_ug": {"seaweed", "cod", "milk"},
	"Mg_mg":     {"pumpkin seeds", "spinach", "almonds"},
	"K_mg":      {"banana", "potato", "spinach"},
}

// applyBoostersIfNeeded scans the day's aggregated coverage for nutrients
// under the shortfall threshold and attaches a 50 g booster portion to the
// first lunch or dinner meal for up to three of them, in sorted nutrient
// order. Each boost bumps the day coverage by the portion's nutrient
// amount divided by boosterCoverageDivisor.
func (b *PlateBuilder) applyBoostersIfNeeded(day *models.DayPlan, dietFlags []string) {
	target := boosterTargetMeal(day)
	if target == nil {
		return
	}

	boosted := 0
	for _, nutrient := range microKeys() {
		if boosted >= maxBoostedNutrients {
			break
		}
		if day.MicroCoverage[nutrient] >= shortfallThreshold {
			continue
		}

		food, ok := b.pickBoosterFor(nutrient, dietFlags)
		if !ok {
			continue
		}

		target.Boosters = append(target.Boosters, models.Booster{
			Food:     food.Name,
			Grams:    boosterPortionGrams,
			Nutrient: nutrient,
		})

		bump := b.foods.NutrientAmount(food, nutrient, boosterPortionGrams) / boosterCoverageDivisor
		day.MicroCoverage[nutrient] += bump
		if day.MicroCoverage[nutrient] > coverageCap {
			day.MicroCoverage[nutrient] = coverageCap
		}
		boosted++
	}
}

// boosterTargetMeal returns the first meal named lunch or dinner, or nil.
func boosterTargetMeal(day *models.DayPlan) *models.MealPlan {
	for i := range day.Meals {
		if day.Meals[i].MealName == "lunch" || day.Meals[i].MealName == "dinner" {
			return &day.Meals[i]
		}
	}
	return nil
}

// pickBoosterFor selects the first catalog-present candidate food for the
// nutrient whose flags pass the permissive booster compatibility test.
func (b *PlateBuilder) pickBoosterFor(nutrient string, dietFlags []string) (models.FoodRecord, bool) {
	for _, candidate := range boosterCandidates[nutrient] {
		food, err := b.foods.Lookup(candidate)
		if err != nil {
			continue
		}
		if foodCompatible(dietFlags, food) {
			return food, true
		}
	}
	return models.FoodRecord{}, false
}

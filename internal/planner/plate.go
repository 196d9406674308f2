package planner

import (
	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/models"
)

// mealSplit is the fixed calorie allocation across the four daily meals.
// Each meal's target is the daily total times its share, truncated to an
// integer.
var mealSplit = []struct {
	Name  string
	Share float64
}{
	{"breakfast", 0.25},
	{"lunch", 0.35},
	{"dinner", 0.30},
	{"snack", 0.10},
}

// mealCandidates maps each meal slot to its preferred recipes, consulted
// in order before falling back to a full catalog scan.
var mealCandidates = map[string][]string{
	"breakfast": {"Overnight Oats", "Veggie Omelette", "Greek Yogurt Bowl"},
	"lunch":     {"Lentil Soup", "Quinoa Salad", "Chicken Rice Bowl"},
	"dinner":    {"Tofu Stir Fry", "Salmon with Vegetables", "Beef Chili"},
	"snack":     {"Apple with Peanut Butter", "Trail Mix", "Hummus with Carrots"},
}

// PlateBuilder assembles single meals and full days from the two catalogs.
// It never fails on missing data: every gap degrades to a fallback meal, a
// zero nutrient contribution or an unscaled recipe, and the degradations
// are counted on the returned plan.
type PlateBuilder struct {
	foods   *catalog.FoodCatalog
	recipes *catalog.RecipeCatalog
	policy  FlagPolicy
}

// NewPlateBuilder creates a plate builder. A nil policy falls back to the
// substring heuristic.
func NewPlateBuilder(foods *catalog.FoodCatalog, recipes *catalog.RecipeCatalog, policy FlagPolicy) *PlateBuilder {
	if policy == nil {
		policy = SubstringFlagPolicy{}
	}
	return &PlateBuilder{
		foods:   foods,
		recipes: recipes,
		policy:  policy,
	}
}

// BuildDay builds a full day: four meals via the fixed calorie split,
// aggregated micronutrient coverage, and a booster pass for nutrients the
// day leaves short.
func (b *PlateBuilder) BuildDay(kcalTotal int, dietFlags []string) models.DayPlan {
	day := models.DayPlan{
		TotalKcal:     kcalTotal,
		MicroCoverage: make(map[string]float64, len(rdaPer2000Kcal)),
	}

	for _, slot := range mealSplit {
		target := int(float64(kcalTotal) * slot.Share)
		meal := b.buildMeal(slot.Name, target, dietFlags, &day.Diagnostics)
		day.Meals = append(day.Meals, meal)
	}

	// Day coverage is the sum of the four per-meal coverages, each already
	// computed against its own calorie-rescaled RDA.
	for _, key := range microKeys() {
		total := 0.0
		for _, meal := range day.Meals {
			total += meal.MicroCoverage[key]
		}
		if total > coverageCap {
			total = coverageCap
		}
		day.MicroCoverage[key] = total
	}

	b.applyBoostersIfNeeded(&day, dietFlags)
	return day
}

// buildMeal selects a compatible recipe for the slot, scales it to the
// calorie target and computes its nutrients and coverage. When no recipe
// qualifies the meal degrades to a calorie-only fallback entry.
func (b *PlateBuilder) buildMeal(mealName string, targetKcal int, dietFlags []string, diag *models.DayDiagnostics) models.MealPlan {
	recipe, ok := b.findRecipeForMeal(mealName, dietFlags)
	if !ok {
		diag.FallbackMeals++
		return models.MealPlan{
			MealName:   mealName,
			TargetKcal: targetKcal,
			RecipeName: "fallback",
			Estimated:  true,
		}
	}

	scaled, didScale := b.recipes.ScaleToKcal(recipe, float64(targetKcal), b.foods)
	if !didScale {
		diag.ZeroKcalScales++
	}

	nutrients, missing := b.recipes.AggregateNutrients(scaled, b.foods)
	diag.MissingIngredients += missing

	return models.MealPlan{
		MealName:      mealName,
		TargetKcal:    targetKcal,
		RecipeName:    recipe.Name,
		Ingredients:   scaled.Ingredients,
		Nutrients:     nutrients,
		MicroCoverage: b.calculateMicroCoverage(nutrients, targetKcal),
	}
}

// findRecipeForMeal consults the slot's candidate list first, then scans
// the whole catalog in load order, returning the first recipe whose flags
// pass the policy. ok is false when nothing qualifies.
func (b *PlateBuilder) findRecipeForMeal(mealName string, dietFlags []string) (models.RecipeRecord, bool) {
	for _, candidate := range mealCandidates[mealName] {
		recipe, err := b.recipes.Lookup(candidate)
		if err != nil {
			continue
		}
		if b.policy.Compatible(recipe, dietFlags) {
			return recipe, true
		}
	}

	for _, recipe := range b.recipes.All() {
		if b.policy.Compatible(recipe, dietFlags) {
			return recipe, true
		}
	}

	return models.RecipeRecord{}, false
}

// calculateMicroCoverage converts absolute nutrient amounts into percent
// of RDA, with the RDA rescaled linearly from the 2000 kcal baseline to
// the meal's own calorie target. Results are clamped to [0, 200].
func (b *PlateBuilder) calculateMicroCoverage(nutrients models.NutrientVector, kcalTarget int) map[string]float64 {
	coverage := make(map[string]float64, len(rdaPer2000Kcal))
	for _, key := range microKeys() {
		if kcalTarget <= 0 {
			coverage[key] = 0
			continue
		}
		percent := nutrients.Get(key) / rdaPer2000Kcal[key] * (rdaKcalBaseline / float64(kcalTarget)) * 100
		if percent < 0 {
			percent = 0
		}
		if percent > coverageCap {
			percent = coverageCap
		}
		coverage[key] = percent
	}
	return coverage
}

package planner

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mealforge/nutriplan/internal/catalog"
)

const foodsCSVHeader = "name,protein_g,fat_g,carbs_g,fiber_g,Fe_mg,Ca_mg,VitD_IU,B12_ug,Folate_ug,Iodine_ug,K_mg,Mg_mg,price_per_unit,flags"

func writeFixture(t *testing.T, name, header string, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s fixture: %v", name, err)
	}
	return path
}

func buildCatalogs(t *testing.T, foodRows, recipeRows []string) (*catalog.FoodCatalog, *catalog.RecipeCatalog) {
	t.Helper()
	foods, err := catalog.LoadFoodCatalog(writeFixture(t, "foods.csv", foodsCSVHeader, foodRows...))
	if err != nil {
		t.Fatalf("failed to load foods: %v", err)
	}
	recipes, err := catalog.LoadRecipeCatalog(writeFixture(t, "recipes.csv", "name,ingredients,flags", recipeRows...))
	if err != nil {
		t.Fatalf("failed to load recipes: %v", err)
	}
	return foods, recipes
}

// standardCatalogs builds a small but workable kitchen: one compatible
// recipe per meal slot plus booster foods.
func standardCatalogs(t *testing.T) (*catalog.FoodCatalog, *catalog.RecipeCatalog) {
	t.Helper()
	return buildCatalogs(t,
		[]string{
			"oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,VEG",
			"milk,3.4,3.3,4.8,0,0,125,51,0.5,5,15,150,11,0.9,VEG",
			"lentils,9,0.4,20,8,3.3,19,0,0,181,0,369,36,0.4,VEG;GF",
			"rice,2.7,0.3,28,0.4,0.2,10,0,0,2,0,35,12,0.3,VEG;GF",
			"tofu,8,4.8,1.9,0.3,5.4,350,0,0,15,0,121,30,1.1,VEG;GF",
			"salmon,20,13,0,0,0.8,9,526,3.2,26,14,363,27,2.5,fish",
			"spinach,2.9,0.4,3.6,2.2,2.7,99,0,0,194,0,558,79,0.8,VEG;GF",
			"banana,1.1,0.3,23,2.6,0.3,5,0,0,20,0,358,27,0.3,VEG;GF",
			"nuts,20,54,21,7,2.9,117,0,0,44,0,628,258,1.8,VEG;GF",
		},
		[]string{
			`Overnight Oats,"oats:80;milk:150",VEG`,
			`Lentil Soup,"lentils:150;rice:60",VEG;GF`,
			`Tofu Stir Fry,"tofu:200;rice:120",VEG;GF`,
			`Trail Mix,"nuts:40;banana:60",VEG;GF`,
		},
	)
}

func TestDaySplitSumsToTotal(t *testing.T) {
	foods, recipes := standardCatalogs(t)
	builder := NewPlateBuilder(foods, recipes, nil)

	for _, total := range []int{2000, 1990, 2101} {
		day := builder.BuildDay(total, nil)
		if len(day.Meals) != 4 {
			t.Fatalf("expected 4 meals, got %d", len(day.Meals))
		}

		sum := 0
		for _, meal := range day.Meals {
			sum += meal.TargetKcal
		}
		if diff := total - sum; diff < 0 || diff > 1 {
			t.Fatalf("meal targets for %d kcal sum to %d, outside tolerance", total, sum)
		}
	}
}

func TestDaySplitUsesFixedShares(t *testing.T) {
	foods, recipes := standardCatalogs(t)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, nil)
	want := map[string]int{"breakfast": 500, "lunch": 700, "dinner": 600, "snack": 200}
	for _, meal := range day.Meals {
		if meal.TargetKcal != want[meal.MealName] {
			t.Fatalf("expected %d kcal for %s, got %d", want[meal.MealName], meal.MealName, meal.TargetKcal)
		}
	}
}

func TestCoverageStaysWithinBounds(t *testing.T) {
	foods, recipes := standardCatalogs(t)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(1200, nil)
	for _, meal := range day.Meals {
		for nutrient, percent := range meal.MicroCoverage {
			if percent < 0 || percent > 200 {
				t.Fatalf("meal %s coverage for %s out of [0,200]: %v", meal.MealName, nutrient, percent)
			}
		}
	}
	for nutrient, percent := range day.MicroCoverage {
		if percent < 0 || percent > 200 {
			t.Fatalf("day coverage for %s out of [0,200]: %v", nutrient, percent)
		}
	}
}

func TestFallbackMealWhenNothingCompatible(t *testing.T) {
	// Every recipe carries a non-vegetarian indicator flag, so a VEG
	// caller gets fallback meals in every slot.
	foods, recipes := buildCatalogs(t,
		[]string{"chicken,27,14,0,0,0.9,15,5,0.3,6,7,223,23,1.5,chicken"},
		[]string{
			`Chicken Rice Bowl,"chicken:200",chicken`,
			`Fish Plate,"chicken:150",fish`,
		},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, []string{"VEG"})
	for _, meal := range day.Meals {
		if !meal.Estimated {
			t.Fatalf("expected fallback meal for %s, got recipe %q", meal.MealName, meal.RecipeName)
		}
		if meal.RecipeName != "fallback" {
			t.Fatalf("fallback meal should be named fallback, got %q", meal.RecipeName)
		}
		if len(meal.Ingredients) != 0 {
			t.Fatalf("fallback meal must carry no ingredient detail")
		}
	}
	if day.Diagnostics.FallbackMeals != 4 {
		t.Fatalf("expected 4 fallback meals in diagnostics, got %d", day.Diagnostics.FallbackMeals)
	}
}

func TestCatalogScanFallbackBeforeEstimatedMeal(t *testing.T) {
	// No recipe matches the candidate tables by name, but a compatible
	// recipe exists, so the catalog scan should find it.
	foods, recipes := buildCatalogs(t,
		[]string{"rice,2.7,0.3,28,0.4,0.2,10,0,0,2,0,35,12,0.3,VEG;GF"},
		[]string{`House Special,"rice:250",VEG;GF`},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, []string{"VEG"})
	for _, meal := range day.Meals {
		if meal.Estimated {
			t.Fatalf("expected catalog scan to fill %s, got fallback", meal.MealName)
		}
		if meal.RecipeName != "House Special" {
			t.Fatalf("expected House Special for %s, got %q", meal.MealName, meal.RecipeName)
		}
	}
}

func TestBoosterCapAndPlacement(t *testing.T) {
	// Meals built only from micro-poor rice leave every nutrient short;
	// booster foods for the first three sorted nutrients are present.
	foods, recipes := buildCatalogs(t,
		[]string{
			"rice,2.7,0.3,28,0.4,0,0,0,0,0,0,0,0,0.3,VEG;GF",
			"salmon,20,13,0,0,0.8,9,526,3.2,26,14,363,27,2.5,fish",
			"milk,3.4,3.3,4.8,0,0,125,51,0.5,5,15,150,11,0.9,VEG",
			"lentils,9,0.4,20,8,3.3,19,0,0,181,0,369,36,0.4,VEG;GF",
			"spinach,2.9,0.4,3.6,2.2,2.7,99,0,0,194,0,558,79,0.8,VEG;GF",
			"banana,1.1,0.3,23,2.6,0.3,5,0,0,20,0,358,27,0.3,VEG;GF",
		},
		[]string{`Plain Rice,"rice:200",VEG;GF`},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, nil)

	nutrients := make(map[string]bool)
	for i, meal := range day.Meals {
		if len(meal.Boosters) > 0 && meal.MealName != "lunch" && meal.MealName != "dinner" {
			t.Fatalf("booster attached to %s (meal %d)", meal.MealName, i)
		}
		for _, booster := range meal.Boosters {
			nutrients[booster.Nutrient] = true
		}
	}
	if len(nutrients) == 0 {
		t.Fatalf("expected boosters for a micro-poor day")
	}
	if len(nutrients) > 3 {
		t.Fatalf("boosters cover %d nutrients, cap is 3", len(nutrients))
	}

	// Sorted nutrient order makes the first three picks deterministic:
	// B12_ug (salmon), Ca_mg (milk), Fe_mg (lentils).
	lunch := day.Meals[1]
	if len(lunch.Boosters) != 3 {
		t.Fatalf("expected 3 boosters on lunch, got %d", len(lunch.Boosters))
	}
	wantFoods := []string{"salmon", "milk", "lentils"}
	for i, booster := range lunch.Boosters {
		if booster.Food != wantFoods[i] {
			t.Fatalf("booster %d: expected %s, got %s", i, wantFoods[i], booster.Food)
		}
		if booster.Grams != 50 {
			t.Fatalf("booster portions are 50g, got %v", booster.Grams)
		}
	}
}

func TestBoosterBumpsDayCoverage(t *testing.T) {
	foods, recipes := buildCatalogs(t,
		[]string{
			"rice,2.7,0.3,28,0.4,0,0,0,0,0,0,0,0,0.3,VEG;GF",
			"salmon,20,13,0,0,0.8,9,526,3.2,26,14,363,27,2.5,fish",
		},
		[]string{`Plain Rice,"rice:200",VEG;GF`},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, nil)

	// Rice contributes no B12, so day coverage equals the booster bump:
	// B12 in 50g salmon / 10 = (3.2 * 50/100) / 10 = 0.16.
	if math.Abs(day.MicroCoverage["B12_ug"]-0.16) > 1e-9 {
		t.Fatalf("expected B12 coverage 0.16 after booster bump, got %v", day.MicroCoverage["B12_ug"])
	}
}

func TestNoBoostersWhenCoverageSufficient(t *testing.T) {
	// A fortified food keeps every meal at the 200% cap, so day coverage
	// far exceeds the shortfall threshold and nothing gets boosted.
	foods, recipes := buildCatalogs(t,
		[]string{"superfood,20,10,40,10,100,5000,3000,20,2000,800,20000,2000,3.0,VEG;GF"},
		[]string{`Super Bowl,"superfood:200",VEG;GF`},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, nil)
	for _, meal := range day.Meals {
		if len(meal.Boosters) != 0 {
			t.Fatalf("expected no boosters, got %v on %s", meal.Boosters, meal.MealName)
		}
	}
}

func TestMissingIngredientsCountedNotFatal(t *testing.T) {
	foods, recipes := buildCatalogs(t,
		[]string{"rice,2.7,0.3,28,0.4,0.2,10,0,0,2,0,35,12,0.3,VEG;GF"},
		[]string{`Mystery Bowl,"rice:200;dragonfruit:100",VEG;GF`},
	)
	builder := NewPlateBuilder(foods, recipes, nil)

	day := builder.BuildDay(2000, nil)
	if day.Diagnostics.MissingIngredients == 0 {
		t.Fatalf("expected missing-ingredient diagnostics to be counted")
	}
	for _, meal := range day.Meals {
		if meal.Estimated {
			t.Fatalf("missing ingredient must not force a fallback meal")
		}
	}
}

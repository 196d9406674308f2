package planner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/models"
)

// daysPerWeek is the length of every generated week plan.
const daysPerWeek = 7

// WeekPlanner builds seven independent day plans with a small deliberate
// calorie variation, then aggregates coverage, shopping list and cost.
type WeekPlanner struct {
	plates *PlateBuilder
	foods  *catalog.FoodCatalog
}

// NewWeekPlanner creates a week planner on top of a plate builder.
func NewWeekPlanner(plates *PlateBuilder, foods *catalog.FoodCatalog) *WeekPlanner {
	return &WeekPlanner{
		plates: plates,
		foods:  foods,
	}
}

// dayVariation returns the sawtooth calorie multiplier for a day index:
// the sequence -5%, 0%, +5% repeating across the week, so seven menus are
// never identical.
func dayVariation(dayIndex int) float64 {
	return 1 + 0.05*float64((dayIndex%3)-1)
}

// BuildWeek builds the seven day plans concurrently (they share only the
// read-only catalogs) and aggregates weekly coverage, the shopping list
// and the estimated cost.
func (w *WeekPlanner) BuildWeek(ctx context.Context, kcalDaily int, dietFlags []string) models.WeekPlan {
	days := make([]models.DayPlan, daysPerWeek)

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < daysPerWeek; i++ {
		day := i
		g.Go(func() error {
			target := int(float64(kcalDaily) * dayVariation(day))
			days[day] = w.plates.BuildDay(target, dietFlags)
			return nil
		})
	}
	// Day builds never fail; the group only orders the goroutines.
	_ = g.Wait()

	week := models.WeekPlan{
		Days:           days,
		WeeklyCoverage: make(map[string]float64, len(rdaPer2000Kcal)),
		ShoppingList:   make(map[string]float64),
	}

	for _, key := range microKeys() {
		total := 0.0
		for _, day := range days {
			total += day.MicroCoverage[key]
		}
		week.WeeklyCoverage[key] = total / daysPerWeek
	}

	for _, day := range days {
		for _, meal := range day.Meals {
			for ingredient, grams := range meal.Ingredients {
				week.ShoppingList[ingredient] += grams
			}
		}
	}

	for ingredient, grams := range week.ShoppingList {
		food, err := w.foods.Lookup(ingredient)
		if err != nil {
			week.MissingPrices++
			continue
		}
		week.TotalCost += grams / 100 * food.PricePerUnit
	}

	return week
}

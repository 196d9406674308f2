package models

import (
	"time"

	"github.com/google/uuid"
)

// Booster is a supplementary food portion attached to a meal to raise
// coverage of an under-target nutrient.
type Booster struct {
	Food     string  `json:"food"`
	Grams    float64 `json:"grams"`
	Nutrient string  `json:"nutrient"`
}

// MealPlan is one meal of a day. RecipeName is "fallback" when no
// compatible recipe could be found; Estimated marks that degraded case.
type MealPlan struct {
	MealName      string             `json:"meal_name"`
	TargetKcal    int                `json:"target_kcal"`
	RecipeName    string             `json:"recipe_name"`
	Estimated     bool               `json:"estimated,omitempty"`
	Ingredients   map[string]float64 `json:"ingredients,omitempty"`
	Nutrients     NutrientVector     `json:"nutrients,omitempty"`
	MicroCoverage map[string]float64 `json:"micro_coverage,omitempty"`
	Boosters      []Booster          `json:"boosters,omitempty"`
}

// DayDiagnostics counts the silent degradations that happened while
// building a day, so quality loss stays observable.
type DayDiagnostics struct {
	FallbackMeals      int `json:"fallback_meals"`
	MissingIngredients int `json:"missing_ingredients"`
	ZeroKcalScales     int `json:"zero_kcal_scales"`
}

// DayPlan is one full day: exactly four meals plus aggregated
// percent-of-RDA coverage. Immutable once returned.
type DayPlan struct {
	Meals         []MealPlan         `json:"meals"`
	TotalKcal     int                `json:"total_kcal"`
	MicroCoverage map[string]float64 `json:"micro_coverage"`
	Diagnostics   DayDiagnostics     `json:"diagnostics"`
}

// WeekPlan aggregates seven independently built days.
type WeekPlan struct {
	Days           []DayPlan          `json:"days"`
	WeeklyCoverage map[string]float64 `json:"weekly_coverage"`
	ShoppingList   map[string]float64 `json:"shopping_list"`
	TotalCost      float64            `json:"total_cost"`
	MissingPrices  int                `json:"missing_prices"`
}

// StoredPlan is a generated plan persisted to the plan-history store.
type StoredPlan struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"` // "day" or "week"
	TargetKcal int       `json:"target_kcal"`
	DietFlags  []string  `json:"diet_flags"`
	Payload    []byte    `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyPlanRequest is the request body for generating a day plan.
type DailyPlanRequest struct {
	KcalTotal int      `json:"kcal_total"`
	DietFlags []string `json:"diet_flags,omitempty"`
}

// WeeklyPlanRequest is the request body for generating a week plan.
type WeeklyPlanRequest struct {
	KcalDaily int      `json:"kcal_daily"`
	DietFlags []string `json:"diet_flags,omitempty"`
}

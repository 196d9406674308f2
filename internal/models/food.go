package models

import "strings"

// NutrientKeys is the fixed nutrient key space, in declaration order.
// Every per-100g record and every aggregate carries exactly these keys.
var NutrientKeys = []string{
	"protein_g",
	"fat_g",
	"carbs_g",
	"fiber_g",
	"Fe_mg",
	"Ca_mg",
	"VitD_IU",
	"B12_ug",
	"Folate_ug",
	"Iodine_ug",
	"K_mg",
	"Mg_mg",
}

// NutrientVector maps nutrient keys to cumulative amounts. Amounts are
// additive and stay in source units until a coverage computation asks
// for percentages.
type NutrientVector map[string]float64

// Add merges other into v element-wise. Missing keys behave as 0.
func (v NutrientVector) Add(other NutrientVector) {
	for key, amount := range other {
		v[key] += amount
	}
}

// Get returns the amount for key, or 0 when the key is absent.
func (v NutrientVector) Get(key string) float64 {
	return v[key]
}

// FoodRecord is one food with nutrient amounts per 100 g. Records are
// immutable once constructed; the catalog replaces entries rather than
// mutating them.
type FoodRecord struct {
	Name         string         `json:"name"`
	Per100g      NutrientVector `json:"per_100g"`
	PricePerUnit float64        `json:"price_per_unit"`
	Flags        []string       `json:"flags"`
}

// HasFlag reports whether the record carries the given flag,
// case-insensitively.
func (f *FoodRecord) HasFlag(flag string) bool {
	for _, have := range f.Flags {
		if strings.EqualFold(have, flag) {
			return true
		}
	}
	return false
}

package models

import "strings"

// RecipeRecord is a named recipe: ingredient name -> gram quantity plus
// dietary flags. Ingredient order is irrelevant; quantities are always
// positive (segments with unparseable quantities are dropped at load).
type RecipeRecord struct {
	Name        string             `json:"name"`
	Ingredients map[string]float64 `json:"ingredients"`
	Flags       []string           `json:"flags"`
}

// HasFlag reports whether the recipe declares the given flag,
// case-insensitively.
func (r *RecipeRecord) HasFlag(flag string) bool {
	for _, have := range r.Flags {
		if strings.EqualFold(have, flag) {
			return true
		}
	}
	return false
}

// FlagText joins the recipe's flags into one lower-cased string for
// substring heuristics.
func (r *RecipeRecord) FlagText() string {
	return strings.ToLower(strings.Join(r.Flags, " "))
}

// CloneIngredients returns an independent copy of the ingredient map.
func (r *RecipeRecord) CloneIngredients() map[string]float64 {
	out := make(map[string]float64, len(r.Ingredients))
	for name, grams := range r.Ingredients {
		out[name] = grams
	}
	return out
}

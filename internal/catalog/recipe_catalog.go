package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mealforge/nutriplan/internal/models"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

// RecipeCatalog holds named recipes loaded from a CSV source. Recipes are
// read-only after load; the catalog keeps load order so scans over "all
// recipes" are deterministic.
type RecipeCatalog struct {
	recipes map[string]models.RecipeRecord
	order   []string
	skipped int
}

// LoadRecipeCatalog reads the recipes CSV at path. Rows carry a name, an
// "FoodA:grams;FoodB:grams" ingredients column and an optional flags
// column. Malformed ingredient segments are dropped individually; rows
// without a name or without any parseable ingredient are skipped with a
// logged reason.
func LoadRecipeCatalog(path string) (*RecipeCatalog, error) {
	c := &RecipeCatalog{
		recipes: make(map[string]models.RecipeRecord),
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Recipes file %s does not exist, starting with empty catalog", path)
			return c, nil
		}
		return nil, fmt.Errorf("failed to open recipes file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	nameCol, ok := colMap["name"]
	if !ok {
		return nil, fmt.Errorf("recipes file %s has no name column", path)
	}
	ingredientsCol, ok := colMap["ingredients"]
	if !ok {
		return nil, fmt.Errorf("recipes file %s has no ingredients column", path)
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.Printf("Warning: skipping recipes row %d: %v", rowNum, err)
			c.skipped++
			continue
		}

		if nameCol >= len(record) || ingredientsCol >= len(record) {
			log.Printf("Warning: skipping recipes row %d: row too short", rowNum)
			c.skipped++
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		if name == "" {
			log.Printf("Warning: skipping recipes row %d: empty name", rowNum)
			c.skipped++
			continue
		}

		ingredients := parseIngredients(record[ingredientsCol])
		if len(ingredients) == 0 {
			log.Printf("Warning: skipping recipe %q: no parseable ingredients", name)
			c.skipped++
			continue
		}

		var flags []string
		if col, ok := colMap["flags"]; ok && col < len(record) {
			flags = SplitFlags(record[col])
		}

		key := strings.ToLower(name)
		if _, exists := c.recipes[key]; !exists {
			c.order = append(c.order, name)
		}
		c.recipes[key] = models.RecipeRecord{
			Name:        name,
			Ingredients: ingredients,
			Flags:       flags,
		}
	}

	log.Printf("Loaded %d recipes from %s (%d rows skipped)", len(c.recipes), path, c.skipped)
	return c, nil
}

// parseIngredients splits "FoodA:grams;FoodB:grams" into an ingredient
// map. Segments with a missing name, a non-numeric gram value or a
// non-positive quantity are dropped individually.
func parseIngredients(raw string) map[string]float64 {
	ingredients := make(map[string]float64)
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		parts := strings.SplitN(segment, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		grams, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if name == "" || err != nil || grams <= 0 {
			continue
		}
		ingredients[name] = grams
	}
	return ingredients
}

// Lookup returns the recipe for name. Matching is case-insensitive.
func (c *RecipeCatalog) Lookup(name string) (models.RecipeRecord, error) {
	recipe, ok := c.recipes[strings.ToLower(name)]
	if !ok {
		return models.RecipeRecord{}, ErrRecipeNotFound
	}
	return recipe, nil
}

// All returns every recipe in load order.
func (c *RecipeCatalog) All() []models.RecipeRecord {
	out := make([]models.RecipeRecord, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.recipes[strings.ToLower(name)])
	}
	return out
}

// Len returns the number of recipes in the catalog.
func (c *RecipeCatalog) Len() int {
	return len(c.recipes)
}

// SkippedRows reports how many rows were rejected during load.
func (c *RecipeCatalog) SkippedRows() int {
	return c.skipped
}

// AggregateNutrients sums every fixed nutrient key over all ingredients of
// recipe, using foods for per-100g lookups. Ingredients absent from the
// food catalog contribute zero and are counted in missing, never an error.
func (c *RecipeCatalog) AggregateNutrients(recipe models.RecipeRecord, foods *FoodCatalog) (models.NutrientVector, int) {
	total := make(models.NutrientVector, len(models.NutrientKeys))
	for _, key := range models.NutrientKeys {
		total[key] = 0
	}

	missing := 0
	for ingredient, grams := range recipe.Ingredients {
		food, err := foods.Lookup(ingredient)
		if err != nil {
			missing++
			continue
		}
		contribution := make(models.NutrientVector, len(models.NutrientKeys))
		for _, key := range models.NutrientKeys {
			contribution[key] = foods.NutrientAmount(food, key, grams)
		}
		total.Add(contribution)
	}
	return total, missing
}

// RecipeKcal computes a recipe's calories from its aggregate macros:
// 4 kcal per gram of protein and carbs, 9 per gram of fat.
func RecipeKcal(nutrients models.NutrientVector) float64 {
	return nutrients.Get("protein_g")*4 + nutrients.Get("carbs_g")*4 + nutrients.Get("fat_g")*9
}

// ScaleToKcal multiplies every ingredient quantity so the recipe totals
// targetKcal, preserving the recipe's macro ratios. When the recipe's
// current calories are not positive (nothing resolved in the food catalog)
// the recipe is returned unchanged and scaled is false. That is a
// degenerate case, not an error.
func (c *RecipeCatalog) ScaleToKcal(recipe models.RecipeRecord, targetKcal float64, foods *FoodCatalog) (models.RecipeRecord, bool) {
	nutrients, _ := c.AggregateNutrients(recipe, foods)
	currentKcal := RecipeKcal(nutrients)
	if currentKcal <= 0 {
		return recipe, false
	}

	factor := targetKcal / currentKcal
	scaled := models.RecipeRecord{
		Name:        recipe.Name,
		Ingredients: recipe.CloneIngredients(),
		Flags:       recipe.Flags,
	}
	for ingredient := range scaled.Ingredients {
		scaled.Ingredients[ingredient] *= factor
	}
	return scaled, true
}

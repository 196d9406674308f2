package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mealforge/nutriplan/internal/catalog"
)

// ListFoods returns every food in the catalog in load order.
func (h *Handler) ListFoods(c *fiber.Ctx) error {
	return Success(c, h.foods.All())
}

// GetFood returns a single food by name.
func (h *Handler) GetFood(c *fiber.Ctx) error {
	name := c.Params("name")
	food, err := h.foods.Lookup(name)
	if err != nil {
		if errors.Is(err, catalog.ErrFoodNotFound) {
			return Error(c, fiber.StatusNotFound, "food not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get food")
	}
	return Success(c, food)
}

// SearchFoods performs a substring search on food names.
func (h *Handler) SearchFoods(c *fiber.Ctx) error {
	query := strings.ToLower(c.Query("q"))
	if query == "" {
		return Error(c, fiber.StatusBadRequest, "search query is required")
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var matches []interface{}
	for _, food := range h.foods.All() {
		if strings.Contains(strings.ToLower(food.Name), query) {
			matches = append(matches, food)
			if len(matches) >= limit {
				break
			}
		}
	}

	return Success(c, matches)
}

// ListRecipes returns every recipe in the catalog in load order.
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	return Success(c, h.recipes.All())
}

// GetRecipe returns a single recipe by name.
func (h *Handler) GetRecipe(c *fiber.Ctx) error {
	name := c.Params("name")
	recipe, err := h.recipes.Lookup(name)
	if err != nil {
		if errors.Is(err, catalog.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get recipe")
	}
	return Success(c, recipe)
}

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mealforge/nutriplan/internal/models"
)

// SearchProduct resolves a free-text product name against the external
// food sources. A miss is a successful response with found=false, not an
// error status.
func (h *Handler) SearchProduct(c *fiber.Ctx) error {
	var req models.SearchProductRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	return Success(c, h.finder.SearchProduct(c.Context(), req.Name))
}

// ExpandCatalog resolves catalog-missing ingredients against the external
// sources and persists what it finds. Returns both the per-product
// success map and the detailed outcomes.
func (h *Handler) ExpandCatalog(c *fiber.Ctx) error {
	var req models.ExpandRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Ingredients) == 0 {
		return Error(c, fiber.StatusBadRequest, "ingredients list is required")
	}

	report := h.finder.AutoExpandDatabase(c.Context(), req.Ingredients)
	return Success(c, fiber.Map{
		"results":  report.Results(),
		"outcomes": report.Outcomes,
	})
}

// MissingProducts reports which of the given ingredients have no catalog
// match, without touching the external sources.
func (h *Handler) MissingProducts(c *fiber.Ctx) error {
	var req models.ExpandRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Ingredients) == 0 {
		return Error(c, fiber.StatusBadRequest, "ingredients list is required")
	}

	missing := h.finder.FindMissingProducts(req.Ingredients)
	if missing == nil {
		missing = []string{}
	}
	return Success(c, missing)
}

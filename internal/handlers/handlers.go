package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/config"
	"github.com/mealforge/nutriplan/internal/database"
	"github.com/mealforge/nutriplan/internal/planner"
	"github.com/mealforge/nutriplan/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	cfg     *config.Config
	foods   *catalog.FoodCatalog
	recipes *catalog.RecipeCatalog
	plates  *planner.PlateBuilder
	weeks   *planner.WeekPlanner
	finder  *services.ProductFinder
	store   *database.DB // nil when plan history is disabled
}

// New creates a new Handler instance. store may be nil.
func New(
	cfg *config.Config,
	foods *catalog.FoodCatalog,
	recipes *catalog.RecipeCatalog,
	plates *planner.PlateBuilder,
	weeks *planner.WeekPlanner,
	finder *services.ProductFinder,
	store *database.DB,
) *Handler {
	return &Handler{
		cfg:     cfg,
		foods:   foods,
		recipes: recipes,
		plates:  plates,
		weeks:   weeks,
		finder:  finder,
		store:   store,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mealforge/nutriplan/internal/database"
	"github.com/mealforge/nutriplan/internal/models"
)

// CreateDailyPlan generates a day plan for the requested calorie target
// and dietary restrictions.
func (h *Handler) CreateDailyPlan(c *fiber.Ctx) error {
	var req models.DailyPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.KcalTotal <= 0 {
		return Error(c, fiber.StatusBadRequest, "kcal_total must be positive")
	}

	day := h.plates.BuildDay(req.KcalTotal, req.DietFlags)
	h.storePlan(c, "day", req.KcalTotal, req.DietFlags, day)

	return Success(c, day)
}

// CreateWeeklyPlan generates a seven-day plan with aggregated coverage,
// shopping list and cost estimate.
func (h *Handler) CreateWeeklyPlan(c *fiber.Ctx) error {
	var req models.WeeklyPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.KcalDaily <= 0 {
		return Error(c, fiber.StatusBadRequest, "kcal_daily must be positive")
	}

	week := h.weeks.BuildWeek(c.Context(), req.KcalDaily, req.DietFlags)
	h.storePlan(c, "week", req.KcalDaily, req.DietFlags, week)

	return Success(c, week)
}

// storePlan persists a generated plan when the history store is enabled.
// Persistence is best effort: a failure is logged and never affects the
// response.
func (h *Handler) storePlan(c *fiber.Ctx, kind string, kcal int, dietFlags []string, payload interface{}) {
	if h.store == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Warning: failed to encode %s plan for history: %v", kind, err)
		return
	}
	if dietFlags == nil {
		dietFlags = []string{}
	}

	plan := &models.StoredPlan{
		Kind:       kind,
		TargetKcal: kcal,
		DietFlags:  dietFlags,
		Payload:    body,
	}
	if err := h.store.SavePlan(c.Context(), plan); err != nil {
		log.Printf("Warning: failed to store %s plan: %v", kind, err)
	}
}

// ListPlans returns stored plans, newest first.
func (h *Handler) ListPlans(c *fiber.Ctx) error {
	if h.store == nil {
		return Error(c, fiber.StatusServiceUnavailable, "plan history is disabled")
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	plans, total, err := h.store.ListPlans(c.Context(), limit, offset)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list plans")
	}

	return SuccessWithMeta(c, plans, total, limit, offset)
}

// GetPlan returns a single stored plan by ID.
func (h *Handler) GetPlan(c *fiber.Ctx) error {
	if h.store == nil {
		return Error(c, fiber.StatusServiceUnavailable, "plan history is disabled")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	plan, err := h.store.GetPlanByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	return Success(c, plan)
}

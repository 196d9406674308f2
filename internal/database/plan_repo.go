package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mealforge/nutriplan/internal/models"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
)

// SavePlan stores a generated plan and fills in its ID and creation time.
func (db *DB) SavePlan(ctx context.Context, plan *models.StoredPlan) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO plans (kind, target_kcal, diet_flags, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`, plan.Kind, plan.TargetKcal, plan.DietFlags, plan.Payload).Scan(&plan.ID, &plan.CreatedAt)
}

// ListPlans returns stored plans newest first, with the total count for
// pagination.
func (db *DB) ListPlans(ctx context.Context, limit, offset int) ([]*models.StoredPlan, int, error) {
	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM plans").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, kind, target_kcal, diet_flags, payload, created_at
		FROM plans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []*models.StoredPlan
	for rows.Next() {
		plan := &models.StoredPlan{}
		if err := rows.Scan(
			&plan.ID, &plan.Kind, &plan.TargetKcal, &plan.DietFlags, &plan.Payload, &plan.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		plans = append(plans, plan)
	}

	return plans, total, nil
}

// GetPlanByID retrieves one stored plan.
func (db *DB) GetPlanByID(ctx context.Context, id uuid.UUID) (*models.StoredPlan, error) {
	plan := &models.StoredPlan{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, kind, target_kcal, diet_flags, payload, created_at
		FROM plans
		WHERE id = $1
	`, id).Scan(
		&plan.ID, &plan.Kind, &plan.TargetKcal, &plan.DietFlags, &plan.Payload, &plan.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return plan, nil
}

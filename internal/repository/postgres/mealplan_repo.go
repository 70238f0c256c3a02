package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// MealPlanRepo implements MealPlanRepository using PostgreSQL.
type MealPlanRepo struct{ db *DB }

// NewMealPlanRepo constructs a meal plan repository.
func NewMealPlanRepo(db *DB) *MealPlanRepo { return &MealPlanRepo{db: db} }

// Save upserts the recipe for (user, day).
func (r *MealPlanRepo) Save(ctx context.Context, userID uuid.UUID, day model.Weekday, s model.RecipeSnapshot) error {
	const q = `
INSERT INTO meal_plan_entries (user_id, day, recipe_id, snapshot, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id, day)
DO UPDATE SET recipe_id=EXCLUDED.recipe_id, snapshot=EXCLUDED.snapshot, updated_at=now()`
	raw, err := json.Marshal(s)
	if err != nil {
		return errs.Store("meal_plan.save", err)
	}
	_, err = r.db.Pool.Exec(ctx, q, userID, string(day), s.ID.String(), raw)
	return errs.Store("meal_plan.save", err)
}

// Get returns every assigned day of the user's week.
func (r *MealPlanRepo) Get(ctx context.Context, userID uuid.UUID) (model.MealPlan, error) {
	const q = `SELECT day, snapshot FROM meal_plan_entries WHERE user_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, errs.Store("meal_plan.get", err)
	}
	defer rows.Close()

	plan := model.MealPlan{}
	for rows.Next() {
		var (
			day string
			raw []byte
			s   model.RecipeSnapshot
		)
		if err := rows.Scan(&day, &raw); err != nil {
			return nil, errs.Store("meal_plan.get", err)
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errs.Store("meal_plan.get", fmt.Errorf("day %s: %w", day, err))
		}
		plan[model.Weekday(day)] = s
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("meal_plan.get", err)
	}
	return plan, nil
}

// Remove clears the day and reports whether an entry existed.
func (r *MealPlanRepo) Remove(ctx context.Context, userID uuid.UUID, day model.Weekday) (bool, error) {
	const q = `DELETE FROM meal_plan_entries WHERE user_id=$1 AND day=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, string(day))
	if err != nil {
		return false, errs.Store("meal_plan.remove", err)
	}
	return tag.RowsAffected() > 0, nil
}

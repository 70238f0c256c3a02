// Package model defines domain entities used by services, repositories and the controller.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account stored in the user store. The password is never stored.
type User struct {
	ID        uuid.UUID // store-assigned
	Username  string
	Email     string // unique, normalized
	PwdHash   string // encoded Argon2id hash, see internal/crypto
	CreatedAt time.Time
}

// Favorite is a (user, recipe) pair plus the recipe snapshot shown on the favorites screen.
type Favorite struct {
	UserID    uuid.UUID
	Recipe    RecipeSnapshot
	CreatedAt time.Time
}

// MealPlanEntry assigns one recipe snapshot to one day of a user's week.
type MealPlanEntry struct {
	UserID    uuid.UUID
	Day       Weekday
	Recipe    RecipeSnapshot
	UpdatedAt time.Time
}

// MealPlan maps each assigned day to its recipe. Unassigned days are absent.
type MealPlan map[Weekday]RecipeSnapshot

// Clone returns an independent copy of the plan.
func (p MealPlan) Clone() MealPlan {
	out := make(MealPlan, len(p))
	for d, r := range p {
		out[d] = r
	}
	return out
}

// TotalCalories sums the Calories nutrient over all assigned days.
// Days whose snapshot carries no Calories entry contribute zero.
func (p MealPlan) TotalCalories() float64 {
	var total float64
	for _, r := range p {
		if kcal, ok := r.Calories(); ok {
			total += kcal
		}
	}
	return total
}

// Package repository declares the store contracts shared by the PostgreSQL
// and MongoDB backends. Lookups of a missing record return errs.ErrNotFound;
// backend failures come back as *errs.StoreError.
package repository

import (
	"context"

	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository stores accounts keyed by ID with a unique normalized email.
type UserRepository interface {
	// Create inserts u. A taken email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail expects an already normalized email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// FavoriteRepository stores per-user favorite recipes.
type FavoriteRepository interface {
	// Add stores the favorite if absent. Adding an existing pair is not an error.
	Add(ctx context.Context, userID uuid.UUID, r model.RecipeSnapshot) error
	// Remove deletes the pair and reports whether a row was deleted.
	Remove(ctx context.Context, userID uuid.UUID, recipeID model.RecipeID) (bool, error)
	// List returns the user's favorites, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

// MealPlanRepository stores one recipe per (user, day).
type MealPlanRepository interface {
	// Save inserts or replaces the entry for the day.
	Save(ctx context.Context, userID uuid.UUID, day model.Weekday, r model.RecipeSnapshot) error
	// Get returns all assigned days for the user.
	Get(ctx context.Context, userID uuid.UUID) (model.MealPlan, error)
	// Remove clears the day and reports whether an entry existed.
	Remove(ctx context.Context, userID uuid.UUID, day model.Weekday) (bool, error)
}

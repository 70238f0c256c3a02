package service

import (
	"context"
	"fmt"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// LibraryService manages a user's favorites and weekly meal plan.
type LibraryService struct {
	favorites repository.FavoriteRepository
	meals     repository.MealPlanRepository
}

// NewLibraryService constructs LibraryService.
func NewLibraryService(f repository.FavoriteRepository, m repository.MealPlanRepository) *LibraryService {
	return &LibraryService{favorites: f, meals: m}
}

func validateRecipe(userID uuid.UUID, id model.RecipeID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: empty user id", errs.ErrInvalidInput)
	}
	if id == "" {
		return fmt.Errorf("%w: empty recipe id", errs.ErrInvalidInput)
	}
	return nil
}

func validateDay(userID uuid.UUID, day model.Weekday) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: empty user id", errs.ErrInvalidInput)
	}
	if !day.Valid() {
		return fmt.Errorf("%w: unknown day %q", errs.ErrInvalidInput, day)
	}
	return nil
}

// AddFavorite stores the recipe as a favorite. Adding twice is a no-op.
func (s *LibraryService) AddFavorite(ctx context.Context, userID uuid.UUID, r model.RecipeSnapshot) error {
	if err := validateRecipe(userID, r.ID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, userID, r)
}

// RemoveFavorite deletes the favorite and reports whether one was deleted.
func (s *LibraryService) RemoveFavorite(ctx context.Context, userID uuid.UUID, id model.RecipeID) (bool, error) {
	if err := validateRecipe(userID, id); err != nil {
		return false, err
	}
	return s.favorites.Remove(ctx, userID, id)
}

// ListFavorites returns the user's favorites, newest first.
func (s *LibraryService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty user id", errs.ErrInvalidInput)
	}
	favs, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []model.Favorite{}
	}
	return favs, nil
}

// SaveMealPlan assigns the recipe to the day, replacing any previous one.
func (s *LibraryService) SaveMealPlan(ctx context.Context, userID uuid.UUID, day model.Weekday, r model.RecipeSnapshot) error {
	if err := validateDay(userID, day); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("%w: empty recipe id", errs.ErrInvalidInput)
	}
	return s.meals.Save(ctx, userID, day, r)
}

// GetMealPlan returns the assigned days of the user's week.
func (s *LibraryService) GetMealPlan(ctx context.Context, userID uuid.UUID) (model.MealPlan, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty user id", errs.ErrInvalidInput)
	}
	plan, err := s.meals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan = model.MealPlan{}
	}
	return plan, nil
}

// RemoveMealPlan clears the day and reports whether an entry existed.
func (s *LibraryService) RemoveMealPlan(ctx context.Context, userID uuid.UUID, day model.Weekday) (bool, error) {
	if err := validateDay(userID, day); err != nil {
		return false, err
	}
	return s.meals.Remove(ctx, userID, day)
}

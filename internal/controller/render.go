package controller

import (
	"context"

	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/view"
	"go.uber.org/zap"
)

// render builds the screen for the top of the stack and hands it over.
func (c *Controller) render(ctx context.Context) {
	if c.out == nil {
		return
	}
	c.out.Render(c.screen(ctx))
}

func (c *Controller) screen(ctx context.Context) view.Screen {
	s := c.session
	if s == nil {
		return view.New(view.KindAuth)
	}
	top := s.top()
	sc := view.New(top.Kind)
	sc.CanGoBack = len(s.nav) > 1
	sc.Account = &view.Account{Username: s.User.Username, Email: s.User.Email}

	switch top.Kind {
	case view.KindHome:
		sc.Features = view.HomeFeatures
	case view.KindSearch:
		sc.Query = s.searchQuery
		sc.Cards = view.Cards(s.searchResults, c.favoriteCheck(ctx))
		if s.searched && len(sc.Cards) == 0 {
			sc.Empty = view.NoRecipes
		}
	case view.KindIngredients:
		sc.Query = s.ingredientQuery
		sc.Cards = view.Cards(s.ingredientResults, c.favoriteCheck(ctx))
		if s.ingredientsRun && len(sc.Cards) == 0 {
			sc.Empty = "No recipes found with those ingredients."
		}
	case view.KindFavorites:
		favs, err := c.library.ListFavorites(ctx, s.User.ID)
		if err != nil {
			c.log.Error("list favorites", zap.Error(err))
			c.notify(view.Fail("Could not load favorites: " + err.Error()))
		}
		list := make([]model.RecipeSnapshot, 0, len(favs))
		for _, f := range favs {
			list = append(list, f.Recipe)
		}
		sc.Cards = view.Cards(list, func(model.RecipeID) bool { return true })
		if len(sc.Cards) == 0 && err == nil {
			sc.Empty = view.NoFavorites
		}
	case view.KindMealPlan:
		sc.Query = s.candidateQuery
		c.loadWeek(ctx)
		w := view.NewWeekPlan(s.week)
		w.Candidates = view.Cards(s.candidates, nil)
		w.Suggestions = view.NewSuggestions(s.suggestions)
		sc.Week = &w
	case view.KindRecipeDetails:
		r := s.detail
		if r == nil || r.ID != top.Arg {
			var ok bool
			if r, ok = c.recipes.Details(ctx, top.Arg); !ok {
				c.notify(view.Fail("Could not load recipe details"))
				sc.Empty = "Could not load recipe details"
				return sc
			}
			s.detail = r
		}
		fav := c.favoriteCheck(ctx)
		d := view.NewRecipeDetail(*r, fav(r.ID))
		sc.Title = d.Title
		sc.Detail = &d
	}
	return sc
}

// favoriteCheck loads the favorites once per render and returns a linear
// membership test over them.
func (c *Controller) favoriteCheck(ctx context.Context) func(model.RecipeID) bool {
	favs, err := c.library.ListFavorites(ctx, c.session.User.ID)
	if err != nil {
		c.log.Warn("list favorites for badges", zap.Error(err))
	}
	return func(id model.RecipeID) bool { return isFavorite(favs, id) }
}

// Package view describes screens declaratively. The controller produces a
// Screen for every state change and a presentation adapter draws it; nothing
// here depends on a GUI toolkit.
package view

import (
	"github.com/and161185/recipe-keeper/internal/model"
)

// Kind identifies a screen and doubles as the navigation-stack key.
type Kind string

const (
	KindAuth          Kind = "auth"
	KindHome          Kind = "home"
	KindProfile       Kind = "profile"
	KindSearch        Kind = "search"
	KindIngredients   Kind = "ingredients"
	KindMealPlan      Kind = "meal_plan"
	KindFavorites     Kind = "favorites"
	KindRecipeDetails Kind = "recipe_details"
)

// Placeholder texts for missing data.
const (
	NotAvailable   = "N/A"
	Untitled       = "Untitled Recipe"
	NoInstructions = "No instructions available"
	NoIngredients  = "No ingredients info"
	NoNutrition    = "No nutrition info"
	NoFavorites    = "No favorites yet."
	NoMeal         = "No meal selected"
	NoRecipes      = "No recipes found."
)

// Feature is a shortcut tile on the home screen.
type Feature struct {
	Title  string
	Target Kind
}

// HomeFeatures are the tiles shown on the home screen, in order.
var HomeFeatures = []Feature{
	{Title: "Search Recipes", Target: KindSearch},
	{Title: "Find by Ingredients", Target: KindIngredients},
	{Title: "Meal Plan", Target: KindMealPlan},
	{Title: "Favorites", Target: KindFavorites},
}

// Account is the signed-in user as shown in the header and profile.
type Account struct {
	Username string
	Email    string
}

// Screen is everything needed to draw one screen.
type Screen struct {
	Kind      Kind
	Title     string
	CanGoBack bool
	Account   *Account // nil on the auth screen

	Features []Feature // home
	Query    string    // search and ingredients input echo
	Cards    []Card
	Empty    string // shown instead of Cards when there are none

	Detail *RecipeDetail
	Week   *WeekPlan
}

// Titles per screen.
var titles = map[Kind]string{
	KindAuth:          "Recipe Management System",
	KindHome:          "Welcome to Recipe Manager",
	KindProfile:       "Your Profile",
	KindSearch:        "Search Recipes",
	KindIngredients:   "Find Recipes by Ingredients",
	KindMealPlan:      "Weekly Meal Plan",
	KindFavorites:     "Your Favorites",
	KindRecipeDetails: "Recipe Details",
}

// TitleOf returns the heading for a screen kind.
func TitleOf(k Kind) string { return titles[k] }

// New returns a screen of the given kind with its title set.
func New(k Kind) Screen { return Screen{Kind: k, Title: TitleOf(k)} }

// Cards turns snapshots into cards. isFavorite may be nil.
func Cards(list []model.RecipeSnapshot, isFavorite func(model.RecipeID) bool) []Card {
	out := make([]Card, 0, len(list))
	for _, s := range list {
		out = append(out, NewCard(s, isFavorite != nil && isFavorite(s.ID)))
	}
	return out
}

package view

import (
	"strconv"

	"github.com/and161185/recipe-keeper/internal/model"
)

// Card is a recipe tile in a result grid.
type Card struct {
	RecipeID  model.RecipeID
	Title     string
	Image     string // empty means no image is drawn
	ReadyTime string
	Servings  string
	Favorite  bool
	Snapshot  model.RecipeSnapshot
}

// NewCard fills placeholders for missing fields.
func NewCard(s model.RecipeSnapshot, favorite bool) Card {
	return Card{
		RecipeID:  s.ID,
		Title:     orUntitled(s.Title),
		Image:     s.Image,
		ReadyTime: withUnit(s.ReadyInMinutes, "min"),
		Servings:  withUnit(s.Servings, "servings"),
		Favorite:  favorite,
		Snapshot:  s,
	}
}

func orUntitled(title string) string {
	if title == "" {
		return Untitled
	}
	return title
}

func withUnit(n int, unit string) string {
	if n <= 0 {
		return NotAvailable + " " + unit
	}
	return strconv.Itoa(n) + " " + unit
}

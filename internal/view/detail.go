package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/and161185/recipe-keeper/internal/model"
)

// KeyNutrients are the nutrients listed on the nutrition tab, in order.
var KeyNutrients = []string{model.CaloriesNutrient, "Protein", "Fat", "Carbohydrates"}

// Section is a named group of instruction steps.
type Section struct {
	Name  string
	Steps []string
}

// NutrientLine is one row of the nutrition tab.
type NutrientLine struct {
	Name  string
	Value string
}

// RecipeDetail is the tabbed recipe screen. Each *Note is set to a
// placeholder when its tab has nothing to show.
type RecipeDetail struct {
	ID    model.RecipeID
	Title string
	Image string

	Ingredients     []string
	IngredientsNote string

	InstructionText  string // free text, or the flattened steps
	Sections         []Section
	InstructionsNote string

	Nutrition     []NutrientLine
	NutritionNote string

	Favorite bool
	Snapshot model.RecipeSnapshot
}

// CanRead reports whether there is anything to read aloud.
func (d RecipeDetail) CanRead() bool { return strings.TrimSpace(d.InstructionText) != "" }

// NewRecipeDetail builds the tab contents for r.
func NewRecipeDetail(r model.Recipe, favorite bool) RecipeDetail {
	d := RecipeDetail{
		ID:       r.ID,
		Title:    orUntitled(r.Title),
		Image:    r.Image,
		Favorite: favorite,
		Snapshot: r.Snapshot(),
	}

	for _, in := range r.Ingredients {
		line := in.Original
		if line == "" {
			line = in.Name
		}
		if line != "" {
			d.Ingredients = append(d.Ingredients, "• "+line)
		}
	}
	if len(d.Ingredients) == 0 {
		d.IngredientsNote = NoIngredients
	}

	d.InstructionText = r.InstructionText()
	if strings.TrimSpace(r.Instructions) == "" {
		for _, b := range r.AnalyzedInstructions {
			sec := Section{Name: b.Name}
			for _, st := range b.Steps {
				sec.Steps = append(sec.Steps, fmt.Sprintf("Step %d: %s", st.Number, st.Step))
			}
			d.Sections = append(d.Sections, sec)
		}
	}
	if !d.CanRead() {
		d.InstructionsNote = NoInstructions
	}

	nutrients := r.Nutrients()
	for _, name := range KeyNutrients {
		for _, n := range nutrients {
			if n.Name == name {
				d.Nutrition = append(d.Nutrition, NutrientLine{Name: n.Name, Value: formatAmount(n.Amount, n.Unit)})
				break
			}
		}
	}
	if len(d.Nutrition) == 0 {
		d.NutritionNote = NoNutrition
	}
	return d
}

func formatAmount(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

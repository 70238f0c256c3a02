package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CaloriesNutrient is the nutrient name summed for the weekly total.
const CaloriesNutrient = "Calories"

// RecipeID is the recipe service's identifier, normalized to a string.
// The service sends numbers; stores keep strings.
type RecipeID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *RecipeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecipeID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("recipe id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = RecipeID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = RecipeID(n.String())
	return nil
}

func (id RecipeID) String() string { return string(id) }

// Nutrient is one line of a recipe's nutrition facts.
type Nutrient struct {
	Name   string  `json:"name" bson:"name"`
	Amount float64 `json:"amount" bson:"amount"`
	Unit   string  `json:"unit" bson:"unit"`
}

// Ingredient is one ingredient line as written in the recipe.
type Ingredient struct {
	Name     string `json:"name"`
	Original string `json:"original"`
}

// Step is one numbered instruction step.
type Step struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// InstructionBlock is a named group of steps (e.g. "For the sauce").
type InstructionBlock struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Nutrition groups the nutrient list as the recipe service nests it.
type Nutrition struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// Recipe is a recipe as returned by the recipe service. Only the fields the
// application renders are decoded.
type Recipe struct {
	ID                   RecipeID           `json:"id"`
	Title                string             `json:"title"`
	Image                string             `json:"image"`
	ReadyInMinutes       int                `json:"readyInMinutes"`
	Servings             int                `json:"servings"`
	Summary              string             `json:"summary"`
	SourceURL            string             `json:"sourceUrl"`
	Ingredients          []Ingredient       `json:"extendedIngredients"`
	Instructions         string             `json:"instructions"`
	AnalyzedInstructions []InstructionBlock `json:"analyzedInstructions"`
	Nutrition            *Nutrition         `json:"nutrition,omitempty"`
}

// Nutrients returns the nutrient list, empty when the recipe has none.
func (r Recipe) Nutrients() []Nutrient {
	if r.Nutrition == nil {
		return nil
	}
	return r.Nutrition.Nutrients
}

// InstructionText flattens the instructions to the text read aloud: the free
// text when present, else "Step N: ..." lines from the structured steps.
func (r Recipe) InstructionText() string {
	if s := strings.TrimSpace(r.Instructions); s != "" {
		return s
	}
	var lines []string
	for _, block := range r.AnalyzedInstructions {
		for _, st := range block.Steps {
			lines = append(lines, fmt.Sprintf("Step %d: %s", st.Number, st.Step))
		}
	}
	return strings.Join(lines, "\n")
}

// Snapshot copies the display fields kept with favorites and meal-plan entries.
func (r Recipe) Snapshot() RecipeSnapshot {
	src := r.Nutrients()
	var nutrients []Nutrient
	if len(src) > 0 {
		nutrients = append(make([]Nutrient, 0, len(src)), src...)
	}
	return RecipeSnapshot{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Nutrients:      nutrients,
	}
}

// RecipeSnapshot is the denormalized copy of a recipe's display fields.
type RecipeSnapshot struct {
	ID             RecipeID   `json:"id" bson:"id"`
	Title          string     `json:"title" bson:"title"`
	Image          string     `json:"image,omitempty" bson:"image,omitempty"`
	ReadyInMinutes int        `json:"readyInMinutes,omitempty" bson:"ready_in_minutes,omitempty"`
	Servings       int        `json:"servings,omitempty" bson:"servings,omitempty"`
	Nutrients      []Nutrient `json:"nutrients,omitempty" bson:"nutrients,omitempty"`
}

// Calories returns the amount of the Calories nutrient, if the snapshot has one.
func (s RecipeSnapshot) Calories() (float64, bool) {
	for _, n := range s.Nutrients {
		if n.Name == CaloriesNutrient {
			return n.Amount, true
		}
	}
	return 0, false
}

// DayPlan is one day of a generated meal plan.
type DayPlan struct {
	Meals     []RecipeSnapshot
	Nutrients map[string]float64
}

// GeneratedPlan is a meal plan suggested by the recipe service, keyed by
// "day" for a daily frame or by lower-case weekday names for a weekly one.
type GeneratedPlan struct {
	Days map[string]DayPlan
}

package view

import (
	"fmt"
	"strings"

	"github.com/and161185/recipe-keeper/internal/model"
)

// DaySlot is one day of the meal-plan grid. Recipe is nil when unassigned.
type DaySlot struct {
	Day    model.Weekday
	Recipe *Card
	Label  string
}

// Suggestion is one generated day offered by the recipe service.
type Suggestion struct {
	Day      string
	Meals    []Card
	Calories string
}

// WeekPlan is the meal-plan screen body.
type WeekPlan struct {
	Days          []DaySlot
	TotalCalories float64
	Candidates    []Card // recipes found by the dish search, ready to assign
	Suggestions   []Suggestion
}

// CaloriesLabel renders the weekly total.
func (w WeekPlan) CaloriesLabel() string {
	return fmt.Sprintf("Total Calories: %.0f", w.TotalCalories)
}

// NewWeekPlan lays the plan out Monday to Sunday.
func NewWeekPlan(plan model.MealPlan) WeekPlan {
	w := WeekPlan{Days: make([]DaySlot, 0, len(model.Week)), TotalCalories: plan.TotalCalories()}
	for _, day := range model.Week {
		slot := DaySlot{Day: day, Label: NoMeal}
		if s, ok := plan[day]; ok {
			c := NewCard(s, false)
			slot.Recipe = &c
			slot.Label = c.Title + "\n" + c.ReadyTime
		}
		w.Days = append(w.Days, slot)
	}
	return w
}

// NewSuggestions converts a generated plan, ordering weekly days Monday first.
func NewSuggestions(p *model.GeneratedPlan) []Suggestion {
	if p == nil {
		return nil
	}
	var keys []string
	if _, ok := p.Days["day"]; ok {
		keys = []string{"day"}
	} else {
		for _, d := range model.Week {
			keys = append(keys, strings.ToLower(string(d)))
		}
	}
	var out []Suggestion
	for _, k := range keys {
		dp, ok := p.Days[k]
		if !ok {
			continue
		}
		sg := Suggestion{Day: k, Meals: Cards(dp.Meals, nil), Calories: NotAvailable}
		if kcal, ok := dp.Nutrients["calories"]; ok {
			sg.Calories = fmt.Sprintf("%.0f kcal", kcal)
		}
		out = append(out, sg)
	}
	return out
}

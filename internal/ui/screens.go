package ui

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
)

const gridColumns = 3

func (u *UI) build(s view.Screen) fyne.CanvasObject {
	var body fyne.CanvasObject
	switch s.Kind {
	case view.KindAuth:
		return u.authScreen(s)
	case view.KindHome:
		body = u.homeScreen(s)
	case view.KindProfile:
		body = u.profileScreen(s)
	case view.KindSearch:
		body = u.queryScreen(s, "Enter recipe name...", "Search", func(ctx context.Context, q string) {
			u.act.Search(ctx, q)
		})
	case view.KindIngredients:
		body = u.queryScreen(s, "Enter ingredients (comma-separated)...", "Find Recipes", func(ctx context.Context, q string) {
			u.act.FindByIngredients(ctx, q)
		})
	case view.KindFavorites:
		body = u.resultGrid(s)
	case view.KindMealPlan:
		body = u.mealPlanScreen(s)
	case view.KindRecipeDetails:
		body = u.detailScreen(s)
	default:
		body = widget.NewLabel("")
	}
	return container.NewBorder(u.header(s), nil, nil, nil, body)
}

func (u *UI) header(s view.Screen) fyne.CanvasObject {
	title := widget.NewLabelWithStyle(s.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	var left []fyne.CanvasObject
	if s.CanGoBack {
		left = append(left, widget.NewButton("Back", func() {
			u.run("back", func(ctx context.Context) { u.act.NavigateBack(ctx) })
		}))
	}
	var right []fyne.CanvasObject
	if s.Kind != view.KindHome {
		right = append(right, widget.NewButton("Home", func() {
			u.run("home", func(ctx context.Context) { u.act.GoHome(ctx) })
		}))
	}
	if s.Kind != view.KindProfile {
		right = append(right, widget.NewButton("Profile", func() {
			u.run("profile", func(ctx context.Context) { u.act.NavigateTo(ctx, view.KindProfile, "") })
		}))
	}
	right = append(right, widget.NewButton("Logout", func() {
		u.run("logout", func(context.Context) { u.act.Logout() })
	}))

	return container.NewBorder(nil, nil,
		container.NewHBox(left...),
		container.NewHBox(right...),
		title,
	)
}

func (u *UI) authScreen(s view.Screen) fyne.CanvasObject {
	loginEmail := widget.NewEntry()
	loginEmail.SetPlaceHolder("Email")
	loginPassword := widget.NewPasswordEntry()
	loginPassword.SetPlaceHolder("Password")
	loginBtn := widget.NewButton("Login", func() {
		email, password := loginEmail.Text, loginPassword.Text
		u.run("sign_in", func(ctx context.Context) { u.act.SignIn(ctx, email, password) })
	})
	loginTab := container.NewVBox(loginEmail, loginPassword, loginBtn)

	regUsername := widget.NewEntry()
	regUsername.SetPlaceHolder("Username")
	regEmail := widget.NewEntry()
	regEmail.SetPlaceHolder("Email")
	regPassword := widget.NewPasswordEntry()
	regPassword.SetPlaceHolder("Password")
	regBtn := widget.NewButton("Register", func() {
		name, email, password := regUsername.Text, regEmail.Text, regPassword.Text
		u.run("sign_up", func(ctx context.Context) { u.act.SignUp(ctx, name, email, password) })
	})
	registerTab := container.NewVBox(regUsername, regEmail, regPassword, regBtn)

	tabs := container.NewAppTabs(
		container.NewTabItem("Login", loginTab),
		container.NewTabItem("Register", registerTab),
	)
	title := widget.NewLabelWithStyle(s.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return container.NewBorder(title, nil, nil, nil, tabs)
}

func (u *UI) homeScreen(s view.Screen) fyne.CanvasObject {
	greeting := widget.NewLabel("")
	if s.Account != nil {
		greeting.SetText("Hello, " + s.Account.Username + "!")
	}
	tiles := container.NewGridWithColumns(2)
	for _, f := range s.Features {
		target := f.Target
		tiles.Add(widget.NewButton(f.Title, func() {
			u.run("open_"+string(target), func(ctx context.Context) { u.act.NavigateTo(ctx, target, "") })
		}))
	}
	return container.NewVBox(greeting, tiles)
}

func (u *UI) profileScreen(s view.Screen) fyne.CanvasObject {
	if s.Account == nil {
		return widget.NewLabel(view.NotAvailable)
	}
	return widget.NewForm(
		widget.NewFormItem("Username", widget.NewLabel(s.Account.Username)),
		widget.NewFormItem("Email", widget.NewLabel(s.Account.Email)),
	)
}

func (u *UI) queryScreen(s view.Screen, hint, label string, submit func(ctx context.Context, q string)) fyne.CanvasObject {
	input := widget.NewEntry()
	input.SetPlaceHolder(hint)
	input.SetText(s.Query)
	send := func() {
		q := input.Text
		u.run(strings.ToLower(label), func(ctx context.Context) { submit(ctx, q) })
	}
	input.OnSubmitted = func(string) { send() }
	bar := container.NewBorder(nil, nil, nil, widget.NewButton(label, send), input)
	return container.NewBorder(bar, nil, nil, nil, u.resultGrid(s))
}

func (u *UI) resultGrid(s view.Screen) fyne.CanvasObject {
	if len(s.Cards) == 0 {
		if s.Empty == "" {
			return widget.NewLabel("")
		}
		return container.NewCenter(widget.NewLabel(s.Empty))
	}
	grid := container.NewGridWithColumns(gridColumns)
	for _, c := range s.Cards {
		grid.Add(u.recipeCard(c, s.Kind == view.KindFavorites))
	}
	return container.NewVScroll(grid)
}

func (u *UI) recipeCard(c view.Card, removable bool) fyne.CanvasObject {
	id, snap := c.RecipeID, c.Snapshot
	open := widget.NewButton("View Recipe", func() {
		u.run("open_recipe", func(ctx context.Context) { u.act.NavigateTo(ctx, view.KindRecipeDetails, id) })
	})
	var fav *widget.Button
	if removable || c.Favorite {
		fav = widget.NewButton("Remove from Favorites", func() {
			u.run("remove_favorite", func(ctx context.Context) { u.act.RemoveFavorite(ctx, id) })
		})
	} else {
		fav = widget.NewButton("Add to Favorites", func() {
			u.run("add_favorite", func(ctx context.Context) { u.act.ToggleFavorite(ctx, snap) })
		})
	}
	body := container.NewVBox(
		u.images.placeholder(c.Image, cardImageWidth, cardImageHeight),
		container.NewGridWithColumns(2, open, fav),
	)
	return widget.NewCard(c.Title, c.ReadyTime+" · "+c.Servings, body)
}

func (u *UI) detailScreen(s view.Screen) fyne.CanvasObject {
	d := s.Detail
	if d == nil {
		return widget.NewLabel(view.NotAvailable)
	}

	read := widget.NewButton("Read Instructions", func() {
		u.run("read_aloud", func(context.Context) { u.act.ReadAloud() })
	})
	if !d.CanRead() {
		read.Disable()
	}
	stop := widget.NewButton("Stop Reading", func() {
		u.run("stop_reading", func(context.Context) { u.act.StopReading() })
	})
	id, snap := d.ID, d.Snapshot
	var fav *widget.Button
	if d.Favorite {
		fav = widget.NewButton("Remove from Favorites", func() {
			u.run("remove_favorite", func(ctx context.Context) { u.act.RemoveFavorite(ctx, id) })
		})
	} else {
		fav = widget.NewButton("Add to Favorites", func() {
			u.run("add_favorite", func(ctx context.Context) { u.act.ToggleFavorite(ctx, snap) })
		})
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Ingredients", container.NewVScroll(lines(d.Ingredients, d.IngredientsNote))),
		container.NewTabItem("Instructions", container.NewVScroll(instructions(d))),
		container.NewTabItem("Nutrition", container.NewVScroll(nutrition(d))),
	)

	top := container.NewVBox(
		widget.NewLabelWithStyle(d.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		u.images.placeholder(d.Image, detailImageWidth, detailImageHeight),
		container.NewHBox(read, stop, fav),
	)
	return container.NewBorder(top, nil, nil, nil, tabs)
}

func lines(items []string, note string) fyne.CanvasObject {
	if len(items) == 0 {
		return widget.NewLabel(note)
	}
	box := container.NewVBox()
	for _, it := range items {
		l := widget.NewLabel(it)
		l.Wrapping = fyne.TextWrapWord
		box.Add(l)
	}
	return box
}

func instructions(d *view.RecipeDetail) fyne.CanvasObject {
	if len(d.Sections) == 0 {
		text := d.InstructionText
		if d.InstructionsNote != "" {
			text = d.InstructionsNote
		}
		l := widget.NewLabel(text)
		l.Wrapping = fyne.TextWrapWord
		return l
	}
	box := container.NewVBox()
	for _, sec := range d.Sections {
		if sec.Name != "" {
			box.Add(widget.NewLabelWithStyle(sec.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		}
		box.Add(lines(sec.Steps, ""))
	}
	return box
}

func nutrition(d *view.RecipeDetail) fyne.CanvasObject {
	if len(d.Nutrition) == 0 {
		return widget.NewLabel(d.NutritionNote)
	}
	form := widget.NewForm()
	for _, n := range d.Nutrition {
		form.Append(n.Name, widget.NewLabel(n.Value))
	}
	return form
}

func (u *UI) mealPlanScreen(s view.Screen) fyne.CanvasObject {
	w := s.Week
	if w == nil {
		return widget.NewLabel(view.NotAvailable)
	}

	days := container.NewGridWithColumns(len(w.Days))
	for _, slot := range w.Days {
		days.Add(u.daySlot(slot))
	}

	input := widget.NewEntry()
	input.SetPlaceHolder("Search for a dish...")
	input.SetText(s.Query)
	search := func() {
		q := input.Text
		u.run("meal_search", func(ctx context.Context) { u.act.SearchMealCandidates(ctx, q) })
	}
	input.OnSubmitted = func(string) { search() }
	searchBar := container.NewBorder(nil, nil, nil, widget.NewButton("Search", search), input)

	suggest := container.NewHBox(
		widget.NewButton("Suggest a Day", func() {
			u.run("suggest_day", func(ctx context.Context) { u.act.SuggestMeals(ctx, recipeapi.Day) })
		}),
		widget.NewButton("Suggest a Week", func() {
			u.run("suggest_week", func(ctx context.Context) { u.act.SuggestMeals(ctx, recipeapi.Week) })
		}),
	)

	top := container.NewVBox(
		widget.NewLabelWithStyle(w.CaloriesLabel(), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		days,
		searchBar,
		suggest,
	)

	lower := container.NewVBox()
	for _, c := range w.Candidates {
		lower.Add(u.candidateRow(c))
	}
	for _, sg := range w.Suggestions {
		lower.Add(u.suggestionRow(sg))
	}
	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(lower))
}

func (u *UI) daySlot(slot view.DaySlot) fyne.CanvasObject {
	day := slot.Day
	label := widget.NewLabel(slot.Label)
	label.Wrapping = fyne.TextWrapWord
	parts := []fyne.CanvasObject{
		widget.NewLabelWithStyle(string(day), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		label,
	}
	if slot.Recipe != nil {
		id := slot.Recipe.RecipeID
		parts = append(parts,
			widget.NewButton("View", func() {
				u.run("open_recipe", func(ctx context.Context) { u.act.NavigateTo(ctx, view.KindRecipeDetails, id) })
			}),
			widget.NewButton("Clear", func() {
				u.run("clear_meal", func(ctx context.Context) { u.act.ClearMeal(ctx, day) })
			}),
		)
	}
	return container.NewVBox(parts...)
}

// candidateRow offers a searched recipe for assignment to a chosen day.
func (u *UI) candidateRow(c view.Card) fyne.CanvasObject {
	snap := c.Snapshot
	labels := make([]string, 0, len(model.Week))
	for _, d := range model.Week {
		labels = append(labels, string(d))
	}
	pick := widget.NewSelect(labels, nil)
	pick.SetSelected(labels[0])
	assign := widget.NewButton("Add to Plan", func() {
		day := model.Weekday(pick.Selected)
		u.run("assign_meal", func(ctx context.Context) { u.act.AssignMeal(ctx, day, snap) })
	})
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(pick, assign),
		widget.NewLabel(c.Title+" ("+c.ReadyTime+")"),
	)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func (u *UI) suggestionRow(sg view.Suggestion) fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabelWithStyle(
		capitalize(sg.Day)+" · "+sg.Calories,
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true},
	))
	for _, m := range sg.Meals {
		box.Add(u.candidateRow(m))
	}
	return box
}

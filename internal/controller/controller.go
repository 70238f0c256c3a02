// Package controller holds the session and navigation state of the desktop
// app. Every operation ends by handing a view.Screen (and possibly a
// view.Notice) to the Renderer; the controller never touches a GUI toolkit.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Accounts registers and authenticates users.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (uuid.UUID, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

// Library stores favorites and meal plans.
type Library interface {
	AddFavorite(ctx context.Context, userID uuid.UUID, r model.RecipeSnapshot) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, id model.RecipeID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
	SaveMealPlan(ctx context.Context, userID uuid.UUID, day model.Weekday, r model.RecipeSnapshot) error
	GetMealPlan(ctx context.Context, userID uuid.UUID) (model.MealPlan, error)
	RemoveMealPlan(ctx context.Context, userID uuid.UUID, day model.Weekday) (bool, error)
}

// Recipes is the recipe web service.
type Recipes interface {
	Search(ctx context.Context, query string) []model.Recipe
	Details(ctx context.Context, id model.RecipeID) (*model.Recipe, bool)
	FindByIngredients(ctx context.Context, ingredients []string) []model.Recipe
	GenerateMealPlan(ctx context.Context, frame recipeapi.TimeFrame) (*model.GeneratedPlan, bool)
}

// Speaker reads text aloud in the background.
type Speaker interface {
	Speak(text string)
	Stop()
	Speaking() bool
}

// Renderer draws screens and notices.
type Renderer interface {
	Render(s view.Screen)
	Notify(n view.Notice)
}

// Controller is safe for use from several goroutines; operations are
// serialized.
type Controller struct {
	accounts Accounts
	library  Library
	recipes  Recipes
	speaker  Speaker
	log      *zap.Logger

	mu      sync.Mutex
	out     Renderer
	session *Session
}

// New constructs a Controller. Attach a Renderer before calling Start.
func New(accounts Accounts, library Library, recipes Recipes, speaker Speaker, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		accounts: accounts,
		library:  library,
		recipes:  recipes,
		speaker:  speaker,
		log:      log.Named("controller"),
	}
}

// Attach sets the renderer that receives screens and notices.
func (c *Controller) Attach(r Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = r
}

// Start shows the authentication screen.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render(context.Background())
}

// User returns the signed-in user. ok is false before login.
func (c *Controller) User() (model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return model.User{}, false
	}
	return c.session.User, true
}

// Nav returns a copy of the navigation stack, nil before login.
func (c *Controller) Nav() []NavEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Nav()
}

// Week returns a copy of the in-memory meal plan, nil before login or
// before the meal-plan screen is first shown.
func (c *Controller) Week() model.MealPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Week()
}

// Current returns the top navigation entry. ok is false before login.
func (c *Controller) Current() (NavEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return NavEntry{Kind: view.KindAuth}, false
	}
	return c.session.top(), true
}

// WeeklyCalories is the Calories total over the in-memory meal plan.
func (c *Controller) WeeklyCalories() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.week.TotalCalories()
}

// SignIn authenticates and logs in on success.
func (c *Controller) SignIn(ctx context.Context, email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(email) == "" || password == "" {
		c.notify(view.Warn("Please fill in all fields"))
		return
	}
	u, err := c.accounts.Authenticate(ctx, email, password)
	switch {
	case err == nil:
		c.login(ctx, u)
	case errors.Is(err, errs.ErrUnauthorized):
		c.notify(view.Fail("Invalid email or password"))
	case errors.Is(err, errs.ErrRateLimited):
		c.notify(view.Fail("Too many failed attempts, try again later"))
	default:
		c.log.Error("sign in", zap.Error(err))
		c.notify(view.Fail("Could not sign in: " + err.Error()))
	}
}

// SignUp registers a new account. The user stays on the auth screen.
func (c *Controller) SignUp(ctx context.Context, username, email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		c.notify(view.Warn("Please fill in all fields"))
		return
	}
	_, err := c.accounts.Register(ctx, username, email, password)
	switch {
	case err == nil:
		c.notify(view.Success("User registered successfully"))
	case errors.Is(err, errs.ErrAlreadyExists):
		c.notify(view.Fail("Email already exists"))
	case errors.Is(err, errs.ErrInvalidInput):
		c.notify(view.Warn("Please fill in all fields"))
	default:
		c.log.Error("sign up", zap.Error(err))
		c.notify(view.Fail("Could not register: " + err.Error()))
	}
}

// Login starts a new session for u and shows home.
func (c *Controller) Login(ctx context.Context, u model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.login(ctx, u)
}

func (c *Controller) login(ctx context.Context, u model.User) {
	c.session = newSession(u)
	c.log.Info("signed in", zap.String("user_id", u.ID.String()))
	c.render(ctx)
}

// Logout stops speech, discards the session and shows the auth screen.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speaker.Stop()
	c.session = nil
	c.render(context.Background())
}

// NavigateTo pushes a screen and shows it. A detail screen whose recipe
// cannot be loaded is not pushed.
func (c *Controller) NavigateTo(ctx context.Context, kind view.Kind, arg model.RecipeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	if kind == view.KindRecipeDetails {
		r, ok := c.recipes.Details(ctx, arg)
		if !ok {
			c.notify(view.Fail("Could not load recipe details"))
			return
		}
		c.session.detail = r
	}
	c.session.push(NavEntry{Kind: kind, Arg: arg})
	c.render(ctx)
}

// NavigateBack pops the stack and re-renders the new top, re-fetching its
// data. With only the base entry left it does nothing.
func (c *Controller) NavigateBack(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || !c.session.pop() {
		return
	}
	c.session.detail = nil
	c.render(ctx)
}

// GoHome truncates the stack to the home entry.
func (c *Controller) GoHome(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	c.session.nav = c.session.nav[:1]
	c.session.detail = nil
	c.render(ctx)
}

// Search runs a text search and shows the results on the search screen.
func (c *Controller) Search(ctx context.Context, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	query = strings.TrimSpace(query)
	if query == "" {
		c.notify(view.Warn("Please enter a search term"))
		return
	}
	s := c.session
	s.searchQuery = query
	s.searchResults = snapshots(c.recipes.Search(ctx, query))
	s.searched = true
	c.ensureTop(view.KindSearch)
	c.render(ctx)
	if len(s.searchResults) == 0 {
		c.notify(view.Info("No recipes found"))
	}
}

// FindByIngredients searches by a comma-separated ingredient list.
func (c *Controller) FindByIngredients(ctx context.Context, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	var ingredients []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}
	if len(ingredients) == 0 {
		c.notify(view.Warn("Please enter some ingredients"))
		return
	}
	s := c.session
	s.ingredientQuery = strings.Join(ingredients, ", ")
	s.ingredientResults = snapshots(c.recipes.FindByIngredients(ctx, ingredients))
	s.ingredientsRun = true
	c.ensureTop(view.KindIngredients)
	c.render(ctx)
	if len(s.ingredientResults) == 0 {
		c.notify(view.Info("No recipes found with those ingredients"))
	}
}

// ToggleFavorite adds the recipe to favorites when it is not there yet.
// For a recipe that already is a favorite the screen offers RemoveFavorite.
func (c *Controller) ToggleFavorite(ctx context.Context, r model.RecipeSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	uid := c.session.User.ID
	favs, err := c.library.ListFavorites(ctx, uid)
	if err != nil {
		c.storeFailure("Failed to add favorite", err)
		return
	}
	if isFavorite(favs, r.ID) {
		c.notify(view.Info("Already in favorites"))
		return
	}
	if err := c.library.AddFavorite(ctx, uid, r); err != nil {
		c.storeFailure("Failed to add favorite", err)
		return
	}
	c.render(ctx)
	c.notify(view.Success("Added to favorites"))
}

// RemoveFavorite deletes the favorite and refreshes the screen.
func (c *Controller) RemoveFavorite(ctx context.Context, id model.RecipeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	removed, err := c.library.RemoveFavorite(ctx, c.session.User.ID, id)
	if err != nil {
		c.storeFailure("Failed to remove favorite", err)
		return
	}
	c.render(ctx)
	if removed {
		c.notify(view.Success("Removed from favorites"))
	} else {
		c.notify(view.Info("Recipe was not in favorites"))
	}
}

// SearchMealCandidates finds dishes to assign on the meal-plan screen.
func (c *Controller) SearchMealCandidates(ctx context.Context, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	query = strings.TrimSpace(query)
	if query == "" {
		c.notify(view.Warn("Please enter a search term"))
		return
	}
	c.session.candidateQuery = query
	c.session.candidates = snapshots(c.recipes.Search(ctx, query))
	if len(c.session.candidates) == 0 {
		c.notify(view.Info("No recipes found"))
		return
	}
	c.ensureTop(view.KindMealPlan)
	c.render(ctx)
}

// AssignMeal writes the recipe to the day, updates the in-memory plan and
// recomputes the weekly calories.
func (c *Controller) AssignMeal(ctx context.Context, day model.Weekday, r model.RecipeSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	if !day.Valid() {
		c.notify(view.Warn("Please select a day"))
		return
	}
	if !c.loadWeek(ctx) {
		return
	}
	if err := c.library.SaveMealPlan(ctx, c.session.User.ID, day, r); err != nil {
		c.storeFailure("Could not save meal plan", err)
		return
	}
	c.session.week[day] = r
	c.ensureTop(view.KindMealPlan)
	c.render(ctx)
}

// ClearMeal removes the day's recipe from the plan.
func (c *Controller) ClearMeal(ctx context.Context, day model.Weekday) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	if !day.Valid() {
		c.notify(view.Warn("Please select a day"))
		return
	}
	if !c.loadWeek(ctx) {
		return
	}
	if _, err := c.library.RemoveMealPlan(ctx, c.session.User.ID, day); err != nil {
		c.storeFailure("Could not update meal plan", err)
		return
	}
	delete(c.session.week, day)
	c.render(ctx)
}

// SuggestMeals asks the recipe service for a generated plan and shows it
// under the weekly grid.
func (c *Controller) SuggestMeals(ctx context.Context, frame recipeapi.TimeFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	plan, ok := c.recipes.GenerateMealPlan(ctx, frame)
	if !ok {
		c.notify(view.Fail("Could not generate a meal plan"))
		return
	}
	c.session.suggestions = plan
	c.ensureTop(view.KindMealPlan)
	c.render(ctx)
}

// ReadAloud speaks the instructions of the recipe on screen.
func (c *Controller) ReadAloud() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var text string
	if c.session != nil && c.session.detail != nil {
		text = strings.TrimSpace(c.session.detail.InstructionText())
	}
	if text == "" {
		c.notify(view.Warn("No instructions to read"))
		return
	}
	c.speaker.Speak(text)
}

// StopReading stops speech. Safe to call when nothing is playing.
func (c *Controller) StopReading() { c.speaker.Stop() }

func (c *Controller) requireSession() bool {
	if c.session == nil {
		c.notify(view.Fail("Login required"))
		return false
	}
	return true
}

// ensureTop pushes kind unless it is already on top.
func (c *Controller) ensureTop(kind view.Kind) {
	if c.session.top().Kind != kind {
		c.session.push(NavEntry{Kind: kind})
	}
}

// loadWeek reads the plan from the store on first use.
func (c *Controller) loadWeek(ctx context.Context) bool {
	if c.session.week != nil {
		return true
	}
	plan, err := c.library.GetMealPlan(ctx, c.session.User.ID)
	if err != nil {
		c.storeFailure("Could not load meal plan", err)
		return false
	}
	if plan == nil {
		plan = model.MealPlan{}
	}
	c.session.week = plan
	return true
}

func (c *Controller) storeFailure(msg string, err error) {
	c.log.Error(msg, zap.Error(err))
	c.notify(view.Fail(msg + ": " + err.Error()))
}

func (c *Controller) notify(n view.Notice) {
	if c.out != nil {
		c.out.Notify(n)
	}
}

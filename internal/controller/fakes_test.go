package controller

import (
	"context"
	"sync"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
	"github.com/gofrs/uuid/v5"
)

type fakeAccounts struct {
	users   map[string]model.User
	authErr error
}

var _ Accounts = (*fakeAccounts)(nil)

func (f *fakeAccounts) Register(_ context.Context, username, email, _ string) (uuid.UUID, error) {
	if _, ok := f.users[email]; ok {
		return uuid.Nil, errs.ErrAlreadyExists
	}
	id := uuid.Must(uuid.NewV4())
	f.users[email] = model.User{ID: id, Username: username, Email: email}
	return id, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, _ string) (model.User, error) {
	if f.authErr != nil {
		return model.User{}, f.authErr
	}
	u, ok := f.users[email]
	if !ok {
		return model.User{}, errs.ErrUnauthorized
	}
	return u, nil
}

type fakeLibrary struct {
	favs []model.Favorite
	week model.MealPlan

	saveErr error
	listErr error

	getCalls int
}

var _ Library = (*fakeLibrary)(nil)

func (f *fakeLibrary) AddFavorite(_ context.Context, uid uuid.UUID, r model.RecipeSnapshot) error {
	for _, x := range f.favs {
		if x.Recipe.ID == r.ID {
			return nil
		}
	}
	f.favs = append([]model.Favorite{{UserID: uid, Recipe: r}}, f.favs...)
	return nil
}

func (f *fakeLibrary) RemoveFavorite(_ context.Context, _ uuid.UUID, id model.RecipeID) (bool, error) {
	for i, x := range f.favs {
		if x.Recipe.ID == id {
			f.favs = append(f.favs[:i], f.favs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLibrary) ListFavorites(context.Context, uuid.UUID) ([]model.Favorite, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Favorite(nil), f.favs...), nil
}

func (f *fakeLibrary) SaveMealPlan(_ context.Context, _ uuid.UUID, day model.Weekday, r model.RecipeSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.week == nil {
		f.week = model.MealPlan{}
	}
	f.week[day] = r
	return nil
}

func (f *fakeLibrary) GetMealPlan(context.Context, uuid.UUID) (model.MealPlan, error) {
	f.getCalls++
	return f.week.Clone(), nil
}

func (f *fakeLibrary) RemoveMealPlan(_ context.Context, _ uuid.UUID, day model.Weekday) (bool, error) {
	_, ok := f.week[day]
	delete(f.week, day)
	return ok, nil
}

type fakeRecipes struct {
	byID        map[model.RecipeID]model.Recipe
	search      []model.Recipe
	byIngr      []model.Recipe
	plan        *model.GeneratedPlan
	detailCalls int
	lastIngr    []string
}

var _ Recipes = (*fakeRecipes)(nil)

func (f *fakeRecipes) Search(context.Context, string) []model.Recipe { return f.search }

func (f *fakeRecipes) Details(_ context.Context, id model.RecipeID) (*model.Recipe, bool) {
	f.detailCalls++
	r, ok := f.byID[id]
	if !ok {
		return nil, false
	}
	return &r, true
}

func (f *fakeRecipes) FindByIngredients(_ context.Context, in []string) []model.Recipe {
	f.lastIngr = in
	return f.byIngr
}

func (f *fakeRecipes) GenerateMealPlan(context.Context, recipeapi.TimeFrame) (*model.GeneratedPlan, bool) {
	return f.plan, f.plan != nil
}

type fakeSpeaker struct {
	mu       sync.Mutex
	said     []string
	stops    int
	speaking bool
}

var _ Speaker = (*fakeSpeaker)(nil)

func (s *fakeSpeaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.said = append(s.said, text)
	s.speaking = true
}

func (s *fakeSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.speaking = false
}

func (s *fakeSpeaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

type fakeRenderer struct {
	screens []view.Screen
	notices []view.Notice
}

var _ Renderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) Render(s view.Screen) { r.screens = append(r.screens, s) }
func (r *fakeRenderer) Notify(n view.Notice) { r.notices = append(r.notices, n) }

func (r *fakeRenderer) last() view.Screen { return r.screens[len(r.screens)-1] }

func (r *fakeRenderer) lastNotice() view.Notice { return r.notices[len(r.notices)-1] }

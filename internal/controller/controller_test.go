package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	c        *Controller
	accounts *fakeAccounts
	lib      *fakeLibrary
	recipes  *fakeRecipes
	speaker  *fakeSpeaker
	out      *fakeRenderer
	user     model.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	user := model.User{ID: uuid.Must(uuid.NewV4()), Username: "ann", Email: "ann@x.com"}
	h := &harness{
		accounts: &fakeAccounts{users: map[string]model.User{user.Email: user}},
		lib:      &fakeLibrary{},
		recipes: &fakeRecipes{byID: map[model.RecipeID]model.Recipe{
			"1": {ID: "1", Title: "Pasta", Instructions: "Boil the pasta.",
				Nutrition: &model.Nutrition{Nutrients: []model.Nutrient{{Name: "Calories", Amount: 500, Unit: "kcal"}}}},
			"2": {ID: "2", Title: "Plain"},
		}},
		speaker: &fakeSpeaker{},
		out:     &fakeRenderer{},
		user:    user,
	}
	h.c = New(h.accounts, h.lib, h.recipes, h.speaker, zaptest.NewLogger(t))
	h.c.Attach(h.out)
	return h
}

func (h *harness) login() { h.c.Login(context.Background(), h.user) }

func TestStart_ShowsAuth(t *testing.T) {
	h := newHarness(t)
	h.c.Start()
	require.Equal(t, view.KindAuth, h.out.last().Kind)
	_, ok := h.c.Current()
	require.False(t, ok)
}

func TestLogin_SeedsHome(t *testing.T) {
	h := newHarness(t)
	h.login()

	cur, ok := h.c.Current()
	require.True(t, ok)
	require.Equal(t, view.KindHome, cur.Kind)
	require.Equal(t, []NavEntry{{Kind: view.KindHome}}, h.c.Nav())

	sc := h.out.last()
	require.Equal(t, view.KindHome, sc.Kind)
	require.False(t, sc.CanGoBack)
	require.Equal(t, "ann", sc.Account.Username)
	require.Len(t, sc.Features, 4)
}

func TestNavigateBack_OnBaseEntryIsNoop(t *testing.T) {
	h := newHarness(t)
	h.login()
	renders := len(h.out.screens)

	h.c.NavigateBack(context.Background())

	require.Len(t, h.out.screens, renders, "nothing re-rendered")
	cur, _ := h.c.Current()
	require.Equal(t, view.KindHome, cur.Kind)
	require.Empty(t, h.out.notices)
}

func TestNavigateToAndBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.NavigateTo(ctx, view.KindSearch, "")
	require.Equal(t, view.KindSearch, h.out.last().Kind)
	require.True(t, h.out.last().CanGoBack)

	h.c.NavigateTo(ctx, view.KindProfile, "")
	require.Equal(t, "ann@x.com", h.out.last().Account.Email)

	h.c.NavigateBack(ctx)
	require.Equal(t, view.KindSearch, h.out.last().Kind)
	require.Len(t, h.c.Nav(), 2, "back must not push")

	h.c.GoHome(ctx)
	require.Equal(t, []NavEntry{{Kind: view.KindHome}}, h.c.Nav())
}

func TestRecipeDetail_RefetchedOnBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.NavigateTo(ctx, view.KindRecipeDetails, "1")
	sc := h.out.last()
	require.Equal(t, "Pasta", sc.Title)
	require.NotNil(t, sc.Detail)
	require.Equal(t, 1, h.recipes.detailCalls)

	h.c.NavigateTo(ctx, view.KindProfile, "")
	h.c.NavigateBack(ctx)
	require.Equal(t, view.KindRecipeDetails, h.out.last().Kind)
	require.Equal(t, 2, h.recipes.detailCalls, "detail re-fetched by id")

	cur, _ := h.c.Current()
	require.Equal(t, NavEntry{Kind: view.KindRecipeDetails, Arg: "1"}, cur)
}

func TestRecipeDetail_LoadFailureDoesNotPush(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.c.NavigateTo(context.Background(), view.KindRecipeDetails, "404")
	require.Equal(t, view.LevelError, h.out.lastNotice().Level)
	require.Len(t, h.c.Nav(), 1)
}

func TestSearch_ZeroResultsShowsInfoNotice(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.c.NavigateTo(context.Background(), view.KindSearch, "")

	h.c.Search(context.Background(), "pasta")

	n := h.out.lastNotice()
	require.Equal(t, view.LevelInfo, n.Level)
	require.Equal(t, "No recipes found", n.Message)
	sc := h.out.last()
	require.Empty(t, sc.Cards)
	require.Equal(t, view.NoRecipes, sc.Empty)
}

func TestSearch_EmptyQueryWarnsWithoutStateChange(t *testing.T) {
	h := newHarness(t)
	h.login()
	renders := len(h.out.screens)

	h.c.Search(context.Background(), "   ")

	require.Equal(t, view.Warn("Please enter a search term"), h.out.lastNotice())
	require.Len(t, h.out.screens, renders)
	require.Len(t, h.c.Nav(), 1)
}

func TestSearch_ResultsMarkFavorites(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()
	h.recipes.search = []model.Recipe{h.recipes.byID["1"], h.recipes.byID["2"]}
	h.lib.favs = []model.Favorite{{Recipe: model.RecipeSnapshot{ID: "2"}}}

	h.c.Search(ctx, "pasta")

	sc := h.out.last()
	require.Equal(t, view.KindSearch, sc.Kind, "search screen pushed")
	require.Equal(t, "pasta", sc.Query)
	require.Len(t, sc.Cards, 2)
	require.False(t, sc.Cards[0].Favorite)
	require.True(t, sc.Cards[1].Favorite)
}

func TestFindByIngredients(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.FindByIngredients(ctx, " , ")
	require.Equal(t, view.LevelWarning, h.out.lastNotice().Level)

	h.recipes.byIngr = []model.Recipe{h.recipes.byID["1"], h.recipes.byID["2"]}
	h.c.FindByIngredients(ctx, "egg, flour,")
	require.Equal(t, []string{"egg", "flour"}, h.recipes.lastIngr)
	require.Len(t, h.out.last().Cards, 2)
	require.Equal(t, view.KindIngredients, h.out.last().Kind)
}

func TestToggleFavorite_AddsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()
	h.c.NavigateTo(ctx, view.KindRecipeDetails, "1")
	require.False(t, h.out.last().Detail.Favorite)

	snap := h.recipes.byID["1"].Snapshot()
	h.c.ToggleFavorite(ctx, snap)
	require.Equal(t, view.Success("Added to favorites"), h.out.lastNotice())
	require.True(t, h.out.last().Detail.Favorite, "detail re-rendered with remove action")

	h.c.ToggleFavorite(ctx, snap)
	require.Len(t, h.lib.favs, 1)
	require.Equal(t, view.LevelInfo, h.out.lastNotice().Level)

	h.c.RemoveFavorite(ctx, "1")
	require.Empty(t, h.lib.favs)
	require.False(t, h.out.last().Detail.Favorite)
}

func TestFavoritesScreen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.NavigateTo(ctx, view.KindFavorites, "")
	require.Equal(t, view.NoFavorites, h.out.last().Empty)

	h.c.ToggleFavorite(ctx, model.RecipeSnapshot{ID: "7", Title: "Stew"})
	sc := h.out.last()
	require.Equal(t, view.KindFavorites, sc.Kind)
	require.Len(t, sc.Cards, 1)
	require.True(t, sc.Cards[0].Favorite)
	require.Empty(t, sc.Empty)

	h.lib.listErr = errs.Store("favorites.list", errors.New("down"))
	h.c.NavigateBack(ctx)
	h.c.NavigateTo(ctx, view.KindFavorites, "")
	require.Equal(t, view.LevelError, h.out.lastNotice().Level)
}

func TestAssignMeal_WeeklyCalories(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()
	h.c.NavigateTo(ctx, view.KindMealPlan, "")

	h.c.AssignMeal(ctx, model.Monday, h.recipes.byID["1"].Snapshot())
	h.c.AssignMeal(ctx, model.Tuesday, h.recipes.byID["2"].Snapshot())

	require.Equal(t, 500.0, h.c.WeeklyCalories())
	w := h.out.last().Week
	require.NotNil(t, w)
	require.Equal(t, "Total Calories: 500", w.CaloriesLabel())
	require.Len(t, h.lib.week, 2)
}

func TestAssignMeal_SameDayReplaces(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.AssignMeal(ctx, model.Friday, h.recipes.byID["1"].Snapshot())
	h.c.AssignMeal(ctx, model.Friday, h.recipes.byID["2"].Snapshot())

	require.Len(t, h.lib.week, 1)
	require.Equal(t, model.RecipeID("2"), h.lib.week[model.Friday].ID)
	require.Equal(t, model.RecipeID("2"), h.c.Week()[model.Friday].ID)
	require.Equal(t, 0.0, h.c.WeeklyCalories())
}

func TestAssignMeal_NoDayOrStoreFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.AssignMeal(ctx, "", h.recipes.byID["1"].Snapshot())
	require.Equal(t, view.Warn("Please select a day"), h.out.lastNotice())
	require.Nil(t, h.c.Week())

	h.lib.saveErr = errs.Store("meal_plan.save", errors.New("timeout"))
	h.c.AssignMeal(ctx, model.Monday, h.recipes.byID["1"].Snapshot())
	require.Equal(t, view.LevelError, h.out.lastNotice().Level)
	require.Empty(t, h.c.Week())
}

func TestMealPlan_LoadedOnceAndClear(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.lib.week = model.MealPlan{model.Sunday: {ID: "1", Title: "Pasta"}}
	h.login()

	h.c.NavigateTo(ctx, view.KindMealPlan, "")
	h.c.NavigateTo(ctx, view.KindProfile, "")
	h.c.NavigateBack(ctx)
	require.Equal(t, 1, h.lib.getCalls, "in-memory snapshot reused on back")
	require.Equal(t, "Pasta\nN/A min", h.out.last().Week.Days[6].Label)

	h.c.ClearMeal(ctx, model.Sunday)
	require.Nil(t, h.out.last().Week.Days[6].Recipe)
	require.Empty(t, h.lib.week)
}

func TestMealCandidatesAndSuggestions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.SearchMealCandidates(ctx, "soup")
	require.Equal(t, view.Info("No recipes found"), h.out.lastNotice())

	h.recipes.search = []model.Recipe{h.recipes.byID["1"]}
	h.c.SearchMealCandidates(ctx, " pasta ")
	require.Len(t, h.out.last().Week.Candidates, 1)
	require.Equal(t, "pasta", h.out.last().Query, "search box keeps the dish query")

	h.c.AssignMeal(ctx, model.Monday, h.recipes.byID["1"].Snapshot())
	require.Equal(t, "pasta", h.out.last().Query)

	h.c.SuggestMeals(ctx, recipeapi.Day)
	require.Equal(t, view.Fail("Could not generate a meal plan"), h.out.lastNotice())

	h.recipes.plan = &model.GeneratedPlan{Days: map[string]model.DayPlan{
		"day": {Meals: []model.RecipeSnapshot{{ID: "9", Title: "Toast"}}},
	}}
	h.c.SuggestMeals(ctx, recipeapi.Day)
	s := h.out.last().Week.Suggestions
	require.Len(t, s, 1)
	require.Equal(t, "Toast", s[0].Meals[0].Title)
}

func TestReadAloud(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()

	h.c.ReadAloud()
	require.Equal(t, view.Warn("No instructions to read"), h.out.lastNotice())

	h.c.NavigateTo(ctx, view.KindRecipeDetails, "2")
	h.c.ReadAloud()
	require.Equal(t, view.Warn("No instructions to read"), h.out.lastNotice())
	require.Empty(t, h.speaker.said)

	h.c.NavigateBack(ctx)
	h.c.NavigateTo(ctx, view.KindRecipeDetails, "1")
	h.c.ReadAloud()
	require.Equal(t, []string{"Boil the pasta."}, h.speaker.said)
	require.True(t, h.speaker.Speaking())

	h.c.StopReading()
	h.c.StopReading()
	require.False(t, h.speaker.Speaking())
}

func TestLogout_StopsSpeechAndClearsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()
	h.c.NavigateTo(ctx, view.KindRecipeDetails, "1")
	h.c.ReadAloud()

	h.c.Logout()

	require.False(t, h.speaker.Speaking())
	_, ok := h.c.User()
	require.False(t, ok)
	require.Nil(t, h.c.Nav())
	require.Equal(t, view.KindAuth, h.out.last().Kind)
	require.Nil(t, h.out.last().Account)

	h.c.Search(ctx, "pasta")
	require.Equal(t, view.Fail("Login required"), h.out.lastNotice())
}

func TestSignInAndSignUp(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.c.SignIn(ctx, "", "")
	require.Equal(t, view.Warn("Please fill in all fields"), h.out.lastNotice())

	h.c.SignIn(ctx, "nobody@x.com", "pw")
	require.Equal(t, view.Fail("Invalid email or password"), h.out.lastNotice())

	h.c.SignUp(ctx, "bob", "ann@x.com", "pw")
	require.Equal(t, view.Fail("Email already exists"), h.out.lastNotice())

	h.c.SignUp(ctx, "bob", "bob@x.com", "pw")
	require.Equal(t, view.Success("User registered successfully"), h.out.lastNotice())
	_, ok := h.c.User()
	require.False(t, ok, "registration does not sign in")

	h.accounts.authErr = errs.ErrRateLimited
	h.c.SignIn(ctx, "bob@x.com", "pw")
	require.Equal(t, view.LevelError, h.out.lastNotice().Level)
	_, ok = h.c.User()
	require.False(t, ok)

	h.accounts.authErr = nil
	h.c.SignIn(ctx, "bob@x.com", "pw")
	u, ok := h.c.User()
	require.True(t, ok)
	require.Equal(t, "bob", u.Username)
	require.Equal(t, view.KindHome, h.out.last().Kind)
}

func TestStateAccessors_ReturnCopies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login()
	h.c.AssignMeal(ctx, model.Monday, h.recipes.byID["1"].Snapshot())

	nav := h.c.Nav()
	nav[0] = NavEntry{Kind: view.KindProfile}
	week := h.c.Week()
	delete(week, model.Monday)

	require.Equal(t, []NavEntry{{Kind: view.KindHome}, {Kind: view.KindMealPlan}}, h.c.Nav())
	require.Contains(t, h.c.Week(), model.Monday)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			h.c.NavigateTo(ctx, view.KindFavorites, "")
			h.c.NavigateBack(ctx)
		}
	}()
	empty := 0
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if len(h.c.Nav()) == 0 {
				empty++
			}
			_ = h.c.Week()
		}
	}()
	wg.Wait()
	require.Zero(t, empty)
}

// Package ui draws view.Screen values with fyne and forwards user input to
// the controller. Input handlers never block the event loop: every action
// runs on its own goroutine and the controller renders back through fyne.Do.
package ui

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
)

// Actions is the controller surface the screens call into.
type Actions interface {
	SignIn(ctx context.Context, email, password string)
	SignUp(ctx context.Context, username, email, password string)
	Logout()
	NavigateTo(ctx context.Context, kind view.Kind, arg model.RecipeID)
	NavigateBack(ctx context.Context)
	GoHome(ctx context.Context)
	Search(ctx context.Context, query string)
	FindByIngredients(ctx context.Context, input string)
	ToggleFavorite(ctx context.Context, r model.RecipeSnapshot)
	RemoveFavorite(ctx context.Context, id model.RecipeID)
	SearchMealCandidates(ctx context.Context, query string)
	AssignMeal(ctx context.Context, day model.Weekday, r model.RecipeSnapshot)
	ClearMeal(ctx context.Context, day model.Weekday)
	SuggestMeals(ctx context.Context, frame recipeapi.TimeFrame)
	ReadAloud()
	StopReading()
}

// UI renders screens into a single window.
type UI struct {
	ctx    context.Context
	win    fyne.Window
	act    Actions
	log    *zap.Logger
	images *imageLoader

	// dispatch runs an input handler off the event loop.
	dispatch func(func())
}

// New creates a renderer for win. Bind must be called before the first
// screen is shown.
func New(ctx context.Context, win fyne.Window, log *zap.Logger) *UI {
	u := &UI{
		ctx:    ctx,
		win:    win,
		log:    log,
		images: newImageLoader(&http.Client{Timeout: 15 * time.Second}, log),
	}
	u.dispatch = func(f func()) { go f() }
	return u
}

// Bind sets the action target.
func (u *UI) Bind(a Actions) { u.act = a }

// Render replaces the window content. Safe to call from any goroutine.
func (u *UI) Render(s view.Screen) {
	fyne.Do(func() {
		u.win.SetTitle(s.Title)
		u.win.SetContent(u.build(s))
	})
}

// Notify shows a modal dialog over the current screen.
func (u *UI) Notify(n view.Notice) {
	fyne.Do(func() {
		if n.Level == view.LevelError {
			dialog.ShowError(errors.New(n.Message), u.win)
			return
		}
		dialog.ShowInformation(n.Title, n.Message, u.win)
	})
}

// run executes an action off the event loop. A panic in the action is
// logged and swallowed so the window stays usable.
func (u *UI) run(name string, f func(ctx context.Context)) {
	u.dispatch(func() {
		defer func() {
			if r := recover(); r != nil {
				u.log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("action", name),
				)
			}
		}()
		f(u.ctx)
	})
}

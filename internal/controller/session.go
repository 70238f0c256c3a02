package controller

import (
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/view"
)

// NavEntry is one element of the navigation stack. Arg carries the recipe
// ID for detail screens and is empty otherwise.
type NavEntry struct {
	Kind view.Kind
	Arg  model.RecipeID
}

// Session is the state of one signed-in user. It is created at login and
// discarded at logout.
type Session struct {
	User model.User

	nav []NavEntry

	// week is nil until the meal-plan screen is first shown.
	week model.MealPlan

	searchQuery       string
	searchResults     []model.RecipeSnapshot
	searched          bool
	ingredientQuery   string
	ingredientResults []model.RecipeSnapshot
	ingredientsRun    bool

	candidateQuery string
	candidates     []model.RecipeSnapshot
	suggestions    *model.GeneratedPlan

	// detail is the recipe on the current detail screen, if any.
	detail *model.Recipe
}

func newSession(u model.User) *Session {
	return &Session{User: u, nav: []NavEntry{{Kind: view.KindHome}}}
}

func (s *Session) top() NavEntry { return s.nav[len(s.nav)-1] }

func (s *Session) push(e NavEntry) { s.nav = append(s.nav, e) }

// pop removes the top entry unless it is the base one.
func (s *Session) pop() bool {
	if len(s.nav) <= 1 {
		return false
	}
	s.nav = s.nav[:len(s.nav)-1]
	return true
}

// Nav returns a copy of the navigation stack.
func (s *Session) Nav() []NavEntry { return append([]NavEntry(nil), s.nav...) }

// Week returns a copy of the in-memory meal plan, nil if not loaded yet.
func (s *Session) Week() model.MealPlan {
	if s.week == nil {
		return nil
	}
	return s.week.Clone()
}

func isFavorite(favs []model.Favorite, id model.RecipeID) bool {
	for _, f := range favs {
		if f.Recipe.ID == id {
			return true
		}
	}
	return false
}

func snapshots(rs []model.Recipe) []model.RecipeSnapshot {
	out := make([]model.RecipeSnapshot, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Snapshot())
	}
	return out
}

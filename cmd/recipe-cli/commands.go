package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/and161185/recipe-keeper/internal/controller"
	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/view"
)

// cli runs one subcommand against the services and prints to out.
type cli struct {
	out      io.Writer
	in       io.Reader
	accounts controller.Accounts
	library  controller.Library
	recipes  controller.Recipes
	speaker  controller.Speaker

	now func() time.Time
}

// errUsage is returned for a malformed command line.
var errUsage = errors.New("usage")

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return c.register(ctx, rest)
	case "login":
		return c.login(ctx, rest)
	case "logout":
		if err := clearSession(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "ok")
		return nil
	case "whoami":
		s, err := loadSession()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s <%s>\n", s.Username, s.Email)
		return nil
	case "search":
		return c.search(ctx, rest)
	case "ingredients":
		return c.ingredients(ctx, rest)
	case "show":
		return c.show(ctx, rest)
	case "read":
		return c.read(ctx, rest)
	case "fav":
		return c.favorites(ctx)
	case "fav-add":
		return c.favoriteAdd(ctx, rest)
	case "fav-rm":
		return c.favoriteRemove(ctx, rest)
	case "plan":
		return c.plan(ctx)
	case "plan-set":
		return c.planSet(ctx, rest)
	case "plan-clear":
		return c.planClear(ctx, rest)
	case "suggest":
		return c.suggest(ctx, rest)
	default:
		return errUsage
	}
}

// password resolves "-" to the first line of stdin.
func (c *cli) password(p string) (string, error) {
	if p != "-" {
		return p, nil
	}
	b, err := io.ReadAll(c.in)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimRight(line, "\r"), nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	u := fs.String("u", "", "username")
	e := fs.String("e", "", "email")
	p := fs.String("p", "", "password, or - to read stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := c.password(*p)
	if err != nil {
		return err
	}
	id, err := c.accounts.Register(ctx, *u, *e, pw)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, id)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	e := fs.String("e", "", "email")
	p := fs.String("p", "", "password, or - to read stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := c.password(*p)
	if err != nil {
		return err
	}
	u, err := c.accounts.Authenticate(ctx, *e, pw)
	if err != nil {
		return err
	}
	err = saveSession(sessionFile{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ExpiresAt: c.now().Add(sessionTTL),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s\n", u.Username)
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print raw results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if q == "" {
		return fmt.Errorf("%w: search query is empty", errs.ErrInvalidInput)
	}
	return c.printRecipes(c.recipes.Search(ctx, q), *asJSON)
}

func (c *cli) ingredients(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ingredients", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print raw results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list := splitIngredients(strings.Join(fs.Args(), ","))
	if len(list) == 0 {
		return fmt.Errorf("%w: no ingredients given", errs.ErrInvalidInput)
	}
	return c.printRecipes(c.recipes.FindByIngredients(ctx, list), *asJSON)
}

func (c *cli) printRecipes(list []model.Recipe, asJSON bool) error {
	if asJSON {
		return printJSON(c.out, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, view.NoRecipes)
		return nil
	}
	for _, r := range list {
		card := view.NewCard(r.Snapshot(), false)
		fmt.Fprintf(c.out, "%-10s %s (%s, %s)\n", card.RecipeID, card.Title, card.ReadyTime, card.Servings)
	}
	return nil
}

// recipe parses -id (and -json) from args and loads the recipe.
func (c *cli) recipe(ctx context.Context, name string, args []string) (*model.Recipe, bool, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.String("id", "", "recipe id")
	asJSON := fs.Bool("json", false, "print raw recipe")
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	rid := model.RecipeID(strings.TrimSpace(*id))
	if rid == "" {
		return nil, false, fmt.Errorf("%w: need -id", errs.ErrInvalidInput)
	}
	r, ok := c.recipes.Details(ctx, rid)
	if !ok {
		return nil, false, fmt.Errorf("could not load recipe %s", rid)
	}
	return r, *asJSON, nil
}

func (c *cli) show(ctx context.Context, args []string) error {
	r, asJSON, err := c.recipe(ctx, "show", args)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(c.out, r)
	}
	printDetail(c.out, view.NewRecipeDetail(*r, false))
	return nil
}

// read speaks the instructions and waits until the utterance ends or ctx
// is cancelled.
func (c *cli) read(ctx context.Context, args []string) error {
	r, _, err := c.recipe(ctx, "read", args)
	if err != nil {
		return err
	}
	d := view.NewRecipeDetail(*r, false)
	if !d.CanRead() {
		fmt.Fprintln(c.out, view.NoInstructions)
		return nil
	}
	c.speaker.Speak(d.InstructionText)
	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()
	for c.speaker.Speaking() {
		select {
		case <-ctx.Done():
			c.speaker.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func (c *cli) favorites(ctx context.Context) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	favs, err := c.library.ListFavorites(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(favs) == 0 {
		fmt.Fprintln(c.out, view.NoFavorites)
		return nil
	}
	for _, f := range favs {
		card := view.NewCard(f.Recipe, true)
		fmt.Fprintf(c.out, "%-10s %s (%s)\n", card.RecipeID, card.Title, card.ReadyTime)
	}
	return nil
}

func (c *cli) favoriteAdd(ctx context.Context, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	r, _, err := c.recipe(ctx, "fav-add", args)
	if err != nil {
		return err
	}
	if err := c.library.AddFavorite(ctx, s.UserID, r.Snapshot()); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Recipe added to favorites!")
	return nil
}

func (c *cli) favoriteRemove(ctx context.Context, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("fav-rm", flag.ContinueOnError)
	id := fs.String("id", "", "recipe id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	removed, err := c.library.RemoveFavorite(ctx, s.UserID, model.RecipeID(strings.TrimSpace(*id)))
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(c.out, "Recipe was not in favorites")
		return nil
	}
	fmt.Fprintln(c.out, "Recipe removed from favorites")
	return nil
}

func (c *cli) plan(ctx context.Context) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	p, err := c.library.GetMealPlan(ctx, s.UserID)
	if err != nil {
		return err
	}
	printWeek(c.out, view.NewWeekPlan(p))
	return nil
}

func (c *cli) planSet(ctx context.Context, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("plan-set", flag.ContinueOnError)
	dayFlag := fs.String("day", "", "weekday")
	id := fs.String("id", "", "recipe id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := model.ParseWeekday(*dayFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	r, _, err := c.recipe(ctx, "plan-set", []string{"-id", *id})
	if err != nil {
		return err
	}
	if err := c.library.SaveMealPlan(ctx, s.UserID, day, r.Snapshot()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Meal plan updated for %s\n", day)
	return nil
}

func (c *cli) planClear(ctx context.Context, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("plan-clear", flag.ContinueOnError)
	dayFlag := fs.String("day", "", "weekday")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := model.ParseWeekday(*dayFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	if _, err := c.library.RemoveMealPlan(ctx, s.UserID, day); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Meal cleared for %s\n", day)
	return nil
}

func (c *cli) suggest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	frame := fs.String("frame", string(recipeapi.Day), "day or week")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tf := recipeapi.TimeFrame(strings.ToLower(*frame))
	if tf != recipeapi.Day && tf != recipeapi.Week {
		return fmt.Errorf("%w: frame must be day or week", errs.ErrInvalidInput)
	}
	plan, ok := c.recipes.GenerateMealPlan(ctx, tf)
	if !ok {
		return errors.New("could not generate a meal plan")
	}
	for _, sg := range view.NewSuggestions(plan) {
		fmt.Fprintf(c.out, "%s (%s)\n", sg.Day, sg.Calories)
		for _, m := range sg.Meals {
			fmt.Fprintf(c.out, "  %-10s %s\n", m.RecipeID, m.Title)
		}
	}
	return nil
}

func splitIngredients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDetail(w io.Writer, d view.RecipeDetail) {
	fmt.Fprintf(w, "%s [%s]\n\nIngredients:\n", d.Title, d.ID)
	if d.IngredientsNote != "" {
		fmt.Fprintf(w, "  %s\n", d.IngredientsNote)
	}
	for _, in := range d.Ingredients {
		fmt.Fprintf(w, "  %s\n", in)
	}

	fmt.Fprintln(w, "\nInstructions:")
	switch {
	case d.InstructionsNote != "":
		fmt.Fprintf(w, "  %s\n", d.InstructionsNote)
	case len(d.Sections) > 0:
		for _, sec := range d.Sections {
			if sec.Name != "" {
				fmt.Fprintf(w, "  %s\n", sec.Name)
			}
			for _, st := range sec.Steps {
				fmt.Fprintf(w, "  %s\n", st)
			}
		}
	default:
		fmt.Fprintf(w, "  %s\n", d.InstructionText)
	}

	fmt.Fprintln(w, "\nNutrition:")
	if d.NutritionNote != "" {
		fmt.Fprintf(w, "  %s\n", d.NutritionNote)
	}
	for _, n := range d.Nutrition {
		fmt.Fprintf(w, "  %s: %s\n", n.Name, n.Value)
	}
}

func printWeek(w io.Writer, p view.WeekPlan) {
	for _, slot := range p.Days {
		label := view.NoMeal
		if slot.Recipe != nil {
			label = fmt.Sprintf("%s (%s) [%s]", slot.Recipe.Title, slot.Recipe.ReadyTime, slot.Recipe.RecipeID)
		}
		fmt.Fprintf(w, "%-10s %s\n", slot.Day, label)
	}
	fmt.Fprintln(w, p.CaloriesLabel())
}

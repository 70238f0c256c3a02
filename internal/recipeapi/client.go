// Package recipeapi is a client for the Spoonacular recipe web service.
//
// Every call is one-shot and fails soft: errors are logged and the caller
// gets an empty result (or ok=false), never an error value.
package recipeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/and161185/recipe-keeper/internal/model"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Spoonacular endpoint.
const DefaultBaseURL = "https://api.spoonacular.com"

const resultLimit = "10"

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the recipe service.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    *zap.Logger
}

// New constructs a Client.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: base, apiKey: cfg.APIKey, http: hc, log: log.Named("recipeapi")}
}

// Search runs a text query and returns up to ten recipes with information
// and nutrition filled in.
func (c *Client) Search(ctx context.Context, query string) []model.Recipe {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", resultLimit)
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")
	params.Set("addRecipeNutrition", "true")

	var body struct {
		Results []model.Recipe `json:"results"`
	}
	if err := c.get(ctx, "/recipes/complexSearch", params, &body); err != nil {
		c.log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return []model.Recipe{}
	}
	if body.Results == nil {
		return []model.Recipe{}
	}
	return body.Results
}

// Details fetches the full recipe including nutrition. ok is false on any failure.
func (c *Client) Details(ctx context.Context, id model.RecipeID) (*model.Recipe, bool) {
	if id == "" {
		return nil, false
	}
	params := url.Values{}
	params.Set("includeNutrition", "true")

	var r model.Recipe
	path := "/recipes/" + url.PathEscape(id.String()) + "/information"
	if err := c.get(ctx, path, params, &r); err != nil {
		c.log.Warn("details failed", zap.String("recipe_id", id.String()), zap.Error(err))
		return nil, false
	}
	if r.ID == "" {
		r.ID = id
	}
	return &r, true
}

// FindByIngredients returns recipes that use the given ingredients. Each
// match is expanded with Details; a match whose details fail is dropped.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string) []model.Recipe {
	cleaned := make([]string, 0, len(ingredients))
	for _, in := range ingredients {
		if in = strings.TrimSpace(in); in != "" {
			cleaned = append(cleaned, in)
		}
	}
	params := url.Values{}
	params.Set("ingredients", strings.Join(cleaned, ","))
	params.Set("number", resultLimit)
	params.Set("ignorePantry", "true")
	params.Set("ranking", "1")

	var matches []struct {
		ID    model.RecipeID `json:"id"`
		Title string         `json:"title"`
	}
	if err := c.get(ctx, "/recipes/findByIngredients", params, &matches); err != nil {
		c.log.Warn("find by ingredients failed", zap.Strings("ingredients", cleaned), zap.Error(err))
		return []model.Recipe{}
	}

	out := make([]model.Recipe, 0, len(matches))
	for _, m := range matches {
		r, ok := c.Details(ctx, m.ID)
		if !ok {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// TimeFrame selects the span of a generated meal plan.
type TimeFrame string

const (
	Day  TimeFrame = "day"
	Week TimeFrame = "week"
)

type generatedMeal struct {
	ID             model.RecipeID `json:"id"`
	Title          string         `json:"title"`
	ImageType      string         `json:"imageType"`
	ReadyInMinutes int            `json:"readyInMinutes"`
	Servings       int            `json:"servings"`
}

type generatedDay struct {
	Meals     []generatedMeal    `json:"meals"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// GenerateMealPlan asks the service for a meal plan. A daily frame is keyed
// "day"; a weekly frame by lower-case weekday name.
func (c *Client) GenerateMealPlan(ctx context.Context, frame TimeFrame) (*model.GeneratedPlan, bool) {
	if frame != Day && frame != Week {
		frame = Day
	}
	params := url.Values{}
	params.Set("timeFrame", string(frame))

	var raw struct {
		generatedDay
		Week map[string]generatedDay `json:"week"`
	}
	if err := c.get(ctx, "/mealplanner/generate", params, &raw); err != nil {
		c.log.Warn("generate meal plan failed", zap.String("time_frame", string(frame)), zap.Error(err))
		return nil, false
	}

	plan := &model.GeneratedPlan{Days: map[string]model.DayPlan{}}
	if len(raw.Week) > 0 {
		for name, d := range raw.Week {
			plan.Days[strings.ToLower(name)] = c.dayPlan(d)
		}
	} else {
		plan.Days["day"] = c.dayPlan(raw.generatedDay)
	}
	return plan, true
}

func (c *Client) dayPlan(d generatedDay) model.DayPlan {
	out := model.DayPlan{Meals: make([]model.RecipeSnapshot, 0, len(d.Meals)), Nutrients: d.Nutrients}
	for _, m := range d.Meals {
		s := model.RecipeSnapshot{
			ID:             m.ID,
			Title:          m.Title,
			ReadyInMinutes: m.ReadyInMinutes,
			Servings:       m.Servings,
		}
		if m.ImageType != "" && m.ID != "" {
			s.Image = fmt.Sprintf("https://spoonacular.com/recipeImages/%s-556x370.%s", m.ID, m.ImageType)
		}
		out.Meals = append(out.Meals, s)
	}
	return out
}

// redact drops the query, and with it the API key, from the URL a
// transport error carries.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL, _, _ = strings.Cut(ue.URL, "?")
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	params.Set("apiKey", c.apiKey)
	u := c.base + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return redact(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request", zap.String("path", path), zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

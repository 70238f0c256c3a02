// Package config loads application settings from a .env file, the process
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selected by the STORE_URI scheme.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds the application configuration.
type Config struct {
	RecipeAPIKey     string
	RecipeAPIURL     string
	RecipeAPITimeout time.Duration

	StoreURI      string
	StoreDatabase string // MongoDB database name

	SpeechCommand  string
	SpeechDisabled bool

	LoginMaxFails int
	LoginWindow   time.Duration
	LoginBlockFor time.Duration

	Debug bool

	Args []string // positional arguments left after the flags
}

// Backend returns BackendPostgres or BackendMongo based on the StoreURI scheme.
func (c *Config) Backend() (string, error) {
	switch {
	case strings.HasPrefix(c.StoreURI, "postgres://"), strings.HasPrefix(c.StoreURI, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(c.StoreURI, "mongodb://"), strings.HasPrefix(c.StoreURI, "mongodb+srv://"):
		return BackendMongo, nil
	default:
		return "", fmt.Errorf("STORE_URI: unsupported scheme in %q", redact(c.StoreURI))
	}
}

// Load reads the configuration. args are the command-line arguments without
// the program name.
func Load(args []string) (*Config, error) {
	envFile := ".env"
	if v := flagValue(args, "env-file"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	timeout, err := getDuration("RECIPE_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	maxFails, err := getInt("LOGIN_MAX_FAILS", 5)
	if err != nil {
		return nil, err
	}
	window, err := getDuration("LOGIN_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	blockFor, err := getDuration("LOGIN_BLOCK_FOR", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	disabled, err := getBool("SPEECH_DISABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{RecipeAPIKey: getEnv("RECIPE_API_KEY", "")}
	ff := flag.NewFlagSet("recipe-keeper", flag.ContinueOnError)
	ff.String("env-file", envFile, "dotenv file to read before the environment")
	ff.StringVar(&cfg.RecipeAPIURL, "api-url", getEnv("RECIPE_API_URL", "https://api.spoonacular.com"), "recipe service base URL")
	ff.DurationVar(&cfg.RecipeAPITimeout, "api-timeout", timeout, "recipe service request timeout")
	ff.StringVar(&cfg.StoreURI, "store-uri", getEnv("STORE_URI", ""), "postgres:// or mongodb:// connection string")
	ff.StringVar(&cfg.StoreDatabase, "store-db", getEnv("STORE_DATABASE", "recipe_app"), "MongoDB database name")
	ff.StringVar(&cfg.SpeechCommand, "speech-cmd", getEnv("SPEECH_COMMAND", ""), "text-to-speech command line")
	ff.BoolVar(&cfg.SpeechDisabled, "no-speech", disabled, "disable voice output")
	ff.IntVar(&cfg.LoginMaxFails, "login-max-fails", maxFails, "failed logins before a block")
	ff.DurationVar(&cfg.LoginWindow, "login-window", window, "window for counting failed logins")
	ff.DurationVar(&cfg.LoginBlockFor, "login-block-for", blockFor, "block duration after too many failures")
	ff.BoolVar(&cfg.Debug, "debug", false, "development logging")
	if err := ff.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = ff.Args()

	if cfg.RecipeAPIKey == "" {
		return nil, errors.New("RECIPE_API_KEY environment variable not set")
	}
	if cfg.StoreURI == "" {
		return nil, errors.New("STORE_URI environment variable not set")
	}
	if _, err := cfg.Backend(); err != nil {
		return nil, err
	}
	if cfg.LoginMaxFails <= 0 {
		return nil, fmt.Errorf("LOGIN_MAX_FAILS must be positive, got %d", cfg.LoginMaxFails)
	}
	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// flagValue returns the value of -name or -name=value in args, if present.
func flagValue(args []string, name string) string {
	for i, arg := range args {
		a := strings.TrimLeft(arg, "-")
		if a == arg {
			continue
		}
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, name+"="); ok {
			return v
		}
	}
	return ""
}

// redact hides the userinfo part of a connection string.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}

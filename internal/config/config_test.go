package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RECIPE_API_KEY", "RECIPE_API_URL", "RECIPE_API_TIMEOUT", "STORE_URI", "STORE_DATABASE",
		"SPEECH_COMMAND", "SPEECH_DISABLED", "LOGIN_MAX_FAILS", "LOGIN_WINDOW", "LOGIN_BLOCK_FOR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECIPE_API_KEY", "key")
	t.Setenv("STORE_URI", "postgres://u:p@localhost:5432/recipes")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, "key", cfg.RecipeAPIKey)
	require.Equal(t, "https://api.spoonacular.com", cfg.RecipeAPIURL)
	require.Equal(t, 15*time.Second, cfg.RecipeAPITimeout)
	require.Equal(t, "recipe_app", cfg.StoreDatabase)
	require.Equal(t, 5, cfg.LoginMaxFails)
	require.Equal(t, 15*time.Minute, cfg.LoginBlockFor)
	require.False(t, cfg.SpeechDisabled)
	require.False(t, cfg.Debug)

	b, err := cfg.Backend()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, b)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECIPE_API_KEY", "key")
	t.Setenv("STORE_URI", "postgres://localhost/a")
	t.Setenv("RECIPE_API_TIMEOUT", "3s")
	t.Setenv("SPEECH_DISABLED", "true")

	args := append(noEnvFile(t), "-store-uri", "mongodb://localhost:27017", "-debug", "-api-timeout=5s")
	cfg, err := Load(args)
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017", cfg.StoreURI)
	require.Equal(t, 5*time.Second, cfg.RecipeAPITimeout)
	require.True(t, cfg.SpeechDisabled)
	require.True(t, cfg.Debug)

	b, err := cfg.Backend()
	require.NoError(t, err)
	require.Equal(t, BackendMongo, b)
}

func TestLoad_PositionalArgs(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECIPE_API_KEY", "key")
	t.Setenv("STORE_URI", "postgres://localhost/a")

	cfg, err := Load(append(noEnvFile(t), "-no-speech", "search", "-n", "3", "pasta"))
	require.NoError(t, err)
	require.True(t, cfg.SpeechDisabled)
	require.Equal(t, []string{"search", "-n", "3", "pasta"}, cfg.Args)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPE_API_KEY=from-file\nSTORE_URI=mongodb+srv://cluster.example.net\n"), 0o600))

	cfg, err := Load([]string{"-env-file=" + path})
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.RecipeAPIKey)
	require.Equal(t, "mongodb+srv://cluster.example.net", cfg.StoreURI)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingAPIKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_URI", "postgres://localhost/a")
		_, err := Load(noEnvFile(t))
		require.EqualError(t, err, "RECIPE_API_KEY environment variable not set")
	})

	t.Run("MissingStoreURI", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RECIPE_API_KEY", "key")
		_, err := Load(noEnvFile(t))
		require.EqualError(t, err, "STORE_URI environment variable not set")
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RECIPE_API_KEY", "key")
		t.Setenv("STORE_URI", "mysql://root:secret@db/app")
		_, err := Load(noEnvFile(t))
		require.Error(t, err)
		require.NotContains(t, err.Error(), "secret")
	})

	t.Run("BadDuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RECIPE_API_KEY", "key")
		t.Setenv("STORE_URI", "postgres://localhost/a")
		t.Setenv("LOGIN_WINDOW", "soon")
		_, err := Load(noEnvFile(t))
		require.ErrorContains(t, err, "LOGIN_WINDOW")
	})
}

// Command recipe-cli is a terminal companion to the Recipe Keeper desktop
// application. It shares the store and recipe service configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/recipe-keeper/internal/bootstrap"
	"github.com/and161185/recipe-keeper/internal/config"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/service"
	"github.com/and161185/recipe-keeper/internal/speech"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `recipe-cli
Usage:
  recipe-cli [config flags] <cmd> [args]

Commands:
  version
  register    -u <username> -e <email> -p <password|->
  login       -e <email> -p <password|->       (remembers the session)
  logout
  whoami
  search      [-json] <query>
  ingredients [-json] <a,b,c>
  show        -id <recipe> [-json]
  read        -id <recipe>                    (speaks the instructions)
  fav
  fav-add     -id <recipe>
  fav-rm      -id <recipe>
  plan
  plan-set    -day <weekday> -id <recipe>
  plan-clear  -day <weekday>
  suggest     [-frame day|week]
`)
}

func main() { os.Exit(run()) }

// run loads configuration, wires the services and dispatches a subcommand.
// It returns the process exit code.
func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(cfg.Args) == 0 {
		usage()
		return 2
	}
	if cfg.Args[0] == "version" {
		fmt.Printf("recipe-cli %s (%s)\n", version, buildDate)
		return 0
	}

	logger := zap.NewNop()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := bootstrap.Open(openCtx, cfg, logger)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer st.Close()

	player := speech.NewPlayer(speech.NewSynthesizer(cfg.SpeechCommand, cfg.SpeechDisabled, logger), logger)
	defer player.Close()

	c := &cli{
		out:      os.Stdout,
		in:       os.Stdin,
		accounts: service.NewAuthService(st.Users, st.Limiter, logger),
		library:  service.NewLibraryService(st.Favorites, st.Plans),
		recipes: recipeapi.New(recipeapi.Config{
			BaseURL: cfg.RecipeAPIURL,
			APIKey:  cfg.RecipeAPIKey,
			Timeout: cfg.RecipeAPITimeout,
		}, logger),
		speaker: player,
		now:     time.Now,
	}
	if err := c.run(ctx, cfg.Args); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

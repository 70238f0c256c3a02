// Command recipe-keeper starts the Recipe Keeper desktop application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/and161185/recipe-keeper/internal/bootstrap"
	"github.com/and161185/recipe-keeper/internal/config"
	"github.com/and161185/recipe-keeper/internal/controller"
	"github.com/and161185/recipe-keeper/internal/recipeapi"
	"github.com/and161185/recipe-keeper/internal/service"
	"github.com/and161185/recipe-keeper/internal/speech"
	"github.com/and161185/recipe-keeper/internal/ui"
)

const appID = "com.github.and161185.recipekeeper"

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens the store and runs the window until it is
// closed or the process is signalled.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// logger is not configured yet
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	// Services
	accounts := service.NewAuthService(st.Users, st.Limiter, logger)
	library := service.NewLibraryService(st.Favorites, st.Plans)
	recipes := recipeapi.New(recipeapi.Config{
		BaseURL: cfg.RecipeAPIURL,
		APIKey:  cfg.RecipeAPIKey,
		Timeout: cfg.RecipeAPITimeout,
	}, logger)

	player := speech.NewPlayer(speech.NewSynthesizer(cfg.SpeechCommand, cfg.SpeechDisabled, logger), logger)
	defer player.Close()

	ctrl := controller.New(accounts, library, recipes, player, logger)

	// Window
	fyneApp := app.NewWithID(appID)
	win := fyneApp.NewWindow("Recipe Keeper")
	win.Resize(fyne.NewSize(1100, 800))
	win.CenterOnScreen()
	win.SetMaster()

	renderer := ui.New(ctx, win, logger)
	renderer.Bind(ctrl)
	ctrl.Attach(renderer)
	fyneApp.Lifecycle().SetOnStarted(ctrl.Start)

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	win.ShowAndRun()
	logger.Info("shutdown complete")
}

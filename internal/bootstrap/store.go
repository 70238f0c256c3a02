// Package bootstrap opens the configured store for the commands.
package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/recipe-keeper/internal/config"
	"github.com/and161185/recipe-keeper/internal/limiter"
	"github.com/and161185/recipe-keeper/internal/migrate"
	"github.com/and161185/recipe-keeper/internal/repository"
	"github.com/and161185/recipe-keeper/internal/repository/mongo"
	"github.com/and161185/recipe-keeper/internal/repository/postgres"
)

// Store bundles the repositories and login limiter of one backend.
type Store struct {
	Users     repository.UserRepository
	Favorites repository.FavoriteRepository
	Plans     repository.MealPlanRepository
	Limiter   limiter.Limiter
	close     func()
}

// Close releases the backend connection.
func (s *Store) Close() { s.close() }

// Open connects to the backend selected by cfg.StoreURI. PostgreSQL is
// migrated first; MongoDB gets its indexes.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}
	policy := limiter.Policy{
		Window:   cfg.LoginWindow,
		MaxFails: cfg.LoginMaxFails,
		BlockFor: cfg.LoginBlockFor,
	}
	log.Info("opening store", zap.String("backend", backend))

	if backend == config.BackendMongo {
		client, db, err := mongo.Connect(ctx, cfg.StoreURI, cfg.StoreDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Users:     mongo.NewUserRepo(db),
			Favorites: mongo.NewFavoriteRepo(db),
			Plans:     mongo.NewMealPlanRepo(db),
			Limiter:   limiter.NewMemory(policy),
			close: func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(dctx); err != nil {
					log.Warn("mongo disconnect", zap.Error(err))
				}
			},
		}, nil
	}

	if err := migrate.Up(ctx, cfg.StoreURI, log); err != nil {
		return nil, err
	}
	db, err := postgres.New(ctx, cfg.StoreURI)
	if err != nil {
		return nil, err
	}
	return &Store{
		Users:     postgres.NewUserRepo(db),
		Favorites: postgres.NewFavoriteRepo(db),
		Plans:     postgres.NewMealPlanRepo(db),
		Limiter:   limiter.NewPG(db.Pool, policy),
		close:     db.Close,
	}, nil
}

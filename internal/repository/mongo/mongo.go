// Package mongo contains MongoDB implementations of repository interfaces.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersColl     = "users"
	favoritesColl = "favorites"
	mealPlansColl = "meal_plans"
)

// Connect opens a client for uri, pings the primary and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, client.Database(database), nil
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// idempotent adds and per-day upserts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string]mongo.IndexModel{
		usersColl: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		favoritesColl: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mealPlansColl: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, coll := range []string{usersColl, favoritesColl, mealPlansColl} {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, specs[coll]); err != nil {
			return err
		}
	}
	return nil
}

func isNoDocuments(err error) bool { return errors.Is(err, mongo.ErrNoDocuments) }

package mongo

import (
	"context"
	"time"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type favoriteDoc struct {
	UserID    string               `bson:"user_id"`
	RecipeID  string               `bson:"recipe_id"`
	Recipe    model.RecipeSnapshot `bson:"recipe"`
	CreatedAt time.Time            `bson:"created_at"`
}

// FavoriteRepo implements FavoriteRepository on the favorites collection.
type FavoriteRepo struct{ coll *mongo.Collection }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(db *mongo.Database) *FavoriteRepo {
	return &FavoriteRepo{coll: db.Collection(favoritesColl)}
}

// Add upserts with $setOnInsert so a repeated add leaves the first one intact.
func (r *FavoriteRepo) Add(ctx context.Context, userID uuid.UUID, s model.RecipeSnapshot) error {
	filter := bson.D{
		{Key: "user_id", Value: userID.String()},
		{Key: "recipe_id", Value: s.ID.String()},
	}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "recipe", Value: s},
		{Key: "created_at", Value: time.Now().UTC()},
	}}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// lost an upsert race to a concurrent add of the same pair
		return nil
	}
	return errs.Store("favorites.add", err)
}

// Remove deletes the favorite and reports whether it existed.
func (r *FavoriteRepo) Remove(ctx context.Context, userID uuid.UUID, recipeID model.RecipeID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{
		{Key: "user_id", Value: userID.String()},
		{Key: "recipe_id", Value: recipeID.String()},
	})
	if err != nil {
		return false, errs.Store("favorites.remove", err)
	}
	return res.DeletedCount > 0, nil
}

// List returns the user's favorites, newest first.
func (r *FavoriteRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID.String()}}, opts)
	if err != nil {
		return nil, errs.Store("favorites.list", err)
	}
	var docs []favoriteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Store("favorites.list", err)
	}
	out := make([]model.Favorite, 0, len(docs))
	for _, d := range docs {
		rec := d.Recipe
		rec.ID = model.RecipeID(d.RecipeID)
		out = append(out, model.Favorite{UserID: userID, Recipe: rec, CreatedAt: d.CreatedAt})
	}
	return out, nil
}

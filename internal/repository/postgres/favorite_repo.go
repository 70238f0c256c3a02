package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FavoriteRepo implements FavoriteRepository using PostgreSQL.
// The recipe snapshot is kept as jsonb next to the key columns.
type FavoriteRepo struct{ db *DB }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(db *DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add inserts the favorite; an existing (user, recipe) pair is left as is.
func (r *FavoriteRepo) Add(ctx context.Context, userID uuid.UUID, s model.RecipeSnapshot) error {
	const q = `
INSERT INTO favorites (user_id, recipe_id, title, snapshot)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, recipe_id) DO NOTHING`
	raw, err := json.Marshal(s)
	if err != nil {
		return errs.Store("favorites.add", err)
	}
	_, err = r.db.Pool.Exec(ctx, q, userID, s.ID.String(), s.Title, raw)
	return errs.Store("favorites.add", err)
}

// Remove deletes the favorite and reports whether it existed.
func (r *FavoriteRepo) Remove(ctx context.Context, userID uuid.UUID, recipeID model.RecipeID) (bool, error) {
	const q = `DELETE FROM favorites WHERE user_id=$1 AND recipe_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, recipeID.String())
	if err != nil {
		return false, errs.Store("favorites.remove", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the user's favorites, newest first.
func (r *FavoriteRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	const q = `
SELECT recipe_id, snapshot, created_at
FROM favorites
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, errs.Store("favorites.list", err)
	}
	defer rows.Close()

	var out []model.Favorite
	for rows.Next() {
		var (
			id  string
			raw []byte
			f   model.Favorite
		)
		if err := rows.Scan(&id, &raw, &f.CreatedAt); err != nil {
			return nil, errs.Store("favorites.list", err)
		}
		if err := json.Unmarshal(raw, &f.Recipe); err != nil {
			return nil, errs.Store("favorites.list", fmt.Errorf("recipe %s: %w", id, err))
		}
		f.UserID = userID
		f.Recipe.ID = model.RecipeID(id)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("favorites.list", err)
	}
	return out, nil
}

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.FavoriteRepository = (*FavoriteRepo)(nil)
	_ repository.MealPlanRepository = (*MealPlanRepo)(nil)
)

func newMock(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestUserRepo(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()

	mt.Run("create ok", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: "ann", Email: "ann@example.com", PwdHash: "h"}
		require.NoError(mt, NewUserRepo(mt.DB).Create(ctx, u))
		require.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))
		u := &model.User{ID: uuid.Must(uuid.NewV4()), Email: "ann@example.com"}
		require.ErrorIs(mt, NewUserRepo(mt.DB).Create(ctx, u), errs.ErrAlreadyExists)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		id := uuid.Must(uuid.NewV4())
		ns := mt.DB.Name() + "." + usersColl
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "username", Value: "ann"},
			{Key: "email", Value: "ann@example.com"},
			{Key: "pwd_hash", Value: "h"},
			{Key: "created_at", Value: time.Now()},
		}))
		u, err := NewUserRepo(mt.DB).GetByEmail(ctx, "ann@example.com")
		require.NoError(mt, err)
		require.Equal(mt, id, u.ID)
		require.Equal(mt, "ann", u.Username)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + usersColl
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := NewUserRepo(mt.DB).GetByID(ctx, uuid.Must(uuid.NewV4()))
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("server error is a store error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Message: "bad query", Name: "BadValue",
		}))
		_, err := NewUserRepo(mt.DB).GetByEmail(ctx, "x@example.com")
		require.True(mt, errs.IsStore(err))
	})
}

func TestFavoriteRepo(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	uid := uuid.Must(uuid.NewV4())
	snap := model.RecipeSnapshot{
		ID:        "716429",
		Title:     "Pasta with Garlic",
		Nutrients: []model.Nutrient{{Name: "Calories", Amount: 584, Unit: "kcal"}},
	}

	mt.Run("add", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, NewFavoriteRepo(mt.DB).Add(ctx, uid, snap))
	})

	mt.Run("remove reports deletion", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		r := NewFavoriteRepo(mt.DB)
		ok, err := r.Remove(ctx, uid, snap.ID)
		require.NoError(mt, err)
		require.True(mt, ok)
		ok, err = r.Remove(ctx, uid, snap.ID)
		require.NoError(mt, err)
		require.False(mt, ok)
	})

	mt.Run("list", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + favoritesColl
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "user_id", Value: uid.String()},
				{Key: "recipe_id", Value: "716429"},
				{Key: "recipe", Value: snap},
				{Key: "created_at", Value: time.Now()},
			},
			bson.D{
				{Key: "user_id", Value: uid.String()},
				{Key: "recipe_id", Value: "42"},
				{Key: "recipe", Value: bson.D{{Key: "title", Value: "Soup"}}},
				{Key: "created_at", Value: time.Now().Add(-time.Hour)},
			},
		))
		favs, err := NewFavoriteRepo(mt.DB).List(ctx, uid)
		require.NoError(mt, err)
		require.Len(mt, favs, 2)
		require.Equal(mt, snap.Title, favs[0].Recipe.Title)
		kcal, ok := favs[0].Recipe.Calories()
		require.True(mt, ok)
		require.Equal(mt, 584.0, kcal)
		require.Equal(mt, model.RecipeID("42"), favs[1].Recipe.ID)
	})
}

func TestMealPlanRepo(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	uid := uuid.Must(uuid.NewV4())

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		err := NewMealPlanRepo(mt.DB).Save(ctx, uid, model.Tuesday, model.RecipeSnapshot{ID: "1", Title: "Oats"})
		require.NoError(mt, err)
	})

	mt.Run("get", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mealPlansColl
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "user_id", Value: uid.String()},
				{Key: "day", Value: "Tuesday"},
				{Key: "recipe_id", Value: "1"},
				{Key: "recipe", Value: bson.D{
					{Key: "title", Value: "Oats"},
					{Key: "nutrients", Value: bson.A{bson.D{
						{Key: "name", Value: "Calories"}, {Key: "amount", Value: 300.0}, {Key: "unit", Value: "kcal"},
					}}},
				}},
			},
		))
		plan, err := NewMealPlanRepo(mt.DB).Get(ctx, uid)
		require.NoError(mt, err)
		require.Equal(mt, "Oats", plan[model.Tuesday].Title)
		require.Equal(mt, model.RecipeID("1"), plan[model.Tuesday].ID)
		require.Equal(mt, 300.0, plan.TotalCalories())
	})

	mt.Run("remove", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		ok, err := NewMealPlanRepo(mt.DB).Remove(ctx, uid, model.Tuesday)
		require.NoError(mt, err)
		require.True(mt, ok)
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := newMock(t)

	mt.Run("creates three indexes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})
}

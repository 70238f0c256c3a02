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

type mealDoc struct {
	UserID    string               `bson:"user_id"`
	Day       string               `bson:"day"`
	RecipeID  string               `bson:"recipe_id"`
	Recipe    model.RecipeSnapshot `bson:"recipe"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// MealPlanRepo implements MealPlanRepository on the meal_plans collection.
type MealPlanRepo struct{ coll *mongo.Collection }

// NewMealPlanRepo constructs a meal plan repository.
func NewMealPlanRepo(db *mongo.Database) *MealPlanRepo {
	return &MealPlanRepo{coll: db.Collection(mealPlansColl)}
}

// Save replaces the day's recipe, inserting the entry when the day is empty.
func (r *MealPlanRepo) Save(ctx context.Context, userID uuid.UUID, day model.Weekday, s model.RecipeSnapshot) error {
	filter := bson.D{
		{Key: "user_id", Value: userID.String()},
		{Key: "day", Value: string(day)},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "recipe_id", Value: s.ID.String()},
		{Key: "recipe", Value: s},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return errs.Store("meal_plan.save", err)
}

// Get returns every assigned day of the user's week.
func (r *MealPlanRepo) Get(ctx context.Context, userID uuid.UUID) (model.MealPlan, error) {
	cur, err := r.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID.String()}})
	if err != nil {
		return nil, errs.Store("meal_plan.get", err)
	}
	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Store("meal_plan.get", err)
	}
	plan := make(model.MealPlan, len(docs))
	for _, d := range docs {
		rec := d.Recipe
		rec.ID = model.RecipeID(d.RecipeID)
		plan[model.Weekday(d.Day)] = rec
	}
	return plan, nil
}

// Remove clears the day and reports whether an entry existed.
func (r *MealPlanRepo) Remove(ctx context.Context, userID uuid.UUID, day model.Weekday) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{
		{Key: "user_id", Value: userID.String()},
		{Key: "day", Value: string(day)},
	})
	if err != nil {
		return false, errs.Store("meal_plan.remove", err)
	}
	return res.DeletedCount > 0, nil
}

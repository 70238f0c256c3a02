package mongo

import (
	"context"
	"time"

	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	PwdHash   string    `bson:"pwd_hash"`
	CreatedAt time.Time `bson:"created_at"`
}

// UserRepo implements UserRepository on the users collection.
// User IDs are stored as canonical UUID strings.
type UserRepo struct{ coll *mongo.Collection }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *mongo.Database) *UserRepo { return &UserRepo{coll: db.Collection(usersColl)} }

// Create inserts a new user document.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		PwdHash:   u.PwdHash,
		CreatedAt: u.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}
	return errs.Store("users.create", err)
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "users.get_by_id", bson.D{{Key: "_id", Value: id.String()}})
}

// GetByEmail loads a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "users.get_by_email", bson.D{{Key: "email", Value: email}})
}

func (r *UserRepo) findOne(ctx context.Context, op string, filter bson.D) (*model.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if isNoDocuments(err) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Store(op, err)
	}
	id, err := uuid.FromString(d.ID)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	return &model.User{
		ID:        id,
		Username:  d.Username,
		Email:     d.Email,
		PwdHash:   d.PwdHash,
		CreatedAt: d.CreatedAt,
	}, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RevInsanity/temu-clone/models"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned when a unique index rejects an insert.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrVersionConflict is returned when a versioned update matched nothing,
	// meaning the aggregate changed underneath the caller.
	ErrVersionConflict = errors.New("version conflict")
)

// UserRepository provides access to the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// ReplaceCart swaps the user's embedded cart in one compare-and-set guarded
// by the aggregate version. Returns ErrVersionConflict when the version moved.
func (r *UserRepository) ReplaceCart(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine, expectedVersion int64) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "cart_version": expectedVersion},
		bson.M{
			"$set": bson.M{"cart": lines},
			"$inc": bson.M{"cart_version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *UserRepository) DeleteByEmails(ctx context.Context, emails []string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"email": bson.M{"$in": emails}})
	return err
}

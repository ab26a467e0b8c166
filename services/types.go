package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// UserStore is the identity-store access the services need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	ReplaceCart(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine, expectedVersion int64) error
}

// ProductStore is the catalog-store access the services need.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error)
}

// OrderStore is the append-only order-store access the services need.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

// IdempotencyStore remembers checkout idempotency keys.
type IdempotencyStore interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, orderID string) error
}

// TokenIssuer signs and validates session tokens.
type TokenIssuer interface {
	Generate(userID, email string, role models.Role) (string, error)
	Validate(tokenStr string) (*Claims, error)
}

// ProductCache caches product listings.
type ProductCache interface {
	GetList(ctx context.Context, filter repository.ProductFilter) ([]models.Product, bool)
	SetListAsync(filter repository.ProductFilter, products []models.Product)
	Invalidate(ctx context.Context)
}

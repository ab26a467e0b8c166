package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// memCache implements ProductCache synchronously so tests can observe hits
// and invalidations.
type memCache struct {
	mu      sync.Mutex
	lists   map[repository.ProductFilter][]models.Product
	hits    int
	flushes int
}

func newMemCache() *memCache {
	return &memCache{lists: make(map[repository.ProductFilter][]models.Product)}
}

func (c *memCache) GetList(_ context.Context, filter repository.ProductFilter) ([]models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	products, ok := c.lists[filter]
	if ok {
		c.hits++
	}
	return products, ok
}

func (c *memCache) SetListAsync(filter repository.ProductFilter, products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[filter] = products
}

func (c *memCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[repository.ProductFilter][]models.Product)
	c.flushes++
}

func adminClaims(store *memStore) *Claims {
	admin := store.addUser(models.User{Email: "catalog-admin@example.com", Role: models.RoleAdmin})
	return callerFor(admin)
}

func TestProductList(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := newMemCache()
	svc := NewProductService(memProducts{store}, cache)
	store.addProduct(models.Product{Name: "Wireless Headphones", Category: "Electronics", Price: 99.99, Stock: 50})
	store.addProduct(models.Product{Name: "Running Shoes", Category: "Sports", Price: 79.99, Stock: 30})

	t.Run("filters by category", func(t *testing.T) {
		products, err := svc.List(ctx, repository.ProductFilter{Category: "Sports"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Running Shoes", products[0].Name)
	})

	t.Run("repeat query is served from cache", func(t *testing.T) {
		filter := repository.ProductFilter{Category: "Electronics"}
		before := cache.hits

		_, err := svc.List(ctx, filter)
		require.NoError(t, err)
		products, err := svc.List(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, before+1, cache.hits)
		require.Len(t, products, 1)
		assert.Equal(t, "Wireless Headphones", products[0].Name)
	})

	t.Run("nil cache is fine", func(t *testing.T) {
		noCache := NewProductService(memProducts{store}, nil)
		products, err := noCache.List(ctx, repository.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}

func TestProductAdminMutations(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := newMemCache()
	svc := NewProductService(memProducts{store}, cache)
	admin := adminClaims(store)
	user := callerFor(store.addUser(models.User{Email: "plain@example.com", Role: models.RoleUser}))

	t.Run("user role cannot touch the catalog", func(t *testing.T) {
		_, err := svc.Create(ctx, user, ProductCreateRequest{Name: "X", Price: 1})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = svc.Update(ctx, user, primitive.NewObjectID(), ProductUpdateRequest{})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		err = svc.Delete(ctx, user, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("create then partial update", func(t *testing.T) {
		created, err := svc.Create(ctx, admin, ProductCreateRequest{
			Name:     "Coffee Maker",
			Price:    49.99,
			Category: "Home",
			Stock:    25,
		})
		require.NoError(t, err)
		assert.False(t, created.ID.IsZero())

		newPrice := 39.99
		updated, err := svc.Update(ctx, admin, created.ID, ProductUpdateRequest{Price: &newPrice})
		require.NoError(t, err)
		assert.Equal(t, 39.99, updated.Price)
		// Untouched fields survive a partial update.
		assert.Equal(t, "Coffee Maker", updated.Name)
		assert.Equal(t, 25, updated.Stock)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, primitive.NewObjectID(), ProductUpdateRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("mutations flush the list cache", func(t *testing.T) {
		before := cache.flushes
		created, err := svc.Create(ctx, admin, ProductCreateRequest{Name: "Flush Me", Price: 1})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, admin, created.ID))
		assert.Equal(t, before+2, cache.flushes)
	})

	t.Run("delete unknown product", func(t *testing.T) {
		err := svc.Delete(ctx, admin, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})
}

func TestAddReview(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewProductService(memProducts{store}, newMemCache())
	product := store.addProduct(models.Product{Name: "Reviewed", Price: 10, Stock: 5})
	alice := callerFor(store.addUser(models.User{Email: "alice@example.com", Role: models.RoleUser}))
	bob := callerFor(store.addUser(models.User{Email: "bob@example.com", Role: models.RoleUser}))

	t.Run("appends and recomputes the average rating", func(t *testing.T) {
		updated, err := svc.AddReview(ctx, alice, product.ID, ReviewRequest{Rating: 5, Comment: "great"})
		require.NoError(t, err)
		assert.Equal(t, 5.0, updated.Rating)

		updated, err = svc.AddReview(ctx, bob, product.ID, ReviewRequest{Rating: 2})
		require.NoError(t, err)
		require.Len(t, updated.Reviews, 2)
		assert.Equal(t, 3.5, updated.Rating)
		assert.False(t, updated.Reviews[0].CreatedAt.IsZero())
	})

	t.Run("rating bounds", func(t *testing.T) {
		_, err := svc.AddReview(ctx, alice, product.ID, ReviewRequest{Rating: 0})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = svc.AddReview(ctx, alice, product.ID, ReviewRequest{Rating: 6})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("admin cannot review", func(t *testing.T) {
		admin := adminClaims(store)
		_, err := svc.AddReview(ctx, admin, product.ID, ReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.AddReview(ctx, alice, primitive.NewObjectID(), ReviewRequest{Rating: 3})
		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})
}

package services

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory stand-in for the Mongo collections with the same
// concurrency semantics: versioned cart replace and conditional stock
// decrement, both under a lock. The memUsers/memProducts/memOrders wrappers
// expose it through the store interfaces.
type memStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	products map[primitive.ObjectID]*models.Product
	orders   map[primitive.ObjectID]*models.Order

	failOrderCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[primitive.ObjectID]*models.User),
		products: make(map[primitive.ObjectID]*models.Product),
		orders:   make(map[primitive.ObjectID]*models.Order),
	}
}

func (m *memStore) addUser(user models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Cart == nil {
		user.Cart = []models.CartLine{}
	}
	m.users[user.ID] = &user
	copied := user
	return &copied
}

func (m *memStore) addProduct(product models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = &product
	copied := product
	return &copied
}

func (m *memStore) userCart(id primitive.ObjectID) []models.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneLines(m.users[id].Cart)
}

func (m *memStore) productStock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

// memUsers implements UserStore.
type memUsers struct{ *memStore }

func (m memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			copied.Cart = cloneLines(u.Cart)
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	copied.Cart = cloneLines(u.Cart)
	return &copied, nil
}

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m memUsers) ReplaceCart(_ context.Context, userID primitive.ObjectID, lines []models.CartLine, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.CartVersion != expectedVersion {
		return repository.ErrVersionConflict
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	u.Cart = cloneLines(lines)
	u.CartVersion++
	return nil
}

// memProducts implements ProductStore.
type memProducts struct{ *memStore }

func (m memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m memProducts) Find(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m memProducts) Create(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m memProducts) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["stock"]; ok {
		p.Stock = v.(int)
	}
	if v, ok := updates["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	copied := *p
	return &copied, nil
}

func (m memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m memProducts) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (m memProducts) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += quantity
	return nil
}

func (m memProducts) AddReview(_ context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Reviews = append(p.Reviews, review)
	var sum int
	for _, rv := range p.Reviews {
		sum += rv.Rating
	}
	p.Rating = float64(sum) / float64(len(p.Reviews))
	copied := *p
	return &copied, nil
}

// memOrders implements OrderStore.
type memOrders struct{ *memStore }

func (m memOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOrderCreate {
		return errInjected
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m memOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// memIdempotency implements IdempotencyStore.
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: make(map[string]string)}
}

func (m *memIdempotency) Get(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID+":"+key], nil
}

func (m *memIdempotency) Set(_ context.Context, userID, key, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[userID+":"+key] = orderID
	return nil
}

package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CartLine is a single entry in a user's embedded cart. Price, name and image
// are snapshots taken when the line was added.
type CartLine struct {
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
	Name      string             `json:"name" bson:"name"`
	Image     string             `json:"image" bson:"image"`
	AddedAt   time.Time          `json:"addedAt" bson:"added_at"`
}

// User is the identity aggregate. The cart is embedded and mutated only
// through the cart service; CartVersion is the optimistic-concurrency token
// for the whole aggregate.
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	Age         int                `json:"age" bson:"age"`
	Role        Role               `json:"role" bson:"role"`
	Address     string             `json:"address" bson:"address"`
	Phone       string             `json:"phone" bson:"phone"`
	Cart        []CartLine         `json:"-" bson:"cart"`
	CartVersion int64              `json:"-" bson:"cart_version"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}

// Cart is the derived view returned to clients. Total and ItemCount are
// recomputed from the lines on every read, never stored.
type Cart struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// NewCart builds the derived cart view from a line list.
func NewCart(lines []CartLine) Cart {
	cart := Cart{Items: lines}
	if cart.Items == nil {
		cart.Items = []CartLine{}
	}
	for _, line := range lines {
		cart.Total += line.Price * float64(line.Quantity)
		cart.ItemCount += line.Quantity
	}
	return cart
}

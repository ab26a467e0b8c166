package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is an embedded product review.
type Review struct {
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// Product is a catalog entry. Stock is mutated only by admin edits and by
// checkout's conditional decrement.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Image       string             `json:"image" bson:"image"`
	Stock       int                `json:"stock" bson:"stock"`
	Rating      float64            `json:"rating" bson:"rating"`
	Reviews     []Review           `json:"reviews" bson:"reviews"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}

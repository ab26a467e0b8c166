package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order. Orders are created as
// pending; transition logic lives outside this service.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderLine is a purchased line item with the price paid.
type OrderLine struct {
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

// Order is an append-only record of a completed checkout.
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"user_id"`
	Products        []OrderLine        `json:"products" bson:"products"`
	TotalAmount     float64            `json:"totalAmount" bson:"total_amount"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ShippingAddress string             `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   string             `json:"paymentMethod" bson:"payment_method"`
	IdempotencyKey  string             `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
}

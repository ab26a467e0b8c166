package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/middleware"
	"github.com/RevInsanity/temu-clone/services"
)

// OrderController exposes checkout and order history.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout handles POST /api/orders. The server-side cart is authoritative;
// any product list in the body is ignored. A client may send an
// Idempotency-Key header to make retries safe.
func (oc *OrderController) Checkout(c *gin.Context) {
	// An empty body is fine: shipping address and payment method fall back
	// to account defaults.
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	order, err := oc.orders.Checkout(c.Request.Context(), middleware.Claims(c), req)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// List handles GET /api/orders.
func (oc *OrderController) List(c *gin.Context) {
	orders, err := oc.orders.ListOrders(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get handles GET /api/orders/:id.
func (oc *OrderController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrOrderNotFound)
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), middleware.Claims(c), id)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/middleware"
	"github.com/RevInsanity/temu-clone/services"
)

// AddItemRequest is the POST /api/cart body.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the PUT /api/cart/:productId body.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartController exposes the per-user cart.
type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// Get handles GET /api/cart.
func (cc *CartController) Get(c *gin.Context) {
	cart, err := cc.cart.GetCart(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart.
func (cc *CartController) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := cc.cart.AddItem(c.Request.Context(), middleware.Claims(c), productID, req.Quantity)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateItem handles PUT /api/cart/:productId.
func (cc *CartController) UpdateItem(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	cart, err := cc.cart.UpdateItem(c.Request.Context(), middleware.Claims(c), productID, req.Quantity)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem handles DELETE /api/cart/:productId.
func (cc *CartController) RemoveItem(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	cart, err := cc.cart.RemoveItem(c.Request.Context(), middleware.Claims(c), productID)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

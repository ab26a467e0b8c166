package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/middleware"
	"github.com/RevInsanity/temu-clone/repository"
	"github.com/RevInsanity/temu-clone/services"
)

// ProductController exposes the catalog: public reads, admin mutations, and
// user reviews.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /api/products.
func (pc *ProductController) List(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	products, err := pc.products.List(c.Request.Context(), filter)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get handles GET /api/products/:id.
func (pc *ProductController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	product, err := pc.products.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /api/admin/products.
func (pc *ProductController) Create(c *gin.Context) {
	var req services.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, err := pc.products.Create(c.Request.Context(), middleware.Claims(c), req)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/:id.
func (pc *ProductController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	var req services.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, err := pc.products.Update(c.Request.Context(), middleware.Claims(c), id, req)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/admin/products/:id.
func (pc *ProductController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	if err := pc.products.Delete(c.Request.Context(), middleware.Claims(c), id); err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AddReview handles POST /api/products/:id/reviews.
func (pc *ProductController) AddReview(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Handle(c, apperrors.ErrProductNotFound)
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, err := pc.products.AddReview(c.Request.Context(), middleware.Claims(c), id, req)
	if err != nil {
		apperrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

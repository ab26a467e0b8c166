package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// ProductCreateRequest carries the fields for an admin product create.
type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// ProductUpdateRequest carries a partial admin product update. Pointer fields
// distinguish "absent" from zero values.
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// ReviewRequest carries a user review submission.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ProductService serves the catalog. Reads go through the list cache;
// any admin mutation invalidates it.
type ProductService struct {
	products ProductStore
	cache    ProductCache
}

func NewProductService(products ProductStore, cache ProductCache) *ProductService {
	return &ProductService{products: products, cache: cache}
}

// List returns products matching the filter, serving repeat queries from the
// cache.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetList(ctx, filter); ok {
			return products, nil
		}
	}

	products, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	if s.cache != nil {
		s.cache.SetListAsync(filter, products)
	}
	return products, nil
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return product, nil
}

// Create adds a catalog entry. Caller must hold the admin role.
func (s *ProductService) Create(ctx context.Context, caller *Claims, req ProductCreateRequest) (*models.Product, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 || req.Stock < 0 {
		return nil, apperrors.ErrValidation
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx)
	zap.L().Info("Product created", zap.String("product_id", product.ID.Hex()), zap.String("name", product.Name))
	return product, nil
}

// Update applies a partial product edit. Caller must hold the admin role.
func (s *ProductService) Update(ctx context.Context, caller *Claims, id primitive.ObjectID, req ProductUpdateRequest) (*models.Product, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperrors.ErrValidation
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperrors.ErrValidation
		}
		updates["stock"] = *req.Stock
	}
	if len(updates) == 0 {
		return nil, apperrors.ErrValidation
	}

	product, err := s.products.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx)
	zap.L().Info("Product updated", zap.String("product_id", id.Hex()))
	return product, nil
}

// Delete removes a catalog entry. Caller must hold the admin role.
func (s *ProductService) Delete(ctx context.Context, caller *Claims, id primitive.ObjectID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx)
	zap.L().Info("Product deleted", zap.String("product_id", id.Hex()))
	return nil
}

// AddReview appends a user review and recomputes the product rating.
func (s *ProductService) AddReview(ctx context.Context, caller *Claims, id primitive.ObjectID, req ReviewRequest) (*models.Product, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.ErrValidation
	}

	product, err := s.products.AddReview(ctx, id, models.Review{
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// requireAdmin gates catalog mutation on the admin role.
func requireAdmin(caller *Claims) error {
	if caller == nil || caller.Role != models.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

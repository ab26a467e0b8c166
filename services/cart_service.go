package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// cartRetries bounds how often a versioned cart write is retried after losing
// a race against another request for the same user.
const cartRetries = 3

// CartService owns all mutation of the per-user embedded cart. Every write is
// a compare-and-set on the user aggregate version, so the line list and the
// derived totals are never observed out of sync.
type CartService struct {
	users    UserStore
	products ProductStore
}

func NewCartService(users UserStore, products ProductStore) *CartService {
	return &CartService{users: users, products: products}
}

// requireUser is the single authorization gate for cart and order access:
// the caller must hold the user role, and the subject must be a valid ID.
func requireUser(caller *Claims) (primitive.ObjectID, error) {
	if caller == nil || caller.Role != models.RoleUser {
		return primitive.NilObjectID, apperrors.ErrForbidden
	}
	id, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	return id, nil
}

// GetCart returns the caller's cart. Admins never accumulate cart state, so
// an admin caller always sees the empty cart.
func (s *CartService) GetCart(ctx context.Context, caller *Claims) (models.Cart, error) {
	if caller != nil && caller.Role == models.RoleAdmin {
		return models.NewCart(nil), nil
	}

	userID, err := requireUser(caller)
	if err != nil {
		return models.Cart{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return models.NewCart(user.Cart), nil
}

// AddItem adds quantity units of a product to the cart, merging into an
// existing line when present. Price, name and image are snapshotted from the
// product at add time. The resulting line quantity may never exceed the
// product's current stock.
func (s *CartService) AddItem(ctx context.Context, caller *Claims, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return models.Cart{}, err
	}
	if quantity < 1 {
		return models.Cart{}, apperrors.ErrValidation
	}

	for attempt := 0; attempt < cartRetries; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}

		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return models.Cart{}, apperrors.ErrProductNotFound
			}
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}

		lines := cloneLines(user.Cart)
		merged := false
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity += quantity
				if lines[i].Quantity > product.Stock {
					return models.Cart{}, apperrors.ErrOutOfStock
				}
				merged = true
				break
			}
		}
		if !merged {
			if quantity > product.Stock {
				return models.Cart{}, apperrors.ErrOutOfStock
			}
			lines = append(lines, models.CartLine{
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     product.Price,
				Name:      product.Name,
				Image:     product.Image,
				AddedAt:   time.Now().UTC(),
			})
		}

		err = s.users.ReplaceCart(ctx, userID, lines, user.CartVersion)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}

		zap.L().Debug("Cart item added",
			zap.String("user_id", caller.UserID),
			zap.String("product_id", productID.Hex()),
			zap.Int("quantity", quantity),
		)
		return models.NewCart(lines), nil
	}
	return models.Cart{}, apperrors.ErrConflict
}

// UpdateItem sets the quantity of an existing line. A quantity below one
// removes the line. The snapshot price is kept as it was at add time.
func (s *CartService) UpdateItem(ctx context.Context, caller *Claims, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, caller, productID)
	}

	userID, err := requireUser(caller)
	if err != nil {
		return models.Cart{}, err
	}

	for attempt := 0; attempt < cartRetries; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}

		lines := cloneLines(user.Cart)
		found := false
		for i := range lines {
			if lines[i].ProductID == productID {
				product, err := s.products.FindByID(ctx, productID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return models.Cart{}, apperrors.ErrProductNotFound
					}
					return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
				}
				if quantity > product.Stock {
					return models.Cart{}, apperrors.ErrOutOfStock
				}
				lines[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			return models.Cart{}, apperrors.ErrCartLineNotFound
		}

		err = s.users.ReplaceCart(ctx, userID, lines, user.CartVersion)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return models.NewCart(lines), nil
	}
	return models.Cart{}, apperrors.ErrConflict
}

// RemoveItem deletes the line for a product. Removing a line that is not in
// the cart is a no-op success.
func (s *CartService) RemoveItem(ctx context.Context, caller *Claims, productID primitive.ObjectID) (models.Cart, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return models.Cart{}, err
	}

	for attempt := 0; attempt < cartRetries; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}

		lines := make([]models.CartLine, 0, len(user.Cart))
		for _, line := range user.Cart {
			if line.ProductID != productID {
				lines = append(lines, line)
			}
		}
		if len(lines) == len(user.Cart) {
			// Nothing to remove.
			return models.NewCart(user.Cart), nil
		}

		err = s.users.ReplaceCart(ctx, userID, lines, user.CartVersion)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return models.Cart{}, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return models.NewCart(lines), nil
	}
	return models.Cart{}, apperrors.ErrConflict
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

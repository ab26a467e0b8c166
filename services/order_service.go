package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// DefaultPaymentMethod is the fixed placeholder used when the client does not
// name one. Real payment processing is out of scope.
const DefaultPaymentMethod = "credit card"

// CheckoutRequest carries the client-supplied parts of a checkout.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	IdempotencyKey  string `json:"-"`
}

// OrderService converts carts into immutable orders. Stock is adjusted with
// conditional decrements so concurrent checkouts can never jointly oversell,
// and a mid-flight failure rolls every already-applied decrement back.
type OrderService struct {
	users    UserStore
	products ProductStore
	orders   OrderStore
	idem     IdempotencyStore
}

func NewOrderService(users UserStore, products ProductStore, orders OrderStore, idem IdempotencyStore) *OrderService {
	return &OrderService{users: users, products: products, orders: orders, idem: idem}
}

// Checkout turns the caller's cart into a pending order, decrements stock for
// every line and clears the cart. All lines are verified before any stock is
// touched; failure at any point leaves stock and cart as they were.
func (s *OrderService) Checkout(ctx context.Context, caller *Claims, req CheckoutRequest) (*models.Order, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return nil, err
	}

	// A replayed idempotency key returns the original order instead of
	// double-ordering.
	if req.IdempotencyKey != "" && s.idem != nil {
		orderID, err := s.idem.Get(ctx, caller.UserID, req.IdempotencyKey)
		if err != nil {
			zap.L().Warn("Idempotency lookup failed", zap.Error(err))
		} else if orderID != "" {
			id, err := primitive.ObjectIDFromHex(orderID)
			if err == nil {
				if order, err := s.orders.FindByID(ctx, id); err == nil {
					zap.L().Info("Checkout replayed via idempotency key",
						zap.String("user_id", caller.UserID),
						zap.String("order_id", orderID),
					)
					return order, nil
				}
			}
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if len(user.Cart) == 0 {
		return nil, apperrors.ErrEmptyCart
	}
	cart := models.NewCart(user.Cart)

	// Phase 1: every line must pass the stock check before any decrement.
	for _, line := range user.Cart {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrProductNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if product.Stock < line.Quantity {
			return nil, apperrors.ErrInsufficientStock
		}
	}

	// Phase 2: conditional decrements. The storage-layer condition closes the
	// window between check and decrement; a failure rolls back prior lines.
	applied := make([]models.CartLine, 0, len(user.Cart))
	for _, line := range user.Cart {
		if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.rollbackStock(ctx, applied)
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, apperrors.ErrInsufficientStock
			}
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		applied = append(applied, line)
	}

	// Clearing the cart is version-checked against the state read above: a
	// concurrent cart mutation fails the whole checkout instead of being
	// silently wiped.
	if err := s.users.ReplaceCart(ctx, userID, nil, user.CartVersion); err != nil {
		s.rollbackStock(ctx, applied)
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	shippingAddress := req.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = user.Address
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	lines := make([]models.OrderLine, 0, len(user.Cart))
	for _, line := range user.Cart {
		lines = append(lines, models.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	order := &models.Order{
		UserID:          userID,
		Products:        lines,
		TotalAmount:     cart.Total,
		Status:          models.OrderPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		IdempotencyKey:  req.IdempotencyKey,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.rollbackStock(ctx, applied)
		s.restoreCart(ctx, userID, user.Cart)
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	if req.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Set(ctx, caller.UserID, req.IdempotencyKey, order.ID.Hex()); err != nil {
			zap.L().Warn("Recording idempotency key failed", zap.Error(err))
		}
	}

	zap.L().Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", caller.UserID),
		zap.Float64("total", order.TotalAmount),
		zap.Int("lines", len(order.Products)),
	)
	return order, nil
}

// ListOrders returns the caller's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, caller *Claims) ([]models.Order, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return orders, nil
}

// GetOrder returns one of the caller's orders. Orders belonging to other
// users read as not found.
func (s *OrderService) GetOrder(ctx context.Context, caller *Claims, orderID primitive.ObjectID) (*models.Order, error) {
	userID, err := requireUser(caller)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if order.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// rollbackStock returns already-decremented units. Failures are logged and
// skipped so the remaining lines still get restored.
func (s *OrderService) rollbackStock(ctx context.Context, applied []models.CartLine) {
	for _, line := range applied {
		if err := s.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			zap.L().Error("Stock rollback failed",
				zap.String("product_id", line.ProductID.Hex()),
				zap.Int("quantity", line.Quantity),
				zap.Error(err),
			)
		}
	}
}

// restoreCart puts the pre-checkout cart back after a failed order insert.
func (s *OrderService) restoreCart(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("Cart restore read failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}
	if err := s.users.ReplaceCart(ctx, userID, lines, user.CartVersion); err != nil {
		zap.L().Error("Cart restore failed", zap.String("user_id", userID.Hex()), zap.Error(err))
	}
}

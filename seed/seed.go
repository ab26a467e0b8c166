package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
	"github.com/RevInsanity/temu-clone/services"
)

var demoEmails = []string{"admin@example.com", "user@example.com"}

// Run replaces the demo accounts and products. Intended for development
// environments only, guarded by SEED_DEMO_DATA.
func Run(ctx context.Context, users *repository.UserRepository, products *repository.ProductRepository) error {
	if err := seedUsers(ctx, users); err != nil {
		return err
	}
	if err := seedProducts(ctx, products); err != nil {
		return err
	}
	return nil
}

func seedUsers(ctx context.Context, users *repository.UserRepository) error {
	if err := users.DeleteByEmails(ctx, demoEmails); err != nil {
		return err
	}

	hash, err := services.HashPassword("password123")
	if err != nil {
		return err
	}

	demo := []models.User{
		{
			Name:     "Admin User",
			Email:    "admin@example.com",
			Password: hash,
			Age:      30,
			Role:     models.RoleAdmin,
			Address:  "123 Admin Street",
			Phone:    "123-456-7890",
			Cart:     []models.CartLine{},
		},
		{
			Name:     "Regular User",
			Email:    "user@example.com",
			Password: hash,
			Age:      25,
			Role:     models.RoleUser,
			Address:  "456 User Avenue",
			Phone:    "987-654-3210",
			Cart:     []models.CartLine{},
		},
	}
	for i := range demo {
		if err := users.Create(ctx, &demo[i]); err != nil {
			return err
		}
	}

	zap.L().Info("Demo users created")
	return nil
}

func seedProducts(ctx context.Context, products *repository.ProductRepository) error {
	if err := products.DeleteAll(ctx); err != nil {
		return err
	}

	demo := []models.Product{
		{
			Name:        "Wireless Bluetooth Earbuds",
			Description: "High-quality wireless earbuds with noise cancellation",
			Price:       49.99,
			Category:    "Electronics",
			Stock:       50,
			Image:       "https://via.placeholder.com/300x200?text=Wireless+Earbuds",
		},
		{
			Name:        "Cotton T-Shirt",
			Description: "Comfortable 100% cotton t-shirt",
			Price:       15.99,
			Category:    "Clothing",
			Stock:       100,
			Image:       "https://via.placeholder.com/300x200?text=Cotton+T-Shirt",
		},
		{
			Name:        "Smart Watch",
			Description: "Feature-rich smartwatch with heart rate monitoring",
			Price:       99.99,
			Category:    "Electronics",
			Stock:       25,
			Image:       "https://via.placeholder.com/300x200?text=Smart+Watch",
		},
		{
			Name:        "Running Shoes",
			Description: "Lightweight running shoes with cushioning",
			Price:       79.99,
			Category:    "Sports",
			Stock:       40,
			Image:       "https://via.placeholder.com/300x200?text=Running+Shoes",
		},
	}

	if err := products.CreateMany(ctx, demo); err != nil {
		return err
	}

	zap.L().Info("Demo products created")
	return nil
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/RevInsanity/temu-clone/controllers"
	"github.com/RevInsanity/temu-clone/middleware"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/services"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Health  *controllers.HealthController
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Tokens  services.TokenIssuer
}

// Register wires all routes onto the engine. Role gates are applied here,
// uniformly, on top of the service-level checks.
func Register(r *gin.Engine, c Controllers) {
	r.GET("/health", c.Health.Health)

	api := r.Group("/api")
	{
		api.GET("/test", c.Health.Test)
		api.POST("/register", c.Auth.Register)
		api.POST("/login", c.Auth.Login)

		api.GET("/products", c.Product.List)
		api.GET("/products/:id", c.Product.Get)
	}

	authed := api.Group("")
	authed.Use(middleware.Authenticate(c.Tokens))
	{
		// Admins see an always-empty cart on reads; mutation is user-only.
		authed.GET("/cart", c.Cart.Get)

		userOnly := authed.Group("")
		userOnly.Use(middleware.RequireRole(models.RoleUser))
		{
			userOnly.POST("/cart", c.Cart.AddItem)
			userOnly.PUT("/cart/:productId", c.Cart.UpdateItem)
			userOnly.DELETE("/cart/:productId", c.Cart.RemoveItem)

			userOnly.POST("/orders", c.Order.Checkout)
			userOnly.GET("/orders", c.Order.List)
			userOnly.GET("/orders/:id", c.Order.Get)

			userOnly.POST("/products/:id/reviews", c.Product.AddReview)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/products", c.Product.Create)
			admin.PUT("/products/:id", c.Product.Update)
			admin.DELETE("/products/:id", c.Product.Delete)
		}
	}
}

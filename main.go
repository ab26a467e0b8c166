package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/config"
	"github.com/RevInsanity/temu-clone/controllers"
	"github.com/RevInsanity/temu-clone/database"
	"github.com/RevInsanity/temu-clone/logger"
	"github.com/RevInsanity/temu-clone/middleware"
	"github.com/RevInsanity/temu-clone/repository"
	"github.com/RevInsanity/temu-clone/routes"
	"github.com/RevInsanity/temu-clone/seed"
	"github.com/RevInsanity/temu-clone/services"
)

const (
	productCacheTTL = 5 * time.Minute
	idempotencyTTL  = 24 * time.Hour
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	apperrors.SetProductionMode(cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "fallback-dev-secret-change-in-production" {
			logger.Log.Fatal("JWT_SECRET must be set in production")
		}
	}

	ctx := context.Background()

	mongoClient, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Disconnect(context.Background(), mongoClient); err != nil {
			logger.Log.Error("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Log.Fatal("Index creation failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	idemRepo := repository.NewIdempotencyRepository(redisClient, idempotencyTTL)
	productCache := repository.NewProductListCache(redisClient, productCacheTTL)

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	productService := services.NewProductService(productRepo, productCache)
	cartService := services.NewCartService(userRepo, productRepo)
	orderService := services.NewOrderService(userRepo, productRepo, orderRepo, idemRepo)

	if cfg.SeedDemoData && !cfg.IsProduction() {
		if err := seed.Run(ctx, userRepo, productRepo); err != nil {
			logger.Log.Warn("Demo data seeding failed", zap.Error(err))
		}
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware())

	routes.Register(r, routes.Controllers{
		Health:  controllers.NewHealthController(cfg.Env),
		Auth:    controllers.NewAuthController(authService),
		Product: controllers.NewProductController(productService),
		Cart:    controllers.NewCartController(cartService),
		Order:   controllers.NewOrderController(orderService),
		Tokens:  tokenService,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}

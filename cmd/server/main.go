package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gotours/internal/config"
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/repositories/mongodb"
	"gotours/internal/services"
	"gotours/internal/utils"
	"gotours/pkg/cache"
	"gotours/pkg/database"
	"gotours/pkg/logger"
	"gotours/pkg/payment"
	"gotours/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, rate limiting runs in-process")
			redisCache = nil
		}
	}

	// Repositories
	tourRepo := mongodb.NewTourRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)

	// Services
	emailService := services.NewEmailService(cfg.SMTP, appLogger)
	authService := services.NewAuthService(userRepo, emailService, cfg.Security, appLogger)
	userService := services.NewUserService(userRepo, cfg.App, appLogger)
	tourService := services.NewTourService(tourRepo, cfg.App, appLogger)
	reviewService := services.NewReviewService(reviewRepo, tourRepo, appLogger)
	stripeProvider := payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
	bookingService := services.NewBookingService(bookingRepo, tourRepo, userRepo, stripeProvider, cfg.Payment, appLogger)

	// Handlers
	tourHandler := handlers.NewTourHandler(tourService, tourRepo, reviewRepo)
	userHandler := handlers.NewUserHandler(userService, userRepo)
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.Security, cfg.IsProduction())
	reviewHandler := handlers.NewReviewHandler(reviewService, reviewRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService, bookingRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.ErrorHandler(appLogger, cfg.IsProduction()))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(redisCache, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow, appLogger)

	// Webhooks skip the body size cap: signature verification needs the
	// payload exactly as the gateway sent it.
	webhooks := router.Group("/api/v1")
	webhooks.Use(rateLimiter.Handler())
	routes.SetupWebhookRoutes(webhooks, bookingHandler)

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Handler())
	v1.Use(middleware.BodySizeLimit(cfg.Security.MaxBodyBytes))
	{
		routes.SetupTourRoutes(v1, tourHandler, reviewHandler, authService)
		routes.SetupUserRoutes(v1, userHandler, authHandler, authService)
		routes.SetupReviewRoutes(v1, reviewHandler, authService)
		routes.SetupBookingRoutes(v1, bookingHandler, authService)
	}

	router.NoRoute(middleware.NotFoundHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("%s listening on %s", utils.AppName, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

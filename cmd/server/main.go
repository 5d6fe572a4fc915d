package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glowsouk/glowsouk-backend/config"
	"github.com/glowsouk/glowsouk-backend/internal/app/controller"
	"github.com/glowsouk/glowsouk-backend/internal/app/repository"
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	"github.com/glowsouk/glowsouk-backend/internal/db"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
	"github.com/glowsouk/glowsouk-backend/internal/router"
	"github.com/glowsouk/glowsouk-backend/internal/scheduler"
	"github.com/glowsouk/glowsouk-backend/internal/storage"
	ws "github.com/glowsouk/glowsouk-backend/internal/websocket"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/glowsouk/glowsouk-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting GLOWSOUK Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (optional — 랭킹 캐시와 토큰 블랙리스트는 없어도 동작)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	statsRepo := repository.NewStatsRepository(db.GetDB())

	// WebSocket hub for live review streams
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	statsService := service.NewStatsService(statsRepo, productRepo)
	productService := service.NewProductService(productRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, statsService, hub)
	rankingService := service.NewRankingService(statsRepo, reviewRepo, productRepo, &cfg.Ranking)
	reportService := service.NewReportService(productRepo, reviewRepo)

	// S3 storage for image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)
	rankingController := controller.NewRankingController(rankingService)
	uploadController := controller.NewUploadController(s3Storage)
	reportController := controller.NewReportController(reportService)
	streamController := controller.NewStreamController(hub, productService, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly stats recomputation (드리프트 복구)
	statsScheduler := scheduler.NewStatsScheduler(statsService)
	if err := statsScheduler.Start(); err != nil {
		logger.Error("Failed to start stats scheduler", err)
	}
	defer statsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		reviewController,
		rankingController,
		uploadController,
		reportController,
		streamController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

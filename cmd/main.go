package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/redis/go-redis/v9"

	"github.com/dipkrao/ECommerce-Backend/internal/config"
	"github.com/dipkrao/ECommerce-Backend/internal/logger"
	"github.com/dipkrao/ECommerce-Backend/middleware"
	"github.com/dipkrao/ECommerce-Backend/routes"
	"github.com/dipkrao/ECommerce-Backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis backs the rate limiter; the limiter fails open if it is down
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	// Upload directories must exist before the first request
	imageStore := services.NewImageStore(cfg.UploadDir, cfg.MaxImageSize)
	if err := imageStore.EnsureDirs(services.BannerImageKind, services.ProductImageKind); err != nil {
		log.Fatal("Failed to create upload directories:", err)
	}

	db := mongoClient.Database(cfg.DBName)
	bannerRepo := services.NewBannerRepository(db)
	bannerService := services.NewBannerService(bannerRepo, imageStore)
	cleanupService := services.NewCleanupService(bannerRepo, db, imageStore)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Uploaded images are served as static assets
	router.Static(services.URLPrefix, cfg.UploadDir)

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	roleMiddleware := middleware.NewRoleMiddleware()

	// Setup routes
	routes.SetupAuthRoutes(router, cfg, mongoClient, authMiddleware)
	routes.SetupBannerRoutes(router, bannerService, authMiddleware, roleMiddleware)
	routes.SetupLegalPageRoutes(router, cfg, mongoClient, authMiddleware, roleMiddleware)
	routes.SetupCatalogRoutes(router, cfg, mongoClient, imageStore, authMiddleware, roleMiddleware)
	routes.SetupCartRoutes(router, authMiddleware)
	routes.SetupOrderRoutes(router, authMiddleware, roleMiddleware)

	// Periodic orphaned-image sweep
	scheduler := gocron.NewScheduler(time.UTC)
	if cfg.CleanupIntervalMin > 0 {
		scheduler.Every(cfg.CleanupIntervalMin).Minutes().Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			cleanupService.SweepOrphanImages(ctx)
		})
		scheduler.StartAsync()
	}
	defer scheduler.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apcb-events/internal/adapters/http/middleware"
	"apcb-events/internal/adapters/http/routes"
	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/config"
	"apcb-events/internal/core/services"
	"apcb-events/internal/pkg/cache"
	"apcb-events/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed super admin and allocator row
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Redis cache is optional; without REDIS_ADDR listings hit the DB
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Printf("✅ Redis cache enabled [%s]", cfg.Redis.Addr)
	}
	listCache := cache.New(rdb, time.Duration(cfg.Redis.TTLSecs)*time.Second)

	// Evidence blob storage
	blobs := storage.NewLocalStore(cfg.Storage.BasePath)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "APCB Events API v1.0",
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass shared infrastructure for dependency injection)
	newsletterService := routes.Setup(app, routes.Deps{
		DB:    db,
		Cache: listCache,
		Blobs: blobs,
	}, cfg)

	// Background jobs: scheduled campaigns + token cleanup
	scheduler := services.NewSchedulerService(newsletterService, repositories.NewRefreshTokenRepository(db))
	scheduler.Start()
	defer scheduler.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

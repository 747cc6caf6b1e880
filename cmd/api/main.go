package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sqlDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to open gorm connection: %v", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// The rate limiter is optional: without Redis the API still serves.
	var rateLimiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     30,
			KeyPrefix: "ratelimit:recipes",
		})
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}
	imageStore := service.NewS3ImageStore(s3Config)

	srv := server.New(cfg, gormDB, sqlDB, imageStore, rateLimiter)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

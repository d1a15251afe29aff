// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/domain/storefront"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/digitalstore-backend/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	logrus.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting application")

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health checks
	if err := db.Health(); err != nil {
		logrus.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		logrus.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), cfg)

	if err := migration.RunAutoMigrations(); err != nil {
		logrus.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		logrus.Warnf("Index creation failed: %v", err)
	}

	if err := migration.SeedInitialData(); err != nil {
		logrus.Warnf("Data seeding failed: %v", err)
	}

	if cfg.IsDevelopment() {
		migration.GetTableInfo()
	}

	// Change feed and storefront mirror
	feed := changefeed.NewFeed(redisClient.GetClient(), cfg.Storefront.ChangeFeedChannel)
	mirror := storefront.NewMirror(storefront.NewGormLoader(db.GetDB()))

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mirror.Load(loadCtx); err != nil {
		cancelLoad()
		logrus.Fatalf("Failed to load storefront mirror: %v", err)
	}
	cancelLoad()

	feedCtx, cancelFeed := context.WithCancel(context.Background())
	defer cancelFeed()
	go mirror.Run(feedCtx, feed.Subscribe(feedCtx))

	storefrontService := storefront.NewService(mirror, cfg)

	logrus.Info("All systems operational")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), feed, storefrontService)

	go func() {
		if err := server.Start(); err != nil {
			logrus.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logrus.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logrus.Info("Server shutdown completed")
}

// setupLogging configures the global logger from config
func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/database"
	"github.com/luxe-clothing/storefront/internal/events"
	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/logging"
	"github.com/luxe-clothing/storefront/internal/repository"
	"github.com/luxe-clothing/storefront/internal/router"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logging.Setup(cfg)
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, db, err := openRepository(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}
	if db != nil {
		defer database.Close(db)
	}

	publisher, err := events.New(cfg.Kafka)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize event publisher")
	}
	defer publisher.Close()

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize image storage")
	}

	notificationService := services.NewNotificationService(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seed(ctx, cfg, repo, notificationService); err != nil {
		logrus.WithError(err).Fatal("Failed to seed data")
	}

	// Initialize router
	r := router.Initialize(cfg, router.Dependencies{
		Repo:          repo,
		Publisher:     publisher,
		Intents:       services.NewStripeIntentClient(cfg.Payment.StripeSecretKey),
		Storage:       storageService,
		Notifications: notificationService,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
			"storage":     cfg.Database.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

// openRepository selects the persistence backend. The returned *gorm.DB is nil
// for the memory driver.
func openRepository(cfg *config.Config) (*repository.Repository, *gorm.DB, error) {
	if cfg.Database.Driver == "memory" {
		logrus.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemory(), nil, nil
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repository.New(db), db, nil
}

func seed(ctx context.Context, cfg *config.Config, repo *repository.Repository, notifications *services.NotificationService) error {
	if cfg.Database.Seed || cfg.Database.Driver == "memory" {
		if _, err := services.NewProductService(repo.Products).SeedCatalog(ctx, database.CatalogSeed()); err != nil {
			return err
		}
	}

	return services.NewAuthService(repo.Users, notifications, cfg).EnsureAdmin(ctx, cfg.Admin)
}

package main

import (
	"context"
	"os"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/middleware"
	"github.com/sociable-app/backend/internal/router"
	"github.com/sociable-app/backend/internal/storage"
	"github.com/sociable-app/backend/pkg/config"
	"github.com/sociable-app/backend/pkg/firebase"
	"github.com/sociable-app/backend/validators"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	// Initialize the upload file store
	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file store")
	}

	// Firebase is optional; without credentials only local JWT auth is
	// available.
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Firebase")
		}
		firebaseAuthClient = firebaseApp.AuthClient
	}

	// Register prometheus metrics
	middleware.InitPrometheus()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, cfg, log)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Database, firebaseAuthClient, store, log)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

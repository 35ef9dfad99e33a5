package router

import (
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/handlers"
	"github.com/sociable-app/backend/internal/middleware"
	"github.com/sociable-app/backend/internal/repositories"
	"github.com/sociable-app/backend/internal/services"
	"github.com/sociable-app/backend/internal/storage"
	"github.com/sociable-app/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, log zerolog.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(requestLogger(log))
	e.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	e.Use(middleware.MonitorMiddleware())
	e.HTTPErrorHandler = HTTPErrorHandler(log)
	log.Info().Msg("global middleware configured")
}

// requestLogger emits one structured line per request
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	})
}

// HTTPErrorHandler recovers every error into the JSON error envelope.
// Typed application errors carry their own status; anything unrecognized
// becomes a 500 without leaking internals.
func HTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"
		if ae := apperr.As(err); ae != nil {
			status = ae.Status()
			message = ae.Message
		} else if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			message = fmt.Sprint(he.Message)
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
		}

		if writeErr := c.JSON(status, apperr.NewEnvelope(message, status)); writeErr != nil {
			log.Error().Err(writeErr).Msg("writing error envelope failed")
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil when no Firebase project is configured.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *mongo.Database, firebaseAuthClient *auth.Client, store *storage.FileStore, log zerolog.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	friendshipRepo := repositories.NewMongoFriendshipRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	reactionRepo := repositories.NewMongoReactionRepository(db)
	pictureRepo := repositories.NewMongoPictureRepository(db)

	// --- Services ---
	friendshipSvc := services.NewFriendshipService(friendshipRepo, userRepo, log)
	postSvc := services.NewPostService(postRepo, userRepo, commentRepo, reactionRepo, pictureRepo, store, log)
	commentSvc := services.NewCommentService(commentRepo, postRepo, userRepo, log)
	reactionSvc := services.NewReactionService(reactionRepo, postRepo, userRepo, log)
	pictureSvc := services.NewPictureService(pictureRepo, userRepo, postRepo, store, log)
	userSvc := services.NewUserService(userRepo, friendshipSvc, postSvc, commentSvc, reactionSvc,
		pictureRepo, commentRepo, reactionRepo, postRepo, friendshipRepo, store, log)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userSvc, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require a bearer token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userSvc, pictureSvc)
	userHandler.RegisterUserRoutes(api)

	friendshipHandler := handlers.NewFriendshipHandler(friendshipSvc)
	friendshipHandler.RegisterFriendshipRoutes(api)

	postHandler := handlers.NewPostHandler(postSvc, pictureSvc)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentSvc)
	commentHandler.RegisterCommentRoutes(api)

	reactionHandler := handlers.NewReactionHandler(reactionSvc)
	reactionHandler.RegisterReactionRoutes(api)

	pictureHandler := handlers.NewPictureHandler(pictureSvc)
	pictureHandler.RegisterPictureRoutes(api)

	log.Info().Msg("all routes configured")
}

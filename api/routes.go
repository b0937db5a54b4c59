package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	authapi "github.com/casetrail/evidence-api/api/auth"
	bookmarksapi "github.com/casetrail/evidence-api/api/bookmarks"
	"github.com/casetrail/evidence-api/api/health"
	reportsapi "github.com/casetrail/evidence-api/api/reports"
	sessionsapi "github.com/casetrail/evidence-api/api/sessions"
	"github.com/casetrail/evidence-api/api/types"
	"github.com/casetrail/evidence-api/api/version"
	_ "github.com/casetrail/evidence-api/docs/swagger"
	"github.com/casetrail/evidence-api/internal/services/bookmarks"
	"github.com/casetrail/evidence-api/internal/services/conversation"
	"github.com/casetrail/evidence-api/internal/services/identity"
	"github.com/casetrail/evidence-api/internal/services/inference"
	"github.com/casetrail/evidence-api/internal/services/reports"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	"github.com/casetrail/evidence-api/internal/services/storage"
	"github.com/casetrail/evidence-api/pkg/config"
	"github.com/casetrail/evidence-api/pkg/fingerprint"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Public routes (no rate limiting, no identity)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	if deps.DB == nil || deps.DB.DB == nil {
		return fmt.Errorf("database is required")
	}

	if err := initializeServices(deps, cfg); err != nil {
		return err
	}

	authHandler := authapi.NewHandler(deps.IdentityService)

	// API v1 routes, all identity-scoped
	v1 := engine.Group("/api/v1")
	v1.Use(authHandler.Middleware())
	authapi.RegisterRoutes(v1, authHandler)

	// Session routes with general rate limiting (10 req/s, burst of 20).
	// The prompt endpoint additionally carries the evidence upload
	// ceiling and a tighter limit: each prompt fans out into hashing,
	// storage, and an inference call.
	sessionGroup := v1.Group("/sessions")
	sessionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))

	promptMiddleware := []gin.HandlerFunc{
		PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 2, 4),
		UploadSizeLimit(cfg.Server.MaxUploadBytes),
	}
	sessionsapi.RegisterRoutes(sessionGroup, deps, promptMiddleware...)
	bookmarksapi.RegisterRoutes(sessionGroup, deps)
	reportsapi.RegisterRoutes(sessionGroup, deps)

	return nil
}

// initializeServices wires the service graph onto deps, keeping any
// collaborator a caller (or a test) already provided
func initializeServices(deps *types.Dependencies, cfg *config.Config) error {
	if deps.IdentityService == nil {
		secret := cfg.Auth.JWTSecret
		if secret == "" && cfg.Auth.DevAuthEnabled {
			// signed tokens are unusable without a real secret, but the
			// dev bypass token still works
			secret = "dev-only-secret"
		}
		identityService, err := identity.NewService(secret)
		if err != nil {
			return fmt.Errorf("failed to create identity service: %w", err)
		}
		identityService.SetDevAuth(cfg.Auth.DevAuthEnabled, cfg.Auth.DevAuthToken)
		deps.IdentityService = identityService
	}

	if deps.Storage == nil {
		backend, err := storage.NewFilesystemBackend(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to create storage backend: %w", err)
		}
		deps.Storage = backend
	}

	if deps.SessionService == nil {
		hasher := fingerprint.NewGenerator(fingerprint.WithChunkSize(cfg.Processing.FingerprintChunkSize))
		deps.SessionService = sessions.NewService(sessions.NewRepository(deps.DB.DB), deps.Storage, hasher)
	}

	if deps.ConversationService == nil {
		analyzer := inference.NewClient(inference.Config{
			APIKey:      cfg.Inference.APIKey,
			BaseURL:     cfg.Inference.BaseURL,
			Model:       cfg.Inference.Model,
			Timeout:     cfg.Inference.Timeout,
			MaxTokens:   cfg.Inference.MaxTokens,
			Temperature: cfg.Inference.Temperature,
		})

		deps.ConversationService = conversation.NewService(
			conversation.NewRepository(deps.DB.DB),
			deps.SessionService,
			analyzer,
		)
	}

	if deps.BookmarkService == nil {
		deps.BookmarkService = bookmarks.NewService(
			bookmarks.NewRepository(deps.DB.DB),
			deps.SessionService,
			cfg.Processing.ReconcileTolerance,
		)
	}

	if deps.ReportService == nil {
		deps.ReportService = reports.NewService(deps.SessionService, bookmarks.NewRepository(deps.DB.DB), nil)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}

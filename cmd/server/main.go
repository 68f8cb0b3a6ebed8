package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/reelbase/reelbase/internal/api"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/cache"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/config"
	"github.com/reelbase/reelbase/internal/db"
	"github.com/reelbase/reelbase/internal/middleware"
	"github.com/reelbase/reelbase/internal/observ"
	"github.com/reelbase/reelbase/internal/repository/postgres"
	"github.com/reelbase/reelbase/internal/storage"
	"github.com/reelbase/reelbase/internal/ws"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 3. Connect to Postgres and apply the schema
	//
	// Background() here: startup has no parent request or deadline.
	// Once the server runs, each HTTP request carries its own context.
	// ---------------------------------------------------------------
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.ApplySchema(context.Background()); err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// 4. Connect to Redis (listing cache)
	//
	// The cache is an optimization, not a dependency: if Redis is down
	// at startup we log and run without it. Every listing read then
	// recomputes from Postgres.
	// ---------------------------------------------------------------
	var listingCache catalog.ListingCache
	if redisCache, err := cache.New(context.Background(), cfg.RedisURL, logger); err != nil {
		logger.Warn("redis unavailable, running without listing cache", zap.Error(err))
	} else {
		defer redisCache.Close()
		listingCache = redisCache
	}

	// ---------------------------------------------------------------
	// 5. Pick the identity verifier
	//
	// OIDC_ISSUER set → verify against the provider's published keys.
	// Unset → local dev mode, HS256 with the shared JWT_SECRET.
	// ---------------------------------------------------------------
	var verifier auth.Verifier
	if cfg.OIDCIssuer != "" {
		verifier, err = auth.NewOIDCVerifier(context.Background(), cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return fmt.Errorf("init OIDC verifier: %w", err)
		}
		logger.Info("identity verification via OIDC", zap.String("issuer", cfg.OIDCIssuer))
	} else {
		verifier = auth.NewStaticVerifier(cfg.JWTSecret)
		logger.Warn("OIDC_ISSUER unset, using static dev token verification")
	}

	// ---------------------------------------------------------------
	// 6. Blob store for movie images
	// ---------------------------------------------------------------
	blobs, err := storage.NewFilesystemStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}

	// ---------------------------------------------------------------
	// 7. Repositories, live feed, service
	// ---------------------------------------------------------------
	pool := database.Pool()

	feed := ws.NewCommentFeed(logger)
	go feed.Run()

	svc := catalog.NewService(catalog.Deps{
		Users:    postgres.NewUserStore(pool),
		Movies:   postgres.NewMovieStore(pool),
		Comments: postgres.NewCommentStore(pool),
		Ratings:  postgres.NewRatingStore(pool),
		Cache:    listingCache,
		Blobs:    blobs,
		Feed:     feed,
		Logger:   logger,
	})

	movieHandler := api.NewMovieHandler(svc, logger)
	ratingHandler := api.NewRatingHandler(svc, logger)
	commentHandler := api.NewCommentHandler(svc, logger)
	userHandler := api.NewUserHandler(svc, logger)
	imageHandler := api.NewImageHandler(blobs, logger)

	// ---------------------------------------------------------------
	// 8. HTTP server and routes
	// ---------------------------------------------------------------
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Health check is PUBLIC — load balancers hit this unauthenticated.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	authed := middleware.RequireIdentity(verifier)
	maybeAuthed := middleware.OptionalIdentity(verifier)

	v1 := srv.Group("/v1")
	{
		v1.POST("/users/sync", authed, userHandler.Sync)
		v1.GET("/users/me", authed, userHandler.GetMe)
		v1.DELETE("/users/me", authed, userHandler.DeleteMe)
		v1.GET("/users/top", userHandler.Top)
		v1.GET("/users/:id", userHandler.GetByID)
		v1.GET("/users/:id/comments", commentHandler.ListByUser)

		v1.POST("/movies", authed, movieHandler.Create)
		v1.GET("/movies", movieHandler.List)
		v1.GET("/movies/top", ratingHandler.TopRated)
		v1.GET("/movies/:id", movieHandler.GetByID)
		v1.PUT("/movies/:id", authed, movieHandler.Update)
		v1.DELETE("/movies/:id", authed, movieHandler.Delete)
		v1.POST("/movies/:id/views", movieHandler.IncrementViews)
		v1.GET("/movies/:id/similar", movieHandler.Similar)

		v1.GET("/movies/:id/rating", ratingHandler.GetSummary)
		v1.PUT("/movies/:id/rating", authed, ratingHandler.Rate)
		v1.GET("/movies/:id/rating/me", maybeAuthed, ratingHandler.GetMine)
		v1.GET("/ratings/me", authed, ratingHandler.History)

		v1.GET("/movies/:id/comments", commentHandler.ListByMovie)
		v1.GET("/movies/:id/comments/live", feed.Subscribe)
		v1.POST("/movies/:id/comments", authed, commentHandler.Create)
		v1.PATCH("/comments/:id", authed, commentHandler.Update)
		v1.DELETE("/comments/:id", authed, commentHandler.Delete)
		v1.POST("/comments/:id/like", authed, commentHandler.Like)

		v1.POST("/images", authed, imageHandler.Upload)
		v1.GET("/images/:id", imageHandler.Serve)
		v1.DELETE("/images/:id", authed, imageHandler.Delete)
	}

	logger.Info("starting reelbase",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}

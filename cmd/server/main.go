package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crowncoastal/landing-backend/internal/clients/openai"
	rediscache "github.com/crowncoastal/landing-backend/internal/clients/redis"
	"github.com/crowncoastal/landing-backend/internal/data/db"
	landingrepo "github.com/crowncoastal/landing-backend/internal/data/repos/landing"
	"github.com/crowncoastal/landing-backend/internal/data/repos/listings"
	"github.com/crowncoastal/landing-backend/internal/handlers"
	"github.com/crowncoastal/landing-backend/internal/landing/cache"
	"github.com/crowncoastal/landing-backend/internal/landing/generator"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/middleware"
	"github.com/crowncoastal/landing-backend/internal/observability"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
	"github.com/crowncoastal/landing-backend/internal/server"
	"github.com/crowncoastal/landing-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Env
	log.Info("Loading environment variables from main...")
	adminJWTSecret := utils.GetEnv("ADMIN_JWT_SECRET", "defaultsecret", log)
	siteURL := utils.GetEnv("SITE_URL", "https://www.crowncoastalhomes.com", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Otel
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "landing-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     os.Getenv("APP_VERSION"),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	if err = db.EnsureLandingIndexes(postgresService.DB()); err != nil {
		log.Warn("Index setup failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional; the service degrades to DB + memory without it)
	redisCache, err := rediscache.NewCache(log)
	if err != nil {
		log.Warn("Redis init failed, continuing without look-aside cache", "error", err)
		redisCache = nil
	}

	// Repos
	log.Info("Setting up Repos from main...")
	listingRepo := listings.NewListingRepo(thePG, log)
	pageRepo := landingrepo.NewPageRepo(thePG, log)
	descriptionRepo := landingrepo.NewDescriptionRepo(thePG, log)
	runRepo := landingrepo.NewGenerationRunRepo(thePG, log)

	// OpenAI
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	inputBuilder := input.NewBuilder(listingRepo, siteURL, log)
	gen := generator.New(openaiClient, runRepo, generator.ConfigFromEnv(log), log)
	cacheService := cache.NewService(redisCache, pageRepo, descriptionRepo, inputBuilder, gen, nil, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	landingHandler := handlers.NewLandingHandler(log, cacheService)
	adminHandler := handlers.NewAdminHandler(log, cacheService, runRepo)

	// Middleware
	authMiddleware, err := middleware.NewAuthMiddleware(log, adminJWTSecret)
	if err != nil {
		log.Error("Could not init auth middleware", "error", err)
		os.Exit(1)
	}

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		LandingHandler: landingHandler,
		AdminHandler:   adminHandler,
		AuthMiddleware: authMiddleware,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}
	if otelShutdown != nil {
		_ = otelShutdown(shutdownCtx)
	}
}

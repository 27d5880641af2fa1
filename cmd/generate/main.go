package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crowncoastal/landing-backend/internal/clients/openai"
	rediscache "github.com/crowncoastal/landing-backend/internal/clients/redis"
	"github.com/crowncoastal/landing-backend/internal/data/db"
	landingrepo "github.com/crowncoastal/landing-backend/internal/data/repos/landing"
	"github.com/crowncoastal/landing-backend/internal/data/repos/listings"
	"github.com/crowncoastal/landing-backend/internal/landing/cache"
	"github.com/crowncoastal/landing-backend/internal/landing/generator"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/pagetypes"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
	"github.com/crowncoastal/landing-backend/internal/utils"
)

// Pre-generates the landing page catalog (cities x page types) so the
// first visitor never waits on a model call.
func main() {
	var (
		citiesFlag  = flag.String("cities", "", "comma-separated city list; defaults to every city with enough active listings")
		force       = flag.Bool("force", false, "regenerate even when a valid page exists")
		parallelism = flag.Int("parallelism", 2, "concurrent generations")
		minActive   = flag.Int("min-active", 5, "minimum active listings for a city to qualify")
		pause       = flag.Duration("pause", 2*time.Second, "delay between submissions")
	)
	flag.Parse()

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

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	redisCache, err := rediscache.NewCache(log)
	if err != nil {
		log.Warn("Redis init failed, continuing without look-aside cache", "error", err)
		redisCache = nil
	}

	listingRepo := listings.NewListingRepo(thePG, log)
	pageRepo := landingrepo.NewPageRepo(thePG, log)
	descriptionRepo := landingrepo.NewDescriptionRepo(thePG, log)
	runRepo := landingrepo.NewGenerationRunRepo(thePG, log)

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	siteURL := utils.GetEnv("SITE_URL", "https://www.crowncoastalhomes.com", log)
	inputBuilder := input.NewBuilder(listingRepo, siteURL, log)
	gen := generator.New(openaiClient, runRepo, generator.ConfigFromEnv(log), log)
	svc := cache.NewService(redisCache, pageRepo, descriptionRepo, inputBuilder, gen, nil, log)

	cities := splitCities(*citiesFlag)
	if len(cities) == 0 {
		cities, err = listingRepo.Cities(ctx, nil, *minActive)
		if err != nil {
			log.Error("Could not list cities", "error", err)
			os.Exit(1)
		}
	}
	if len(cities) == 0 {
		log.Warn("No cities qualify, nothing to do")
		return
	}

	types := pagetypes.All()
	log.Info("Starting batch generation", "cities", len(cities), "page_types", len(types), "force", *force)

	var generated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallelism)

	start := time.Now()
	for _, city := range cities {
		for _, pt := range types {
			city, slug := city, pt.Slug
			g.Go(func() error {
				page, err := svc.GetOrGenerate(gctx, city, slug, *force)
				if err != nil {
					failed.Add(1)
					log.Warn("Generation failed", "city", city, "page_type", slug, "error", err)
					return nil
				}
				generated.Add(1)
				log.Info("Page ready", "city", city, "page_type", slug, "status", page.Status, "model", page.ModelUsed)
				return nil
			})

			select {
			case <-gctx.Done():
			case <-time.After(*pause):
			}
		}
	}

	_ = g.Wait()
	log.Info("Batch generation finished",
		"generated", generated.Load(),
		"failed", failed.Load(),
		"elapsed", time.Since(start).Round(time.Second).String(),
	)
	if redisCache != nil {
		_ = redisCache.Close()
	}
}

func splitCities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if city := strings.TrimSpace(part); city != "" {
			out = append(out, city)
		}
	}
	return out
}

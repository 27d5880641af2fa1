package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	rediscache "github.com/crowncoastal/landing-backend/internal/clients/redis"
	landingrepo "github.com/crowncoastal/landing-backend/internal/data/repos/landing"
	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/generator"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/pagetypes"
	apperrors "github.com/crowncoastal/landing-backend/internal/pkg/errors"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

// ErrUnknownPageType is returned for slugs outside the registry. It
// wraps the shared not-found sentinel so transport layers can map it
// without importing this package's error.
var ErrUnknownPageType = fmt.Errorf("unknown page type: %w", apperrors.ErrNotFound)

// Page is the serving shape: structured content plus rendered HTML and
// the provenance of the generation that produced it.
type Page struct {
	City     string                  `json:"city"`
	PageType string                  `json:"page_type"`
	Status   types.LandingPageStatus `json:"status"`

	Content *content.LandingContent `json:"content,omitempty"`
	HTML    string                  `json:"html"`

	ModelUsed     string    `json:"model_used,omitempty"`
	PromptVersion string    `json:"prompt_version,omitempty"`
	FallbackUsed  bool      `json:"fallback_used"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ContentGenerator is what the service needs from the orchestrator.
type ContentGenerator interface {
	Generate(ctx context.Context, in *input.Context) (*generator.Result, error)
}

// InputBuilder assembles the generation context for one city/page type.
type InputBuilder interface {
	Build(ctx context.Context, city string, pt pagetypes.Config, opts input.Options) (*input.Context, error)
}

type inflight struct {
	done chan struct{}
	page *Page
	err  error
}

// Service owns the full lookup chain: Redis, durable rows, the legacy
// HTML table, an in-process map, and finally generation. Concurrent
// requests for the same page share a single generation through the
// in-flight registry.
type Service struct {
	redis   rediscache.Cache
	pages   landingrepo.PageRepo
	legacy  landingrepo.DescriptionRepo
	builder InputBuilder
	gen     ContentGenerator
	log     *logger.Logger

	// Editorial per-city data (region label, local area names) keyed
	// by city slug.
	cityOptions map[string]input.Options

	mu       sync.Mutex
	inflight map[string]*inflight
	memory   map[string]*Page
}

func NewService(redis rediscache.Cache, pages landingrepo.PageRepo, legacy landingrepo.DescriptionRepo, builder InputBuilder, gen ContentGenerator, cityOptions map[string]input.Options, baseLog *logger.Logger) *Service {
	return &Service{
		redis:       redis,
		pages:       pages,
		legacy:      legacy,
		builder:     builder,
		gen:         gen,
		log:         baseLog.With("service", "LandingCache"),
		cityOptions: cityOptions,
		inflight:    map[string]*inflight{},
		memory:      map[string]*Page{},
	}
}

func cacheKey(city, slug string) string {
	return "landing:" + city + ":" + slug
}

// GetOrGenerate serves one landing page, generating it if no layer has
// a valid copy. force skips every lookup layer but still joins an
// in-flight generation for the same key.
func (s *Service) GetOrGenerate(ctx context.Context, city, slug string, force bool) (*Page, error) {
	pt, ok := pagetypes.BySlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPageType, slug)
	}
	cityKey := strings.ToLower(strings.TrimSpace(city))
	if cityKey == "" {
		return nil, fmt.Errorf("city required")
	}
	key := cacheKey(cityKey, pt.Slug)

	if !force {
		if page := s.lookup(ctx, cityKey, pt.Slug, key); page != nil {
			return page, nil
		}
	}

	s.mu.Lock()
	if fl, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-fl.done:
			return fl.page, fl.err
		}
	}
	fl := &inflight{done: make(chan struct{})}
	s.inflight[key] = fl
	s.mu.Unlock()

	page, err := s.generate(ctx, city, cityKey, pt)

	s.mu.Lock()
	fl.page, fl.err = page, err
	delete(s.inflight, key)
	s.mu.Unlock()
	close(fl.done)

	if err != nil {
		return nil, err
	}

	s.store(ctx, key, page)
	return page, nil
}

// Invalidate drops every cache layer for one page and marks the
// durable row stale, so the next request regenerates.
func (s *Service) Invalidate(ctx context.Context, city, slug string) error {
	pt, ok := pagetypes.BySlug(slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPageType, slug)
	}
	cityKey := strings.ToLower(strings.TrimSpace(city))
	key := cacheKey(cityKey, pt.Slug)

	s.mu.Lock()
	delete(s.memory, key)
	s.mu.Unlock()

	if s.redis != nil {
		if err := s.redis.Delete(ctx, key); err != nil {
			s.log.Warn("redis invalidate failed", "key", key, "error", err)
		}
	}
	return s.pages.MarkStatus(ctx, nil, cityKey, pt.Slug, types.LandingPageStale)
}

// lookup walks the read layers in order. Only rows in the valid state
// count; generating and stale rows are treated as misses so a fresh
// generation replaces them.
func (s *Service) lookup(ctx context.Context, cityKey, slug, key string) *Page {
	if s.redis != nil {
		if raw, ok, err := s.redis.Get(ctx, key); err != nil {
			s.log.Warn("redis lookup failed", "key", key, "error", err)
		} else if ok {
			var page Page
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				if page.Status == types.LandingPageValid {
					return &page
				}
			} else {
				s.log.Warn("dropping undecodable redis entry", "key", key)
				_ = s.redis.Delete(ctx, key)
			}
		}
	}

	row, err := s.pages.Get(ctx, nil, cityKey, slug)
	if err != nil {
		s.log.Warn("landing page lookup failed", "key", key, "error", err)
	} else if row != nil && row.Status == types.LandingPageValid {
		page := pageFromRow(row)
		s.fillFastLayers(ctx, key, page)
		return page
	}

	if legacy, err := s.legacy.Get(ctx, nil, cityKey, slug); err != nil {
		s.log.Warn("legacy description lookup failed", "key", key, "error", err)
	} else if legacy != nil && strings.TrimSpace(legacy.HTML) != "" {
		page := &Page{
			City:        cityKey,
			PageType:    slug,
			Status:      types.LandingPageValid,
			HTML:        legacy.HTML,
			GeneratedAt: legacy.GeneratedAt,
		}
		s.backfill(ctx, page)
		s.fillFastLayers(ctx, key, page)
		return page
	}

	s.mu.Lock()
	page := s.memory[key]
	s.mu.Unlock()
	if page != nil && page.Status != types.LandingPageValid {
		return nil
	}
	return page
}

func (s *Service) generate(ctx context.Context, city, cityKey string, pt pagetypes.Config) (*Page, error) {
	in, err := s.builder.Build(ctx, city, pt, s.optionsFor(cityKey))
	if err != nil {
		return nil, fmt.Errorf("assemble input: %w", err)
	}

	res, err := s.gen.Generate(ctx, in)
	if errors.Is(err, generator.ErrGenerationExhausted) {
		s.log.Warn("generation exhausted, serving deterministic fallback", "city", cityKey, "page_type", pt.Slug)
		doc := content.Fallback(content.FallbackParams{
			City:          in.City,
			PageTypeSlug:  pt.Slug,
			PrimaryIntent: in.PrimaryIntent,
			CanonicalPath: in.CanonicalPath,
			DataSource:    in.DataSource,
			RelatedPages:  in.RelatedPages,
		})
		doc.BuildJSONLD(in.SiteURL, in.City, pt.Slug, in.FeaturedItemList())
		return &Page{
			City:        cityKey,
			PageType:    pt.Slug,
			Status:      types.LandingPageStale,
			Content:     doc,
			HTML:        doc.RenderHTML(),
			GeneratedAt: time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Page{
		City:          cityKey,
		PageType:      pt.Slug,
		Status:        types.LandingPageValid,
		Content:       res.Content,
		HTML:          res.Content.RenderHTML(),
		ModelUsed:     res.ModelUsed,
		PromptVersion: res.PromptVersion,
		FallbackUsed:  res.FallbackUsed,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

func (s *Service) optionsFor(cityKey string) input.Options {
	if s.cityOptions == nil {
		return input.Options{}
	}
	return s.cityOptions[cityKey]
}

// store writes a fresh page through every layer. Failures are logged
// and swallowed: the caller already has the content in hand.
func (s *Service) store(ctx context.Context, key string, page *Page) {
	generatedAt := page.GeneratedAt
	row := &types.LandingPage{
		City:          page.City,
		PageType:      page.PageType,
		Status:        page.Status,
		HTML:          page.HTML,
		ModelUsed:     page.ModelUsed,
		PromptVersion: page.PromptVersion,
		FallbackUsed:  page.FallbackUsed,
		GeneratedAt:   &generatedAt,
	}
	if page.Content != nil {
		if b, err := json.Marshal(page.Content); err == nil {
			row.Content = datatypes.JSON(b)
		}
	}
	if err := s.pages.Upsert(ctx, nil, row); err != nil {
		s.log.Warn("landing page write-through failed", "key", key, "error", err)
	}

	// The legacy table has no status column, so only settled content
	// goes there; a stale fallback would otherwise read back as good.
	if page.Status == types.LandingPageValid {
		if err := s.legacy.Upsert(ctx, nil, &types.LandingDescription{
			City:        page.City,
			Kind:        page.PageType,
			HTML:        page.HTML,
			GeneratedAt: page.GeneratedAt,
		}); err != nil {
			s.log.Warn("legacy write-through failed", "key", key, "error", err)
		}
	}

	s.fillFastLayers(ctx, key, page)
}

// backfill copies a legacy HTML row forward into the durable table so
// later requests skip the legacy layer.
func (s *Service) backfill(ctx context.Context, page *Page) {
	generatedAt := page.GeneratedAt
	err := s.pages.Upsert(ctx, nil, &types.LandingPage{
		City:        page.City,
		PageType:    page.PageType,
		Status:      page.Status,
		HTML:        page.HTML,
		GeneratedAt: &generatedAt,
	})
	if err != nil {
		s.log.Warn("legacy backfill failed", "city", page.City, "page_type", page.PageType, "error", err)
	}
}

func (s *Service) fillFastLayers(ctx context.Context, key string, page *Page) {
	s.mu.Lock()
	s.memory[key] = page
	s.mu.Unlock()

	if s.redis == nil {
		return
	}
	b, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, string(b)); err != nil {
		s.log.Warn("redis write-through failed", "key", key, "error", err)
	}
}

func pageFromRow(row *types.LandingPage) *Page {
	page := &Page{
		City:          row.City,
		PageType:      row.PageType,
		Status:        row.Status,
		HTML:          row.HTML,
		ModelUsed:     row.ModelUsed,
		PromptVersion: row.PromptVersion,
		FallbackUsed:  row.FallbackUsed,
	}
	if row.GeneratedAt != nil {
		page.GeneratedAt = *row.GeneratedAt
	}
	if len(row.Content) > 0 {
		var doc content.LandingContent
		if err := json.Unmarshal(row.Content, &doc); err == nil {
			page.Content = &doc
		}
	}
	return page
}

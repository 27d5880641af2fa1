package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/generator"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/pagetypes"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeRedis) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeRedis) Close() error { return nil }

type fakePageRepo struct {
	mu   sync.Mutex
	rows map[string]*types.LandingPage
}

func newFakePageRepo() *fakePageRepo { return &fakePageRepo{rows: map[string]*types.LandingPage{}} }

func (f *fakePageRepo) key(city, pageType string) string { return city + "|" + pageType }

func (f *fakePageRepo) Get(ctx context.Context, tx *gorm.DB, city, pageType string) (*types.LandingPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[f.key(city, pageType)], nil
}

func (f *fakePageRepo) Upsert(ctx context.Context, tx *gorm.DB, page *types.LandingPage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[f.key(page.City, page.PageType)] = page
	return nil
}

func (f *fakePageRepo) MarkStatus(ctx context.Context, tx *gorm.DB, city, pageType string, status types.LandingPageStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[f.key(city, pageType)]; ok {
		row.Status = status
	}
	return nil
}

func (f *fakePageRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status types.LandingPageStatus, limit int) ([]*types.LandingPage, error) {
	return nil, nil
}

type fakeDescRepo struct {
	mu   sync.Mutex
	rows map[string]*types.LandingDescription
}

func newFakeDescRepo() *fakeDescRepo {
	return &fakeDescRepo{rows: map[string]*types.LandingDescription{}}
}

func (f *fakeDescRepo) Get(ctx context.Context, tx *gorm.DB, city, kind string) (*types.LandingDescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[city+"|"+kind], nil
}

func (f *fakeDescRepo) Upsert(ctx context.Context, tx *gorm.DB, desc *types.LandingDescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[desc.City+"|"+desc.Kind] = desc
	return nil
}

type fakeBuilder struct{}

func (fakeBuilder) Build(ctx context.Context, city string, pt pagetypes.Config, opts input.Options) (*input.Context, error) {
	return &input.Context{
		City:          city,
		CitySlug:      "carlsbad",
		State:         "California",
		PageType:      pt,
		PrimaryIntent: pagetypes.Resolve(pt.PrimaryIntent, city),
		CanonicalPath: "/carlsbad/" + pt.Slug,
		DataSource:    "Data source: local MLS listing feed",
		AllowedPlaces: map[string]struct{}{"carlsbad": {}, "california": {}},
	}, nil
}

type fakeGen struct {
	mu      sync.Mutex
	calls   int
	err     error
	release chan struct{}
}

func (f *fakeGen) Generate(ctx context.Context, in *input.Context) (*generator.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	doc := content.Fallback(content.FallbackParams{
		City:          in.City,
		PageTypeSlug:  in.PageType.Slug,
		PrimaryIntent: in.PrimaryIntent,
		CanonicalPath: in.CanonicalPath,
		DataSource:    in.DataSource,
	})
	return &generator.Result{
		Content:       doc,
		ModelUsed:     "primary-model",
		PromptVersion: "v4",
		Attempts:      1,
	}, nil
}

func (f *fakeGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(tb testing.TB, gen *fakeGen) (*Service, *fakeRedis, *fakePageRepo, *fakeDescRepo) {
	tb.Helper()
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	rds := newFakeRedis()
	pages := newFakePageRepo()
	legacy := newFakeDescRepo()
	svc := NewService(rds, pages, legacy, fakeBuilder{}, gen, nil, log)
	return svc, rds, pages, legacy
}

func TestGetOrGenerateIsIdempotent(t *testing.T) {
	gen := &fakeGen{}
	svc, rds, pages, legacy := newTestService(t, gen)
	ctx := context.Background()

	page, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
	if err != nil {
		t.Fatalf("GetOrGenerate: %v", err)
	}
	if page.Status != types.LandingPageValid || page.Content == nil || page.HTML == "" {
		t.Fatalf("unexpected page: %+v", page)
	}

	// Second call must come from a cache layer.
	if _, err := svc.GetOrGenerate(ctx, "carlsbad", "homes-for-sale", false); err != nil {
		t.Fatalf("second GetOrGenerate: %v", err)
	}
	if gen.callCount() != 1 {
		t.Fatalf("expected 1 generation, got %d", gen.callCount())
	}

	// Write-through landed everywhere.
	if _, ok := rds.data["landing:carlsbad:homes-for-sale"]; !ok {
		t.Fatalf("redis write-through missing")
	}
	row, _ := pages.Get(ctx, nil, "carlsbad", "homes-for-sale")
	if row == nil || row.Status != types.LandingPageValid {
		t.Fatalf("durable write-through missing: %+v", row)
	}
	if desc, _ := legacy.Get(ctx, nil, "carlsbad", "homes-for-sale"); desc == nil {
		t.Fatalf("legacy write-through missing")
	}
}

func TestConcurrentCallersShareOneGeneration(t *testing.T) {
	gen := &fakeGen{release: make(chan struct{})}
	svc, _, _, _ := newTestService(t, gen)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*Page, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
		}(i)
	}

	// Let both goroutines reach the registry before the generation
	// settles.
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] == nil || results[i].HTML == "" {
			t.Fatalf("caller %d got empty page", i)
		}
	}
	if gen.callCount() != 1 {
		t.Fatalf("expected a single shared generation, got %d", gen.callCount())
	}
}

func TestForceBypassesCaches(t *testing.T) {
	gen := &fakeGen{}
	svc, _, _, _ := newTestService(t, gen)
	ctx := context.Background()

	if _, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", true); err != nil {
		t.Fatalf("force: %v", err)
	}
	if gen.callCount() != 2 {
		t.Fatalf("force should regenerate, got %d calls", gen.callCount())
	}
}

func TestStaleRowIsAMiss(t *testing.T) {
	gen := &fakeGen{}
	svc, _, pages, _ := newTestService(t, gen)
	ctx := context.Background()

	now := time.Now()
	_ = pages.Upsert(ctx, nil, &types.LandingPage{
		City:        "carlsbad",
		PageType:    "homes-for-sale",
		Status:      types.LandingPageStale,
		HTML:        "<p>old copy</p>",
		GeneratedAt: &now,
	})

	page, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
	if err != nil {
		t.Fatalf("GetOrGenerate: %v", err)
	}
	if gen.callCount() != 1 {
		t.Fatalf("stale row must trigger regeneration")
	}
	if page.HTML == "<p>old copy</p>" {
		t.Fatalf("served the stale copy")
	}
}

func TestLegacyRowIsServedAndBackfilled(t *testing.T) {
	gen := &fakeGen{}
	svc, _, pages, legacy := newTestService(t, gen)
	ctx := context.Background()

	_ = legacy.Upsert(ctx, nil, &types.LandingDescription{
		City:        "carlsbad",
		Kind:        "homes-for-sale",
		HTML:        "<h2>Legacy page</h2>",
		GeneratedAt: time.Now().Add(-24 * time.Hour),
	})

	page, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
	if err != nil {
		t.Fatalf("GetOrGenerate: %v", err)
	}
	if gen.callCount() != 0 {
		t.Fatalf("legacy hit must not generate")
	}
	if page.HTML != "<h2>Legacy page</h2>" {
		t.Fatalf("expected legacy HTML, got %q", page.HTML)
	}
	row, _ := pages.Get(ctx, nil, "carlsbad", "homes-for-sale")
	if row == nil || row.HTML != "<h2>Legacy page</h2>" {
		t.Fatalf("legacy row was not backfilled: %+v", row)
	}
}

func TestExhaustionStoresFallbackAsStale(t *testing.T) {
	gen := &fakeGen{err: generator.ErrGenerationExhausted}
	svc, _, pages, _ := newTestService(t, gen)
	ctx := context.Background()

	page, err := svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
	if err != nil {
		t.Fatalf("exhaustion must still serve fallback copy: %v", err)
	}
	if page.Status != types.LandingPageStale || page.Content == nil {
		t.Fatalf("expected stale fallback page: %+v", page)
	}
	if len(page.Content.SchemaJSONLD) < 2 {
		t.Fatalf("fallback page should carry json-ld blocks, got %d", len(page.Content.SchemaJSONLD))
	}

	row, _ := pages.Get(ctx, nil, "carlsbad", "homes-for-sale")
	if row == nil || row.Status != types.LandingPageStale {
		t.Fatalf("fallback must be stored stale: %+v", row)
	}

	// Stale fallback is a miss for the next reader once the in-memory
	// copy is invalidated.
	if err := svc.Invalidate(ctx, "Carlsbad", "homes-for-sale"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	gen.err = nil
	page, err = svc.GetOrGenerate(ctx, "Carlsbad", "homes-for-sale", false)
	if err != nil {
		t.Fatalf("regenerate after invalidate: %v", err)
	}
	if page.Status != types.LandingPageValid {
		t.Fatalf("expected valid page after regeneration: %+v", page)
	}
}

func TestUnknownPageType(t *testing.T) {
	gen := &fakeGen{}
	svc, _, _, _ := newTestService(t, gen)

	_, err := svc.GetOrGenerate(context.Background(), "Carlsbad", "not-a-page", false)
	if !errors.Is(err, ErrUnknownPageType) {
		t.Fatalf("expected ErrUnknownPageType, got %v", err)
	}
}

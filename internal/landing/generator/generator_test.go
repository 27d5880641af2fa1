package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/crowncoastal/landing-backend/internal/clients/openai"
	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/pagetypes"
	"github.com/crowncoastal/landing-backend/internal/landing/validators"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

type scriptedCall struct {
	raw map[string]any
	err error
}

type fakeAI struct {
	mu    sync.Mutex
	calls []scriptedCall
	seen  []struct {
		Model string
		User  string
	}
}

func (f *fakeAI) GenerateJSON(ctx context.Context, model, system, user, schemaName string, schema map[string]any) (map[string]any, openai.Usage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, struct {
		Model string
		User  string
	}{model, user})
	if len(f.calls) == 0 {
		return nil, openai.Usage{}, errors.New("no scripted call")
	}
	call := f.calls[0]
	f.calls = f.calls[1:]
	return call.raw, openai.Usage{InputTokens: 100, OutputTokens: 200}, call.err
}

func (f *fakeAI) GenerateText(ctx context.Context, model, system, user string) (string, openai.Usage, error) {
	return "", openai.Usage{}, errors.New("not implemented")
}

type fakeRunRepo struct {
	mu   sync.Mutex
	rows []*types.LandingGenerationRun
}

func (f *fakeRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.LandingGenerationRun) ([]*types.LandingGenerationRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, runs...)
	return runs, nil
}

func (f *fakeRunRepo) ListByPage(ctx context.Context, tx *gorm.DB, city, pageType string, limit int) ([]*types.LandingGenerationRun, error) {
	return nil, nil
}

func (f *fakeRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LandingGenerationRun, error) {
	return nil, nil
}

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	return log
}

func testContext(tb testing.TB) *input.Context {
	tb.Helper()
	pt, ok := pagetypes.BySlug("homes-for-sale")
	if !ok {
		tb.Fatalf("missing page type")
	}
	related := []content.Link{
		{Href: "/carlsbad/condos-for-sale", Anchor: "Condos for sale in Carlsbad"},
	}
	return &input.Context{
		City:           "Carlsbad",
		CitySlug:       "carlsbad",
		State:          "California",
		SiteURL:        "https://www.crowncoastal.com",
		PageType:       pt,
		PrimaryIntent:  "homes for sale in Carlsbad",
		CanonicalPath:  "/carlsbad/homes-for-sale",
		InternalLinks:  related,
		RelatedPages:   related,
		DataSource:     "Data source: local MLS listing feed",
		LastUpdatedISO: "2025-06-01T00:00:00Z",
		AllowedPlaces: map[string]struct{}{
			"carlsbad":   {},
			"california": {},
		},
	}
}

func validRaw(tb testing.TB, in *input.Context) map[string]any {
	tb.Helper()
	doc := content.Fallback(content.FallbackParams{
		City:          in.City,
		PageTypeSlug:  in.PageType.Slug,
		PrimaryIntent: in.PrimaryIntent,
		CanonicalPath: in.CanonicalPath,
		DataSource:    in.DataSource,
		RelatedPages:  in.RelatedPages,
	})
	doc.Sections.MarketSnapshot.Paragraphs = append(
		doc.Sections.MarketSnapshot.Paragraphs,
		in.DataSource+" Last updated: "+in.LastUpdatedISO,
	)

	b, err := json.Marshal(doc)
	if err != nil {
		tb.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		tb.Fatalf("unmarshal: %v", err)
	}
	return raw
}

func testConfig() Config {
	return Config{
		PrimaryModel:  "primary-model",
		FallbackModel: "backup-model",
		MaxAttempts:   3,
		MinWords:      100,
		MaxWords:      5000,
		AttemptDelay:  0,
		Semantic:      validators.DefaultConfig(),
	}
}

func TestGenerateFirstAttemptSucceeds(t *testing.T) {
	in := testContext(t)
	ai := &fakeAI{calls: []scriptedCall{{raw: validRaw(t, in)}}}
	runs := &fakeRunRepo{}
	g := New(ai, runs, testConfig(), testLogger(t))

	res, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.ModelUsed != "primary-model" || res.FallbackUsed {
		t.Fatalf("expected primary model, got %q fallback=%v", res.ModelUsed, res.FallbackUsed)
	}
	if res.Attempts != 1 || res.Repairs != 0 {
		t.Fatalf("attempts=%d repairs=%d", res.Attempts, res.Repairs)
	}
	if res.TokensIn != 100 || res.TokensOut != 200 {
		t.Fatalf("token usage not carried: in=%d out=%d", res.TokensIn, res.TokensOut)
	}
	if len(runs.rows) != 1 || runs.rows[0].Status != RunStatusSucceeded {
		t.Fatalf("expected one succeeded run row, got %+v", runs.rows)
	}
	if runs.rows[0].City != "carlsbad" || runs.rows[0].PromptVersion != "v4" {
		t.Fatalf("run row mislabeled: %+v", runs.rows[0])
	}

	// Structured-data blocks are stamped onto the validated document.
	if len(res.Content.SchemaJSONLD) < 2 {
		t.Fatalf("expected json-ld blocks on the result, got %d", len(res.Content.SchemaJSONLD))
	}
	if res.Content.SchemaJSONLD[0]["@type"] != "BreadcrumbList" || res.Content.SchemaJSONLD[1]["@type"] != "FAQPage" {
		t.Fatalf("unexpected json-ld block order: %+v", res.Content.SchemaJSONLD)
	}
}

func TestGenerateRepairsSemanticFailure(t *testing.T) {
	in := testContext(t)

	bad := validRaw(t, in)
	// Inject an off-allowlist place into the intro so the semantic
	// pass fails and the next attempt becomes a repair.
	intro := bad["intro"].(map[string]any)
	intro["paragraphs"] = []any{"Minutes from La Jolla and its beaches, the city draws buyers year round."}

	ai := &fakeAI{calls: []scriptedCall{
		{raw: bad},
		{raw: validRaw(t, in)},
	}}
	runs := &fakeRunRepo{}
	g := New(ai, runs, testConfig(), testLogger(t))

	res, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Attempts != 2 || res.Repairs != 1 {
		t.Fatalf("attempts=%d repairs=%d", res.Attempts, res.Repairs)
	}
	if len(ai.seen) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(ai.seen))
	}
	second := ai.seen[1].User
	if !containsAll(second, "VALIDATION_ERRORS_TO_FIX:", validators.CodeGeoInvalid, "PREVIOUS_OUTPUT") {
		t.Fatalf("second call is not a repair prompt:\n%s", second)
	}

	if len(runs.rows) != 2 {
		t.Fatalf("expected 2 run rows, got %d", len(runs.rows))
	}
	if runs.rows[0].Status != RunStatusFailed || runs.rows[0].ValidationErrors == nil {
		t.Fatalf("first row should be a failure with errors: %+v", runs.rows[0])
	}
	if !runs.rows[1].Repair {
		t.Fatalf("second row should be marked repair: %+v", runs.rows[1])
	}
}

func TestGenerateSchemaFailureRestartsClean(t *testing.T) {
	in := testContext(t)

	broken := validRaw(t, in)
	delete(broken, "faq")

	ai := &fakeAI{calls: []scriptedCall{
		{raw: broken},
		{raw: validRaw(t, in)},
	}}
	g := New(ai, &fakeRunRepo{}, testConfig(), testLogger(t))

	res, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Attempts != 2 || res.Repairs != 0 {
		t.Fatalf("schema failure must not trigger a repair prompt: attempts=%d repairs=%d", res.Attempts, res.Repairs)
	}
	if containsAll(ai.seen[1].User, "VALIDATION_ERRORS_TO_FIX:") {
		t.Fatalf("second call should be the clean prompt")
	}
}

func TestGenerateFallsBackOnFinalAttempt(t *testing.T) {
	in := testContext(t)
	ai := &fakeAI{calls: []scriptedCall{
		{err: errors.New("model unavailable")},
		{err: errors.New("model unavailable")},
		{raw: validRaw(t, in)},
	}}
	g := New(ai, &fakeRunRepo{}, testConfig(), testLogger(t))

	res, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.FallbackUsed || res.ModelUsed != "backup-model" {
		t.Fatalf("expected fallback model on final attempt, got %q", res.ModelUsed)
	}
	if ai.seen[0].Model != "primary-model" || ai.seen[1].Model != "primary-model" || ai.seen[2].Model != "backup-model" {
		t.Fatalf("model schedule wrong: %+v", ai.seen)
	}
}

func TestGenerateExhaustion(t *testing.T) {
	in := testContext(t)
	ai := &fakeAI{calls: []scriptedCall{
		{err: errors.New("down")},
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	runs := &fakeRunRepo{}
	g := New(ai, runs, testConfig(), testLogger(t))

	_, err := g.Generate(context.Background(), in)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
	if len(runs.rows) != 3 {
		t.Fatalf("expected 3 failed run rows, got %d", len(runs.rows))
	}
	for _, row := range runs.rows {
		if row.Status != RunStatusFailed {
			t.Fatalf("expected failed status: %+v", row)
		}
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

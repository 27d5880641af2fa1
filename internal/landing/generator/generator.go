package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/crowncoastal/landing-backend/internal/clients/openai"
	landingrepo "github.com/crowncoastal/landing-backend/internal/data/repos/landing"
	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/prompts"
	"github.com/crowncoastal/landing-backend/internal/landing/validators"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
	"github.com/crowncoastal/landing-backend/internal/utils"
)

// ErrGenerationExhausted is returned when every attempt failed. The
// caller decides what to serve instead (deterministic fallback copy).
var ErrGenerationExhausted = errors.New("landing generation attempts exhausted")

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Config bounds one generation. Defaults come from the environment so
// a misbehaving model can be swapped without a deploy.
type Config struct {
	PrimaryModel  string
	FallbackModel string
	MaxAttempts   int

	MinWords int
	MaxWords int

	// Pause between failed attempts.
	AttemptDelay time.Duration

	Semantic validators.Config
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		PrimaryModel:  utils.GetEnv("OPENAI_MODEL", "gpt-5-mini", log),
		FallbackModel: utils.GetEnv("LANDING_FALLBACK_MODEL", "gpt-4o-mini", log),
		MaxAttempts:   utils.GetEnvAsInt("LANDING_MAX_ATTEMPTS", 3, log),
		MinWords:      utils.GetEnvAsInt("LANDING_MIN_WORDS", 1300, log),
		MaxWords:      utils.GetEnvAsInt("LANDING_MAX_WORDS", 1900, log),
		AttemptDelay:  500 * time.Millisecond,
		Semantic:      validators.DefaultConfig(),
	}
}

// Result is one successful generation plus the telemetry the caller
// persists alongside the content.
type Result struct {
	Content *content.LandingContent

	ModelUsed     string
	PromptVersion string
	FallbackUsed  bool

	Attempts  int
	Repairs   int
	TokensIn  int
	TokensOut int
}

type Generator struct {
	ai   openai.Client
	runs landingrepo.GenerationRunRepo
	cfg  Config
	log  *logger.Logger
}

func New(ai openai.Client, runs landingrepo.GenerationRunRepo, cfg Config, baseLog *logger.Logger) *Generator {
	prompts.RegisterAll()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Generator{
		ai:   ai,
		runs: runs,
		cfg:  cfg,
		log:  baseLog.With("service", "LandingGenerator"),
	}
}

// Generate runs the attempt loop for one assembled page context:
// primary model first, fallback model on the final attempt. A schema
// failure restarts from the clean prompt; a semantic failure turns the
// next attempt into a repair prompt carrying the itemized errors and
// the previous output. Every attempt is recorded whether it succeeded
// or not.
func (g *Generator) Generate(ctx context.Context, in *input.Context) (*Result, error) {
	pin := prompts.Input{
		City:              in.City,
		State:             in.State,
		Region:            in.Region,
		PageTypeSlug:      in.PageType.Slug,
		PrimaryIntent:     in.PrimaryIntent,
		Syn1:              in.Syn1,
		Syn2:              in.Syn2,
		Syn3:              in.Syn3,
		CanonicalPath:     in.CanonicalPath,
		InputJSON:         in.InputJSON(),
		MarketStatsText:   in.MarketStatsText,
		AllowedPlaceNames: in.AllowedPlaceNames(),
		DataSource:        in.DataSource,
		LastUpdatedISO:    in.LastUpdatedISO,
		MinWords:          g.cfg.MinWords,
		MaxWords:          g.cfg.MaxWords,
	}
	if in.MissingSpecs {
		pin.MissingSpecsSentence = prompts.MissingSpecsSentence
	}

	p, err := prompts.Build(prompts.PromptLandingPageV4, pin)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	var (
		repairErrs []string
		prevOutput string
		repairs    int
		tokensIn   int
		tokensOut  int
	)

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 && g.cfg.AttemptDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.cfg.AttemptDelay):
			}
		}

		model := g.cfg.PrimaryModel
		if attempt == g.cfg.MaxAttempts && g.cfg.MaxAttempts > 1 {
			model = g.cfg.FallbackModel
		}

		user := p.User
		repair := len(repairErrs) > 0
		if repair {
			user = prompts.RepairUser(p.User, prevOutput, repairErrs)
			repairs++
		}

		start := time.Now()
		raw, usage, callErr := g.ai.GenerateJSON(ctx, model, p.System, user, p.SchemaName, p.Schema)
		latency := time.Since(start)
		tokensIn += usage.InputTokens
		tokensOut += usage.OutputTokens

		if callErr != nil {
			g.log.Warn("generation attempt failed", "city", in.CitySlug, "page_type", in.PageType.Slug, "attempt", attempt, "model", model, "error", callErr)
			g.recordRun(ctx, in, p, model, attempt, repair, latency, usage, []string{"API_ERROR: " + callErr.Error()})
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		doc, parseErr := content.Parse(raw)
		if parseErr != nil {
			g.recordRun(ctx, in, p, model, attempt, repair, latency, usage, []string{"SCHEMA_INVALID: " + parseErr.Error()})
			repairErrs, prevOutput = nil, ""
			continue
		}
		doc.Normalize(in.CanonicalPath)

		if schemaErrs := doc.ValidateSchema(); len(schemaErrs) > 0 {
			g.log.Warn("schema validation failed", "city", in.CitySlug, "page_type", in.PageType.Slug, "attempt", attempt, "errors", len(schemaErrs))
			g.recordRun(ctx, in, p, model, attempt, repair, latency, usage, schemaErrs)
			// Structurally broken output is not worth repairing in
			// place; restart from the clean prompt.
			repairErrs, prevOutput = nil, ""
			continue
		}

		if removed := doc.TruncateToWordBand(g.cfg.MaxWords); removed > 0 {
			g.log.Info("truncated over-length document", "city", in.CitySlug, "page_type", in.PageType.Slug, "removed_blocks", removed)
		}

		if res := validators.Validate(doc, in, g.cfg.Semantic); !res.OK {
			g.log.Warn("semantic validation failed", "city", in.CitySlug, "page_type", in.PageType.Slug, "attempt", attempt, "errors", res.Strings())
			g.recordRun(ctx, in, p, model, attempt, repair, latency, usage, res.Strings())
			repairErrs = res.Strings()
			if b, mErr := json.Marshal(raw); mErr == nil {
				prevOutput = string(b)
			}
			continue
		}

		doc.BuildJSONLD(in.SiteURL, in.City, in.PageType.Slug, in.FeaturedItemList())

		g.recordRun(ctx, in, p, model, attempt, repair, latency, usage, nil)
		return &Result{
			Content:       doc,
			ModelUsed:     model,
			PromptVersion: p.VersionTag(),
			FallbackUsed:  model == g.cfg.FallbackModel && model != g.cfg.PrimaryModel,
			Attempts:      attempt,
			Repairs:       repairs,
			TokensIn:      tokensIn,
			TokensOut:     tokensOut,
		}, nil
	}

	return nil, ErrGenerationExhausted
}

func (g *Generator) recordRun(ctx context.Context, in *input.Context, p prompts.Prompt, model string, attempt int, repair bool, latency time.Duration, usage openai.Usage, validationErrs []string) {
	if g.runs == nil {
		return
	}

	status := RunStatusSucceeded
	var errsJSON datatypes.JSON
	if len(validationErrs) > 0 {
		status = RunStatusFailed
		if b, err := json.Marshal(validationErrs); err == nil {
			errsJSON = datatypes.JSON(b)
		}
	}

	run := &types.LandingGenerationRun{
		City:             in.CitySlug,
		PageType:         in.PageType.Slug,
		Status:           status,
		Model:            model,
		PromptVersion:    p.VersionTag(),
		Attempt:          attempt,
		Repair:           repair,
		LatencyMS:        int(latency.Milliseconds()),
		TokensIn:         usage.InputTokens,
		TokensOut:        usage.OutputTokens,
		ValidationErrors: errsJSON,
	}
	if _, err := g.runs.Create(ctx, nil, []*types.LandingGenerationRun{run}); err != nil {
		g.log.Warn("failed to record generation run", "city", in.CitySlug, "page_type", in.PageType.Slug, "error", err)
	}
}

package validators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/prompts"
)

// Error codes surfaced to repair prompts and run telemetry.
const (
	CodeGeoInvalid          = "GEO_INVALID"
	CodeMissingIntent       = "MISSING_INTENT_PHRASE"
	CodeMissingSynonym      = "MISSING_SYNONYM_PHRASE"
	CodeMissingDataSource   = "MISSING_DATA_SOURCE"
	CodeMissingLastUpdated  = "MISSING_LAST_UPDATED"
	CodeMissingSpecs        = "MISSING_SPECS_SENTENCE"
	CodeInvalidInBodyLink   = "INVALID_IN_BODY_LINK"
	CodeInvalidRelatedLink  = "INVALID_RELATED_LINK"
	CodeTooManyInBodyLinks  = "TOO_MANY_IN_BODY_LINKS"
	CodeForbiddenToken      = "FORBIDDEN_TOKEN"
	CodeInsufficientBullets = "INSUFFICIENT_BULLETS"
	CodeTooManyBullets      = "TOO_MANY_BULLETS"
	CodeMissingCTA          = "MISSING_CTA"
	CodeExcessiveRepetition = "EXCESSIVE_REPETITION"
	CodeCanonicalMismatch   = "CANONICAL_MISMATCH"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (e Error) String() string {
	return e.Code + ": " + e.Message
}

type Result struct {
	OK     bool
	Errors []Error
}

// Strings renders the error list for a repair prompt.
func (r Result) Strings() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.String())
	}
	return out
}

// Config bounds for the semantic checks.
type Config struct {
	MaxInBodyLinks      int
	RepetitionThreshold int
	MinBullets          int
	MaxBullets          int
}

func DefaultConfig() Config {
	return Config{
		MaxInBodyLinks:      10,
		RepetitionThreshold: 3,
		MinBullets:          8,
		MaxBullets:          12,
	}
}

var forbiddenTokens = []string{
	"cloud sql",
	"supabase",
	"postgres",
	"postgresql",
	"database",
	"internal id",
	"mls id",
	"listing_key",
	"system message",
	"system prompt",
}

// Tokens too common to flag alone; only forbidden outside benign
// real-estate phrasings.
var contextForbiddenTokens = []struct {
	token   string
	exclude []string
}{
	{token: "prompt", exclude: []string{"prompt service", "prompt response", "prompt attention", "prompt delivery"}},
	{token: "model", exclude: []string{"model home", "model unit", "business model", "model match"}},
}

// Validate runs every semantic check over the document and collects
// all violations. Structural (schema-level) problems are assumed to be
// checked already by content.ValidateSchema.
func Validate(c *content.LandingContent, in *input.Context, cfg Config) Result {
	var errs []Error

	errs = append(errs, validateGeo(c, in)...)
	errs = append(errs, validateRequiredPhrases(c, in)...)
	errs = append(errs, validateInternalLinks(c, in, cfg)...)
	errs = append(errs, validateForbiddenContent(c)...)
	errs = append(errs, validateBuyerStrategy(c, cfg)...)
	errs = append(errs, validateRepetition(c, cfg)...)

	if c.SEO.CanonicalPath != in.CanonicalPath {
		errs = append(errs, Error{
			Code:    CodeCanonicalMismatch,
			Message: fmt.Sprintf("seo.canonical_path is %q, must be %q", c.SEO.CanonicalPath, in.CanonicalPath),
			Path:    "seo.canonical_path",
		})
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}

func validateGeo(c *content.LandingContent, in *input.Context) []Error {
	var errs []Error
	flagged := map[string]struct{}{}
	for _, field := range c.TextFields() {
		for _, place := range FindKnownPlaces(field, in.AllowedPlaces) {
			if _, ok := flagged[place]; ok {
				continue
			}
			flagged[place] = struct{}{}
			errs = append(errs, Error{
				Code:    CodeGeoInvalid,
				Message: fmt.Sprintf("mentions %q, which is not in the allowed place list for %s", place, in.City),
			})
		}
	}
	return errs
}

func validateRequiredPhrases(c *content.LandingContent, in *input.Context) []Error {
	var errs []Error

	body := strings.ToLower(strings.Join(c.TextFields(), " "))
	if intent := strings.ToLower(strings.TrimSpace(in.PrimaryIntent)); intent != "" && !strings.Contains(body, intent) {
		errs = append(errs, Error{
			Code:    CodeMissingIntent,
			Message: fmt.Sprintf("body text never states the page intent %q", in.PrimaryIntent),
		})
	}
	synProvided, synFound := false, false
	for _, syn := range []string{in.Syn1, in.Syn2, in.Syn3} {
		syn = strings.ToLower(strings.TrimSpace(syn))
		if syn == "" {
			continue
		}
		synProvided = true
		if strings.Contains(body, syn) {
			synFound = true
			break
		}
	}
	if synProvided && !synFound {
		errs = append(errs, Error{
			Code:    CodeMissingSynonym,
			Message: fmt.Sprintf("body text carries none of the intent synonyms for %q", in.PrimaryIntent),
		})
	}

	snapshot := strings.Join(c.Sections.MarketSnapshot.Paragraphs, " ")
	if !strings.Contains(snapshot, in.DataSource) {
		errs = append(errs, Error{
			Code:    CodeMissingDataSource,
			Message: fmt.Sprintf("market_snapshot must include %q", in.DataSource),
			Path:    "sections.market_snapshot",
		})
	}
	lastUpdated := "Last updated: " + in.LastUpdatedISO
	if !strings.Contains(snapshot, lastUpdated) {
		errs = append(errs, Error{
			Code:    CodeMissingLastUpdated,
			Message: fmt.Sprintf("market_snapshot must include %q", lastUpdated),
			Path:    "sections.market_snapshot",
		})
	}

	if in.MissingSpecs {
		body := c.Sections.FeaturedListings.Intro
		if n := strings.Count(body, prompts.MissingSpecsSentence); n != 1 {
			errs = append(errs, Error{
				Code:    CodeMissingSpecs,
				Message: fmt.Sprintf("featured_listings must include the missing-specs disclaimer exactly once (found %d)", n),
				Path:    "sections.featured_listings.intro",
			})
		}
	}

	return errs
}

func validateInternalLinks(c *content.LandingContent, in *input.Context, cfg Config) []Error {
	var errs []Error

	valid := map[string]struct{}{}
	for _, l := range in.InternalLinks {
		valid[l.Href+"|"+l.Anchor] = struct{}{}
	}
	for _, l := range in.RelatedPages {
		valid[l.Href+"|"+l.Anchor] = struct{}{}
	}

	if n := len(c.InternalLinking.InBodyLinks); n > cfg.MaxInBodyLinks {
		errs = append(errs, Error{
			Code:    CodeTooManyInBodyLinks,
			Message: fmt.Sprintf("%d in-body links (max %d)", n, cfg.MaxInBodyLinks),
			Path:    "internal_linking.in_body_links",
		})
	}
	for i, l := range c.InternalLinking.InBodyLinks {
		if _, ok := valid[l.Href+"|"+l.Anchor]; !ok {
			errs = append(errs, Error{
				Code:    CodeInvalidInBodyLink,
				Message: fmt.Sprintf("link %q -> %q is not in the provided link inventory", l.Anchor, l.Href),
				Path:    fmt.Sprintf("internal_linking.in_body_links[%d]", i),
			})
		}
	}
	for i, l := range c.InternalLinking.RelatedPages {
		if _, ok := valid[l.Href+"|"+l.Anchor]; !ok {
			errs = append(errs, Error{
				Code:    CodeInvalidRelatedLink,
				Message: fmt.Sprintf("link %q -> %q is not in the provided link inventory", l.Anchor, l.Href),
				Path:    fmt.Sprintf("internal_linking.related_pages[%d]", i),
			})
		}
	}

	return errs
}

func validateForbiddenContent(c *content.LandingContent) []Error {
	var errs []Error
	flagged := map[string]struct{}{}

	flag := func(token string) {
		if _, ok := flagged[token]; ok {
			return
		}
		flagged[token] = struct{}{}
		errs = append(errs, Error{
			Code:    CodeForbiddenToken,
			Message: fmt.Sprintf("contains forbidden token %q", token),
		})
	}

	for _, field := range c.TextFields() {
		lower := strings.ToLower(field)
		for _, token := range forbiddenTokens {
			if containsPhrase(lower, token) {
				flag(token)
			}
		}
		for _, ct := range contextForbiddenTokens {
			if !containsPhrase(lower, ct.token) {
				continue
			}
			excluded := false
			for _, ex := range ct.exclude {
				if strings.Contains(lower, ex) {
					excluded = true
					break
				}
			}
			if !excluded {
				flag(ct.token)
			}
		}
	}
	return errs
}

func validateBuyerStrategy(c *content.LandingContent, cfg Config) []Error {
	var errs []Error

	n := content.CountBullets(c.Sections.BuyerStrategy.BulletPoints)
	if n < cfg.MinBullets {
		errs = append(errs, Error{
			Code:    CodeInsufficientBullets,
			Message: fmt.Sprintf("buyer_strategy has %d bullet points (need at least %d)", n, cfg.MinBullets),
			Path:    "sections.buyer_strategy.bullet_points",
		})
	} else if n > cfg.MaxBullets {
		errs = append(errs, Error{
			Code:    CodeTooManyBullets,
			Message: fmt.Sprintf("buyer_strategy has %d bullet points (max %d)", n, cfg.MaxBullets),
			Path:    "sections.buyer_strategy.bullet_points",
		})
	}

	if strings.TrimSpace(c.Sections.BuyerStrategy.CTA) == "" {
		errs = append(errs, Error{
			Code:    CodeMissingCTA,
			Message: "buyer_strategy.cta is empty",
			Path:    "sections.buyer_strategy.cta",
		})
	}

	return errs
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

func validateRepetition(c *content.LandingContent, cfg Config) []Error {
	threshold := cfg.RepetitionThreshold
	if threshold <= 0 {
		threshold = 3
	}

	counts := map[string]int{}
	for _, field := range c.TextFields() {
		for _, raw := range sentenceSplitRe.Split(field, -1) {
			s := strings.ToLower(strings.TrimSpace(raw))
			if len(s) <= 20 {
				continue
			}
			counts[s]++
		}
	}

	var errs []Error
	for sentence, n := range counts {
		if n >= threshold {
			preview := sentence
			if len(preview) > 60 {
				preview = preview[:60] + "..."
			}
			errs = append(errs, Error{
				Code:    CodeExcessiveRepetition,
				Message: fmt.Sprintf("sentence repeated %d times: %q", n, preview),
			})
		}
	}
	return errs
}

package prompts

import (
	"sync"

	"github.com/crowncoastal/landing-backend/internal/landing/content"
)

// MissingSpecsSentence is the exact disclaimer the featured-listings
// body must carry when listing cards arrived without full specs. The
// semantic validator matches it verbatim.
const MissingSpecsSentence = "Some featured listings may not show every detail (such as square footage or bed/bath count) in the quick view; open the full listing page for complete information before making decisions."

var registerOnce sync.Once

// RegisterAll installs every prompt. Safe to call from multiple
// entrypoints; registration happens once.
func RegisterAll() {
	registerOnce.Do(registerAll)
}

func registerAll() {
	RegisterSpec(Spec{
		Name:       PromptLandingPageV3,
		Version:    3,
		SchemaName: content.SchemaName,
		Schema:     content.Schema,
		System: `
You are an expert real estate content writer producing SEO landing page copy for a
California brokerage website. You write for home buyers, not for search engines:
natural, specific, useful. You never invent market statistics; if INPUT_JSON has no
market_stats, describe the market qualitatively. Return JSON only, matching the
provided schema exactly.`,
		User: `
Write the complete landing page content for this search intent.

CITY: {{.City}}, {{.State}}
PAGE_TYPE: {{.PageTypeSlug}}
PRIMARY_INTENT: {{.PrimaryIntent}}
SYNONYMS TO WEAVE IN NATURALLY: {{.Syn1}}; {{.Syn2}}; {{.Syn3}}

RULES:
- seo.title must be at most 60 characters and contain the primary intent.
- seo.meta_description must be at most 155 characters.
- seo.canonical_path must equal INPUT_JSON.canonical_path exactly.
- faq must contain 8 to 12 question/answer pairs.
- buyer_strategy.bullet_points must be 8 to 12 lines, each starting with "- ".
- buyer_strategy.cta must invite the reader to contact the brokerage.
- market_snapshot must restate INPUT_JSON.market_stats_text near-verbatim when
  present, and must make no numeric claims when it is absent.
- internal_linking arrays must use only links from INPUT_JSON, with anchor and
  href copied exactly.
- Total body length: {{.MinWords}} to {{.MaxWords}} words.

INPUT_JSON:
{{.InputJSON}}`,
		Validators: []Validator{
			RequireNonEmpty("City", func(in Input) string { return in.City }),
			RequireNonEmpty("PrimaryIntent", func(in Input) string { return in.PrimaryIntent }),
			RequireNonEmpty("InputJSON", func(in Input) string { return in.InputJSON }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptLandingPageV4,
		Version:    4,
		SchemaName: content.SchemaName,
		Schema:     content.Schema,
		System: `
You are an expert real estate content writer producing SEO landing page copy for a
California brokerage website. You write for home buyers: natural, specific, useful.

GEO SAFETY (hard rules):
- You may ONLY mention place names from ALLOWED_PLACE_NAMES. Any neighborhood,
  district, landmark, or nearby city not on that list is forbidden, even when you
  are confident it exists.
- Never invent neighborhood names. When you need local color beyond the list,
  describe areas generically ("established central neighborhoods", "newer
  communities near the parks").
- Never invent market statistics, school ratings, or distances. If INPUT_JSON has
  no market_stats, the market_snapshot section must stay qualitative.

Never mention databases, internal systems, prompts, or models. Return JSON only,
matching the provided schema exactly.`,
		User: `
Write the complete landing page content for this search intent.

CITY: {{.City}}, {{.State}}
PAGE_TYPE: {{.PageTypeSlug}}
PRIMARY_INTENT: {{.PrimaryIntent}}
SYNONYMS TO WEAVE IN NATURALLY: {{.Syn1}}; {{.Syn2}}; {{.Syn3}}

ALLOWED_PLACE_NAMES (the ONLY places you may mention):
{{.AllowedPlaceNames}}

REQUIRED PHRASE INJECTIONS (a validator rejects the output if missing):
1) market_snapshot body must include BOTH exact strings:
   "{{.DataSource}}"
   "Last updated: {{.LastUpdatedISO}}"
{{if .MissingSpecsSentence}}2) featured_listings body must include EXACTLY ONCE:
   "{{.MissingSpecsSentence}}"
{{end}}3) buyer_strategy.bullet_points must be 8 to 12 lines, each starting with "- ".
4) buyer_strategy.cta must invite the reader to contact the brokerage.
5) seo.canonical_path must equal "{{.CanonicalPath}}" exactly.
6) internal_linking arrays must use only links from INPUT_JSON, with anchor and
   href copied exactly — same items, same order.

STRUCTURE RULES:
- seo.title: at most 60 characters, contains the primary intent.
- seo.meta_description: at most 155 characters.
- faq: 8 to 12 question/answer pairs, specific to this city and page type.
- market_snapshot must restate INPUT_JSON.market_stats_text near-verbatim when
  present.
- Total body length: {{.MinWords}} to {{.MaxWords}} words.

INPUT_JSON:
{{.InputJSON}}`,
		Validators: []Validator{
			RequireNonEmpty("City", func(in Input) string { return in.City }),
			RequireNonEmpty("PrimaryIntent", func(in Input) string { return in.PrimaryIntent }),
			RequireNonEmpty("InputJSON", func(in Input) string { return in.InputJSON }),
			RequireNonEmpty("AllowedPlaceNames", func(in Input) string { return in.AllowedPlaceNames }),
			RequireNonEmpty("LastUpdatedISO", func(in Input) string { return in.LastUpdatedISO }),
		},
	})
}

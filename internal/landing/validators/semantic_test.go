package validators

import (
	"strings"
	"testing"

	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/input"
	"github.com/crowncoastal/landing-backend/internal/landing/prompts"
)

func testInput(tb testing.TB) *input.Context {
	tb.Helper()
	related := []content.Link{
		{Href: "/carlsbad/condos-for-sale", Anchor: "Condos for sale in Carlsbad"},
		{Href: "/carlsbad/luxury-homes", Anchor: "Luxury homes in Carlsbad"},
	}
	in := &input.Context{
		City:           "Carlsbad",
		CitySlug:       "carlsbad",
		State:          "California",
		PrimaryIntent:  "homes for sale in Carlsbad",
		Syn1:           "Carlsbad homes for sale",
		Syn2:           "Carlsbad real estate",
		Syn3:           "houses for sale in Carlsbad",
		CanonicalPath:  "/carlsbad/homes-for-sale",
		InternalLinks:  related,
		RelatedPages:   related,
		DataSource:     "Data source: local MLS listing feed",
		LastUpdatedISO: "2025-06-01T00:00:00Z",
		MissingSpecs:   false,
		AllowedPlaces: map[string]struct{}{
			"carlsbad":         {},
			"california":       {},
			"san diego county": {},
		},
	}
	return in
}

func validDoc(tb testing.TB, in *input.Context) *content.LandingContent {
	tb.Helper()
	c := content.Fallback(content.FallbackParams{
		City:          in.City,
		PageTypeSlug:  "homes-for-sale",
		PrimaryIntent: in.PrimaryIntent,
		CanonicalPath: in.CanonicalPath,
		DataSource:    in.DataSource,
		RelatedPages:  in.RelatedPages,
	})
	c.Sections.MarketSnapshot.Paragraphs = append(
		c.Sections.MarketSnapshot.Paragraphs,
		in.DataSource+" Last updated: "+in.LastUpdatedISO,
	)
	c.Sections.HeroOverview.Paragraphs = append(
		c.Sections.HeroOverview.Paragraphs,
		"Shoppers exploring "+in.Syn2+" often start with a quick neighborhood tour.",
	)
	return c
}

func hasCode(r Result, code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateAcceptsValidDocument(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)

	res := Validate(c, in, DefaultConfig())
	if !res.OK {
		t.Fatalf("expected valid document, got errors: %v", res.Strings())
	}
}

func TestValidateFlagsOffAllowlistPlace(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.Sections.AboutArea.Paragraphs = append(
		c.Sections.AboutArea.Paragraphs,
		"Just a short drive from La Jolla, the area offers easy beach access.",
	)

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeGeoInvalid) {
		t.Fatalf("expected %s, got: %v", CodeGeoInvalid, res.Strings())
	}
	found := false
	for _, e := range res.Errors {
		if e.Code == CodeGeoInvalid && strings.Contains(e.Message, "la jolla") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected la jolla to be named, got: %v", res.Strings())
	}
}

func TestValidateAllowsAllowlistedPlace(t *testing.T) {
	in := testInput(t)
	in.AllowedPlaces["la jolla"] = struct{}{}
	c := validDoc(t, in)
	c.Sections.AboutArea.Paragraphs = append(
		c.Sections.AboutArea.Paragraphs,
		"Just a short drive from La Jolla, the area offers easy beach access.",
	)

	res := Validate(c, in, DefaultConfig())
	if hasCode(res, CodeGeoInvalid) {
		t.Fatalf("allowlisted place should not be flagged: %v", res.Strings())
	}
}

func TestValidateRequiredPhrases(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.Sections.MarketSnapshot.Paragraphs = []string{
		"Market conditions change quickly.",
	}

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeMissingDataSource) {
		t.Fatalf("expected %s, got: %v", CodeMissingDataSource, res.Strings())
	}
	if !hasCode(res, CodeMissingLastUpdated) {
		t.Fatalf("expected %s, got: %v", CodeMissingLastUpdated, res.Strings())
	}
}

func TestValidateIntentPhrases(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)

	// A document that never states the page's own search intent or any
	// of its synonyms must fail on both counts.
	in.PrimaryIntent = "townhomes for sale in Carlsbad"
	in.Syn1 = "Carlsbad townhomes"
	in.Syn2 = "townhouses in Carlsbad"
	in.Syn3 = ""

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeMissingIntent) {
		t.Fatalf("expected %s, got: %v", CodeMissingIntent, res.Strings())
	}
	if !hasCode(res, CodeMissingSynonym) {
		t.Fatalf("expected %s, got: %v", CodeMissingSynonym, res.Strings())
	}

	// Intent present but none of the synonyms: only the synonym check
	// fires.
	in2 := testInput(t)
	c2 := validDoc(t, in2)
	in2.Syn1, in2.Syn2, in2.Syn3 = "Carlsbad townhomes", "townhouses in Carlsbad", ""
	res = Validate(c2, in2, DefaultConfig())
	if hasCode(res, CodeMissingIntent) {
		t.Fatalf("intent is present, should not be flagged: %v", res.Strings())
	}
	if !hasCode(res, CodeMissingSynonym) {
		t.Fatalf("expected %s, got: %v", CodeMissingSynonym, res.Strings())
	}

	// No synonyms configured at all skips the synonym check.
	in3 := testInput(t)
	c3 := validDoc(t, in3)
	in3.Syn1, in3.Syn2, in3.Syn3 = "", "", ""
	res = Validate(c3, in3, DefaultConfig())
	if hasCode(res, CodeMissingSynonym) {
		t.Fatalf("no synonyms configured, check should be skipped: %v", res.Strings())
	}
}

func TestValidateMissingSpecsSentence(t *testing.T) {
	in := testInput(t)
	in.MissingSpecs = true
	c := validDoc(t, in)

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeMissingSpecs) {
		t.Fatalf("expected %s when disclaimer absent, got: %v", CodeMissingSpecs, res.Strings())
	}

	c.Sections.FeaturedListings.Intro += " " + prompts.MissingSpecsSentence
	res = Validate(c, in, DefaultConfig())
	if hasCode(res, CodeMissingSpecs) {
		t.Fatalf("disclaimer present once, should pass: %v", res.Strings())
	}

	c.Sections.FeaturedListings.Intro += " " + prompts.MissingSpecsSentence
	res = Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeMissingSpecs) {
		t.Fatalf("duplicated disclaimer should fail, got: %v", res.Strings())
	}
}

func TestValidateLinkIntegrity(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.InternalLinking.InBodyLinks = []content.Link{
		{Href: "/carlsbad/condos-for-sale", Anchor: "Condos for sale in Carlsbad"},
		{Href: "/oceanside/homes-for-sale", Anchor: "Homes in Oceanside"},
	}
	c.InternalLinking.RelatedPages = append(c.InternalLinking.RelatedPages,
		content.Link{Href: "/carlsbad/condos-for-sale", Anchor: "a rewritten anchor"},
	)

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeInvalidInBodyLink) {
		t.Fatalf("expected %s for off-inventory link, got: %v", CodeInvalidInBodyLink, res.Strings())
	}
	if !hasCode(res, CodeInvalidRelatedLink) {
		t.Fatalf("expected %s for rewritten anchor, got: %v", CodeInvalidRelatedLink, res.Strings())
	}
}

func TestValidateInBodyLinkCap(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	cfg := DefaultConfig()
	for i := 0; i <= cfg.MaxInBodyLinks; i++ {
		c.InternalLinking.InBodyLinks = append(c.InternalLinking.InBodyLinks, in.InternalLinks[0])
	}

	res := Validate(c, in, cfg)
	if !hasCode(res, CodeTooManyInBodyLinks) {
		t.Fatalf("expected %s, got: %v", CodeTooManyInBodyLinks, res.Strings())
	}
}

func TestValidateForbiddenTokens(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.Sections.AboutArea.Paragraphs = append(c.Sections.AboutArea.Paragraphs,
		"Our Postgres database keeps every listing_key fresh.",
	)

	res := Validate(c, in, DefaultConfig())
	for _, code := range []string{"postgres", "database", "listing_key"} {
		found := false
		for _, e := range res.Errors {
			if e.Code == CodeForbiddenToken && strings.Contains(e.Message, code) {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected forbidden token %q to be flagged: %v", code, res.Strings())
		}
	}
}

func TestValidateContextTokens(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.Sections.PropertyTypes.Paragraphs = append(c.Sections.PropertyTypes.Paragraphs,
		"Tour the model home at the new development off the main boulevard.",
	)

	res := Validate(c, in, DefaultConfig())
	if hasCode(res, CodeForbiddenToken) {
		t.Fatalf("\"model home\" should be excluded: %v", res.Strings())
	}

	c.Sections.PropertyTypes.Paragraphs = append(c.Sections.PropertyTypes.Paragraphs,
		"This copy came from a language model somewhere.",
	)
	res = Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeForbiddenToken) {
		t.Fatalf("bare \"model\" should be flagged: %v", res.Strings())
	}
}

func TestValidateBuyerStrategy(t *testing.T) {
	in := testInput(t)
	cfg := DefaultConfig()

	c := validDoc(t, in)
	c.Sections.BuyerStrategy.BulletPoints = "- one\n- two\n- three"
	res := Validate(c, in, cfg)
	if !hasCode(res, CodeInsufficientBullets) {
		t.Fatalf("expected %s, got: %v", CodeInsufficientBullets, res.Strings())
	}

	c = validDoc(t, in)
	var b strings.Builder
	for i := 0; i < cfg.MaxBullets+1; i++ {
		b.WriteString("- point\n")
	}
	c.Sections.BuyerStrategy.BulletPoints = b.String()
	res = Validate(c, in, cfg)
	if !hasCode(res, CodeTooManyBullets) {
		t.Fatalf("expected %s, got: %v", CodeTooManyBullets, res.Strings())
	}

	c = validDoc(t, in)
	c.Sections.BuyerStrategy.CTA = "   "
	res = Validate(c, in, cfg)
	if !hasCode(res, CodeMissingCTA) {
		t.Fatalf("expected %s, got: %v", CodeMissingCTA, res.Strings())
	}
}

func TestValidateRepetition(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	repeated := "Every buyer deserves a smooth and stress free closing process."
	c.Sections.AboutArea.Paragraphs = append(c.Sections.AboutArea.Paragraphs, repeated)
	c.Sections.LifestyleAmenities.Paragraphs = append(c.Sections.LifestyleAmenities.Paragraphs, repeated)
	c.Sections.WorkingWithAgent.Paragraphs = append(c.Sections.WorkingWithAgent.Paragraphs, repeated)

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeExcessiveRepetition) {
		t.Fatalf("expected %s, got: %v", CodeExcessiveRepetition, res.Strings())
	}
}

func TestValidateCanonicalMismatch(t *testing.T) {
	in := testInput(t)
	c := validDoc(t, in)
	c.SEO.CanonicalPath = "/somewhere/else"

	res := Validate(c, in, DefaultConfig())
	if !hasCode(res, CodeCanonicalMismatch) {
		t.Fatalf("expected %s, got: %v", CodeCanonicalMismatch, res.Strings())
	}
}

func TestFindKnownPlacesWordBoundaries(t *testing.T) {
	allowed := map[string]struct{}{"carlsbad": {}}

	hits := FindKnownPlaces("The Vista community sits inland from Carlsbad.", allowed)
	if len(hits) != 1 || hits[0] != "vista" {
		t.Fatalf("expected [vista], got %v", hits)
	}

	// Substring of a larger word must not match.
	hits = FindKnownPlaces("The vistas from the ridge are stunning.", allowed)
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %v", hits)
	}
}

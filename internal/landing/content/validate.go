package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen = 60
	MaxMetaLen  = 155

	MinFAQItems = 8
	MaxFAQItems = 12
)

// Parse decodes a structured-output object into LandingContent.
func Parse(raw map[string]any) (*LandingContent, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode model output: %w", err)
	}
	var c LandingContent
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode landing content: %w", err)
	}
	return &c, nil
}

// Normalize applies the deterministic fix-ups that are cheaper to do in
// code than to bounce back to the model: length-capping title and meta
// with an ellipsis at a word boundary, and forcing canonical_path to
// the caller-supplied value. The model never gets to pick the
// canonical URL.
func (c *LandingContent) Normalize(canonicalPath string) {
	c.Sanitize()

	if utf8.RuneCountInString(c.SEO.Title) > MaxTitleLen {
		c.SEO.Title = truncateWithEllipsis(c.SEO.Title, MaxTitleLen-3)
	}
	if utf8.RuneCountInString(c.SEO.MetaDescription) > MaxMetaLen {
		c.SEO.MetaDescription = truncateWithEllipsis(c.SEO.MetaDescription, MaxMetaLen-3)
	}
	if strings.TrimSpace(canonicalPath) != "" {
		c.SEO.CanonicalPath = strings.TrimSpace(canonicalPath)
	}
}

// truncateWithEllipsis cuts at a rune boundary so a multi-byte
// character at the limit never yields invalid UTF-8, then backs up to
// a word boundary when one is close enough.
func truncateWithEllipsis(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := string(r[:limit])
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}

// ValidateSchema checks structural requirements. All problems are
// collected so a repair prompt can list them in one pass.
func (c *LandingContent) ValidateSchema() []string {
	var errs []string

	if strings.TrimSpace(c.SEO.Title) == "" {
		errs = append(errs, "MISSING_TITLE: seo.title is empty")
	} else if n := utf8.RuneCountInString(c.SEO.Title); n > MaxTitleLen {
		errs = append(errs, fmt.Sprintf("TITLE_TOO_LONG: seo.title is %d chars (max %d)", n, MaxTitleLen))
	}

	if strings.TrimSpace(c.SEO.MetaDescription) == "" {
		errs = append(errs, "MISSING_META: seo.meta_description is empty")
	} else if n := utf8.RuneCountInString(c.SEO.MetaDescription); n > MaxMetaLen {
		errs = append(errs, fmt.Sprintf("META_TOO_LONG: seo.meta_description is %d chars (max %d)", n, MaxMetaLen))
	}

	if strings.TrimSpace(c.SEO.H1) == "" {
		errs = append(errs, "MISSING_H1: seo.h1 is empty")
	}
	if strings.TrimSpace(c.SEO.CanonicalPath) == "" {
		errs = append(errs, "MISSING_CANONICAL: seo.canonical_path is empty")
	}

	if strings.TrimSpace(c.Intro.Headline) == "" || len(nonEmpty(c.Intro.Paragraphs)) == 0 {
		errs = append(errs, "MISSING_INTRO: intro.headline and intro.paragraphs are required")
	}

	for _, ref := range c.orderedSections() {
		if len(nonEmpty(*ref.paragraphs)) == 0 {
			errs = append(errs, fmt.Sprintf("MISSING_SECTION: sections.%s has no paragraphs", ref.key))
		}
	}
	if strings.TrimSpace(c.Sections.Neighborhoods.Heading) == "" || len(c.Sections.Neighborhoods.Cards) == 0 {
		errs = append(errs, "MISSING_SECTION: sections.neighborhoods needs a heading and at least one card")
	}
	if strings.TrimSpace(c.Sections.FeaturedListings.Heading) == "" || strings.TrimSpace(c.Sections.FeaturedListings.Intro) == "" {
		errs = append(errs, "MISSING_SECTION: sections.featured_listings needs a heading and intro")
	}

	if n := len(c.FAQ); n < MinFAQItems || n > MaxFAQItems {
		errs = append(errs, fmt.Sprintf("FAQ_COUNT: %d items (need %d-%d)", n, MinFAQItems, MaxFAQItems))
	}
	for i, f := range c.FAQ {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			errs = append(errs, fmt.Sprintf("FAQ_EMPTY: faq[%d] has an empty question or answer", i))
		}
	}

	if strings.TrimSpace(c.Trust.DataSource) == "" || strings.TrimSpace(c.Trust.LastUpdatedISO) == "" {
		errs = append(errs, "MISSING_TRUST: trust.data_source and trust.last_updated_iso are required")
	}

	return errs
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	controlRe    = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const maxFieldLen = 4000

// SanitizeString strips markup and control characters from a model- or
// user-supplied string and collapses runs of whitespace. Output is
// capped so a runaway field cannot blow up a stored row.
func SanitizeString(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = controlRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxFieldLen {
		s = string([]rune(s)[:maxFieldLen])
	}
	return s
}

// Sanitize runs SanitizeString over every text field in place.
// BulletPoints keeps its newlines since the "- " line structure is
// load-bearing for bullet counting.
func (c *LandingContent) Sanitize() {
	sanitizeSlice := func(ss []string) {
		for i := range ss {
			ss[i] = SanitizeString(ss[i])
		}
	}

	c.SEO.Title = SanitizeString(c.SEO.Title)
	c.SEO.MetaDescription = SanitizeString(c.SEO.MetaDescription)
	c.SEO.H1 = SanitizeString(c.SEO.H1)
	c.SEO.CanonicalPath = SanitizeString(c.SEO.CanonicalPath)

	c.Intro.Headline = SanitizeString(c.Intro.Headline)
	sanitizeSlice(c.Intro.Paragraphs)

	s := &c.Sections
	for _, ref := range c.orderedSections() {
		sanitizeSlice(*ref.paragraphs)
	}
	s.HeroOverview.Heading = SanitizeString(s.HeroOverview.Heading)
	s.AboutArea.Heading = SanitizeString(s.AboutArea.Heading)
	s.PropertyTypes.Heading = SanitizeString(s.PropertyTypes.Heading)
	s.MarketSnapshot.Heading = SanitizeString(s.MarketSnapshot.Heading)
	s.SchoolsEducation.Heading = SanitizeString(s.SchoolsEducation.Heading)
	s.LifestyleAmenities.Heading = SanitizeString(s.LifestyleAmenities.Heading)
	s.WorkingWithAgent.Heading = SanitizeString(s.WorkingWithAgent.Heading)

	s.Neighborhoods.Heading = SanitizeString(s.Neighborhoods.Heading)
	s.Neighborhoods.Intro = SanitizeString(s.Neighborhoods.Intro)
	for i := range s.Neighborhoods.Cards {
		s.Neighborhoods.Cards[i].Name = SanitizeString(s.Neighborhoods.Cards[i].Name)
		s.Neighborhoods.Cards[i].Description = SanitizeString(s.Neighborhoods.Cards[i].Description)
	}

	s.BuyerStrategy.Heading = SanitizeString(s.BuyerStrategy.Heading)
	s.BuyerStrategy.CTA = SanitizeString(s.BuyerStrategy.CTA)
	s.BuyerStrategy.BulletPoints = sanitizeBullets(s.BuyerStrategy.BulletPoints)

	s.FeaturedListings.Heading = SanitizeString(s.FeaturedListings.Heading)
	s.FeaturedListings.Intro = SanitizeString(s.FeaturedListings.Intro)

	for i := range c.FAQ {
		c.FAQ[i].Question = SanitizeString(c.FAQ[i].Question)
		c.FAQ[i].Answer = SanitizeString(c.FAQ[i].Answer)
	}

	for i := range c.InternalLinking.InBodyLinks {
		c.InternalLinking.InBodyLinks[i].Anchor = SanitizeString(c.InternalLinking.InBodyLinks[i].Anchor)
		c.InternalLinking.InBodyLinks[i].Href = SanitizeString(c.InternalLinking.InBodyLinks[i].Href)
	}
	for i := range c.InternalLinking.RelatedPages {
		c.InternalLinking.RelatedPages[i].Anchor = SanitizeString(c.InternalLinking.RelatedPages[i].Anchor)
		c.InternalLinking.RelatedPages[i].Href = SanitizeString(c.InternalLinking.RelatedPages[i].Href)
	}

	c.Trust.DataSource = SanitizeString(c.Trust.DataSource)
	c.Trust.LastUpdatedISO = SanitizeString(c.Trust.LastUpdatedISO)
	sanitizeSlice(c.Trust.Disclaimers)
}

func sanitizeBullets(block string) string {
	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = SanitizeString(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// CountBullets counts the "- " prefixed lines in a bullet block.
func CountBullets(block string) int {
	n := 0
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			n++
		}
	}
	return n
}

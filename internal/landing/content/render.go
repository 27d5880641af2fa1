package content

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML flattens the structured document into the HTML shape the
// legacy description table stores: h2/h3 headings, paragraphs, a
// bullet list for buyer strategy, and a trailing trust line.
func (c *LandingContent) RenderHTML() string {
	var b strings.Builder

	writeHeading := func(level int, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(text), level)
	}
	writeParagraphs := func(paragraphs []string) {
		for _, p := range paragraphs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(p))
		}
	}
	writeSection := func(sec Section) {
		writeHeading(2, sec.Heading)
		writeParagraphs(sec.Paragraphs)
	}

	writeHeading(2, c.Intro.Headline)
	writeParagraphs(c.Intro.Paragraphs)

	s := &c.Sections
	writeSection(s.HeroOverview)
	writeSection(s.AboutArea)

	writeHeading(2, s.Neighborhoods.Heading)
	writeParagraphs([]string{s.Neighborhoods.Intro})
	for _, card := range s.Neighborhoods.Cards {
		writeHeading(3, card.Name)
		writeParagraphs([]string{card.Description})
	}

	writeHeading(2, s.BuyerStrategy.Heading)
	writeParagraphs(s.BuyerStrategy.Paragraphs)
	if bullets := bulletLines(s.BuyerStrategy.BulletPoints); len(bullets) > 0 {
		b.WriteString("<ul>\n")
		for _, item := range bullets {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
		}
		b.WriteString("</ul>\n")
	}
	writeParagraphs([]string{s.BuyerStrategy.CTA})

	writeSection(s.PropertyTypes)
	writeSection(s.MarketSnapshot)
	writeSection(s.SchoolsEducation)
	writeSection(s.LifestyleAmenities)

	writeHeading(2, s.FeaturedListings.Heading)
	writeParagraphs([]string{s.FeaturedListings.Intro})

	writeSection(s.WorkingWithAgent)

	if len(c.FAQ) > 0 {
		writeHeading(2, "Frequently Asked Questions")
		for _, f := range c.FAQ {
			writeHeading(3, f.Question)
			writeParagraphs([]string{f.Answer})
		}
	}

	if len(c.InternalLinking.RelatedPages) > 0 {
		writeHeading(2, "Related Searches")
		b.WriteString("<ul>\n")
		for _, l := range c.InternalLinking.RelatedPages {
			fmt.Fprintf(&b, "<li><a href=%q>%s</a></li>\n", l.Href, html.EscapeString(l.Anchor))
		}
		b.WriteString("</ul>\n")
	}

	trust := strings.TrimSpace(c.Trust.DataSource)
	if trust != "" {
		line := trust
		if c.Trust.LastUpdatedISO != "" {
			line += " | Last updated: " + c.Trust.LastUpdatedISO
		}
		fmt.Fprintf(&b, "<p><small>%s</small></p>\n", html.EscapeString(line))
	}
	for _, d := range c.Trust.Disclaimers {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		fmt.Fprintf(&b, "<p><small>%s</small></p>\n", html.EscapeString(d))
	}

	return strings.TrimSpace(b.String())
}

func bulletLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
		}
	}
	return out
}

package content

import "strings"

// LandingContent is the structured landing-page document produced by
// the model and stored as jsonb. Field names line up with the
// json_schema sent to the model.
type LandingContent struct {
	SEO             SEO             `json:"seo"`
	Intro           Intro           `json:"intro"`
	Sections        Sections        `json:"sections"`
	FAQ             []FAQItem       `json:"faq"`
	InternalLinking InternalLinking `json:"internal_linking"`
	Trust           Trust           `json:"trust"`

	// SchemaJSONLD holds the structured-data blocks served with the
	// page. Built server-side after validation, never by the model.
	SchemaJSONLD []map[string]any `json:"schema_jsonld,omitempty"`
}

type SEO struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	H1              string `json:"h1"`
	CanonicalPath   string `json:"canonical_path"`
}

type Intro struct {
	Headline   string   `json:"headline"`
	Paragraphs []string `json:"paragraphs"`
}

type Section struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
}

type NeighborhoodCard struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type NeighborhoodsSection struct {
	Heading string             `json:"heading"`
	Intro   string             `json:"intro"`
	Cards   []NeighborhoodCard `json:"cards"`
}

// BuyerStrategySection carries its advice as "- " prefixed lines in
// BulletPoints plus a closing call to action.
type BuyerStrategySection struct {
	Heading      string   `json:"heading"`
	Paragraphs   []string `json:"paragraphs"`
	BulletPoints string   `json:"bullet_points"`
	CTA          string   `json:"cta"`
}

type FeaturedListingsSection struct {
	Heading string `json:"heading"`
	Intro   string `json:"intro"`
}

type Sections struct {
	HeroOverview       Section                 `json:"hero_overview"`
	AboutArea          Section                 `json:"about_area"`
	Neighborhoods      NeighborhoodsSection    `json:"neighborhoods"`
	BuyerStrategy      BuyerStrategySection    `json:"buyer_strategy"`
	PropertyTypes      Section                 `json:"property_types"`
	MarketSnapshot     Section                 `json:"market_snapshot"`
	SchoolsEducation   Section                 `json:"schools_education"`
	LifestyleAmenities Section                 `json:"lifestyle_amenities"`
	FeaturedListings   FeaturedListingsSection `json:"featured_listings"`
	WorkingWithAgent   Section                 `json:"working_with_agent"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Link struct {
	Anchor string `json:"anchor"`
	Href   string `json:"href"`
}

type InternalLinking struct {
	InBodyLinks  []Link `json:"in_body_links"`
	RelatedPages []Link `json:"related_pages"`
}

type Trust struct {
	DataSource     string   `json:"data_source"`
	LastUpdatedISO string   `json:"last_updated_iso"`
	Disclaimers    []string `json:"disclaimers"`
}

// sectionRef is one entry in the rendering/truncation order. Trim
// priority: higher values are cut first when the document runs long.
type sectionRef struct {
	key          string
	paragraphs   *[]string
	trimPriority int
}

// orderedSections returns mutable references to every paragraph-backed
// section, in rendering order.
func (c *LandingContent) orderedSections() []sectionRef {
	s := &c.Sections
	return []sectionRef{
		{key: "hero_overview", paragraphs: &s.HeroOverview.Paragraphs, trimPriority: 1},
		{key: "about_area", paragraphs: &s.AboutArea.Paragraphs, trimPriority: 3},
		{key: "buyer_strategy", paragraphs: &s.BuyerStrategy.Paragraphs, trimPriority: 2},
		{key: "property_types", paragraphs: &s.PropertyTypes.Paragraphs, trimPriority: 4},
		{key: "market_snapshot", paragraphs: &s.MarketSnapshot.Paragraphs, trimPriority: 2},
		{key: "schools_education", paragraphs: &s.SchoolsEducation.Paragraphs, trimPriority: 5},
		{key: "lifestyle_amenities", paragraphs: &s.LifestyleAmenities.Paragraphs, trimPriority: 5},
		{key: "working_with_agent", paragraphs: &s.WorkingWithAgent.Paragraphs, trimPriority: 4},
	}
}

// TextFields returns every human-readable text field in the document,
// in reading order. Validators run over this view.
func (c *LandingContent) TextFields() []string {
	out := []string{
		c.SEO.Title, c.SEO.MetaDescription, c.SEO.H1,
		c.Intro.Headline,
	}
	out = append(out, c.Intro.Paragraphs...)

	s := &c.Sections
	appendSection := func(sec Section) {
		out = append(out, sec.Heading)
		out = append(out, sec.Paragraphs...)
	}
	appendSection(s.HeroOverview)
	appendSection(s.AboutArea)

	out = append(out, s.Neighborhoods.Heading, s.Neighborhoods.Intro)
	for _, card := range s.Neighborhoods.Cards {
		out = append(out, card.Name, card.Description)
	}

	out = append(out, s.BuyerStrategy.Heading)
	out = append(out, s.BuyerStrategy.Paragraphs...)
	out = append(out, s.BuyerStrategy.BulletPoints, s.BuyerStrategy.CTA)

	appendSection(s.PropertyTypes)
	appendSection(s.MarketSnapshot)
	appendSection(s.SchoolsEducation)
	appendSection(s.LifestyleAmenities)

	out = append(out, s.FeaturedListings.Heading, s.FeaturedListings.Intro)

	appendSection(s.WorkingWithAgent)

	for _, f := range c.FAQ {
		out = append(out, f.Question, f.Answer)
	}
	out = append(out, c.Trust.DataSource, c.Trust.LastUpdatedISO)
	out = append(out, c.Trust.Disclaimers...)

	return out
}

// WordCount counts words across every text field.
func (c *LandingContent) WordCount() int {
	total := 0
	for _, f := range c.TextFields() {
		total += len(strings.Fields(f))
	}
	return total
}

package content

import (
	"fmt"
	"strings"
	"time"
)

// FallbackParams is everything the deterministic builder needs. No
// model call happens here; the copy is templated and intentionally
// qualitative, with no market numbers.
type FallbackParams struct {
	City          string
	PageTypeSlug  string
	PrimaryIntent string
	CanonicalPath string
	DataSource    string
	RelatedPages  []Link
}

// Fallback builds a complete, schema-valid document for the case where
// every generation attempt was exhausted. Callers store it as Stale so
// a later regeneration replaces it.
func Fallback(p FallbackParams) *LandingContent {
	city := strings.TrimSpace(p.City)
	if city == "" {
		city = "this area"
	}
	intent := strings.TrimSpace(p.PrimaryIntent)
	if intent == "" {
		intent = fmt.Sprintf("homes for sale in %s", city)
	}
	dataSource := strings.TrimSpace(p.DataSource)
	if dataSource == "" {
		dataSource = "Data source: local MLS listing feed"
	}

	para := func(parts ...string) []string { return parts }

	c := &LandingContent{
		SEO: SEO{
			Title:           truncateWithEllipsis(fmt.Sprintf("%s | Local Guide", titleCase(intent)), MaxTitleLen-3),
			MetaDescription: truncateWithEllipsis(fmt.Sprintf("Explore %s with a local guide to neighborhoods, lifestyle, and how to approach your search.", intent), MaxMetaLen-3),
			H1:              titleCase(intent),
			CanonicalPath:   p.CanonicalPath,
		},
		Intro: Intro{
			Headline: fmt.Sprintf("Your guide to %s", intent),
			Paragraphs: para(
				fmt.Sprintf("Searching for %s starts with understanding the area itself. This guide walks through what makes %s distinctive, from its neighborhoods to everyday lifestyle.", intent, city),
				fmt.Sprintf("Whether you are relocating or moving across town, %s offers a range of options, and knowing how the local market behaves will help you search with confidence.", city),
			),
		},
	}

	s := &c.Sections
	s.HeroOverview = Section{
		Heading: fmt.Sprintf("%s at a glance", city),
		Paragraphs: para(
			fmt.Sprintf("%s draws buyers with its mix of established neighborhoods, local amenities, and access to the wider region.", city),
			"Current availability shifts week to week, so checking live listings is the most reliable way to see what is on the market right now.",
		),
	}
	s.AboutArea = Section{
		Heading: fmt.Sprintf("About %s", city),
		Paragraphs: para(
			fmt.Sprintf("Life in %s balances residential comfort with convenient access to shopping, dining, and outdoor recreation.", city),
			"Commute options, school choices, and neighborhood character all vary across the area, which is why touring in person pays off.",
		),
	}
	s.Neighborhoods = NeighborhoodsSection{
		Heading: fmt.Sprintf("Neighborhoods in %s", city),
		Intro:   fmt.Sprintf("Each part of %s has its own feel. These are the kinds of areas buyers ask about most.", city),
		Cards: []NeighborhoodCard{
			{Name: "Established central neighborhoods", Description: "Mature streets close to daily conveniences, popular with buyers who want a settled feel."},
			{Name: "Newer communities", Description: "More recent construction with modern layouts, often near parks and newer schools."},
			{Name: "Outlying and view areas", Description: "Larger lots and quieter streets for buyers trading a longer drive for space."},
		},
	}
	s.BuyerStrategy = BuyerStrategySection{
		Heading: fmt.Sprintf("How to approach buying in %s", city),
		Paragraphs: para(
			fmt.Sprintf("A focused search in %s starts with clear priorities and realistic expectations about what trade-offs the area asks of buyers.", city),
		),
		BulletPoints: strings.Join([]string{
			"- Get pre-approved before touring so you can move quickly on the right home",
			"- Decide which neighborhoods fit your commute and lifestyle before narrowing by price",
			"- Tour at different times of day to understand traffic and noise",
			"- Ask your agent for recent comparable sales before writing an offer",
			"- Budget for inspections and leave room for negotiation after them",
			"- Watch how long similar homes sit on the market to gauge competition",
			"- Be ready to act when a well-priced home appears",
			"- Keep backup choices in mind in case your first offer is not accepted",
		}, "\n"),
		CTA: fmt.Sprintf("Ready to look at homes in %s? Reach out to Crown Coastal Homes to plan your search.", city),
	}
	s.PropertyTypes = Section{
		Heading: "Property types you will find",
		Paragraphs: para(
			fmt.Sprintf("%s includes single-family homes, condominiums, and townhomes, with character ranging from classic to newly built.", city),
			"The right type depends on how much maintenance, space, and privacy you want.",
		),
	}
	s.MarketSnapshot = Section{
		Heading: fmt.Sprintf("The %s market", city),
		Paragraphs: para(
			"Market conditions change quickly, and live listing data is the best source for current pricing and inventory.",
			"A local agent can pull up-to-the-day numbers for the exact segment you care about.",
		),
	}
	s.SchoolsEducation = Section{
		Heading: "Schools and education",
		Paragraphs: para(
			fmt.Sprintf("Families weigh school options heavily when choosing where to live in %s, and boundaries can differ street by street.", city),
			"Verify current school assignments directly with the district before committing to a home.",
		),
	}
	s.LifestyleAmenities = Section{
		Heading: "Lifestyle and amenities",
		Paragraphs: para(
			fmt.Sprintf("Day to day, %s residents enjoy local parks, restaurants, and community events, with bigger attractions within an easy drive.", city),
			"Weekend life here tends to center on the outdoors and on nearby coastal destinations.",
		),
	}
	s.FeaturedListings = FeaturedListingsSection{
		Heading: fmt.Sprintf("Featured listings in %s", city),
		Intro:   "Browse current listings below to see what is available today.",
	}
	s.WorkingWithAgent = Section{
		Heading: "Working with a local agent",
		Paragraphs: para(
			fmt.Sprintf("A local agent brings street-level knowledge of %s that listing photos cannot show, from neighborhood quirks to how to position an offer.", city),
			"Crown Coastal Homes works with buyers across the region and can guide you from first tour to closing.",
		),
	}

	c.FAQ = fallbackFAQ(city, intent)
	c.InternalLinking = InternalLinking{
		InBodyLinks:  []Link{},
		RelatedPages: append([]Link{}, p.RelatedPages...),
	}
	c.Trust = Trust{
		DataSource:     dataSource,
		LastUpdatedISO: time.Now().UTC().Format(time.RFC3339),
		Disclaimers: []string{
			"Information is deemed reliable but not guaranteed. Verify details independently before making decisions.",
		},
	}

	return c
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		switch strings.ToLower(w) {
		case "in", "for", "of", "and", "the", "a", "an", "with":
			if i > 0 {
				words[i] = strings.ToLower(w)
				continue
			}
		}
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}

func fallbackFAQ(city, intent string) []FAQItem {
	return []FAQItem{
		{Question: fmt.Sprintf("Is %s a good place to buy a home?", city), Answer: fmt.Sprintf("Many buyers choose %s for its neighborhoods, amenities, and regional access. Whether it fits you depends on your priorities for commute, space, and lifestyle.", city)},
		{Question: fmt.Sprintf("How do I start searching for %s?", intent), Answer: "Start with pre-approval, define your must-haves, and review live listings with a local agent who knows the area."},
		{Question: "How competitive is the market?", Answer: "Competition varies by price range and season. Watching how quickly comparable homes go under contract is the best gauge."},
		{Question: "Should I tour homes in person?", Answer: "Yes. Photos rarely capture street noise, light, and neighborhood feel. In-person visits prevent expensive surprises."},
		{Question: "What should I budget beyond the purchase price?", Answer: "Plan for inspections, closing costs, insurance, and any immediate repairs or updates the home needs."},
		{Question: "Do I need a local agent?", Answer: "A local agent adds neighborhood knowledge, off-market awareness, and negotiation experience that is hard to replace."},
		{Question: fmt.Sprintf("What types of homes are available in %s?", city), Answer: fmt.Sprintf("%s offers a mix of single-family homes, condos, and townhomes across a range of neighborhoods and styles.", city)},
		{Question: "How current is the listing information?", Answer: "Listings on this site sync regularly with the MLS feed. For time-sensitive decisions, confirm the latest status with an agent."},
	}
}

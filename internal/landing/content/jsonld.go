package content

import "strings"

// BreadcrumbJSONLD builds a schema.org BreadcrumbList for the page.
func BreadcrumbJSONLD(siteURL, city, pageTypeSlug, h1 string) map[string]any {
	siteURL = strings.TrimRight(siteURL, "/")
	return map[string]any{
		"@context": "https://schema.org",
		"@type":    "BreadcrumbList",
		"itemListElement": []map[string]any{
			{"@type": "ListItem", "position": 1, "name": "Home", "item": siteURL + "/"},
			{"@type": "ListItem", "position": 2, "name": city, "item": siteURL + "/" + strings.ToLower(strings.ReplaceAll(city, " ", "-"))},
			{"@type": "ListItem", "position": 3, "name": h1, "item": siteURL + "/" + strings.ToLower(strings.ReplaceAll(city, " ", "-")) + "/" + pageTypeSlug},
		},
	}
}

// FAQJSONLD builds a schema.org FAQPage from the document's FAQ items.
func (c *LandingContent) FAQJSONLD() map[string]any {
	entities := make([]map[string]any, 0, len(c.FAQ))
	for _, f := range c.FAQ {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			continue
		}
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  f.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// ItemListEntry is one featured listing in the ItemList block. Zero
// values are omitted from the emitted properties.
type ItemListEntry struct {
	Name  string
	URL   string
	Price int64
}

// ItemListJSONLD builds a schema.org ItemList from featured listings.
func ItemListJSONLD(name string, entries []ItemListEntry) map[string]any {
	items := make([]map[string]any, 0, len(entries))
	for i, e := range entries {
		item := map[string]any{"@type": "ListItem", "position": i + 1}
		if e.Name != "" {
			item["name"] = e.Name
		}
		if e.URL != "" {
			item["url"] = e.URL
		}
		if e.Price > 0 {
			item["price"] = e.Price
		}
		items = append(items, item)
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"itemListElement": items,
	}
}

// BuildJSONLD assembles the document's structured-data blocks in
// place: breadcrumbs, the FAQ page, and an ItemList of featured
// listings when any exist.
func (c *LandingContent) BuildJSONLD(siteURL, city, pageTypeSlug string, featured []ItemListEntry) {
	c.SchemaJSONLD = []map[string]any{
		BreadcrumbJSONLD(siteURL, city, pageTypeSlug, c.SEO.H1),
		c.FAQJSONLD(),
	}
	if len(featured) > 0 {
		c.SchemaJSONLD = append(c.SchemaJSONLD, ItemListJSONLD(c.Sections.FeaturedListings.Heading, featured))
	}
}

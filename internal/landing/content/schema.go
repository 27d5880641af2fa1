package content

// SchemaName is the json_schema name sent with structured-output
// requests.
const SchemaName = "landing_page_content"

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func arraySchema(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func basicSectionSchema() map[string]any {
	return objectSchema(map[string]any{
		"heading":    stringSchema(),
		"paragraphs": stringArraySchema(),
	}, []string{"heading", "paragraphs"})
}

func linkSchema() map[string]any {
	return objectSchema(map[string]any{
		"anchor": stringSchema(),
		"href":   stringSchema(),
	}, []string{"anchor", "href"})
}

// Schema returns the json_schema for LandingContent. The shape must
// stay in lockstep with the struct tags in content.go.
func Schema() map[string]any {
	return objectSchema(map[string]any{
		"seo": objectSchema(map[string]any{
			"title":            stringSchema(),
			"meta_description": stringSchema(),
			"h1":               stringSchema(),
			"canonical_path":   stringSchema(),
		}, []string{"title", "meta_description", "h1", "canonical_path"}),

		"intro": objectSchema(map[string]any{
			"headline":   stringSchema(),
			"paragraphs": stringArraySchema(),
		}, []string{"headline", "paragraphs"}),

		"sections": objectSchema(map[string]any{
			"hero_overview": basicSectionSchema(),
			"about_area":    basicSectionSchema(),
			"neighborhoods": objectSchema(map[string]any{
				"heading": stringSchema(),
				"intro":   stringSchema(),
				"cards": arraySchema(objectSchema(map[string]any{
					"name":        stringSchema(),
					"description": stringSchema(),
				}, []string{"name", "description"})),
			}, []string{"heading", "intro", "cards"}),
			"buyer_strategy": objectSchema(map[string]any{
				"heading":       stringSchema(),
				"paragraphs":    stringArraySchema(),
				"bullet_points": stringSchema(),
				"cta":           stringSchema(),
			}, []string{"heading", "paragraphs", "bullet_points", "cta"}),
			"property_types":      basicSectionSchema(),
			"market_snapshot":     basicSectionSchema(),
			"schools_education":   basicSectionSchema(),
			"lifestyle_amenities": basicSectionSchema(),
			"featured_listings": objectSchema(map[string]any{
				"heading": stringSchema(),
				"intro":   stringSchema(),
			}, []string{"heading", "intro"}),
			"working_with_agent": basicSectionSchema(),
		}, []string{
			"hero_overview", "about_area", "neighborhoods", "buyer_strategy",
			"property_types", "market_snapshot", "schools_education",
			"lifestyle_amenities", "featured_listings", "working_with_agent",
		}),

		"faq": arraySchema(objectSchema(map[string]any{
			"question": stringSchema(),
			"answer":   stringSchema(),
		}, []string{"question", "answer"})),

		"internal_linking": objectSchema(map[string]any{
			"in_body_links": arraySchema(linkSchema()),
			"related_pages": arraySchema(linkSchema()),
		}, []string{"in_body_links", "related_pages"}),

		"trust": objectSchema(map[string]any{
			"data_source":      stringSchema(),
			"last_updated_iso": stringSchema(),
			"disclaimers":      stringArraySchema(),
		}, []string{"data_source", "last_updated_iso", "disclaimers"}),
	}, []string{"seo", "intro", "sections", "faq", "internal_linking", "trust"})
}

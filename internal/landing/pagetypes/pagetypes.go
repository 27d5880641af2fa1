package pagetypes

import "strings"

// Config describes one landing page type. PrimaryIntent and the
// synonyms carry a {city} placeholder resolved at prompt-build time.
type Config struct {
	Slug          string
	PrimaryIntent string
	Syn1          string
	Syn2          string
	Syn3          string
}

var configs = []Config{
	{
		Slug:          "homes-for-sale",
		PrimaryIntent: "homes for sale in {city}",
		Syn1:          "houses for sale in {city}",
		Syn2:          "{city} real estate",
		Syn3:          "property for sale in {city}",
	},
	{
		Slug:          "condos-for-sale",
		PrimaryIntent: "condos for sale in {city}",
		Syn1:          "condominiums for sale in {city}",
		Syn2:          "{city} condos",
		Syn3:          "townhomes and condos in {city}",
	},
	{
		Slug:          "homes-with-pool",
		PrimaryIntent: "homes with pool in {city}",
		Syn1:          "houses with a pool for sale in {city}",
		Syn2:          "{city} pool homes",
		Syn3:          "properties with swimming pools in {city}",
	},
	{
		Slug:          "luxury-homes",
		PrimaryIntent: "luxury homes in {city}",
		Syn1:          "luxury real estate in {city}",
		Syn2:          "{city} luxury properties",
		Syn3:          "high-end homes for sale in {city}",
	},
	{
		Slug:          "homes-under-500k",
		PrimaryIntent: "homes under $500K in {city}",
		Syn1:          "affordable homes in {city}",
		Syn2:          "{city} homes below $500,000",
		Syn3:          "starter homes for sale in {city}",
	},
	{
		Slug:          "homes-over-1m",
		PrimaryIntent: "homes over $1 million in {city}",
		Syn1:          "million dollar homes in {city}",
		Syn2:          "{city} homes above $1,000,000",
		Syn3:          "upscale homes for sale in {city}",
	},
	{
		Slug:          "2-bedroom-apartments",
		PrimaryIntent: "2 bedroom apartments in {city}",
		Syn1:          "two bedroom apartments for sale in {city}",
		Syn2:          "{city} 2 bed condos and apartments",
		Syn3:          "2br units for sale in {city}",
	},
}

var bySlug = func() map[string]Config {
	m := make(map[string]Config, len(configs))
	for _, c := range configs {
		m[c.Slug] = c
	}
	return m
}()

// BySlug returns the config for slug, ok=false for unknown slugs.
func BySlug(slug string) (Config, bool) {
	c, ok := bySlug[strings.ToLower(strings.TrimSpace(slug))]
	return c, ok
}

// All returns the full catalog in declaration order.
func All() []Config {
	out := make([]Config, len(configs))
	copy(out, configs)
	return out
}

// Resolve substitutes the {city} placeholder in a phrase.
func Resolve(phrase, city string) string {
	return strings.ReplaceAll(phrase, "{city}", city)
}

package input

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/crowncoastal/landing-backend/internal/data/repos/listings"
	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/landing/content"
	"github.com/crowncoastal/landing-backend/internal/landing/pagetypes"
	apperrors "github.com/crowncoastal/landing-backend/internal/pkg/errors"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

// FeaturedCard is a prompt-facing summary of one featured listing.
type FeaturedCard struct {
	Address string  `json:"address"`
	Price   int64   `json:"price"`
	Beds    int     `json:"beds"`
	Baths   float64 `json:"baths"`
	Sqft    int     `json:"sqft"`
}

// Context is everything one generation needs, assembled once up front.
// It is read-only from the orchestrator's point of view.
type Context struct {
	City     string
	CitySlug string
	State    string
	Region   string

	SiteURL string

	PageType      pagetypes.Config
	PrimaryIntent string
	Syn1          string
	Syn2          string
	Syn3          string

	CanonicalPath string

	Stats           listings.Stats
	MarketStatsText string
	Featured        []FeaturedCard
	MissingSpecs    bool

	LocalAreas []string

	// Exact link inventory the model may use; anything else is a
	// validation failure.
	InternalLinks []content.Link
	RelatedPages  []content.Link

	DataSource     string
	LastUpdatedISO string

	BrandNames []string

	// AllowedPlaces is the lowercase place-name allowlist for the
	// geo-safety validator.
	AllowedPlaces map[string]struct{}
}

// InputJSON serializes the grounding payload embedded in the user
// prompt. Stats are omitted entirely when empty so the model can never
// echo fabricated numbers.
func (c *Context) InputJSON() string {
	payload := map[string]any{
		"city":             c.City,
		"state":            c.State,
		"page_type":        c.PageType.Slug,
		"primary_intent":   c.PrimaryIntent,
		"canonical_path":   c.CanonicalPath,
		"local_areas":      c.LocalAreas,
		"internal_links":   c.InternalLinks,
		"related_pages":    c.RelatedPages,
		"data_source":      c.DataSource,
		"last_updated_iso": c.LastUpdatedISO,
	}
	if !c.Stats.Empty() {
		payload["market_stats"] = map[string]any{
			"median_price":   c.Stats.MedianPrice,
			"price_per_sqft": c.Stats.PricePerSqft,
			"days_on_market": c.Stats.DaysOnMarket,
			"active_count":   c.Stats.ActiveCount,
		}
		payload["market_stats_text"] = c.MarketStatsText
	}
	if len(c.Featured) > 0 {
		payload["featured_listings"] = c.Featured
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// FeaturedItemList converts the featured cards into entries for the
// structured-data ItemList block.
func (c *Context) FeaturedItemList() []content.ItemListEntry {
	out := make([]content.ItemListEntry, 0, len(c.Featured))
	for _, f := range c.Featured {
		out = append(out, content.ItemListEntry{Name: f.Address, Price: f.Price})
	}
	return out
}

// AllowedPlaceNames renders the allowlist as a stable comma-joined
// string for prompt injection.
func (c *Context) AllowedPlaceNames() string {
	names := make([]string, 0, len(c.AllowedPlaces))
	for name := range c.AllowedPlaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Options carry per-city editorial data that is not derivable from the
// listings table.
type Options struct {
	Region     string
	LocalAreas []string
}

type Builder struct {
	listings listings.ListingRepo
	log      *logger.Logger

	siteURL    string
	brandNames []string
	dataSource string
}

func NewBuilder(listingRepo listings.ListingRepo, siteURL string, baseLog *logger.Logger) *Builder {
	return &Builder{
		listings:   listingRepo,
		log:        baseLog.With("service", "LandingInputBuilder"),
		siteURL:    strings.TrimRight(siteURL, "/"),
		brandNames: []string{"Crown Coastal Homes", "Crown Coastal"},
		dataSource: "Data source: local MLS listing feed",
	}
}

// FilterFor maps a page type onto its listings segment.
func FilterFor(slug string) listings.Filter {
	switch slug {
	case "condos-for-sale":
		return listings.Filter{PropertyType: "Condominium"}
	case "homes-with-pool":
		return listings.Filter{PoolOnly: true}
	case "luxury-homes":
		return listings.Filter{MinPrice: 1_500_000}
	case "homes-under-500k":
		return listings.Filter{MaxPrice: 500_000}
	case "homes-over-1m":
		return listings.Filter{MinPrice: 1_000_000}
	case "2-bedroom-apartments":
		return listings.Filter{Beds: 2, PropertyType: "Condominium"}
	default:
		return listings.Filter{}
	}
}

// Build assembles the generation context for one city × page type. A
// failing stats query degrades to empty stats rather than failing the
// build; the prompt then forbids quantitative market claims.
func (b *Builder) Build(ctx context.Context, city string, pt pagetypes.Config, opts Options) (*Context, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city required: %w", apperrors.ErrInvalidArgument)
	}

	citySlug := slugify(city)
	out := &Context{
		City:     city,
		CitySlug: citySlug,
		State:    "California",
		Region:   strings.TrimSpace(opts.Region),

		SiteURL: b.siteURL,

		PageType:      pt,
		PrimaryIntent: pagetypes.Resolve(pt.PrimaryIntent, city),
		Syn1:          pagetypes.Resolve(pt.Syn1, city),
		Syn2:          pagetypes.Resolve(pt.Syn2, city),
		Syn3:          pagetypes.Resolve(pt.Syn3, city),

		CanonicalPath: "/" + citySlug + "/" + pt.Slug,

		LocalAreas: append([]string(nil), opts.LocalAreas...),

		DataSource:     b.dataSource,
		LastUpdatedISO: time.Now().UTC().Format(time.RFC3339),

		BrandNames: append([]string(nil), b.brandNames...),
	}

	filter := FilterFor(pt.Slug)

	stats, err := b.listings.AggregateStats(ctx, nil, city, filter)
	if err != nil {
		b.log.Warn("Stats query failed; generating without market numbers",
			"city", city, "page_type", pt.Slug, "error", err)
		stats = listings.Stats{}
	}
	out.Stats = stats
	out.MarketStatsText = MarketStatsText(stats)

	featured, err := b.listings.Featured(ctx, nil, city, filter, 6)
	if err != nil {
		b.log.Warn("Featured query failed; generating without featured cards",
			"city", city, "page_type", pt.Slug, "error", err)
		featured = nil
	}
	out.Featured = toCards(featured)
	out.MissingSpecs = missingSpecs(out.Featured)

	out.InternalLinks, out.RelatedPages = b.linkInventory(city, citySlug, pt.Slug)
	out.AllowedPlaces = DeriveAllowedPlaces(out)

	return out, nil
}

// MarketStatsText renders the one-line market summary the prompt
// embeds verbatim. Empty stats render as an empty string.
func MarketStatsText(s listings.Stats) string {
	if s.Empty() {
		return ""
	}
	return fmt.Sprintf(
		"Median price $%s, price per sqft $%s, average DOM %d days, active listings %d.",
		formatThousands(s.MedianPrice), formatThousands(s.PricePerSqft),
		s.DaysOnMarket, s.ActiveCount,
	)
}

func formatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func toCards(rows []*types.Listing) []FeaturedCard {
	out := make([]FeaturedCard, 0, len(rows))
	for _, l := range rows {
		out = append(out, FeaturedCard{
			Address: l.Address,
			Price:   l.Price,
			Beds:    l.Beds,
			Baths:   l.Baths,
			Sqft:    l.SqftInt,
		})
	}
	return out
}

func missingSpecs(cards []FeaturedCard) bool {
	if len(cards) == 0 {
		return true
	}
	for _, c := range cards {
		if c.Beds == 0 || c.Baths == 0 || c.Sqft == 0 {
			return true
		}
	}
	return false
}

// linkInventory builds the exact set of links the model may emit: the
// sibling page types for this city. In-body candidates and the related
// pages block share one inventory.
func (b *Builder) linkInventory(city, citySlug, currentSlug string) (inBody []content.Link, related []content.Link) {
	for _, other := range pagetypes.All() {
		if other.Slug == currentSlug {
			continue
		}
		link := content.Link{
			Anchor: pagetypes.Resolve(other.PrimaryIntent, city),
			Href:   "/" + citySlug + "/" + other.Slug,
		}
		inBody = append(inBody, link)
		related = append(related, link)
	}
	return inBody, related
}

var placeInAnchorRe = regexp.MustCompile(`(?i)\b(?:in|near|around)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,3})`)

// DeriveAllowedPlaces builds the lowercase allowlist the geo validator
// checks candidate place mentions against: the subject city, state
// names, region, local areas, place names embedded in link anchors,
// and the brand.
func DeriveAllowedPlaces(c *Context) map[string]struct{} {
	allowed := make(map[string]struct{})
	add := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			allowed[name] = struct{}{}
		}
	}

	add(c.City)
	add(c.State)
	add("california")
	add("ca")
	add(c.Region)
	for _, area := range c.LocalAreas {
		add(area)
	}
	for _, brand := range c.BrandNames {
		add(brand)
	}
	for _, link := range append(append([]content.Link(nil), c.InternalLinks...), c.RelatedPages...) {
		add(link.Anchor)
		for _, m := range placeInAnchorRe.FindAllStringSubmatch(link.Anchor, -1) {
			add(m[1])
		}
	}
	return allowed
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

package validators

import "strings"

// knownPlaces is the gazetteer of California place names the geo check
// scans for. The check only ever flags a place that is BOTH on this
// list and absent from the page's allowlist, so unlisted real places
// pass silently rather than producing false positives on ordinary
// capitalized words.
var knownPlaces = []string{
	// San Diego County (common hallucination targets)
	"la jolla", "pacific beach", "north park", "mission hills", "hillcrest",
	"ocean beach", "point loma", "coronado", "del mar", "encinitas",
	"carlsbad", "oceanside", "escondido", "chula vista", "national city",
	"gaslamp", "little italy", "east village", "bankers hill", "university heights",
	"normal heights", "kensington", "talmadge", "college area", "la mesa",
	"el cajon", "santee", "lakeside", "alpine", "ramona", "poway",
	"rancho bernardo", "scripps ranch", "mira mesa", "clairemont", "kearny mesa",
	"linda vista", "serra mesa", "tierrasanta", "san carlos", "del cerro",
	"allied gardens", "grantville", "mission valley", "fashion valley",
	"carmel valley", "torrey pines", "university city", "golden hill",
	"south park", "logan heights", "barrio logan", "sherman heights",
	"vista", "san marcos", "fallbrook", "solana beach", "cardiff",
	"rancho santa fe", "bonsall", "valley center", "julian", "borrego springs",

	// Los Angeles area
	"beverly hills", "santa monica", "malibu", "brentwood", "westwood",
	"venice", "marina del rey", "playa vista", "culver city", "west hollywood",
	"hollywood", "silver lake", "los feliz", "echo park", "highland park",
	"eagle rock", "glendale", "burbank", "pasadena", "south pasadena",
	"arcadia", "monrovia", "azusa", "glendora", "claremont", "pomona",
	"downtown la", "koreatown", "hancock park", "larchmont",
	"century city", "westchester", "playa del rey",
	"el segundo", "manhattan beach", "hermosa beach", "redondo beach",
	"torrance", "palos verdes", "san pedro", "long beach", "seal beach",

	// Orange County
	"huntington beach", "newport beach", "laguna beach", "dana point",
	"san clemente", "mission viejo", "lake forest", "aliso viejo",
	"laguna niguel", "laguna hills", "rancho santa margarita", "coto de caza",
	"ladera ranch", "san juan capistrano", "capistrano beach",
	"tustin", "santa ana", "costa mesa", "fountain valley", "westminster",
	"garden grove", "anaheim", "fullerton", "placentia", "yorba linda",
	"brea", "irvine", "villa park",

	// SF Bay Area
	"san francisco", "oakland", "berkeley", "emeryville", "alameda",
	"san leandro", "hayward", "fremont", "union city", "milpitas",
	"santa clara", "sunnyvale", "mountain view", "palo alto",
	"menlo park", "redwood city", "san mateo", "burlingame",
	"daly city", "pacifica", "half moon bay", "sausalito", "mill valley",
	"san rafael", "novato", "petaluma", "napa", "sonoma", "santa rosa",
	"walnut creek", "concord", "pleasant hill", "lafayette", "orinda",
	"danville", "san ramon", "dublin", "pleasanton", "livermore",
	"noe valley", "potrero hill", "bernal heights", "pacific heights",
	"russian hill", "nob hill", "north beach", "marina district",

	// San Jose area
	"willow glen", "santana row", "campbell", "los gatos", "saratoga",
	"cupertino", "monte sereno", "almaden valley", "evergreen", "berryessa",

	// Elsewhere in California
	"sacramento", "fresno", "bakersfield", "riverside", "san bernardino",
	"santa barbara", "ventura", "oxnard", "thousand oaks", "simi valley",
	"palmdale", "lancaster", "victorville", "palm springs", "palm desert",
	"indio", "temecula", "murrieta", "corona", "ontario", "rancho cucamonga",
	"fontana", "moreno valley", "hemet", "perris", "lake elsinore",
}

// FindKnownPlaces returns every gazetteer place mentioned in text
// (lowercased, word-boundary matches), excluding those in allowed.
func FindKnownPlaces(text string, allowed map[string]struct{}) []string {
	lower := strings.ToLower(text)
	var hits []string
	seen := map[string]struct{}{}
	for _, place := range knownPlaces {
		if _, ok := allowed[place]; ok {
			continue
		}
		if _, ok := seen[place]; ok {
			continue
		}
		if containsPhrase(lower, place) {
			hits = append(hits, place)
			seen[place] = struct{}{}
		}
	}
	return hits
}

// containsPhrase reports whether phrase occurs in text on word
// boundaries.
func containsPhrase(text, phrase string) bool {
	start := 0
	for {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		before := idx == 0 || !isWordChar(text[idx-1])
		endIdx := idx + len(phrase)
		after := endIdx >= len(text) || !isWordChar(text[endIdx])
		if before && after {
			return true
		}
		start = idx + 1
		if start >= len(text) {
			return false
		}
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '\''
}

package prompts

// Input is a superset of all fields any landing prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	City   string
	State  string
	Region string

	PageTypeSlug  string
	PrimaryIntent string
	Syn1          string
	Syn2          string
	Syn3          string

	CanonicalPath string

	// Serialized grounding payload (market stats, featured cards,
	// links, editorial data).
	InputJSON string

	MarketStatsText string

	// Comma-joined lowercase allowlist injected into the geo-safety
	// rules (v4 only).
	AllowedPlaceNames string

	DataSource     string
	LastUpdatedISO string

	// Non-empty only when featured cards arrived with missing specs;
	// carries the exact disclaimer sentence the output must include.
	MissingSpecsSentence string

	MinWords int
	MaxWords int
}

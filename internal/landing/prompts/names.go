package prompts

type PromptName string

const (
	// Landing page generation, baseline structure.
	PromptLandingPageV3 PromptName = "landing_page_v3"
	// Landing page generation with geo-safety rules and required
	// phrase injections. Current default.
	PromptLandingPageV4 PromptName = "landing_page_v4"
)

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LandingPageStatus is the lifecycle of a stored landing page. Rows in
// Generating or Stale state are treated as cache misses by readers.
type LandingPageStatus string

const (
	LandingPageGenerating LandingPageStatus = "generating"
	LandingPageValid      LandingPageStatus = "valid"
	LandingPageStale      LandingPageStatus = "stale"
)

// LandingPage is the durable store for generated landing-page content,
// keyed by lowercased city plus page-type slug.
type LandingPage struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	City     string `gorm:"column:city;type:text;not null;uniqueIndex:idx_landing_page_city_type" json:"city"`
	PageType string `gorm:"column:page_type;type:text;not null;uniqueIndex:idx_landing_page_city_type" json:"page_type"`

	Status LandingPageStatus `gorm:"column:status;type:text;not null;default:'generating';index" json:"status"`

	Content datatypes.JSON `gorm:"column:content;type:jsonb" json:"content,omitempty"`
	HTML    string         `gorm:"column:html;type:text" json:"html,omitempty"`

	ModelUsed     string `gorm:"column:model_used;type:text" json:"model_used,omitempty"`
	PromptVersion string `gorm:"column:prompt_version;type:text" json:"prompt_version,omitempty"`
	FallbackUsed  bool   `gorm:"column:fallback_used;not null;default:false" json:"fallback_used"`

	GeneratedAt *time.Time `gorm:"column:generated_at;index" json:"generated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (LandingPage) TableName() string { return "landing_page" }

// LandingDescription is the legacy HTML description table kept for
// backward compatibility with pages written before the structured store
// existed. Hits are synced forward into LandingPage best-effort.
type LandingDescription struct {
	City string `gorm:"column:city;type:text;primaryKey" json:"city"`
	Kind string `gorm:"column:kind;type:text;primaryKey" json:"kind"`

	HTML        string    `gorm:"column:html;type:text;not null" json:"html"`
	GeneratedAt time.Time `gorm:"column:generated_at;not null;default:now()" json:"generated_at"`
}

func (LandingDescription) TableName() string { return "landing_ai_descriptions" }

// LandingGenerationRun records one model attempt for observability and
// debugging. It is not part of the visitor-facing product.
type LandingGenerationRun struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	City     string `gorm:"column:city;type:text;not null;index" json:"city"`
	PageType string `gorm:"column:page_type;type:text;not null;index" json:"page_type"`

	Status        string `gorm:"column:status;type:text;not null;index" json:"status"`
	Model         string `gorm:"column:model;type:text;not null" json:"model"`
	PromptVersion string `gorm:"column:prompt_version;type:text;not null" json:"prompt_version"`
	Attempt       int    `gorm:"column:attempt;not null" json:"attempt"`
	Repair        bool   `gorm:"column:repair;not null;default:false" json:"repair"`

	LatencyMS int `gorm:"column:latency_ms;not null" json:"latency_ms"`
	TokensIn  int `gorm:"column:tokens_in;not null" json:"tokens_in"`
	TokensOut int `gorm:"column:tokens_out;not null" json:"tokens_out"`

	ValidationErrors datatypes.JSON `gorm:"type:jsonb;column:validation_errors" json:"validation_errors,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (LandingGenerationRun) TableName() string { return "landing_generation_run" }

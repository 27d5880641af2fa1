package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a normalized MLS-synced listing row. Only the columns the
// landing pipeline aggregates over are modeled here.
type Listing struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ListingKey string `gorm:"column:listing_key;type:text;not null;uniqueIndex" json:"listing_key"`

	City  string `gorm:"column:city;type:text;not null;index" json:"city"`
	State string `gorm:"column:state;type:text;not null" json:"state"`

	Address      string `gorm:"column:address;type:text" json:"address,omitempty"`
	PropertyType string `gorm:"column:property_type;type:text;index" json:"property_type,omitempty"`

	Price   int64   `gorm:"column:price;not null;index" json:"price"`
	Beds    int     `gorm:"column:beds;not null;default:0" json:"beds"`
	Baths   float64 `gorm:"column:baths;not null;default:0" json:"baths"`
	SqftInt int     `gorm:"column:sqft;not null;default:0" json:"sqft"`
	HasPool bool    `gorm:"column:has_pool;not null;default:false" json:"has_pool"`

	Status   string `gorm:"column:status;type:text;not null;default:'Active';index" json:"status"`
	ImageURL string `gorm:"column:image_url;type:text" json:"image_url,omitempty"`

	Latitude  float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	ListedAt  *time.Time `gorm:"column:listed_at;index" json:"listed_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Listing) TableName() string { return "listing" }

package listings

import (
	"context"
	"strings"

	"gorm.io/gorm"

	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

// Filter narrows a city's active listings to the segment a page type
// covers (price band, pool, bed count, property type).
type Filter struct {
	MinPrice     int64
	MaxPrice     int64
	Beds         int
	PoolOnly     bool
	PropertyType string
}

// Stats are the aggregates the prompt's market-snapshot line is built
// from. All-zero stats mean the segment had no matching rows; callers
// must not fabricate numbers from that.
type Stats struct {
	MedianPrice  int64
	PricePerSqft int64
	DaysOnMarket int
	ActiveCount  int
}

func (s Stats) Empty() bool {
	return s.ActiveCount == 0
}

type ListingRepo interface {
	AggregateStats(ctx context.Context, tx *gorm.DB, city string, f Filter) (Stats, error)
	Featured(ctx context.Context, tx *gorm.DB, city string, f Filter, limit int) ([]*types.Listing, error)
	Cities(ctx context.Context, tx *gorm.DB, minActive int) ([]string, error)
}

type listingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListingRepo(db *gorm.DB, baseLog *logger.Logger) ListingRepo {
	repoLog := baseLog.With("repo", "ListingRepo")
	return &listingRepo{db: db, log: repoLog}
}

func (r *listingRepo) scope(tx *gorm.DB, city string, f Filter) *gorm.DB {
	q := tx.Model(&types.Listing{}).
		Where("LOWER(city) = ? AND status = ?", strings.ToLower(strings.TrimSpace(city)), "Active")
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price < ?", f.MaxPrice)
	}
	if f.Beds > 0 {
		q = q.Where("beds = ?", f.Beds)
	}
	if f.PoolOnly {
		q = q.Where("has_pool = TRUE")
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	return q
}

func (r *listingRepo) AggregateStats(ctx context.Context, tx *gorm.DB, city string, f Filter) (Stats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row struct {
		MedianPrice  *float64
		PricePerSqft *float64
		DaysOnMarket *float64
		ActiveCount  int
	}
	err := r.scope(transaction.WithContext(ctx), city, f).
		Select(`
			PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY price) AS median_price,
			AVG(CASE WHEN sqft > 0 THEN price::float / sqft END) AS price_per_sqft,
			AVG(CASE WHEN listed_at IS NOT NULL THEN EXTRACT(EPOCH FROM (now() - listed_at)) / 86400.0 END) AS days_on_market,
			COUNT(*) AS active_count
		`).
		Scan(&row).Error
	if err != nil {
		return Stats{}, err
	}

	out := Stats{ActiveCount: row.ActiveCount}
	if row.MedianPrice != nil {
		out.MedianPrice = int64(*row.MedianPrice)
	}
	if row.PricePerSqft != nil {
		out.PricePerSqft = int64(*row.PricePerSqft)
	}
	if row.DaysOnMarket != nil {
		out.DaysOnMarket = int(*row.DaysOnMarket)
	}
	return out, nil
}

func (r *listingRepo) Featured(ctx context.Context, tx *gorm.DB, city string, f Filter, limit int) ([]*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 6
	}

	var results []*types.Listing
	if err := r.scope(transaction.WithContext(ctx), city, f).
		Order("price DESC, listed_at DESC NULLS LAST").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *listingRepo) Cities(ctx context.Context, tx *gorm.DB, minActive int) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if minActive <= 0 {
		minActive = 1
	}

	var cities []string
	if err := transaction.WithContext(ctx).
		Model(&types.Listing{}).
		Where("status = ?", "Active").
		Group("LOWER(city)").
		Having("COUNT(*) >= ?", minActive).
		Order("LOWER(city)").
		Pluck("LOWER(city)", &cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

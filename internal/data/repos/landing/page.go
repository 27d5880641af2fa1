package landing

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

// PageRepo persists structured landing-page content keyed by
// (lowercased city, page-type slug).
type PageRepo interface {
	Get(ctx context.Context, tx *gorm.DB, city, pageType string) (*types.LandingPage, error)
	Upsert(ctx context.Context, tx *gorm.DB, page *types.LandingPage) error
	MarkStatus(ctx context.Context, tx *gorm.DB, city, pageType string, status types.LandingPageStatus) error
	ListByStatus(ctx context.Context, tx *gorm.DB, status types.LandingPageStatus, limit int) ([]*types.LandingPage, error)
}

type pageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
	repoLog := baseLog.With("repo", "LandingPageRepo")
	return &pageRepo{db: db, log: repoLog}
}

func (r *pageRepo) Get(ctx context.Context, tx *gorm.DB, city, pageType string) (*types.LandingPage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out types.LandingPage
	err := transaction.WithContext(ctx).
		Where("city = ? AND page_type = ?", strings.ToLower(strings.TrimSpace(city)), pageType).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *pageRepo) Upsert(ctx context.Context, tx *gorm.DB, page *types.LandingPage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	page.City = strings.ToLower(strings.TrimSpace(page.City))
	page.UpdatedAt = time.Now()

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "city"}, {Name: "page_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "content", "html", "model_used",
				"prompt_version", "fallback_used", "generated_at", "updated_at",
			}),
		}).
		Create(page).Error
}

func (r *pageRepo) MarkStatus(ctx context.Context, tx *gorm.DB, city, pageType string, status types.LandingPageStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.LandingPage{}).
		Where("city = ? AND page_type = ?", strings.ToLower(strings.TrimSpace(city)), pageType).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *pageRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status types.LandingPageStatus, limit int) ([]*types.LandingPage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LandingPage
	q := transaction.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

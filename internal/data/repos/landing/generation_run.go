package landing

import (
	"context"
	"strings"

	"gorm.io/gorm"

	types "github.com/crowncoastal/landing-backend/internal/domain"
	"github.com/crowncoastal/landing-backend/internal/pkg/logger"
)

type GenerationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, runs []*types.LandingGenerationRun) ([]*types.LandingGenerationRun, error)
	ListByPage(ctx context.Context, tx *gorm.DB, city, pageType string, limit int) ([]*types.LandingGenerationRun, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LandingGenerationRun, error)
}

type generationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	repoLog := baseLog.With("repo", "LandingGenerationRunRepo")
	return &generationRunRepo{db: db, log: repoLog}
}

func (r *generationRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.LandingGenerationRun) ([]*types.LandingGenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(runs) == 0 {
		return []*types.LandingGenerationRun{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *generationRunRepo) ListByPage(ctx context.Context, tx *gorm.DB, city, pageType string, limit int) ([]*types.LandingGenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LandingGenerationRun
	q := transaction.WithContext(ctx).
		Where("city = ? AND page_type = ?", strings.ToLower(strings.TrimSpace(city)), pageType).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *generationRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LandingGenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LandingGenerationRun
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

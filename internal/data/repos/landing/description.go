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

// DescriptionRepo reads and writes the legacy HTML description table.
// The structured store is authoritative; this table is kept so pages
// written before the migration keep resolving, and every new write is
// mirrored into it.
type DescriptionRepo interface {
	Get(ctx context.Context, tx *gorm.DB, city, kind string) (*types.LandingDescription, error)
	Upsert(ctx context.Context, tx *gorm.DB, desc *types.LandingDescription) error
}

type descriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDescriptionRepo(db *gorm.DB, baseLog *logger.Logger) DescriptionRepo {
	repoLog := baseLog.With("repo", "LandingDescriptionRepo")
	return &descriptionRepo{db: db, log: repoLog}
}

func (r *descriptionRepo) Get(ctx context.Context, tx *gorm.DB, city, kind string) (*types.LandingDescription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out types.LandingDescription
	err := transaction.WithContext(ctx).
		Where("city = ? AND kind = ?", strings.ToLower(strings.TrimSpace(city)), kind).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *descriptionRepo) Upsert(ctx context.Context, tx *gorm.DB, desc *types.LandingDescription) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	desc.City = strings.ToLower(strings.TrimSpace(desc.City))
	if desc.GeneratedAt.IsZero() {
		desc.GeneratedAt = time.Now()
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "city"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"html", "generated_at"}),
		}).
		Create(desc).Error
}

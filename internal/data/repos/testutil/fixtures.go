package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/crowncoastal/landing-backend/internal/domain"
)

func SeedListing(tb testing.TB, ctx context.Context, tx *gorm.DB, city string, price int64, mut ...func(*types.Listing)) *types.Listing {
	tb.Helper()
	listedAt := time.Now().AddDate(0, 0, -14)
	l := &types.Listing{
		ID:         uuid.New(),
		ListingKey: fmt.Sprintf("key-%s", uuid.NewString()),
		City:       city,
		State:      "CA",
		Price:      price,
		Beds:       3,
		Baths:      2,
		SqftInt:    1500,
		Status:     "Active",
		ListedAt:   &listedAt,
	}
	for _, fn := range mut {
		fn(l)
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed listing: %v", err)
	}
	return l
}

func SeedLandingPage(tb testing.TB, ctx context.Context, tx *gorm.DB, city, pageType string, status types.LandingPageStatus) *types.LandingPage {
	tb.Helper()
	now := time.Now()
	p := &types.LandingPage{
		ID:          uuid.New(),
		City:        city,
		PageType:    pageType,
		Status:      status,
		Content:     []byte(`{}`),
		HTML:        "<h2>Seeded</h2>",
		GeneratedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed landing page: %v", err)
	}
	return p
}

func SeedDescription(tb testing.TB, ctx context.Context, tx *gorm.DB, city, kind, html string) *types.LandingDescription {
	tb.Helper()
	d := &types.LandingDescription{
		City:        city,
		Kind:        kind,
		HTML:        html,
		GeneratedAt: time.Now(),
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed description: %v", err)
	}
	return d
}

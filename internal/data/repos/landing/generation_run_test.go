package landing

import (
	"context"
	"testing"

	"github.com/crowncoastal/landing-backend/internal/data/repos/testutil"
	types "github.com/crowncoastal/landing-backend/internal/domain"
)

func TestGenerationRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewGenerationRunRepo(db, testutil.Logger(t))

	runs := []*types.LandingGenerationRun{
		{
			City: "carlsbad", PageType: "homes-for-sale",
			Status: "failed", Model: "gpt-5-mini", PromptVersion: "v4", Attempt: 1,
			LatencyMS: 1200, TokensIn: 3000, TokensOut: 2500,
			ValidationErrors: []byte(`["GEO_INVALID: Sunset Heights"]`),
		},
		{
			City: "carlsbad", PageType: "homes-for-sale",
			Status: "succeeded", Model: "gpt-5-mini", PromptVersion: "v4", Attempt: 2, Repair: true,
			LatencyMS: 1100, TokensIn: 3400, TokensOut: 2600,
		},
	}
	if _, err := repo.Create(ctx, tx, runs); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, nil); err != nil {
		t.Fatalf("Create empty: %v", err)
	}

	rows, err := repo.ListByPage(ctx, tx, "Carlsbad", "homes-for-sale", 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByPage: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByPage(ctx, tx, "carlsbad", "homes-for-sale", 1); err != nil || len(rows) != 1 {
		t.Fatalf("ListByPage limit: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListRecent(ctx, tx, 10); err != nil || len(rows) != 2 {
		t.Fatalf("ListRecent: err=%v len=%d", err, len(rows))
	}
}

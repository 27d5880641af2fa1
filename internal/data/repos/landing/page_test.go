package landing

import (
	"context"
	"testing"
	"time"

	"github.com/crowncoastal/landing-backend/internal/data/repos/testutil"
	types "github.com/crowncoastal/landing-backend/internal/domain"
)

func TestPageRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPageRepo(db, testutil.Logger(t))

	if row, err := repo.Get(ctx, tx, "carlsbad", "homes-for-sale"); err != nil || row != nil {
		t.Fatalf("Get on empty table: err=%v row=%v", err, row)
	}

	now := time.Now()
	page := &types.LandingPage{
		City:        "Carlsbad",
		PageType:    "homes-for-sale",
		Status:      types.LandingPageValid,
		Content:     []byte(`{"seo":{"title":"t"}}`),
		HTML:        "<h2>Carlsbad</h2>",
		ModelUsed:   "gpt-5-mini",
		GeneratedAt: &now,
	}
	if err := repo.Upsert(ctx, tx, page); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// City keys are stored lowercased; lookup is case-insensitive.
	row, err := repo.Get(ctx, tx, "CARLSBAD", "homes-for-sale")
	if err != nil || row == nil {
		t.Fatalf("Get after Upsert: err=%v row=%v", err, row)
	}
	if row.City != "carlsbad" || row.Status != types.LandingPageValid {
		t.Fatalf("unexpected row: city=%q status=%q", row.City, row.Status)
	}

	// Second Upsert for the same key replaces, never duplicates.
	page2 := &types.LandingPage{
		City:      "carlsbad",
		PageType:  "homes-for-sale",
		Status:    types.LandingPageValid,
		Content:   []byte(`{"seo":{"title":"t2"}}`),
		HTML:      "<h2>Carlsbad v2</h2>",
		ModelUsed: "gpt-4o-mini",
	}
	if err := repo.Upsert(ctx, tx, page2); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	row, err = repo.Get(ctx, tx, "carlsbad", "homes-for-sale")
	if err != nil || row == nil {
		t.Fatalf("Get after replace: err=%v", err)
	}
	if row.HTML != "<h2>Carlsbad v2</h2>" || row.ModelUsed != "gpt-4o-mini" {
		t.Fatalf("replace did not land: html=%q model=%q", row.HTML, row.ModelUsed)
	}

	if err := repo.MarkStatus(ctx, tx, "carlsbad", "homes-for-sale", types.LandingPageStale); err != nil {
		t.Fatalf("MarkStatus: %v", err)
	}
	rows, err := repo.ListByStatus(ctx, tx, types.LandingPageStale, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByStatus: err=%v len=%d", err, len(rows))
	}
}

func TestDescriptionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewDescriptionRepo(db, testutil.Logger(t))

	if row, err := repo.Get(ctx, tx, "oceanside", "condos-for-sale"); err != nil || row != nil {
		t.Fatalf("Get on empty table: err=%v row=%v", err, row)
	}

	d := &types.LandingDescription{City: "Oceanside", Kind: "condos-for-sale", HTML: "<h2>Condos</h2>"}
	if err := repo.Upsert(ctx, tx, d); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	d.HTML = "<h2>Condos updated</h2>"
	if err := repo.Upsert(ctx, tx, d); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	row, err := repo.Get(ctx, tx, "oceanside", "condos-for-sale")
	if err != nil || row == nil {
		t.Fatalf("Get: err=%v row=%v", err, row)
	}
	if row.HTML != "<h2>Condos updated</h2>" {
		t.Fatalf("unexpected html: %q", row.HTML)
	}
}

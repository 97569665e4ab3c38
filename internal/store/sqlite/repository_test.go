package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"khazana/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "khazana.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty db: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}

	records := []core.Record{
		{ID: "b2", Type: core.TypePledge, Amount: "1200", Name: "احمد", Date: "2024-03-05", Note: "قسط اول"},
		{ID: "a1", Type: core.TypeDonation, Amount: "500", Name: "بلال ٹرسٹ", Date: "2024-03-01"},
	}
	if err := repo.Save(ctx, records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, records)
	}
}

func TestRepositorySaveReplacesWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.Record{
		{ID: "a1", Type: core.TypeExpense, Amount: "90", Name: "بجلی کا بل"},
		{ID: "a2", Type: core.TypeWelfare, Amount: "40", Name: "راشن"},
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := []core.Record{
		{ID: "a2", Type: core.TypeWelfare, Amount: "45", Name: "راشن", Note: "نظر ثانی"},
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("expected wholesale replacement, got %#v", got)
	}
}

func TestRepositoryAuthorSlot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	author, err := repo.LoadAuthor(ctx)
	if err != nil {
		t.Fatalf("LoadAuthor on empty db: %v", err)
	}
	if author != "" {
		t.Fatalf("expected empty author, got %q", author)
	}

	if err := repo.SaveAuthor(ctx, "محمد عثمان"); err != nil {
		t.Fatalf("SaveAuthor: %v", err)
	}
	if err := repo.SaveAuthor(ctx, "محمد عمران"); err != nil {
		t.Fatalf("SaveAuthor overwrite: %v", err)
	}

	author, err = repo.LoadAuthor(ctx)
	if err != nil {
		t.Fatalf("LoadAuthor: %v", err)
	}
	if author != "محمد عمران" {
		t.Fatalf("expected last saved author, got %q", author)
	}
}

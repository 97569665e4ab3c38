package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"khazana/internal/core"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("fresh store should be empty, got %v", records)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	want := []core.Record{
		{ID: "a", Type: core.TypeDonation, Amount: "100", Name: "Ahmed", Date: "2024-01-01", Note: "ماہانہ\nعطیہ"},
		{ID: "b", Type: core.TypeExpense, Amount: "40", Name: "Office"},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestCorruptStoreReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "records.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load should not fail on corrupt data: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("corrupt store should read as empty, got %v", records)
	}
}

func TestAuthorSlot(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	author, err := s.LoadAuthor(ctx)
	if err != nil || author != "" {
		t.Fatalf("fresh author = %q, %v", author, err)
	}
	if err := s.SaveAuthor(ctx, "  منتظم  "); err != nil {
		t.Fatalf("SaveAuthor: %v", err)
	}
	author, err = s.LoadAuthor(ctx)
	if err != nil {
		t.Fatalf("LoadAuthor: %v", err)
	}
	if author != "منتظم" {
		t.Errorf("author = %q, want trimmed value", author)
	}
}

package report

import (
	"strings"
	"testing"
	"time"

	"khazana/internal/core"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(core.DefaultPartition())
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func testMeta() Meta {
	return Meta{
		Title:       "ادارہ خزانہ",
		Subtitle:    "شعبہ مالیات",
		Author:      "منتظم",
		GeneratedAt: time.Date(2024, 3, 5, 16, 30, 0, 0, time.UTC),
		FontURL:     "https://ledger.example/static/fonts/JameelNooriNastaleeq.ttf",
	}
}

func TestBuildAmountModes(t *testing.T) {
	b := newTestBuilder(t)
	records := []core.Record{
		{ID: "1", Type: core.TypeDonation, Amount: "1234.5", Name: "A", Date: "2024-03-01"},
	}

	excel, err := b.Build(records, testMeta(), ModeExcel)
	if err != nil {
		t.Fatalf("Build excel: %v", err)
	}
	if !strings.Contains(excel, `<td class="amount">1234.5</td>`) {
		t.Errorf("excel mode should emit raw numeric amount cell")
	}

	printed, err := b.Build(records, testMeta(), ModePrint)
	if err != nil {
		t.Fatalf("Build print: %v", err)
	}
	if !strings.Contains(printed, `<td class="amount">₨ 1,234.5</td>`) {
		t.Errorf("print mode should emit formatted currency, got document without it")
	}
}

func TestBuildEmptySet(t *testing.T) {
	b := newTestBuilder(t)
	doc, err := b.Build(nil, testMeta(), ModePrint)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(doc, `<td colspan="5">ابھی کوئی ریکارڈ موجود نہیں۔</td>`) {
		t.Errorf("empty set should render full-width no-records row")
	}
}

func TestBuildEscapesAndPlaceholders(t *testing.T) {
	b := newTestBuilder(t)
	records := []core.Record{
		{ID: "1", Type: core.TypeExpense, Amount: "10", Name: `<script>"x"</script>`, Note: "پہلی\nدوسری"},
	}
	meta := testMeta()
	meta.Author = ""
	meta.FilterLabel = ""
	meta.SearchQuery = ""

	doc, err := b.Build(records, meta, ModePrint)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(doc, "<script>") {
		t.Errorf("record name must be escaped")
	}
	if !strings.Contains(doc, "پہلی<br />دوسری") {
		t.Errorf("note line breaks should become break tags")
	}
	for _, placeholder := range []string{"درج نہیں", "تمام ریکارڈز", "—"} {
		if !strings.Contains(doc, placeholder) {
			t.Errorf("missing placeholder %q", placeholder)
		}
	}
	// Empty date renders the dash placeholder.
	if !strings.Contains(doc, "<td>-</td>") {
		t.Errorf("empty date should render placeholder cell")
	}
}

func TestBuildMetaAndTotals(t *testing.T) {
	b := newTestBuilder(t)
	records := []core.Record{
		{ID: "1", Type: core.TypeDonation, Amount: "500", Name: "A"},
		{ID: "2", Type: core.TypeExpense, Amount: "200", Name: "B"},
	}
	doc, err := b.Build(records, testMeta(), ModePrint)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, want := range []string{
		`<html lang="ur" dir="rtl">`,
		"ادارہ خزانہ",
		"₨ 500",
		"₨ 200",
		"₨ 300",
		"<strong>2</strong>",
		"JameelNooriNastaleeq.ttf",
		"@page",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

// Package report assembles the self-contained styled document used for
// printing and spreadsheet import. One HTML+CSS payload serves the print
// surface, the popup viewer and spreadsheet importers; only the amount
// cell rendering branches on the output mode.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"khazana/internal/core"
	"khazana/internal/format"
)

//go:embed report.html.tmpl
var templateFS embed.FS

// Mode selects how amount cells are rendered.
type Mode string

const (
	// ModePrint renders amounts as locale-formatted currency strings.
	ModePrint Mode = "print"
	// ModeExcel renders amounts as raw numeric tokens so spreadsheet
	// importers treat the column as numbers.
	ModeExcel Mode = "excel"
)

// Placeholder texts baked into the report, matching the ledger UI labels.
const (
	placeholderAuthor = "درج نہیں"
	placeholderSearch = "—"
	placeholderFilter = "تمام ریکارڈز"
)

// Meta is the ephemeral per-report header block. Zero fields fall back to
// the fixed placeholders; a zero GeneratedAt means "now".
type Meta struct {
	Title       string
	Subtitle    string
	Author      string
	FilterLabel string
	SearchQuery string
	GeneratedAt time.Time
	// FontURL is the absolute URL of the report typeface so the document
	// renders correctly when opened detached from the origin page.
	FontURL string
}

type Builder struct {
	tmpl      *template.Template
	partition core.Partition
}

// NewBuilder parses the embedded report template.
func NewBuilder(partition core.Partition) (*Builder, error) {
	t, err := template.ParseFS(templateFS, "report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Builder{tmpl: t, partition: partition}, nil
}

type row struct {
	Type   string
	Name   string
	Amount string
	Date   string
	Note   template.HTML
}

type page struct {
	Meta        Meta
	AuthorText  string
	Generated   string
	FilterText  string
	SearchText  string
	RecordCount int
	Income      string
	Expense     string
	Balance     string
	Rows        []row
	FontURL     template.URL
}

// Build renders the document for the given (already filtered) record
// subset. Totals are computed over exactly that subset.
func (b *Builder) Build(records []core.Record, meta Meta, mode Mode) (string, error) {
	totals := core.ComputeTotals(records, b.partition)

	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	data := page{
		Meta:        meta,
		AuthorText:  fallback(meta.Author, placeholderAuthor),
		Generated:   format.DateTime(generated),
		FilterText:  fallback(meta.FilterLabel, placeholderFilter),
		SearchText:  fallback(meta.SearchQuery, placeholderSearch),
		RecordCount: len(records),
		Income:      format.Amount(totals.Income),
		Expense:     format.Amount(totals.Expense),
		Balance:     format.Amount(totals.Balance),
		FontURL:     template.URL(meta.FontURL),
	}

	for _, r := range records {
		data.Rows = append(data.Rows, row{
			Type:   fallback(r.Type, "-"),
			Name:   fallback(r.Name, "-"),
			Amount: amountCell(r, mode),
			Date:   fallback(r.Date, "-"),
			Note:   template.HTML(format.NoteHTML(r.Note)),
		})
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return sb.String(), nil
}

func amountCell(r core.Record, mode Mode) string {
	if mode == ModeExcel {
		return r.AmountValue().String()
	}
	return format.Amount(r.AmountValue())
}

func fallback(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

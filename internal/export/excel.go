package export

import (
	"fmt"
	"time"

	"khazana/internal/core"
	"khazana/internal/report"
)

// Excel wraps the report document, built in excel mode so amount cells
// carry raw numbers, as a spreadsheet-HTML payload under an .xls name.
func Excel(b *report.Builder, records []core.Record, meta report.Meta, now time.Time) (*File, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	doc, err := b.Build(records, meta, report.ModeExcel)
	if err != nil {
		return nil, fmt.Errorf("build excel report: %w", err)
	}

	return &File{
		Name: stampedName("records", ".xls", now),
		MIME: "application/vnd.ms-excel; charset=utf-8",
		Data: []byte(BOM + doc),
	}, nil
}

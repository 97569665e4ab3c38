package export

import (
	"strings"
	"time"

	"khazana/internal/core"
	"khazana/internal/format"
)

// Header row, fixed order: type, name/org, amount, date, detail.
var csvHeader = []string{"قسم", "نام / ادارہ", "رقم", "تاریخ", "تفصیل"}

// CSV serializes the records with every field quoted and inner quotes
// doubled. Embedded line breaks collapse to single spaces before quoting,
// so the payload is one physical line per record.
func CSV(records []core.Record, now time.Time) (*File, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	var sb strings.Builder
	sb.WriteString(BOM)
	writeCSVRow(&sb, csvHeader)
	for _, r := range records {
		sb.WriteByte('\n')
		writeCSVRow(&sb, []string{r.Type, r.Name, r.Amount, r.Date, r.Note})
	}

	return &File{
		Name: stampedName("records", ".csv", now),
		MIME: "text/csv; charset=utf-8",
		Data: []byte(sb.String()),
	}, nil
}

func writeCSVRow(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(format.SanitizeCell(cell), `"`, `""`))
		sb.WriteByte('"')
	}
}

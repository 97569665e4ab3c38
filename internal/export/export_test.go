package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"khazana/internal/core"
	"khazana/internal/report"
)

var exportStamp = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

func exportRecords() []core.Record {
	return []core.Record{
		{ID: "1", Type: core.TypeDonation, Amount: "500", Name: "Ahmed", Date: "2024-03-01", Note: "line1\nline2"},
		{ID: "2", Type: core.TypeExpense, Amount: "200", Name: `quote"here`, Date: "2024-03-02"},
	}
}

func TestCSV(t *testing.T) {
	f, err := CSV(exportRecords(), exportStamp)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if f.Name != "records-2024-03-05.csv" {
		t.Errorf("Name = %q", f.Name)
	}
	if !bytes.HasPrefix(f.Data, []byte("\uFEFF")) {
		t.Errorf("payload must start with BOM")
	}

	body := strings.TrimPrefix(string(f.Data), "\uFEFF")
	lines := strings.Split(body, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], `"line1 line2"`) {
		t.Errorf("note line breaks should collapse: %q", lines[1])
	}
	if !strings.Contains(lines[2], `"quote""here"`) {
		t.Errorf("inner quotes should double: %q", lines[2])
	}

	// Standard CSV parsing recovers the sanitized text.
	parsed, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if parsed[0][0] != "قسم" || len(parsed[0]) != 5 {
		t.Errorf("header = %v", parsed[0])
	}
	if parsed[1][4] != "line1 line2" {
		t.Errorf("round-tripped note = %q, want sanitized text", parsed[1][4])
	}
	if parsed[2][1] != `quote"here` {
		t.Errorf("round-tripped name = %q", parsed[2][1])
	}
}

func TestCSVEmptyGuard(t *testing.T) {
	if _, err := CSV(nil, exportStamp); !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

func TestExcel(t *testing.T) {
	b, err := report.NewBuilder(core.DefaultPartition())
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	f, err := Excel(b, exportRecords(), report.Meta{Title: "ادارہ خزانہ"}, exportStamp)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}
	if f.Name != "records-2024-03-05.xls" {
		t.Errorf("Name = %q", f.Name)
	}
	if !strings.HasPrefix(f.MIME, "application/vnd.ms-excel") {
		t.Errorf("MIME = %q", f.MIME)
	}
	doc := string(f.Data)
	if !strings.HasPrefix(doc, "\uFEFF") {
		t.Errorf("payload must start with BOM")
	}
	if !strings.Contains(doc, `<td class="amount">500</td>`) {
		t.Errorf("excel export must carry raw numeric amounts")
	}
	if strings.Contains(doc, `<td class="amount">₨`) {
		t.Errorf("excel export must not format row amounts as currency")
	}
}

func TestExcelEmptyGuard(t *testing.T) {
	b, err := report.NewBuilder(core.DefaultPartition())
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	if _, err := Excel(b, nil, report.Meta{}, exportStamp); !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

func TestXLSX(t *testing.T) {
	f, err := XLSX(exportRecords(), core.DefaultPartition(), exportStamp)
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	if f.Name != "records-2024-03-05.xlsx" {
		t.Errorf("Name = %q", f.Name)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	amount, err := wb.GetCellValue(xlsxSheet, "C2")
	if err != nil {
		t.Fatalf("read amount: %v", err)
	}
	if amount != "500" {
		t.Errorf("C2 = %q, want numeric 500", amount)
	}
	name, err := wb.GetCellValue(xlsxSheet, "B1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if name != "نام / ادارہ" {
		t.Errorf("B1 = %q", name)
	}
}

func TestXLSXEmptyGuard(t *testing.T) {
	if _, err := XLSX(nil, core.DefaultPartition(), exportStamp); !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

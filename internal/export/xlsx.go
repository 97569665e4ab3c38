package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"khazana/internal/core"
	"khazana/internal/format"
)

const xlsxSheet = "Records"

// XLSX serializes the records into a native workbook. Amount cells are
// written as numbers, with a totals block under the table.
func XLSX(records []core.Record, p core.Partition, now time.Time) (*File, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	// Sheet reads right-to-left like the rest of the ledger output.
	rtl := true
	if err := f.SetSheetView(xlsxSheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, fmt.Errorf("set sheet view: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		amount, _ := r.AmountValue().Float64()
		row := []interface{}{r.Type, r.Name, amount, r.Date, format.SanitizeCell(r.Note)}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	totals := core.ComputeTotals(records, p)
	income, _ := totals.Income.Float64()
	expense, _ := totals.Expense.Float64()
	balance, _ := totals.Balance.Float64()
	base := len(records) + 3
	summary := [][]interface{}{
		{"کل آمدنی", income},
		{"کل اخراجات", expense},
		{"بیلنس", balance},
	}
	for i, row := range summary {
		cell := fmt.Sprintf("A%d", base+i)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &File{
		Name: stampedName("records", ".xlsx", now),
		MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data: buf.Bytes(),
	}, nil
}

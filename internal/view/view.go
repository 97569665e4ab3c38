// Package view turns a filtered record set into the presentation-free
// model behind the live table, so the core stays testable without any
// rendering environment.
package view

import (
	"khazana/internal/core"
	"khazana/internal/format"
)

// Row is one rendered table line. Amount carries the formatted currency
// string, AmountRaw the stored value for edit forms; the remaining cells
// are raw record text for template escaping.
type Row struct {
	ID        string
	Type      string
	Name      string
	Amount    string
	AmountRaw string
	Date      string
	Note      string
}

// Table is the live table plus its running totals.
type Table struct {
	Rows    []Row
	Count   int
	Income  string
	Expense string
	Balance string
}

// BuildTable computes rows and totals over the given (already filtered)
// records. Totals cover exactly the visible subset.
func BuildTable(records []core.Record, p core.Partition) Table {
	totals := core.ComputeTotals(records, p)
	t := Table{
		Count:   len(records),
		Income:  format.Amount(totals.Income),
		Expense: format.Amount(totals.Expense),
		Balance: format.Amount(totals.Balance),
	}
	for _, r := range records {
		note := r.Note
		if note == "" {
			note = "-"
		}
		t.Rows = append(t.Rows, Row{
			ID:        r.ID,
			Type:      r.Type,
			Name:      r.Name,
			Amount:    format.AmountString(r.Amount),
			AmountRaw: r.Amount,
			Date:      r.Date,
			Note:      note,
		})
	}
	return t
}

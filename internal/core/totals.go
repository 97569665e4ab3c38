package core

import "github.com/shopspring/decimal"

// Totals is the derived income/expense/balance triple. It is recomputed
// from scratch on every render, never maintained incrementally.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ComputeTotals sums record amounts by partition side. Records whose type
// is on neither side contribute nothing. Balance may be negative.
func ComputeTotals(records []Record, p Partition) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, r := range records {
		switch {
		case p.IsIncome(r.Type):
			income = income.Add(r.AmountValue())
		case p.IsExpense(r.Type):
			expense = expense.Add(r.AmountValue())
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

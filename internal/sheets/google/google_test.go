package google

import (
	"context"
	"testing"

	"khazana/internal/core"
)

func TestSnapshotValues(t *testing.T) {
	records := []core.Record{
		{ID: "a", Type: core.TypeDonation, Amount: "500", Name: "بلال ٹرسٹ", Date: "2024-03-01", Note: "ماہانہ"},
		{ID: "b", Type: core.TypeExpense, Amount: "", Name: "بجلی کا بل", Date: "", Note: ""},
	}
	totals := core.ComputeTotals(records, core.DefaultPartition())

	values := snapshotValues(records, totals)

	// header + 2 records + blank + 3 totals rows
	if len(values) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(values))
	}
	if values[0][0] != "قسم" || values[0][4] != "تفصیل" {
		t.Errorf("unexpected header row: %v", values[0])
	}
	if values[1][2] != float64(500) {
		t.Errorf("amount should be numeric, got %T %v", values[1][2], values[1][2])
	}
	if values[2][2] != "" {
		t.Errorf("missing amount should stay empty, got %v", values[2][2])
	}
	if len(values[3]) != 0 {
		t.Errorf("expected blank separator row, got %v", values[3])
	}
	if values[4][0] != "کل آمدنی" || values[4][2] != float64(500) {
		t.Errorf("unexpected income row: %v", values[4])
	}
	if values[6][0] != "بقایا رقم" || values[6][2] != float64(500) {
		t.Errorf("unexpected balance row: %v", values[6])
	}
}

func TestNewFromEnvRequiresSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Error("NewFromEnv should fail without GOOGLE_SPREADSHEET_ID")
	}
}

func TestReplaceAllWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet", sheetName: "Khazana"}

	err := c.ReplaceAll(context.Background(), nil, core.Totals{})
	if err == nil {
		t.Error("ReplaceAll should fail when the service is not initialized")
	}
}

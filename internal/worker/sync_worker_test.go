package worker

import (
	"context"
	"testing"

	"khazana/internal/amqp"
	"khazana/internal/core"
	sheetsmem "khazana/internal/sheets/memory"
	storemem "khazana/internal/store/memory"
)

func TestHandleChangeMirrorsFullSnapshot(t *testing.T) {
	st := storemem.Seed([]core.Record{
		{ID: "a", Type: core.TypeDonation, Amount: "500", Name: "بلال ٹرسٹ"},
		{ID: "b", Type: core.TypeWelfare, Amount: "200", Name: "راشن"},
	})
	mirror := sheetsmem.New()
	w := NewMirrorWorker(st, mirror, core.DefaultPartition())
	ctx := context.Background()

	msg := amqp.NewRecordChangeMessage("a", amqp.ActionUpsert)
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	records, totals := mirror.Snapshot()
	if len(records) != 2 {
		t.Fatalf("mirror should hold the full ledger, got %d records", len(records))
	}
	if totals.Income.String() != "500" {
		t.Errorf("income = %s, want 500", totals.Income.String())
	}
	if totals.Expense.String() != "200" {
		t.Errorf("expense = %s, want 200", totals.Expense.String())
	}
	if totals.Balance.String() != "300" {
		t.Errorf("balance = %s, want 300", totals.Balance.String())
	}
}

func TestStartupSyncMirrorsEmptyLedger(t *testing.T) {
	mirror := sheetsmem.New()
	w := NewMirrorWorker(storemem.New(), mirror, core.DefaultPartition())

	if err := w.StartupSync(context.Background()); err != nil {
		t.Fatalf("StartupSync: %v", err)
	}
	if mirror.Replaces() != 1 {
		t.Fatalf("expected one mirror replace, got %d", mirror.Replaces())
	}
	records, _ := mirror.Snapshot()
	if len(records) != 0 {
		t.Errorf("expected empty snapshot, got %d records", len(records))
	}
}

// Package worker mirrors ledger changes to the configured sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"khazana/internal/amqp"
	"khazana/internal/core"
	"khazana/internal/sheets"
	"khazana/internal/store"
)

// MirrorWorker consumes record change messages and pushes a fresh ledger
// snapshot to the mirror. The message only says that something changed,
// the worker always reloads from the store so it never mirrors stale data.
type MirrorWorker struct {
	records   store.RecordStore
	mirror    sheets.LedgerMirror
	partition core.Partition
}

func NewMirrorWorker(records store.RecordStore, mirror sheets.LedgerMirror, partition core.Partition) *MirrorWorker {
	return &MirrorWorker{
		records:   records,
		mirror:    mirror,
		partition: partition,
	}
}

// HandleChange processes a single record change message.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	slog.InfoContext(ctx, "Processing record change",
		"record_id", msg.RecordID,
		"action", msg.Action)

	return w.mirrorSnapshot(ctx)
}

// StartupSync pushes the current ledger once at worker startup so a mirror
// that missed messages while the worker was down catches up.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup mirror sync")
	return w.mirrorSnapshot(ctx)
}

func (w *MirrorWorker) mirrorSnapshot(ctx context.Context) error {
	records, err := w.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	totals := core.ComputeTotals(records, w.partition)

	if err := w.mirror.ReplaceAll(ctx, records, totals); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored ledger snapshot",
		"records", len(records),
		"income", totals.Income.String(),
		"expense", totals.Expense.String())

	return nil
}

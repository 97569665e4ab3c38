// Package memory provides an in-process ledger mirror for tests and
// deployments without a Google spreadsheet.
package memory

import (
	"context"
	"sync"

	"khazana/internal/core"
	ports "khazana/internal/sheets"
)

type Mirror struct {
	mu       sync.Mutex
	records  []core.Record
	totals   core.Totals
	replaces int
}

var _ ports.LedgerMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) ReplaceAll(_ context.Context, records []core.Record, totals core.Totals) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append([]core.Record(nil), records...)
	m.totals = totals
	m.replaces++
	return nil
}

// Snapshot returns the last mirrored state.
func (m *Mirror) Snapshot() ([]core.Record, core.Totals) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]core.Record(nil), m.records...), m.totals
}

// Replaces reports how many snapshots have been written.
func (m *Mirror) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.replaces
}

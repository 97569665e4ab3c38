package sheets

import (
	"context"

	"khazana/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// LedgerMirror replaces the remote copy with the current ledger snapshot.
	// The ledger is small and single-user, so mirroring wholesale keeps the
	// remote sheet consistent without row-level bookkeeping.
	LedgerMirror interface {
		ReplaceAll(ctx context.Context, records []core.Record, totals core.Totals) error
	}
)

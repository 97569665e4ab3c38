// Package store defines the persistence ports for the ledger and a
// factory selecting among their adapters.
package store

import (
	"context"

	"khazana/internal/core"
)

// Ports for outbound persistence adapters.
type (
	// RecordStore persists the ordered record sequence wholesale. Load
	// returns an empty sequence when nothing is stored or the stored
	// content is unparsable; corruption is never fatal.
	RecordStore interface {
		Load(ctx context.Context) ([]core.Record, error)
		Save(ctx context.Context, records []core.Record) error
	}

	// AuthorStore persists the last-entered report author across
	// sessions.
	AuthorStore interface {
		LoadAuthor(ctx context.Context) (string, error)
		SaveAuthor(ctx context.Context, author string) error
	}
)

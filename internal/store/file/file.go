// Package file persists the ledger as JSON in a data directory. Its
// semantics mirror a browser key-value store: one slot for the record
// sequence, one for the report author, and unparsable content reads as
// empty rather than failing.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"khazana/internal/core"
)

const (
	recordsFile = "records.json"
	authorFile  = "report_author.txt"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

// New opens (creating if needed) the data directory.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, recordsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Record{}, nil
		}
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var records []core.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		// Corrupt store reads as empty; the next save rewrites it.
		slog.WarnContext(ctx, "Stored records unparsable, treating as empty", "error", err)
		return []core.Record{}, nil
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

func (s *Store) Save(ctx context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return s.writeAtomic(recordsFile, data)
}

func (s *Store) LoadAuthor(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, authorFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read author file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *Store) SaveAuthor(ctx context.Context, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(authorFile, []byte(strings.TrimSpace(author)))
}

// writeAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated slot behind.
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

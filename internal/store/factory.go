package store

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"khazana/internal/store/file"
	"khazana/internal/store/memory"
	"khazana/internal/store/sqlite"
)

// BackendType selects the ledger persistence backend.
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Backend bundles record and author persistence behind one set of ports.
type Backend interface {
	RecordStore
	AuthorStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Config holds what each backend needs to come up.
type Config struct {
	Type BackendType

	// File backend
	DataDirectory string

	// SQLite backend
	DBPath string
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the configured backend and its cleanup function.
func (f *Factory) Create(cfg Config) (Backend, CleanupFunc, error) {
	switch cfg.Type {
	case FileBackend:
		dataDir := cfg.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		st, err := file.New(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_directory", dataDir)
		return st, nil, nil

	case SQLiteBackend:
		dbPath := cfg.DBPath
		if dbPath == "" {
			dbPath = filepath.Join("data", "khazana.db")
		}
		repo, err := sqlite.NewRepository(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", dbPath)
		return repo, repo.Close, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

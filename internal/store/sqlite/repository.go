// Package sqlite persists the ledger in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"khazana/internal/core"

	_ "modernc.org/sqlite"
)

const authorKey = "report_author"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns the stored sequence in display order.
func (r *Repository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount, name, date, note FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []core.Record{}
	for rows.Next() {
		var rec core.Record
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Amount, &rec.Name, &rec.Date, &rec.Note); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Save replaces the stored sequence wholesale, preserving order.
func (r *Repository) Save(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (position, id, type, amount, name, date, note) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Type, rec.Amount, rec.Name, rec.Date, rec.Note); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Records saved to SQLite", "count", len(records))
	return nil
}

func (r *Repository) LoadAuthor(ctx context.Context) (string, error) {
	var author string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, authorKey).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read author setting: %w", err)
	}
	return author, nil
}

func (r *Repository) SaveAuthor(ctx context.Context, author string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, authorKey, author)
	if err != nil {
		return fmt.Errorf("save author setting: %w", err)
	}
	return nil
}

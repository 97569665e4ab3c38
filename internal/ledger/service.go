// Package ledger orchestrates record mutations over the persistence ports.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"khazana/internal/amqp"
	"khazana/internal/core"
	"khazana/internal/store"
)

// Publisher notifies downstream consumers about record changes.
type Publisher interface {
	PublishRecordChange(ctx context.Context, recordID, action string) error
}

// Service loads, mutates and saves the ledger wholesale. Every mutation
// re-reads the latest stored state first so concurrent tabs or processes
// never clobber each other with a stale snapshot.
type Service struct {
	backend   store.Backend
	publisher Publisher
}

func NewService(backend store.Backend, publisher Publisher) *Service {
	return &Service{
		backend:   backend,
		publisher: publisher,
	}
}

// List returns all records in display order, newest first.
func (s *Service) List(ctx context.Context) ([]core.Record, error) {
	return s.backend.Load(ctx)
}

// Upsert inserts rec at the front when it has no ID yet, otherwise replaces
// the stored record with the same ID in place. The assigned ID is returned.
func (s *Service) Upsert(ctx context.Context, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	records, err := s.backend.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load records: %w", err)
	}

	if rec.ID == "" {
		rec.ID = core.NewID()
		records = append([]core.Record{rec}, records...)
	} else {
		replaced := false
		for i := range records {
			if records[i].ID == rec.ID {
				// An edit without a date keeps the stored one; the date
				// is user-entered display text, never restamped.
				if rec.Date == "" {
					rec.Date = records[i].Date
				}
				records[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			records = append([]core.Record{rec}, records...)
		}
	}

	if err := s.backend.Save(ctx, records); err != nil {
		return "", fmt.Errorf("save records: %w", err)
	}

	s.publish(ctx, rec.ID, amqp.ActionUpsert)
	return rec.ID, nil
}

// Delete removes the record with the given ID. Deleting an unknown ID is
// a no-op so repeated clicks stay harmless.
func (s *Service) Delete(ctx context.Context, id string) error {
	records, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	kept := records[:0:0]
	removed := false
	for _, rec := range records {
		if rec.ID == id {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	if !removed {
		return nil
	}

	if err := s.backend.Save(ctx, kept); err != nil {
		return fmt.Errorf("save records: %w", err)
	}

	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

// Author returns the stored report author name.
func (s *Service) Author(ctx context.Context) (string, error) {
	return s.backend.LoadAuthor(ctx)
}

// SetAuthor stores the report author name, trimmed.
func (s *Service) SetAuthor(ctx context.Context, author string) error {
	return s.backend.SaveAuthor(ctx, strings.TrimSpace(author))
}

func (s *Service) publish(ctx context.Context, recordID, action string) {
	if s.publisher == nil {
		return
	}
	// Mirror failures never fail the request, the ledger is already saved
	if err := s.publisher.PublishRecordChange(ctx, recordID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"record_id", recordID,
			"action", action,
			"error", err)
	}
}

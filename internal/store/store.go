// Package store records issued price quotes. Only the resulting numbers are
// kept, never model geometry.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no quote has the requested ID.
var ErrNotFound = errors.New("quote not found")

// QuoteRecord is one issued print quote.
type QuoteRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	FileName    string    `json:"fileName,omitempty"`
	Format      string    `json:"format"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Depth       float64   `json:"depth"`
	VolumeMm3   float64   `json:"volumeMm3"`
	WeightGrams float64   `json:"weightGrams"`
	CostStudent float64   `json:"costStudent"`
	CostGuest   float64   `json:"costGuest"`
	Orientation string    `json:"orientation,omitempty"`
	Degraded    bool      `json:"degraded"`
}

// QuoteStore persists quote records.
type QuoteStore interface {
	// Save assigns an ID and timestamp when missing and stores the record.
	Save(ctx context.Context, rec *QuoteRecord) error
	Get(ctx context.Context, id string) (*QuoteRecord, error)
	// Recent lists up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]QuoteRecord, error)
	Close()
}

// prepare fills the ID and creation time of a new record.
func prepare(rec *QuoteRecord, now func() time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now().UTC()
	}
}

// validID rejects IDs that are not UUIDs before they reach a backend.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Open builds the store named by driver. "none" returns a nil store, which
// callers treat as recording disabled.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (QuoteStore, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		pg, err := NewPostgres(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

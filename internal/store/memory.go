package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process QuoteStore. Contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	records map[string]QuoteRecord
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]QuoteRecord),
		now:     time.Now,
	}
}

func (m *Memory) Save(_ context.Context, rec *QuoteRecord) error {
	prepare(rec, m.now)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*QuoteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]QuoteRecord, error) {
	m.mu.RLock()
	out := make([]QuoteRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() {}

package memory

import (
	"context"
	"fmt"
	"sync"

	"sol-backend/application/ports"
	"sol-backend/infrastructure/persistence/query"
	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// RecordStore is an in-process ports.RecordStore for local runs and tests.
type RecordStore struct {
	mu     sync.RWMutex
	tables map[string][]ports.Record
}

// NewRecordStore creates an empty store
func NewRecordStore() *RecordStore {
	return &RecordStore{
		tables: make(map[string][]ports.Record),
	}
}

// Find returns copies of the records matching q
func (s *RecordStore) Find(ctx context.Context, table string, q ports.Query) ([]ports.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := query.Apply(s.tables[table], q)
	out := make([]ports.Record, len(matched))
	for i, r := range matched {
		out[i] = query.Copy(r)
	}
	return out, nil
}

// Create inserts a copy of fields, assigning an id when none is set
func (s *RecordStore) Create(ctx context.Context, table string, fields ports.Record) (ports.Record, error) {
	rec := query.Copy(fields)
	if rec.ID() == "" {
		rec["id"] = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tables[table] {
		if existing.ID() == rec.ID() {
			return nil, fmt.Errorf("record %s already exists in %s", rec.ID(), table)
		}
	}
	s.tables[table] = append(s.tables[table], rec)
	return query.Copy(rec), nil
}

// Update patches the given fields of record id
func (s *RecordStore) Update(ctx context.Context, table, id string, fields ports.Record) (ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tables[table] {
		if existing.ID() != id {
			continue
		}
		for k, v := range fields {
			if k == "id" {
				continue
			}
			existing[k] = v
		}
		return query.Copy(existing), nil
	}
	return nil, fmt.Errorf("%s/%s: %w", table, id, pkgerrors.ErrRecordNotFound)
}

// Count returns the number of records matching q's filters
func (s *RecordStore) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q.Limit = 0
	q.SortField = ""
	return len(query.Apply(s.tables[table], q)), nil
}

// Ping always succeeds
func (s *RecordStore) Ping(ctx context.Context) error {
	return nil
}

package mocks

import (
	"context"
	"errors"

	"sol-backend/application/ports"
)

// ErrInjected is returned by FailingStore for its failing tables.
var ErrInjected = errors.New("injected store failure")

// FailingStore wraps a RecordStore and fails every call that touches one of
// the listed tables.
type FailingStore struct {
	ports.RecordStore
	Tables map[string]bool
}

// NewFailingStore returns a store that fails on tables
func NewFailingStore(next ports.RecordStore, tables ...string) *FailingStore {
	s := &FailingStore{RecordStore: next, Tables: map[string]bool{}}
	for _, t := range tables {
		s.Tables[t] = true
	}
	return s
}

func (s *FailingStore) Find(ctx context.Context, table string, q ports.Query) ([]ports.Record, error) {
	if s.Tables[table] {
		return nil, ErrInjected
	}
	return s.RecordStore.Find(ctx, table, q)
}

func (s *FailingStore) Create(ctx context.Context, table string, fields ports.Record) (ports.Record, error) {
	if s.Tables[table] {
		return nil, ErrInjected
	}
	return s.RecordStore.Create(ctx, table, fields)
}

func (s *FailingStore) Update(ctx context.Context, table, id string, fields ports.Record) (ports.Record, error) {
	if s.Tables[table] {
		return nil, ErrInjected
	}
	return s.RecordStore.Update(ctx, table, id, fields)
}

func (s *FailingStore) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	if s.Tables[table] {
		return 0, ErrInjected
	}
	return s.RecordStore.Count(ctx, table, q)
}

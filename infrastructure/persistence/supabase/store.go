package supabase

import (
	"context"
	"fmt"

	"sol-backend/application/ports"
	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// querier is the part of the supabase client the store uses.
type querier interface {
	From(table string) *postgrest.QueryBuilder
}

// RecordStore implements ports.RecordStore over the Supabase REST (PostgREST) API.
type RecordStore struct {
	client querier
	logger *zap.Logger
}

// NewClient creates a supabase client for url using the service role key
func NewClient(url, key string) (*supa.Client, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set")
	}
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

// NewRecordStore creates a store backed by client
func NewRecordStore(client *supa.Client, logger *zap.Logger) *RecordStore {
	return &RecordStore{client: client, logger: logger}
}

// Find returns the rows of table matching q
func (s *RecordStore) Find(ctx context.Context, table string, q ports.Query) ([]ports.Record, error) {
	fb := applyFilters(s.client.From(table).Select("*", "", false), q.Filters)
	if q.SortField != "" {
		fb = fb.Order(q.SortField, &postgrest.OrderOpts{Ascending: !q.Descending})
	}
	if q.Limit > 0 {
		fb = fb.Limit(q.Limit, "")
	}

	var rows []ports.Record
	if _, err := fb.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return rows, nil
}

// Create inserts fields and returns the stored row
func (s *RecordStore) Create(ctx context.Context, table string, fields ports.Record) (ports.Record, error) {
	if fields.ID() == "" {
		fields["id"] = uuid.New().String()
	}

	var rows []ports.Record
	if _, err := s.client.From(table).Insert(fields, false, "", "representation", "").ExecuteTo(&rows); err != nil {
		s.logger.Error("Failed to insert record",
			zap.String("table", table),
			zap.String("id", fields.ID()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if len(rows) == 0 {
		return fields, nil
	}
	return rows[0], nil
}

// Update patches fields on the row with the given id
func (s *RecordStore) Update(ctx context.Context, table, id string, fields ports.Record) (ports.Record, error) {
	patch := make(ports.Record, len(fields))
	for k, v := range fields {
		if k != "id" {
			patch[k] = v
		}
	}

	var rows []ports.Record
	if _, err := s.client.From(table).Update(patch, "representation", "").Eq("id", id).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", table, id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", table, id, pkgerrors.ErrRecordNotFound)
	}
	return rows[0], nil
}

// Count asks PostgREST for an exact count without fetching rows
func (s *RecordStore) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	fb := applyFilters(s.client.From(table).Select("id", "exact", true), q.Filters)
	_, count, err := fb.Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return int(count), nil
}

// Ping checks that the profiles table is reachable
func (s *RecordStore) Ping(ctx context.Context) error {
	var rows []ports.Record
	if _, err := s.client.From(ports.TableProfiles).Select("id", "", false).Limit(1, "").ExecuteTo(&rows); err != nil {
		return fmt.Errorf("supabase ping failed: %w", err)
	}
	return nil
}

func applyFilters(fb *postgrest.FilterBuilder, filters []ports.Filter) *postgrest.FilterBuilder {
	for _, f := range filters {
		switch f.Op {
		case ports.OpEq:
			fb = fb.Eq(f.Field, f.Value)
		case ports.OpNeq:
			fb = fb.Neq(f.Field, f.Value)
		case ports.OpGt:
			fb = fb.Gt(f.Field, f.Value)
		case ports.OpGte:
			fb = fb.Gte(f.Field, f.Value)
		case ports.OpLt:
			fb = fb.Lt(f.Field, f.Value)
		}
	}
	return fb
}

// Package traced decorates a RecordStore with X-Ray subsegments and debug logging.
package traced

import (
	"context"
	"time"

	"sol-backend/application/ports"
	"sol-backend/pkg/observability"

	"go.uber.org/zap"
)

// Store wraps every RecordStore call in a subsegment named store.<op>.
type Store struct {
	next   ports.RecordStore
	tracer *observability.Tracer
	logger *zap.Logger
}

// NewStore creates a traced store around next
func NewStore(next ports.RecordStore, tracer *observability.Tracer, logger *zap.Logger) *Store {
	return &Store{next: next, tracer: tracer, logger: logger}
}

func (s *Store) Find(ctx context.Context, table string, q ports.Query) ([]ports.Record, error) {
	var out []ports.Record
	err := s.trace(ctx, "find", table, func(ctx context.Context) error {
		var err error
		out, err = s.next.Find(ctx, table, q)
		return err
	})
	return out, err
}

func (s *Store) Create(ctx context.Context, table string, fields ports.Record) (ports.Record, error) {
	var out ports.Record
	err := s.trace(ctx, "create", table, func(ctx context.Context) error {
		var err error
		out, err = s.next.Create(ctx, table, fields)
		return err
	})
	return out, err
}

func (s *Store) Update(ctx context.Context, table, id string, fields ports.Record) (ports.Record, error) {
	var out ports.Record
	err := s.trace(ctx, "update", table, func(ctx context.Context) error {
		var err error
		out, err = s.next.Update(ctx, table, id, fields)
		return err
	})
	return out, err
}

func (s *Store) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	var n int
	err := s.trace(ctx, "count", table, func(ctx context.Context) error {
		var err error
		n, err = s.next.Count(ctx, table, q)
		return err
	})
	return n, err
}

// Ping forwards to the wrapped store when it supports health checks
func (s *Store) Ping(ctx context.Context) error {
	if hc, ok := s.next.(ports.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}

func (s *Store) trace(ctx context.Context, op, table string, fn func(context.Context) error) error {
	start := time.Now()
	err := s.tracer.TraceFunction(ctx, "store."+op, func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "table", table)
		return fn(ctx)
	})
	s.logger.Debug("store call",
		zap.String("op", op),
		zap.String("table", table),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return err
}

package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"communityhub/internal/observability"
)

// Instrumented wraps a Store with a span and an operation counter per call.
type Instrumented struct {
	next   Store
	tracer trace.Tracer
}

func Instrument(next Store) *Instrumented {
	return &Instrumented{
		next:   next,
		tracer: otel.Tracer("communityhub/internal/infrastructure/store"),
	}
}

func (s *Instrumented) start(ctx context.Context, op, collection string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("store.collection", collection),
	))
	return ctx, func(err error) {
		outcome := "ok"
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		case errors.Is(err, ErrExists):
			outcome = "exists"
		default:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.StoreOperations().WithLabelValues(op, collection, outcome).Inc()
		span.End()
	}
}

func (s *Instrumented) Get(ctx context.Context, collection, id string) (Record, error) {
	ctx, done := s.start(ctx, "get", collection)
	rec, err := s.next.Get(ctx, collection, id)
	done(err)
	return rec, err
}

func (s *Instrumented) Set(ctx context.Context, collection, id string, rec Record) error {
	ctx, done := s.start(ctx, "set", collection)
	err := s.next.Set(ctx, collection, id, rec)
	done(err)
	return err
}

func (s *Instrumented) InsertIfAbsent(ctx context.Context, collection, id string, rec Record) error {
	ctx, done := s.start(ctx, "insert", collection)
	err := s.next.InsertIfAbsent(ctx, collection, id, rec)
	done(err)
	return err
}

func (s *Instrumented) Update(ctx context.Context, collection, id string, partial Record) error {
	ctx, done := s.start(ctx, "update", collection)
	err := s.next.Update(ctx, collection, id, partial)
	done(err)
	return err
}

func (s *Instrumented) Remove(ctx context.Context, collection, id string) error {
	ctx, done := s.start(ctx, "remove", collection)
	err := s.next.Remove(ctx, collection, id)
	done(err)
	return err
}

func (s *Instrumented) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	ctx, done := s.start(ctx, "query", collection)
	recs, err := s.next.QueryByField(ctx, collection, field, value)
	done(err)
	return recs, err
}

func (s *Instrumented) ListOrderedBy(ctx context.Context, collection, field string) ([]Record, error) {
	ctx, done := s.start(ctx, "list_ordered", collection)
	recs, err := s.next.ListOrderedBy(ctx, collection, field)
	done(err)
	return recs, err
}

func (s *Instrumented) List(ctx context.Context, collection string) ([]Record, error) {
	ctx, done := s.start(ctx, "list", collection)
	recs, err := s.next.List(ctx, collection)
	done(err)
	return recs, err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}

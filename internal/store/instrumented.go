package store

import (
	"context"
	"time"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/metrics"
)

// Instrumented records metrics for every call made to the wrapped store.
type Instrumented struct {
	Store
	recorder metrics.Recorder
}

// WithMetrics wraps s so its operations are reported to recorder.
func WithMetrics(s Store, recorder metrics.Recorder) *Instrumented {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Instrumented{Store: s, recorder: recorder}
}

func (s *Instrumented) observe(operation string, start time.Time, err error) {
	s.recorder.RecordStoreOperation(s.Backend(), operation, time.Since(start), err)
}

// InsertMany inserts and counts the inserted documents.
func (s *Instrumented) InsertMany(ctx context.Context, docs []document.Document) (int, error) {
	start := time.Now()
	n, err := s.Store.InsertMany(ctx, docs)
	s.observe("insert", start, err)
	if err == nil {
		s.recorder.AddDocumentsInserted(s.Backend(), n)
	}
	return n, err
}

// Find queries the wrapped store.
func (s *Instrumented) Find(ctx context.Context, filter *document.FieldFilter) ([]document.Document, error) {
	start := time.Now()
	docs, err := s.Store.Find(ctx, filter)
	s.observe("find", start, err)
	return docs, err
}

// DeleteAll deletes and counts the removed documents.
func (s *Instrumented) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.Store.DeleteAll(ctx)
	s.observe("delete", start, err)
	if err == nil {
		s.recorder.AddDocumentsDeleted(s.Backend(), n)
	}
	return n, err
}

// Ping checks the wrapped store.
func (s *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.Store.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/anstrom/scanvault/internal/document"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []document.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// InsertMany appends the batch under a single lock.
func (s *MemoryStore) InsertMany(ctx context.Context, docs []document.Document) (int, error) {
	if len(docs) == 0 {
		return 0, storeErr("insert", errEmptyBatch)
	}
	if err := ctx.Err(); err != nil {
		return 0, storeErr("insert", err)
	}

	batch := make([]document.Document, len(docs))
	for i, doc := range docs {
		batch[i] = document.Document{ID: uuid.NewString(), Body: doc.Body}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, batch...)
	return len(batch), nil
}

// Find returns matching documents in insertion order.
func (s *MemoryStore) Find(ctx context.Context, filter *document.FieldFilter) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("find", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]document.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter == nil || filter.Match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// DeleteAll drops every document.
func (s *MemoryStore) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeErr("delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.docs))
	s.docs = nil
	return n, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// Backend returns "memory".
func (s *MemoryStore) Backend() string {
	return BackendMemory
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

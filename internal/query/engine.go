// Package query implements the lookups served by the HTTP API: field
// searches, response header searches and result pagination.
package query

import (
	"context"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/store"
)

// Entry is a document body as returned to clients, without its identifier.
type Entry = map[string]any

// Engine runs queries against a document store.
type Engine struct {
	store  store.Store
	logger *logging.Logger
}

// NewEngine creates an engine reading from s.
func NewEngine(s store.Store, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{store: s, logger: logger.WithComponent("query")}
}

// ByField returns every document where any sub-record has field containing
// pattern, ignoring case. Results keep the store's order.
func (e *Engine) ByField(ctx context.Context, field document.Field, pattern string) ([]Entry, error) {
	docs, err := e.store.Find(ctx, document.NewFieldFilter(field, pattern))
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Field query finished", "field", field, "matches", len(docs))
	return entries(docs), nil
}

// ByHeader returns one entry per matching header of every document, so a
// document appears as many times as it has matching headers.
func (e *Engine) ByHeader(ctx context.Context, mode HeaderMode, text string) ([]Entry, error) {
	docs, err := e.store.Find(ctx, nil)
	if err != nil {
		return nil, err
	}

	matches := ScanHeaders(docs, mode, text)
	e.logger.Debug("Header query finished", "mode", mode, "documents", len(docs), "matches", len(matches))
	return entries(matches), nil
}

func entries(docs []document.Document) []Entry {
	out := make([]Entry, len(docs))
	for i, doc := range docs {
		out[i] = doc.WithoutID()
	}
	return out
}

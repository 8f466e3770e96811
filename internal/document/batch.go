package document

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
)

// ErrEmptyBatch is returned for a batch without documents.
var ErrEmptyBatch = stderrors.New("batch contains no documents")

// DecodeBatch reads a JSON array of objects. Numbers are kept as json.Number
// so integers of any size survive unchanged.
func DecodeBatch(r io.Reader) ([]Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, ErrEmptyBatch
		}
		return nil, fmt.Errorf("expected a JSON array of documents: %w", err)
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the document array")
	}
	if len(raw) == 0 {
		return nil, ErrEmptyBatch
	}

	docs := make([]Document, len(raw))
	for i, item := range raw {
		body, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document %d is not a JSON object", i)
		}
		docs[i] = New(body)
	}
	return docs, nil
}

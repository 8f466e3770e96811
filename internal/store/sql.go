package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/anstrom/scanvault/internal/document"
)

const (
	insertDocumentQuery = `INSERT INTO scan_documents (body) VALUES (?)`
	selectDocumentQuery = `SELECT id, body FROM scan_documents ORDER BY id`
	deleteDocumentQuery = `DELETE FROM scan_documents`
)

// documentRow is a scan_documents row.
type documentRow struct {
	ID   int64  `db:"id"`
	Body []byte `db:"body"`
}

// SQLStore keeps documents as JSON bodies in a relational table. Filtering is
// done in process so every dialect shares the same matching rules.
type SQLStore struct {
	db      *sqlx.DB
	backend string
}

// NewSQLStore wraps an open connection. backend is reported by Backend.
func NewSQLStore(db *sqlx.DB, backend string) *SQLStore {
	return &SQLStore{db: db, backend: backend}
}

// DB returns the underlying connection.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// InsertMany inserts the batch in one transaction.
func (s *SQLStore) InsertMany(ctx context.Context, docs []document.Document) (int, error) {
	if len(docs) == 0 {
		return 0, storeErr("insert", errEmptyBatch)
	}

	bodies := make([]string, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc.WithoutID())
		if err != nil {
			return 0, storeErr("insert", fmt.Errorf("encode document %d: %w", i, err))
		}
		bodies[i] = string(data)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeErr("insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(insertDocumentQuery)
	for _, body := range bodies {
		if _, err := tx.ExecContext(ctx, query, body); err != nil {
			return 0, storeErr("insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("insert", err)
	}
	return len(bodies), nil
}

// Find loads every row in id order and keeps those matching filter.
func (s *SQLStore) Find(ctx context.Context, filter *document.FieldFilter) ([]document.Document, error) {
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, selectDocumentQuery); err != nil {
		return nil, storeErr("find", err)
	}

	out := make([]document.Document, 0, len(rows))
	for _, row := range rows {
		body, err := decodeBody(row.Body)
		if err != nil {
			return nil, storeErr("find", fmt.Errorf("decode document %d: %w", row.ID, err))
		}
		doc := document.Document{ID: strconv.FormatInt(row.ID, 10), Body: body}
		if filter == nil || filter.Match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// DeleteAll removes every row.
func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteDocumentQuery)
	if err != nil {
		return 0, storeErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete", err)
	}
	return n, nil
}

// Ping checks the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return storeErr("ping", s.db.PingContext(ctx))
}

// Close closes the connection pool.
func (s *SQLStore) Close(context.Context) error {
	return storeErr("close", s.db.Close())
}

// Backend returns the dialect name.
func (s *SQLStore) Backend() string {
	return s.backend
}

// decodeBody decodes a stored JSON object, keeping numbers as json.Number so
// they are written back unchanged.
func decodeBody(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI                    string        `yaml:"uri" json:"uri"`
	Database               string        `yaml:"database" json:"database"`
	Collection             string        `yaml:"collection" json:"collection"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout" json:"server_selection_timeout"`
}

// DefaultMongoConfig returns the default MongoDB configuration.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:                    "mongodb://localhost:27017",
		Database:               "scannerdb",
		Collection:             "sslchecker",
		ServerSelectionTimeout: 5 * time.Second,
	}
}

// MongoStore keeps documents in a MongoDB collection. Field filters are pushed
// down to the server as case-insensitive regular expressions.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects to MongoDB and verifies the primary is reachable.
func OpenMongo(ctx context.Context, cfg *MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.ErrConfigInvalid("store.mongo.uri", cfg.URI)
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.ErrStoreConnection(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.ErrStoreConnection(err)
	}

	logging.InfoStore("Connected to document store", BackendMongo,
		"database", cfg.Database, "collection", cfg.Collection)
	return NewMongoStore(client, cfg.Database, cfg.Collection), nil
}

// NewMongoStore wraps an existing client.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// InsertMany inserts the batch with a single ordered insert. A client
// supplied _id is kept and becomes the document's identifier.
func (s *MongoStore) InsertMany(ctx context.Context, docs []document.Document) (int, error) {
	if len(docs) == 0 {
		return 0, storeErr("insert", errEmptyBatch)
	}

	res, err := s.collection.InsertMany(ctx, insertBatch(docs))
	if err != nil {
		return 0, storeErr("insert", err)
	}
	return len(res.InsertedIDs), nil
}

// insertBatch passes the bodies through as inserted.
func insertBatch(docs []document.Document) []interface{} {
	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		batch[i] = doc.Body
	}
	return batch
}

// Find runs the filter on the server.
func (s *MongoStore) Find(ctx context.Context, filter *document.FieldFilter) ([]document.Document, error) {
	cursor, err := s.collection.Find(ctx, buildFilter(filter))
	if err != nil {
		return nil, storeErr("find", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, storeErr("find", err)
	}

	docs := make([]document.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

// DeleteAll removes every document in the collection.
func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, storeErr("delete", err)
	}
	return res.DeletedCount, nil
}

// Ping checks the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return storeErr("ping", s.client.Ping(ctx, readpref.Primary()))
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return storeErr("close", s.client.Disconnect(ctx))
}

// Backend returns "mongo".
func (s *MongoStore) Backend() string {
	return BackendMongo
}

// buildFilter translates a field filter into an $or of regular expressions,
// one per sub-record path. Array paths are traversed by the server, so both
// variants of a location match.
func buildFilter(filter *document.FieldFilter) bson.D {
	if filter == nil {
		return bson.D{}
	}

	regex := primitive.Regex{Pattern: filter.Regex(), Options: "i"}
	clauses := make(bson.A, 0, len(document.Locations))
	for _, path := range filter.Paths() {
		clauses = append(clauses, bson.D{{Key: path, Value: regex}})
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

// fromBSON converts a decoded document into plain Go values.
func fromBSON(m bson.M) document.Document {
	doc := document.Document{Body: make(map[string]any, len(m))}
	for k, v := range m {
		if k == document.IDField {
			doc.ID = idString(v)
			continue
		}
		doc.Body[k] = normalize(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

// normalize rewrites driver-specific container and scalar types so the body
// is handled like any decoded JSON object.
func normalize(v any) any {
	switch val := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return val
	}
}

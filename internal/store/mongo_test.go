package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anstrom/scanvault/internal/document"
)

func TestDefaultMongoConfig(t *testing.T) {
	cfg := DefaultMongoConfig()
	assert.Equal(t, "mongodb://localhost:27017", cfg.URI)
	assert.Equal(t, "scannerdb", cfg.Database)
	assert.Equal(t, "sslchecker", cfg.Collection)
	assert.Equal(t, 5*time.Second, cfg.ServerSelectionTimeout)
}

func TestBuildFilter(t *testing.T) {
	t.Run("nil filter selects everything", func(t *testing.T) {
		assert.Equal(t, bson.D{}, buildFilter(nil))
	})

	t.Run("field filter becomes $or of regexes", func(t *testing.T) {
		filter := buildFilter(document.NewFieldFilter(document.FieldTitle, "nginx (test)"))
		require.Len(t, filter, 1)
		assert.Equal(t, "$or", filter[0].Key)

		clauses, ok := filter[0].Value.(bson.A)
		require.True(t, ok)
		require.Len(t, clauses, 4)

		want := primitive.Regex{Pattern: `.*nginx \(test\).*`, Options: "i"}
		paths := []string{
			"http_responseForIP.title",
			"https_responseForIP.title",
			"http_responseForDomainName.title",
			"https_responseForDomainName.title",
		}
		for i, clause := range clauses {
			d, ok := clause.(bson.D)
			require.True(t, ok)
			assert.Equal(t, bson.D{{Key: paths[i], Value: want}}, d)
		}
	})
}

func TestInsertBatch_KeepsClientID(t *testing.T) {
	docs := []document.Document{
		document.New(map[string]any{"_id": "client-id", "ip": "10.0.0.1"}),
		document.New(map[string]any{"ip": "10.0.0.2"}),
	}

	batch := insertBatch(docs)
	require.Len(t, batch, 2)

	first, ok := batch[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "client-id", first["_id"])
	assert.Equal(t, "10.0.0.1", first["ip"])

	second, ok := batch[1].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, second, "_id", "the server assigns an ObjectID")
}

func TestFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	doc := fromBSON(bson.M{
		"_id": oid,
		"ip":  "10.0.0.1",
		"http_responseForIP": primitive.A{
			primitive.M{"title": "nginx", "response_headers": primitive.D{{Key: "Server", Value: "nginx"}}},
		},
		"https_responseForIP": primitive.M{"seen": primitive.NewDateTimeFromTime(seen), "ref": oid},
	})

	assert.Equal(t, oid.Hex(), doc.ID)
	assert.NotContains(t, doc.Body, "_id")

	records := doc.Response(document.HTTPForIP).Sequence()
	require.Len(t, records, 1)
	title, _ := records[0].Value(document.FieldTitle)
	assert.Equal(t, "nginx", title)
	require.Len(t, records[0].Headers, 1)
	assert.Equal(t, document.Header{Name: "Server", Value: "nginx", HasValue: true}, records[0].Headers[0])

	single, ok := doc.Body["https_responseForIP"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, seen, single["seen"])
	assert.Equal(t, oid.Hex(), single["ref"])
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "abc", idString("abc"))
	assert.Equal(t, "", idString(42))
}

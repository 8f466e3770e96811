package store

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/errors"
	metricsmocks "github.com/anstrom/scanvault/internal/metrics/mocks"
	"github.com/anstrom/scanvault/internal/store/mocks"
)

func TestInstrumented_RecordsOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := metricsmocks.NewMockRecorder(ctrl)
	s := WithMetrics(NewMemoryStore(), recorder)
	ctx := context.Background()

	recorder.EXPECT().RecordStoreOperation(BackendMemory, "insert", gomock.Any(), nil)
	recorder.EXPECT().AddDocumentsInserted(BackendMemory, 3)
	_, err := s.InsertMany(ctx, sampleDocs())
	require.NoError(t, err)

	recorder.EXPECT().RecordStoreOperation(BackendMemory, "find", gomock.Any(), nil)
	docs, err := s.Find(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	recorder.EXPECT().RecordStoreOperation(BackendMemory, "delete", gomock.Any(), nil)
	recorder.EXPECT().AddDocumentsDeleted(BackendMemory, int64(3))
	_, err = s.DeleteAll(ctx)
	require.NoError(t, err)

	recorder.EXPECT().RecordStoreOperation(BackendMemory, "ping", gomock.Any(), nil)
	assert.NoError(t, s.Ping(ctx))
}

func TestInstrumented_RecordsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := metricsmocks.NewMockRecorder(ctrl)
	inner := mocks.NewMockStore(ctrl)
	s := WithMetrics(inner, recorder)

	failure := errors.ErrStore("insert", stderrors.New("write conflict"))
	inner.EXPECT().Backend().Return(BackendMongo).AnyTimes()
	inner.EXPECT().InsertMany(gomock.Any(), gomock.Any()).Return(0, failure)
	recorder.EXPECT().RecordStoreOperation(BackendMongo, "insert", gomock.Any(), failure)

	_, err := s.InsertMany(context.Background(), []document.Document{document.New(map[string]any{})})
	assert.Equal(t, failure, err)
}

func TestWithMetrics_NilRecorder(t *testing.T) {
	s := WithMetrics(NewMemoryStore(), nil)
	_, err := s.InsertMany(context.Background(), sampleDocs())
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := Config{Backend: BackendMemory}
		s, err := Open(ctx, &cfg)
		require.NoError(t, err)
		assert.Equal(t, BackendMemory, s.Backend())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend = BackendSQLite
		cfg.SQLite.Path = t.TempDir() + "/open.db"
		s, err := Open(ctx, &cfg)
		require.NoError(t, err)
		defer func() { _ = s.Close(ctx) }()
		assert.Equal(t, BackendSQLite, s.Backend())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := Config{Backend: "cassandra"}
		_, err := Open(ctx, &cfg)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeValidation))
	})

	t.Run("mongo without uri", func(t *testing.T) {
		cfg := Config{Backend: BackendMongo}
		_, err := Open(ctx, &cfg)
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, BackendMongo, cfg.Backend)
	assert.Equal(t, "scannerdb", cfg.Mongo.Database)
	assert.Equal(t, "scanvault.db", cfg.SQLite.Path)
}

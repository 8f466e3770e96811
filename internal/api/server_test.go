package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/metrics"
	"github.com/anstrom/scanvault/internal/store"
)

// Test helper functions
func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Backend = store.BackendMemory
	cfg.API.Port = 0
	cfg.Logging.RequestLogging = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *store.MemoryStore, *metrics.PrometheusMetrics) {
	t.Helper()
	st := store.NewMemoryStore()
	pm := metrics.NewPrometheusMetrics()

	server, err := New(cfg, st, pm, logging.Discard())
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, st, pm
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestNew(t *testing.T) {
	cfg := createTestConfig()

	_, err := New(nil, store.NewMemoryStore(), nil, nil)
	assert.Error(t, err)

	_, err = New(cfg, nil, nil, nil)
	assert.Error(t, err)

	server, err := New(cfg, store.NewMemoryStore(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", server.GetAddress())
	assert.NotNil(t, server.GetRouter())
	assert.NotNil(t, server.Handler())
}

func TestServer_InsertThenQuery(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	resp, body := do(t, http.MethodPost, ts.URL+"/insert",
		`[{"ip":"10.0.0.1","http_responseForIP":[{"ip":"10.0.0.1","port":"80"}]}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"message":"Inserted"}`, body)

	resp, body = do(t, http.MethodGet, ts.URL+"/byip?ip=10.0.0.1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"ip":"10.0.0.1","http_responseForIP":[{"ip":"10.0.0.1","port":"80"}]}]`, body)

	resp, body = do(t, http.MethodGet, ts.URL+"/byport?port=80", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_entries":1,"entries":[{"ip":"10.0.0.1","http_responseForIP":[{"ip":"10.0.0.1","port":"80"}]}]}`, body)
}

func TestServer_DeleteAll(t *testing.T) {
	ts, st, _ := newTestServer(t, createTestConfig())

	resp, _ := do(t, http.MethodPost, ts.URL+"/insert", `[{"http_responseForIP":{"title":"a"}},{"http_responseForIP":{"title":"b"}}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/delete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Delete Confirmation")
	assert.Equal(t, 2, st.Len(), "the confirmation page must not delete anything")

	resp, body = do(t, http.MethodDelete, ts.URL+"/perform_delete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Deleted 2 documents"}`, body)

	for _, path := range []string{"/bytitle?title=", "/byport?port=", "/byhtml?html=", "/byhresponse?hresponse=", "/byhkeyresponse?hkeyresponse="} {
		_, body = do(t, http.MethodGet, ts.URL+path, "")
		var page struct {
			Total int `json:"total_entries"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &page), path)
		assert.Zero(t, page.Total, path)
	}
}

func TestServer_MissingParameter(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	resp, body := do(t, http.MethodGet, ts.URL+"/bytitle", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"title query parameter is missing"}`, body)
}

func TestServer_UnknownEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/foo/bar", http.StatusOK, `{"message":"Unknown endpoint: foo/bar"}`},
		{http.MethodGet, "/bytitle/extra", http.StatusOK, `{"message":"Unknown endpoint: bytitle/extra"}`},
		{http.MethodPost, "/foo/bar", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{http.MethodGet, "/insert", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{http.MethodPost, "/bytitle", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{http.MethodGet, "/perform_delete", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestServer_HeaderSearchDuplicates(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	resp, _ := do(t, http.MethodPost, ts.URL+"/insert", `[{
		"name": "dup",
		"https_responseForDomainName": {"response_headers": {"Server": "nginx"}},
		"http_responseForIP": [{"response_headers": {"Server": "nginx/1.25"}}]
	}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := do(t, http.MethodGet, ts.URL+"/byhresponse?hresponse=NGINX", "")
	var page struct {
		Total   int              `json:"total_entries"`
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "dup", page.Entries[0]["name"])
	assert.Equal(t, "dup", page.Entries[1]["name"])

	_, body = do(t, http.MethodGet, ts.URL+"/byhresponse?hresponse=nginx&from=1", "")
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Entries, 1)
}

func TestServer_HealthAndRequestID(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_Metrics(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	do(t, http.MethodPost, ts.URL+"/insert", `[{"ip":"1"},{"ip":"2"}]`)
	do(t, http.MethodGet, ts.URL+"/bytitle?title=x", "")
	do(t, http.MethodGet, ts.URL+"/no/such/path", "")

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `scanvault_api_requests_total{method="GET",path="/bytitle",status="200"} 1`)
	assert.Contains(t, body, `scanvault_api_requests_total{method="GET",path="unmatched",status="200"} 1`)
	assert.Contains(t, body, `scanvault_store_documents_inserted_total{backend="memory"} 2`)
	assert.Contains(t, body, `scanvault_query_results_count{endpoint="bytitle"} 1`)
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.Metrics.Enabled = false
	ts, _, _ := newTestServer(t, cfg)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Unknown endpoint: metrics"}`, body)
}

func TestServer_Swagger(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	resp, body := do(t, http.MethodGet, ts.URL+"/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"/byhkeyresponse"`)

	cfg := createTestConfig()
	cfg.API.EnableSwagger = false
	ts, _, _ = newTestServer(t, cfg)
	_, body = do(t, http.MethodGet, ts.URL+"/swagger/doc.json", "")
	assert.Contains(t, body, "Unknown endpoint")
}

func TestServer_CORS(t *testing.T) {
	ts, _, _ := newTestServer(t, createTestConfig())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/insert", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimit(t *testing.T) {
	cfg := createTestConfig()
	cfg.API.RateLimit.Enabled = true
	cfg.API.RateLimit.Requests = 2
	cfg.API.RateLimit.Window = time.Hour
	ts, _, _ := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_StartStop(t *testing.T) {
	cfg := createTestConfig()
	cfg.API.ShutdownTimeout = time.Second
	cfg.Metrics.UpdateInterval = 10 * time.Millisecond

	server, err := New(cfg, store.NewMemoryStore(), metrics.NewPrometheusMetrics(), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

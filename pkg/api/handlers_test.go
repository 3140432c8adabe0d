package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/record"
	"github.com/ssargent/recstore/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server  *Server
	handler http.Handler
	store   *store.RecordStore
	config  ServerConfig
}

func newTestServer(t *testing.T, apiKey string) *testServer {
	t.Helper()

	st := store.New()
	rec := record.New()
	rec.Add("Country", "Great Britain")
	rec.Add("Capital", "London")
	require.NoError(t, st.Insert("gb", rec))

	config := ServerConfig{
		Port:     0,
		Bind:     "127.0.0.1",
		APIKey:   apiKey,
		DataFile: filepath.Join(t.TempDir(), "records.txt"),
		Codec:    codec.Options{MaxLineBytes: codec.DefaultMaxLineBytes},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(st, config, NewMetrics(prometheus.NewRegistry()), logger)

	return &testServer{
		server:  server,
		handler: server.Routes(),
		store:   st,
		config:  config,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if ts.config.APIKey != "" {
		req.Header.Set("X-API-Key", ts.config.APIKey)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	var resp APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, resp.Data)
}

func TestHandleGetRecord(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "GET", "/api/v1/records/gb", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "gb", data["id"])
	assert.Equal(t, map[string]interface{}{
		"Country": "Great Britain",
		"Capital": "London",
	}, data["fields"])
}

func TestHandleGetRecord_NotFound(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "GET", "/api/v1/records/fr", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "key not found")
}

func TestHandlePutRecord(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		expectedStatus int
	}{
		{"new record", "fr", `{"Country":"France","Capital":"Paris"}`, http.StatusCreated},
		{"escaped id", "united%20states", `{"Country":"USA","Capital":"Washington"}`, http.StatusCreated},
		{"duplicate id", "gb", `{"Country":"UK","Capital":"London"}`, http.StatusConflict},
		{"repeated put", "gb", `{"Country":"Great Britain","Capital":"London"}`, http.StatusOK},
		{"reserved id", "Scheme", `{"Country":"X","Capital":"Y"}`, http.StatusBadRequest},
		{"schema mismatch", "de", `{"Country":"Germany"}`, http.StatusUnprocessableEntity},
		{"invalid json", "es", `not json`, http.StatusBadRequest},
		{"non string values", "it", `{"Country":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, "")

			w, resp := ts.do(t, "PUT", "/api/v1/records/"+tt.id, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedStatus < http.StatusBadRequest, resp.Success)
		})
	}
}

func TestHandlePutRecord_Stored(t *testing.T) {
	ts := newTestServer(t, "")

	w, _ := ts.do(t, "PUT", "/api/v1/records/united%20states", `{"Country":"USA","Capital":"Washington"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	rec, err := ts.store.Get("united states")
	require.NoError(t, err)
	capital, err := rec.Get("Capital")
	require.NoError(t, err)
	assert.Equal(t, "Washington", capital)

	assert.Equal(t, float64(2), testutil.ToFloat64(ts.server.metrics.storeRecords))
}

func TestHandlePutRecord_Repeated(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "PUT", "/api/v1/records/gb", `{"Capital":"London","Country":"Great Britain"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"gb"}, ts.store.RecordIDs())

	w, resp = ts.do(t, "PUT", "/api/v1/records/gb", `{"Capital":"Edinburgh","Country":"Great Britain"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp.Error, "duplicate")

	rec, err := ts.store.Get("gb")
	require.NoError(t, err)
	capital, _ := rec.Get("Capital")
	assert.Equal(t, "London", capital)
}

func TestHandleDeleteRecord(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "DELETE", "/api/v1/records/gb", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"id": "gb", "removed": true}, resp.Data)
	assert.False(t, ts.store.Contains("gb"))

	// Removing an absent record is not an error
	w, resp = ts.do(t, "DELETE", "/api/v1/records/gb", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"id": "gb", "removed": false}, resp.Data)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		ts.server.metrics.storeOperationsTotal.WithLabelValues("remove", statusSuccess)))
}

func TestHandleListRecords(t *testing.T) {
	ts := newTestServer(t, "")
	ts.do(t, "PUT", "/api/v1/records/fr", `{"Country":"France","Capital":"Paris"}`)

	w, resp := ts.do(t, "GET", "/api/v1/records", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"fr", "gb"}, resp.Data)
}

func TestHandleSchema(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "GET", "/api/v1/schema", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"Capital", "Country"}, data["fields"])
	assert.Equal(t, map[string]interface{}{"records": float64(1), "fields": float64(2)}, data["stats"])

	ts.do(t, "DELETE", "/api/v1/records/gb", "")
	_, resp = ts.do(t, "GET", "/api/v1/schema", "")
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{}, data["fields"])
}

func TestHandleSave(t *testing.T) {
	ts := newTestServer(t, "")

	w, resp := ts.do(t, "POST", "/api/v1/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data, err := os.ReadFile(ts.config.DataFile)
	require.NoError(t, err)
	assert.Equal(t, "#Scheme\n\"Capital\"\n\"Country\"\n#gb\n\"London\"\n\"Great Britain\"\n", string(data))

	loaded, err := store.Load(ts.config.DataFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"gb"}, loaded.RecordIDs())
	assert.Equal(t, map[string]interface{}{"path": ts.config.DataFile, "records": float64(1)}, resp.Data)

	// Later edits do not change an earlier save
	ts.do(t, "PUT", "/api/v1/records/fr", `{"Country":"France","Capital":"Paris"}`)
	again, err := os.ReadFile(ts.config.DataFile)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestHandleSave_StrictRejects(t *testing.T) {
	ts := newTestServer(t, "")
	ts.server.config.Codec.Strict = true

	ts.do(t, "PUT", "/api/v1/records/quoted", `{"Country":"\"Q\"","Capital":"Q"}`)

	w, resp := ts.do(t, "POST", "/api/v1/save", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, resp.Success)
	assert.NoFileExists(t, ts.config.DataFile)
}

func TestRoutes_RequireAPIKey(t *testing.T) {
	ts := newTestServer(t, "secret")

	req := httptest.NewRequest("GET", "/api/v1/records", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := ts.do(t, "GET", "/api/v1/records", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestRoutes_Metrics(t *testing.T) {
	ts := newTestServer(t, "secret")
	ts.do(t, "GET", "/api/v1/records/gb", "")

	// Metrics are served without authentication
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "recstore_http_requests_total")
	assert.Contains(t, body, "recstore_store_records 1")
}

func TestRoutes_Swagger(t *testing.T) {
	ts := newTestServer(t, "secret")

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		return w
	}

	// Documentation is served without authentication
	w := get("/swagger/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "/swagger/swagger.json")

	w = get("/swagger/swagger.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc struct {
		Swagger  string                            `json:"swagger"`
		BasePath string                            `json:"basePath"`
		Paths    map[string]map[string]interface{} `json:"paths"`
		Security map[string]interface{}            `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Security, "ApiKeyAuth")

	wantOps := map[string][]string{
		"/health":       {"get"},
		"/records":      {"get"},
		"/records/{id}": {"get", "put", "delete"},
		"/schema":       {"get"},
		"/save":         {"post"},
	}
	assert.Len(t, doc.Paths, len(wantOps))
	for path, methods := range wantOps {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}

	assert.Equal(t, http.StatusNotFound, get("/swagger/missing").Code)
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/service"
)

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

// ---- Таблица маршрутов ----

func TestInit_Routes(t *testing.T) {
	reg := metrics.NewRegistry()
	h := NewHandler(&service.Services{
		AppInfoService: &mockAppInfoSvc{version: "2.5.1"},
	}, metrics.NewPrometheusIngestObserver(reg), reg.Handler(), logger.Nop())
	router := h.Init()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"ping", http.MethodGet, "/api/ping", http.StatusNoContent},
		{"version", http.MethodGet, "/api/version", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"wrong method on ping", http.MethodPost, "/api/ping", http.StatusNotFound},
		{"wrong method on operations", http.MethodGet, "/api/operations/note", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serve(router, tt.method, tt.path).Code)
		})
	}
}

func TestInit_WithoutMetricsHandler(t *testing.T) {
	h := NewHandler(&service.Services{}, nil, nil, logger.Nop())

	assert.Equal(t, http.StatusNotFound, serve(h.Init(), http.MethodGet, "/metrics").Code)
}

func TestGetServerVersion_WritesVersion(t *testing.T) {
	h := NewHandler(&service.Services{AppInfoService: &mockAppInfoSvc{version: "1.2.3"}}, nil, nil, logger.Nop())

	rec := serve(h.Init(), http.MethodGet, "/api/version")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

// ---- Middleware ----

func TestWithTraceID_GeneratesWhenMissing(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(traceIDHeader)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	traceID := rec.Header().Get(traceIDHeader)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.Empty(t, seen, "заголовок запроса не должен изменяться")
}

func TestResponseWriter_RecordsStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	_, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	w.WriteHeader(http.StatusTeapot)
	_, err = w.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 6, w.size)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithLogging_PassesThrough(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWrappedReadCloser_CloseOnce(t *testing.T) {
	calls := 0
	rc := &wrappedReadCloser{OnClose: func() { calls++ }}

	require.NoError(t, rc.Close())
	require.NoError(t, rc.Close())
	assert.Equal(t, 1, calls)
}

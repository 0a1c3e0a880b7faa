package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-field-sync/internal/app"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/mock"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

// ---- Mocks ----

type mockAppInfoSvc struct{ version string }

func (m *mockAppInfoSvc) GetAppVersion(_ context.Context) string { return m.version }

type acceptFunc func(ctx context.Context, kind models.OperationKind, id, traceID string, payload json.RawMessage) (models.ReceiptResponse, error)

type mockReceiptSvc struct{ fn acceptFunc }

func (m *mockReceiptSvc) Accept(ctx context.Context, kind models.OperationKind, id, traceID string, payload json.RawMessage) (models.ReceiptResponse, error) {
	return m.fn(ctx, kind, id, traceID, payload)
}

// spyIngestObserver запоминает статусы, с которыми операции были отвергнуты.
type spyIngestObserver struct {
	accepted, duplicates int
	rejected             []int
}

func (s *spyIngestObserver) OperationAccepted(models.OperationKind)  { s.accepted++ }
func (s *spyIngestObserver) OperationDuplicate(models.OperationKind) { s.duplicates++ }
func (s *spyIngestObserver) OperationRejected(_ models.OperationKind, status int) {
	s.rejected = append(s.rejected, status)
}

var receivedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T, receipts service.ReceiptService) (http.Handler, *spyIngestObserver) {
	t.Helper()
	spy := &spyIngestObserver{}
	h := NewHandler(&service.Services{
		ReceiptService: receipts,
		AppInfoService: &mockAppInfoSvc{version: "1.0.0"},
	}, spy, http.NotFoundHandler(), logger.Nop())
	return h.Init(), spy
}

func postOperation(router http.Handler, kind, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/operations/"+kind, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---- Сквозные тесты с настоящим сервисом и mock-репозиторием ----

func TestAcceptOperation_WithValidationService(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		key        string
		body       string
		setupRepo  func(repo *mock.MockReceiptRepository)
		wantStatus int
	}{
		{
			name: "first delivery",
			kind: "check-in", key: "op-1", body: `{"site_id":"s-1"}`,
			setupRepo: func(repo *mock.MockReceiptRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.Receipt{OperationID: "op-1", ReceivedAt: receivedAt}, false, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "redelivery",
			kind: "note", key: "op-1", body: `{"text":"hi"}`,
			setupRepo: func(repo *mock.MockReceiptRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.Receipt{OperationID: "op-1", ReceivedAt: receivedAt}, true, nil)
			},
			wantStatus: http.StatusOK,
		},
		{name: "malformed json", kind: "note", key: "op-1", body: `{"text":`, wantStatus: http.StatusBadRequest},
		{name: "missing key", kind: "note", body: `{"text":"hi"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown kind", kind: "invoice", key: "op-1", body: `{}`, wantStatus: http.StatusNotFound},
		{name: "validation failure", kind: "testimonial", key: "op-1", body: `{"author":"A"}`, wantStatus: http.StatusUnprocessableEntity},
		{
			name: "storage unavailable",
			kind: "note", key: "op-1", body: `{"text":"hi"}`,
			setupRepo: func(repo *mock.MockReceiptRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.Receipt{}, false, store.ErrStorageUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "storage failure",
			kind: "note", key: "op-1", body: `{"text":"hi"}`,
			setupRepo: func(repo *mock.MockReceiptRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.Receipt{}, false, store.ErrExecutingQuery)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockReceiptRepository(ctrl)
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			receipts := service.NewReceiptValidationService().Wrap(service.NewReceiptService(repo, logger.Nop()))
			router, spy := newTestRouter(t, receipts)

			rec := postOperation(router, tt.kind, tt.key, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus >= http.StatusBadRequest {
				assert.Equal(t, []int{tt.wantStatus}, spy.rejected)
			}
		})
	}
}

func TestAcceptOperation_ResponseBody(t *testing.T) {
	router, spy := newTestRouter(t, &mockReceiptSvc{fn: func(_ context.Context, _ models.OperationKind, id, _ string, _ json.RawMessage) (models.ReceiptResponse, error) {
		return models.ReceiptResponse{OperationID: id, ReceivedAt: receivedAt}, nil
	}})

	rec := postOperation(router, "note", "op-9", `{"text":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.ReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.ReceiptResponse{OperationID: "op-9", ReceivedAt: receivedAt}, got)
	assert.Equal(t, 1, spy.accepted)
}

func TestAcceptOperation_PassesTraceIDAndPayload(t *testing.T) {
	var gotTrace string
	var gotPayload json.RawMessage
	router, _ := newTestRouter(t, &mockReceiptSvc{fn: func(ctx context.Context, _ models.OperationKind, id, traceID string, payload json.RawMessage) (models.ReceiptResponse, error) {
		gotTrace = traceID
		gotPayload = payload
		fromCtx, ok := utils.GetTraceIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, traceID, fromCtx)
		return models.ReceiptResponse{OperationID: id}, nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/operations/note", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set(idempotencyKeyHeader, "op-1")
	req.Header.Set(traceIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "trace-42", gotTrace)
	assert.Equal(t, "trace-42", rec.Header().Get(traceIDHeader))
	assert.JSONEq(t, `{"text":"hi"}`, string(gotPayload))
}

func TestAcceptOperation_GzipBody(t *testing.T) {
	var gotPayload json.RawMessage
	router, _ := newTestRouter(t, &mockReceiptSvc{fn: func(_ context.Context, _ models.OperationKind, id, _ string, payload json.RawMessage) (models.ReceiptResponse, error) {
		gotPayload = payload
		return models.ReceiptResponse{OperationID: id}, nil
	}})

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"content_type":"image/png","data":"AA=="}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/operations/photo", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set(idempotencyKeyHeader, "op-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"content_type":"image/png","data":"AA=="}`, string(gotPayload))
}

func TestAcceptOperation_InvalidGzip(t *testing.T) {
	router, _ := newTestRouter(t, &mockReceiptSvc{fn: func(context.Context, models.OperationKind, string, string, json.RawMessage) (models.ReceiptResponse, error) {
		t.Fatal("service must not be called")
		return models.ReceiptResponse{}, nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/operations/note", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptOperation_BodyTooLarge(t *testing.T) {
	router, spy := newTestRouter(t, &mockReceiptSvc{})

	body := `{"text":"` + strings.Repeat("x", maxOperationBody) + `"}`
	rec := postOperation(router, "note", "op-1", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, []int{http.StatusRequestEntityTooLarge}, spy.rejected)
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrUnknownKind, http.StatusNotFound},
		{service.ErrMissingIdempotencyKey, http.StatusBadRequest},
		{errors.Join(service.ErrInvalidOperation, errors.New("site_id")), http.StatusUnprocessableEntity},
		{store.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestAcceptOperation_ServerErrorHidesDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockReceiptRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.Receipt{}, false, store.ErrExecutingQuery)

	receipts := service.NewReceiptValidationService().Wrap(service.NewReceiptService(repo, logger.Nop()))
	router, _ := newTestRouter(t, receipts)

	rec := postOperation(router, "note", "op-1", `{"text":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, app.MsgInternalServerError, strings.TrimSpace(rec.Body.String()))
}

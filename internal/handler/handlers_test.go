package handler

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/mock"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/models"
)

var testHTTPConfig = config.ServerHTTP{Address: "localhost:8080", RequestTimeout: time.Second}

func newTestServices(t *testing.T, repo *mock.MockReceiptRepository) *service.Services {
	t.Helper()

	appInfo, err := service.NewAppInfoService(models.NewAppBuildInfo("1.2.3", "", ""), logger.Nop())
	require.NoError(t, err)

	return &service.Services{
		ReceiptService: service.NewReceiptValidationService().Wrap(service.NewReceiptService(repo, logger.Nop())),
		AppInfoService: appInfo,
	}
}

// ── NewHandlers ─────────────────────────────────────────────────────────────

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.ServerHTTP{}, nil, logger.Nop())

	assert.Nil(t, h)
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
}

func TestNewHandlers_WithoutRegistryHasNoMetricsRoute(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, testHTTPConfig, nil, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, h.HTTP)

	rec := httptest.NewRecorder()
	h.HTTP.Init().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))

	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestNewHandlers_RegistryCountsAcceptedOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockReceiptRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r models.Receipt) (models.Receipt, bool, error) {
			return r, false, nil
		})

	h, err := NewHandlers(newTestServices(t, repo), testHTTPConfig, metrics.NewRegistry(), logger.Nop())
	require.NoError(t, err)
	router := h.HTTP.Init()

	req := httptest.NewRequest(nethttp.MethodPost, "/api/operations/note", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Idempotency-Key", "op-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ingest_operations_total{kind="note",result="accepted"} 1`)
}

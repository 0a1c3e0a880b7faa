package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// ── NewAppInfoService ───────────────────────────────────────────────────────

func TestNewAppInfoService_Success(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("1.0.0", "2026-10-01", "abc123"), logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("", "", ""), logger.Nop())

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

// ── GetAppVersion ───────────────────────────────────────────────────────────

func TestGetAppVersion_ReturnsBuildVersion(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("2.5.1", "", ""), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "2.5.1", svc.GetAppVersion(context.Background()))
}

// ── NewServices ─────────────────────────────────────────────────────────────

func TestNewServices_RequiresVersion(t *testing.T) {
	_, err := NewServices(nil, models.NewAppBuildInfo("", "", ""), logger.Nop())

	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

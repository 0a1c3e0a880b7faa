package service

import (
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

// Services groups the ingest server services.
type Services struct {
	ReceiptService ReceiptService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	receipts := NewReceiptValidationService().Wrap(NewReceiptService(storages.ReceiptRepository, logger))

	return &Services{
		ReceiptService: receipts,
		AppInfoService: appInfo,
	}, nil
}

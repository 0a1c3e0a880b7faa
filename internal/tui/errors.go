// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-field-sync/internal/service"
)

// humanizeSyncError turns engine errors into a short line for the status bar.
func humanizeSyncError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrSyncOffline):
		return "Нет связи с сервером, синхронизация отложена"
	case errors.Is(err, service.ErrQueueEmpty):
		return "Очередь пуста"
	case errors.Is(err, service.ErrSyncInProgress):
		return "Синхронизация уже идёт"
	case errors.Is(err, service.ErrNotDurable):
		return "Запись сохранена только в памяти: ошибка записи на диск"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}

package tui

import (
	"github.com/MKhiriev/go-field-sync/models"
)

// statusMsg carries a status snapshot pushed by the sync engine.
type statusMsg struct {
	status models.SyncStatus
}

type syncDoneMsg struct {
	result models.SyncResult
	err    error
}

type enqueuedMsg struct {
	op  models.QueuedOperation
	err error
}

type clearedMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

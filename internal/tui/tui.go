// Package tui is the interactive status console of the field client. It
// renders the sync engine status and lets the user start a sync, capture a
// note and clear the queue.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/models"
)

type TUI struct {
	engine    service.SyncEngine
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func New(engine service.SyncEngine, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{engine: engine, buildInfo: buildInfo, logger: logger}
}

// Run blocks until the user quits or ctx is cancelled. Status changes pushed
// by the engine are forwarded to the program while it runs.
func (t *TUI) Run(ctx context.Context) error {
	model := newStatusModel(ctx, t.engine, t.buildInfo)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := t.engine.Subscribe(func(status models.SyncStatus) {
		p.Send(statusMsg{status: status})
	})
	defer unsubscribe()

	removeOnComplete := t.engine.OnComplete(func(overallSuccess bool, delivered int) {
		t.logger.Debug().Bool("overall_success", overallSuccess).Int("delivered", delivered).Msg("sync pass completed")
	})
	defer removeOnComplete()

	_, err := p.Run()
	return err
}

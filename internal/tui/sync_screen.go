package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
)

type syncModel struct {
	spinner  spinner.Model
	progress progress.Model
	running  bool
}

func newSyncModel() syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m syncModel) View(percent int) string {
	bar := m.progress.ViewAs(float64(percent) / 100)
	if !m.running {
		return bar
	}
	return m.spinner.View() + " Синхронизация...  " + bar
}

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/models"
)

type mode int

const (
	modeStatus mode = iota
	modeNote
	modeConfirmClear
)

const maxNoteLength = 500

type statusModel struct {
	ctx       context.Context
	engine    service.SyncEngine
	buildInfo models.AppBuildInfo

	status models.SyncStatus
	sync   syncModel
	note   textinput.Model
	mode   mode

	info     string
	errMsg   string
	lastOpID string

	showBuildInfo bool

	copyText func(string) error
}

func newStatusModel(ctx context.Context, engine service.SyncEngine, buildInfo models.AppBuildInfo) statusModel {
	note := textinput.New()
	note.Placeholder = "текст заметки"
	note.CharLimit = maxNoteLength
	note.Width = 50

	m := statusModel{
		ctx:       ctx,
		engine:    engine,
		buildInfo: buildInfo,
		status:    engine.Status(),
		sync:      newSyncModel(),
		note:      note,
		copyText:  clipboard.WriteAll,
	}
	m.sync.running = m.status.Syncing
	return m
}

func (m statusModel) Init() tea.Cmd {
	if m.sync.running {
		return m.sync.spinner.Tick
	}
	return nil
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = msg.status
		if m.status.Syncing && !m.sync.running {
			m.sync.running = true
			return m, m.sync.spinner.Tick
		}
		m.sync.running = m.status.Syncing
		return m, nil
	case spinner.TickMsg:
		if !m.sync.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.sync.spinner, cmd = m.sync.spinner.Update(msg)
		return m, cmd
	case syncDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeSyncError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.info = fmt.Sprintf("Доставлено %d из %d", msg.result.SuccessCount, msg.result.SnapshotSize)
		if msg.result.PermanentFailureCount > 0 {
			m.errMsg = fmt.Sprintf("Удалено после повторов: %d", msg.result.PermanentFailureCount)
		}
		return m, m.cmdClearStatus()
	case enqueuedMsg:
		if msg.op.ID != "" {
			m.lastOpID = msg.op.ID
		}
		if msg.err != nil {
			m.errMsg = humanizeSyncError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.info = "Заметка добавлена в очередь"
		return m, m.cmdClearStatus()
	case clearedMsg:
		if msg.err != nil {
			m.errMsg = humanizeSyncError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.info = "Очередь очищена"
		return m, m.cmdClearStatus()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Ошибка копирования: %v", msg.err)
			return m, nil
		}
		m.info = "Скопировано"
		return m, m.cmdClearStatus()
	case clearStatusMsg:
		m.info = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeNote {
			var cmd tea.Cmd
			m.note, cmd = m.note.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeNote:
		return m.updateNote(keyMsg)
	case modeConfirmClear:
		return m.updateConfirmClear(keyMsg)
	}

	if m.showBuildInfo {
		if key.Matches(keyMsg, keys.esc) || key.Matches(keyMsg, keys.version) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.sync):
		return m, m.cmdSync()
	case key.Matches(keyMsg, keys.note):
		m.mode = modeNote
		m.errMsg = ""
		m.note.Reset()
		return m, m.note.Focus()
	case key.Matches(keyMsg, keys.clear):
		if m.status.PendingCount == 0 {
			m.info = "Очередь пуста"
			return m, m.cmdClearStatus()
		}
		m.mode = modeConfirmClear
		return m, nil
	case key.Matches(keyMsg, keys.copy):
		if m.lastOpID == "" {
			m.info = "Нечего копировать"
			return m, m.cmdClearStatus()
		}
		return m, m.cmdCopy(m.lastOpID)
	case key.Matches(keyMsg, keys.version):
		m.showBuildInfo = true
	}

	return m, nil
}

func (m statusModel) updateNote(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.mode = modeStatus
		m.note.Blur()
		return m, nil
	case key.Matches(keyMsg, keys.enter):
		text := strings.TrimSpace(m.note.Value())
		if text == "" {
			m.errMsg = "Пустая заметка"
			return m, nil
		}
		m.mode = modeStatus
		m.note.Blur()
		m.note.Reset()
		return m, m.cmdEnqueueNote(text)
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(keyMsg)
	return m, cmd
}

func (m statusModel) updateConfirmClear(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.yes):
		m.mode = modeStatus
		return m, m.cmdClearQueue()
	case key.Matches(keyMsg, keys.no):
		m.mode = modeStatus
	}
	return m, nil
}

func (m statusModel) cmdSync() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		result, err := engine.TriggerManualSync(ctx)
		return syncDoneMsg{result: result, err: err}
	}
}

func (m statusModel) cmdEnqueueNote(text string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		payload, err := json.Marshal(map[string]string{"text": text})
		if err != nil {
			return enqueuedMsg{err: err}
		}
		op, err := engine.Enqueue(ctx, models.KindNote, payload)
		return enqueuedMsg{op: op, err: err}
	}
}

func (m statusModel) cmdClearQueue() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return clearedMsg{err: engine.ClearQueue(ctx)}
	}
}

func (m statusModel) cmdCopy(text string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

func (m statusModel) cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

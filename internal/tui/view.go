package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-field-sync/models"
)

const timeLayout = "02.01.2006 15:04:05"

func (m statusModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var b strings.Builder

	b.WriteString("Связь: ")
	b.WriteString(renderConnectivity(m.status.Connectivity))
	b.WriteString("\n")
	fmt.Fprintf(&b, "В очереди: %d", m.status.PendingCount)
	if m.status.RetryingCount > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  (повторяются: %d)", m.status.RetryingCount)))
	}
	b.WriteString("\n")
	b.WriteString("Последняя синхронизация: ")
	if m.status.LastSyncCompletedAt != nil {
		b.WriteString(m.status.LastSyncCompletedAt.Local().Format(timeLayout))
	} else {
		b.WriteString("-")
	}
	b.WriteString("\n\n")
	b.WriteString(m.sync.View(m.status.ProgressPercent))
	b.WriteString("\n")

	if m.status.StorageDegraded {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Внимание: очередь не сохраняется на диск"))
		b.WriteString("\n")
	}

	if len(m.status.LastErrors) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Не доставлено:"))
		b.WriteString("\n")
		for _, line := range m.status.LastErrors {
			b.WriteString("• ")
			b.WriteString(fitText(line, 70))
			b.WriteString("\n")
		}
	}

	if m.lastOpID != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Последняя операция: " + m.lastOpID))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeNote:
		b.WriteString("\n")
		b.WriteString("Новая заметка:\n")
		b.WriteString(m.note.View())
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString("\n")
		content := fmt.Sprintf("Удалить %d операций из очереди?\n\ny да    n нет", m.status.PendingCount)
		b.WriteString(overlayBoxStyle.Render(content))
		b.WriteString("\n")
	}

	if m.info != "" {
		b.WriteString("\n")
		b.WriteString(m.info)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	return appStyle.Render(renderPage(titleStyle.Render("FIELD SYNC"), b.String(), m.hotKeys()))
}

func (m statusModel) hotKeys() string {
	switch m.mode {
	case modeNote:
		return "enter: добавить    esc: отмена"
	case modeConfirmClear:
		return "y: да    n: нет"
	}
	return "s: синхронизировать    n: заметка    c: очистить очередь    y: копировать id    v: версия"
}

func renderConnectivity(state models.Connectivity) string {
	if state == models.Offline {
		return offlineStyle.Render("офлайн")
	}
	return onlineStyle.Render("онлайн")
}

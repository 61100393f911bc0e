package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

func fetchStateCmd(ctrl *tracker.Controller) tea.Cmd {
	return func() tea.Msg {
		return LoadedMsg{State: ctrl.Fetch(context.Background())}
	}
}

func installReminderCmd(ctrl *tracker.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.InstallReminder(context.Background())
		return ReminderInstalledMsg{}
	}
}

func waitForReminderCmd(ch <-chan reminder.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func (m *Model) recordReminder(ev reminder.Event) {
	m.ReminderLog = append(m.ReminderLog, ev)
	if len(m.ReminderLog) > reminderLogLimit {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogLimit:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", ev.Title, ev.Body)}
}

func (m Model) renderReminderView() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	last := m.ReminderLog[len(m.ReminderLog)-1]
	return fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.FiredAt.Format("15:04"))
}

package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchStateCmd(m.Tracker), waitForReminderCmd(m.Reminders))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if !m.Loaded {
			return m.handleLoadingKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Mode == ModeCapture {
			return m.handleCaptureKey(typed), nil
		}
		return m.handleListKey(typed)
	case LoadedMsg:
		m.Tracker.Apply(typed.State)
		m.Loaded = true
		m.clampCursor()
		return m, installReminderCmd(m.Tracker)
	case ReminderInstalledMsg:
		return m, nil
	case ReminderDueMsg:
		m.recordReminder(typed.Event)
		return m, waitForReminderCmd(m.Reminders)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}
	return m, nil
}

// handleLoadingKey runs until stored state is applied. Only quit and help
// work, so nothing is saved over state that has not been read yet.
func (m Model) handleLoadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Down, "down":
		m.Cursor++
		m.clampCursor()
	case m.Keys.Up, "up":
		m.Cursor--
		m.clampCursor()
	case m.Keys.Increment, "enter":
		if id, ok := m.selectedID(); ok {
			m.Tracker.IncrementHabit(id)
		}
	case m.Keys.Reset:
		if id, ok := m.selectedID(); ok {
			m.Tracker.ResetHabit(id)
		}
	case m.Keys.Theme:
		if m.Tracker.ThemeSupport() {
			m.Tracker.SetTheme(!m.Tracker.DarkMode())
		}
	case m.Keys.Add:
		m = m.openCapture()
	case m.Keys.Palette:
		m = m.openPalette()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) openCapture() Model {
	m.Mode = ModeCapture
	m.focused = fieldName
	m.nameInput.Focus()
	m.goalInput.Blur()
	return m
}

func (m Model) closeCapture() Model {
	m.Mode = ModeList
	m.nameInput.Blur()
	m.goalInput.Blur()
	return m
}

// handleCaptureKey edits the name and goal inputs. A rejected add leaves the
// inputs and the mode untouched and shows nothing.
func (m Model) handleCaptureKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		return m.closeCapture()
	case "tab", "shift+tab":
		if m.focused == fieldName {
			m.focused = fieldGoal
			m.nameInput.Blur()
			m.goalInput.Focus()
		} else {
			m.focused = fieldName
			m.goalInput.Blur()
			m.nameInput.Focus()
		}
		return m
	case "enter":
		res := m.Tracker.AddHabit(m.nameInput.Value(), m.goalInput.Value())
		if !res.Added {
			return m
		}
		m.nameInput.SetValue("")
		m.goalInput.SetValue("")
		m.Cursor = m.Tracker.Len() - 1
		return m.closeCapture()
	}

	input := &m.nameInput
	if m.focused == fieldGoal {
		input = &m.goalInput
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		input.SetValue(input.Value() + string(msg.Runes))
		return m
	}
	*input, _ = input.Update(msg)
	return m
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	habits := m.Tracker.Habits()
	rows := make([]views.HabitRowData, 0, len(habits))
	done := 0
	for i, h := range habits {
		if h.Complete() {
			done++
		}
		rows = append(rows, views.HabitRowData{
			Position:     i + 1,
			Name:         h.Name,
			Count:        h.Count,
			Goal:         h.Goal.String(),
			Complete:     h.Complete(),
			Selected:     m.Mode == ModeList && i == m.Cursor,
			ProgressView: m.rowProgress.ViewAs(h.Progress()),
		})
	}

	dark := m.Tracker.DarkMode()
	left := views.RenderHabitListPanel(views.HabitListPanelData{Dark: dark, Rows: rows, Total: len(habits), Done: done})
	if !m.Loaded {
		left = "loading habits..."
	}
	right := strings.TrimSpace(strings.Join([]string{
		views.RenderCapturePanel(views.CapturePanelData{
			Active:   m.Mode == ModeCapture,
			NameView: m.nameInput.View(),
			GoalView: m.goalInput.View(),
		}),
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()),
		m.renderHelpIfVisible(),
	}, "\n\n"))

	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		}
	}

	theme := "light"
	if dark {
		theme = "dark"
	}
	footer := fmt.Sprintf("keys: %s/%s move | %s count | %s reset | %s add | / cmd | %s help | %s quit",
		m.Keys.Down, m.Keys.Up, m.Keys.Increment, m.Keys.Reset, m.Keys.Add, m.Keys.Help, m.Keys.Quit)
	if m.Tracker.ThemeSupport() {
		footer += fmt.Sprintf(" | %s theme", m.Keys.Theme)
	}

	return views.RenderApp(views.AppData{
		Dark:          dark,
		Header:        fmt.Sprintf("habitd | mode: %s | theme: %s", m.Mode, theme),
		LeftPane:      left,
		RightPane:     right,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  m.renderReminderView(),
		Footer:        footer,
	})
}

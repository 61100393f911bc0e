package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitd/internal/commands"
)

func (m Model) openPalette() Model {
	m.Palette = CommandPaletteState{Active: true}
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m.closePalette()
	}

	ctrl := m.Tracker
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			out := ctrl.AddHabit(a.Name, a.Goal)
			if !out.Added {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: string(out.Reason)}
			}
			m.Cursor = ctrl.Len() - 1
			return commands.Result{Message: fmt.Sprintf("added habit: %s", out.Habit.Name)}, nil
		},
		Increment: func(t commands.TargetArgs) (commands.Result, error) {
			id, err := commands.ResolveTarget(t.Target, ctrl.Habits())
			if err != nil {
				return commands.Result{}, err
			}
			ctrl.IncrementHabit(id)
			h, _ := ctrl.Habit(id)
			return commands.Result{Message: fmt.Sprintf("%s: %d/%s", h.Name, h.Count, h.Goal)}, nil
		},
		Reset: func(t commands.TargetArgs) (commands.Result, error) {
			id, err := commands.ResolveTarget(t.Target, ctrl.Habits())
			if err != nil {
				return commands.Result{}, err
			}
			ctrl.ResetHabit(id)
			h, _ := ctrl.Habit(id)
			return commands.Result{Message: fmt.Sprintf("reset %s", h.Name)}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			if !ctrl.ThemeSupport() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "theme support is disabled"}
			}
			ctrl.SetTheme(t.Theme.Dark())
			return commands.Result{Message: fmt.Sprintf("theme: %s", t.Theme)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	return m.closePalette()
}

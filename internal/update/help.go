package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/habitd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var md strings.Builder
	for _, kb := range m.modeBindings() {
		md.WriteString(fmt.Sprintf("- **%s** %s\n", kb.Key, kb.Action))
	}
	bindings := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		Mode:     string(m.Mode),
		Bindings: []string{views.RenderMarkdown(md.String(), m.Tracker.DarkMode())},
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeCapture:
		return []KeyBinding{
			{Key: "tab", Action: "switch field"},
			{Key: "enter", Action: "add habit"},
			{Key: "esc", Action: "back to list"},
		}
	default:
		out := []KeyBinding{
			{Key: m.Keys.Down + "/" + m.Keys.Up, Action: "move selection"},
			{Key: m.Keys.Increment + "/enter", Action: "count one more"},
			{Key: m.Keys.Reset, Action: "reset count"},
			{Key: m.Keys.Add, Action: "add habit"},
		}
		if m.Tracker.ThemeSupport() {
			out = append(out, KeyBinding{Key: m.Keys.Theme, Action: "toggle light/dark"})
		}
		return out
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.modeBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.modeBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

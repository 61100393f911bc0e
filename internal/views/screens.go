package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type HabitRowData struct {
	Position     int
	Name         string
	Count        int
	Goal         string
	Complete     bool
	Selected     bool
	ProgressView string
}

type HabitListPanelData struct {
	Dark  bool
	Rows  []HabitRowData
	Total int
	Done  int
}

type CapturePanelData struct {
	Active   bool
	NameView string
	GoalView string
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

// HabitRowText is the plain row text: "name – count/goal".
func HabitRowText(row HabitRowData) string {
	return fmt.Sprintf("%s – %d/%s", row.Name, row.Count, row.Goal)
}

func RenderHabitListPanel(data HabitListPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("habits: %d/%d complete\n", data.Done, data.Total))
	if len(data.Rows) == 0 {
		b.WriteString("(no habits yet, press [a] to add one)")
		return b.String()
	}

	p := PaletteFor(data.Dark)
	complete := lipgloss.NewStyle().Background(p.CompleteBackground).Foreground(p.CompleteForeground)
	selected := lipgloss.NewStyle().Bold(true)
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		text := fmt.Sprintf("%d. %s", row.Position, HabitRowText(row))
		if row.Complete {
			text = complete.Render(text)
		}
		if row.Selected {
			text = selected.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, text))
		if row.ProgressView != "" {
			b.WriteString("  " + row.ProgressView + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCapturePanel(data CapturePanelData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("new habit:\n")
	b.WriteString("keys: [tab] field [enter] add [esc] close\n")
	b.WriteString(data.NameView + "\n")
	b.WriteString(data.GoalView)
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(title string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if strings.TrimSpace(title) == "" {
		return body
	}
	return fmt.Sprintf("%s: %s", title, body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.Mode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Dark          bool
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
}

// Palette is the colour set for one theme. CompleteBackground marks rows
// whose goal has been reached.
type Palette struct {
	Foreground         lipgloss.Color
	Background         lipgloss.Color
	Accent             lipgloss.Color
	Muted              lipgloss.Color
	Error              lipgloss.Color
	CompleteBackground lipgloss.Color
	CompleteForeground lipgloss.Color
}

var (
	LightPalette = Palette{
		Foreground:         lipgloss.Color("#222222"),
		Background:         lipgloss.Color("#ffffff"),
		Accent:             lipgloss.Color("#1565c0"),
		Muted:              lipgloss.Color("#757575"),
		Error:              lipgloss.Color("#c62828"),
		CompleteBackground: lipgloss.Color("#c8f7c5"),
		CompleteForeground: lipgloss.Color("#1b5e20"),
	}
	DarkPalette = Palette{
		Foreground:         lipgloss.Color("#eeeeee"),
		Background:         lipgloss.Color("#121212"),
		Accent:             lipgloss.Color("#90caf9"),
		Muted:              lipgloss.Color("#9e9e9e"),
		Error:              lipgloss.Color("#ef9a9a"),
		CompleteBackground: lipgloss.Color("#4CAF50"),
		CompleteForeground: lipgloss.Color("#ffffff"),
	}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

type styles struct {
	header lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	panel  lipgloss.Style
	footer lipgloss.Style
}

func stylesFor(p Palette) styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		status: lipgloss.NewStyle().Foreground(p.Foreground),
		err:    lipgloss.NewStyle().Foreground(p.Error),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Muted).Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(p.Muted),
	}
}

func RenderApp(data AppData) string {
	st := stylesFor(PaletteFor(data.Dark))

	row := st.panel.Width(58).Render(data.LeftPane)
	if strings.TrimSpace(data.RightPane) != "" {
		right := st.panel.Width(44).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, right)
	}

	status := st.status.Render(data.StatusLine)
	if data.StatusIsError {
		status = st.err.Render(data.StatusLine)
	}

	lines := []string{
		st.header.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, st.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, st.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

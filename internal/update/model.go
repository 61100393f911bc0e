package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

type Mode string

const (
	ModeList    Mode = "List"
	ModeCapture Mode = "Capture"
)

type captureField int

const (
	fieldName captureField = iota
	fieldGoal
)

const reminderLogLimit = 20

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type KeyMap struct {
	Down      string
	Up        string
	Increment string
	Reset     string
	Theme     string
	Add       string
	Palette   string
	Help      string
	Quit      string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down:      "j",
		Up:        "k",
		Increment: "+",
		Reset:     "r",
		Theme:     "t",
		Add:       "a",
		Palette:   "/",
		Help:      "?",
		Quit:      "q",
	}
}

type Model struct {
	Tracker     *tracker.Controller
	Reminders   <-chan reminder.Event
	Mode        Mode
	Cursor      int
	Loaded      bool
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	ReminderLog []reminder.Event
	Quitting    bool

	nameInput    textinput.Model
	goalInput    textinput.Model
	commandInput textinput.Model
	focused      captureField
	rowProgress  progress.Model
	helpModel    help.Model
}

// LoadedMsg carries persisted state fetched off the event loop.
type LoadedMsg struct {
	State tracker.Loaded
}

type ReminderInstalledMsg struct{}

type ReminderDueMsg struct {
	Event reminder.Event
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(ctrl *tracker.Controller, reminders <-chan reminder.Event) Model {
	m := Model{
		Tracker:   ctrl,
		Reminders: reminders,
		Mode:      ModeList,
		Keys:      DefaultKeyMap(),
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name> "
	m.nameInput.Placeholder = "Habit name"
	m.nameInput.CharLimit = 256
	m.nameInput.Width = 40

	m.goalInput = textinput.New()
	m.goalInput.Prompt = "goal> "
	m.goalInput.Placeholder = "Goal (e.g. 8)"
	m.goalInput.CharLimit = 32
	m.goalInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.rowProgress = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	m.helpModel = help.New()
}

func (m *Model) clampCursor() {
	n := m.Tracker.Len()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selectedID() (string, bool) {
	habits := m.Tracker.Habits()
	if m.Cursor < 0 || m.Cursor >= len(habits) {
		return "", false
	}
	return habits[m.Cursor].ID, true
}

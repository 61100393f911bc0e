package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/commands"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/persistence"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/update"
	"github.com/sandeepkv93/habitd/internal/views"
)

// CLI holds global flags. Flags win over every other config source.
type CLI struct {
	Config  string           `short:"c" help:"YAML configuration file" default:"habitd.yaml" type:"path"`
	EnvFile string           `name:"env-file" help:"dotenv file loaded before HABITD_* variables" default:".env"`
	Data    string           `short:"d" help:"SQLite database path (overrides config)"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Tui    TuiCmd    `cmd:"" default:"1" help:"Open the interactive habit tracker"`
	List   ListCmd   `cmd:"" help:"Print habits and their progress"`
	Add    AddCmd    `cmd:"" help:"Add a habit"`
	Inc    IncCmd    `cmd:"" help:"Count one more for a habit"`
	Reset  ResetCmd  `cmd:"" help:"Reset a habit's count to zero"`
	Theme  ThemeCmd  `cmd:"" help:"Persist the light or dark theme"`
	Remind RemindCmd `cmd:"" help:"Run the daily reminder until interrupted"`
	Dump   DumpCmd   `cmd:"" help:"Print raw stored key/value entries"`

	out io.Writer
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

type TuiCmd struct{}

func (t *TuiCmd) Run(cli *CLI) error {
	cfg, err := cli.resolveConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cfg, appOptions{logPath: cfg.LogPath, reminders: cfg.Reminders, defaultDark: lipgloss.HasDarkBackground()})
	if err != nil {
		return err
	}
	defer a.Close()

	a.startReminders()
	program := tea.NewProgram(update.NewModel(a.controller, a.reminderEvents()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		a.logger.Error("TUI failed", zap.Error(err))
		return fmt.Errorf("habitd failed: %w", err)
	}
	return nil
}

type ListCmd struct{}

func (l *ListCmd) Run(cli *CLI) error {
	a, err := cli.openCLIApp()
	if err != nil {
		return err
	}
	defer a.Close()
	a.controller.Initialize(context.Background())
	printHabits(cli.stdout(), a.controller.Habits())
	return nil
}

type AddCmd struct {
	Name string `arg:"" help:"Habit name"`
	Goal string `arg:"" help:"Goal count; the leading integer is used"`
}

func (c *AddCmd) Run(cli *CLI) error {
	a, err := cli.openCLIApp()
	if err != nil {
		return err
	}
	defer a.Close()
	a.controller.Initialize(context.Background())

	res := a.controller.AddHabit(c.Name, c.Goal)
	if !res.Added {
		return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: string(res.Reason)}
	}
	fmt.Fprintf(cli.stdout(), "added %s (%s)\n", views.HabitRowText(rowData(res.Habit)), res.Habit.ID)
	return nil
}

type IncCmd struct {
	Target string `arg:"" help:"Habit position (1-based) or id"`
}

func (c *IncCmd) Run(cli *CLI) error {
	return cli.mutate(c.Target, func(a *app, id string) bool { return a.controller.IncrementHabit(id) })
}

type ResetCmd struct {
	Target string `arg:"" help:"Habit position (1-based) or id"`
}

func (c *ResetCmd) Run(cli *CLI) error {
	return cli.mutate(c.Target, func(a *app, id string) bool { return a.controller.ResetHabit(id) })
}

type ThemeCmd struct {
	Theme string `arg:"" enum:"dark,light" help:"dark or light"`
}

func (c *ThemeCmd) Run(cli *CLI) error {
	a, err := cli.openCLIApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if !a.controller.ThemeSupport() {
		return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "theme support is disabled"}
	}
	theme, _ := model.ParseTheme(c.Theme)
	a.controller.SetTheme(theme.Dark())
	fmt.Fprintf(cli.stdout(), "theme: %s\n", theme)
	return nil
}

type RemindCmd struct{}

func (r *RemindCmd) Run(cli *CLI) error {
	cfg, err := cli.resolveConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cfg, appOptions{reminders: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.startReminders()
	a.controller.InstallReminder(ctx)
	if next, ok := a.scheduler.NextRun(); ok {
		fmt.Fprintf(cli.stdout(), "next reminder: %s\n", next.Format("2006-01-02 15:04 MST"))
	} else {
		fmt.Fprintln(cli.stdout(), "daily reminder not scheduled")
	}

	events := a.reminderEvents()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Shutdown signal received, stopping reminders")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(cli.stdout(), "%s %s: %s\n", ev.FiredAt.Format("15:04"), ev.Title, ev.Body)
		}
	}
}

type DumpCmd struct {
	Prefix string `help:"Only keys with this prefix"`
}

func (d *DumpCmd) Run(cli *CLI) error {
	a, err := cli.openCLIApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	entries, err := a.kv.List(ctx, storage.EntryListFilter{Prefix: d.Prefix})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	out := cli.stdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\t%s\n", e.Key, e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"), e.Value)
	}
	snap := a.gateway.Load(ctx)
	theme := snap.Theme
	if theme == "" {
		theme = "(unset)"
	}
	fmt.Fprintf(out, "# %s: %d habit(s), %s: %s\n", persistence.HabitsKey, len(snap.Habits), persistence.ThemeKey, theme)
	return nil
}

func (c *CLI) openCLIApp() (*app, error) {
	cfg, err := c.resolveConfig()
	if err != nil {
		return nil, err
	}
	return openApp(cfg, appOptions{})
}

func (c *CLI) mutate(target string, apply func(*app, string) bool) error {
	a, err := c.openCLIApp()
	if err != nil {
		return err
	}
	defer a.Close()
	a.controller.Initialize(context.Background())

	id, err := commands.ResolveTarget(target, a.controller.Habits())
	if err != nil {
		return err
	}
	apply(a, id)
	h, _ := a.controller.Habit(id)
	fmt.Fprintln(c.stdout(), views.HabitRowText(rowData(h)))
	return nil
}

func printHabits(w io.Writer, habits []model.Habit) {
	if len(habits) == 0 {
		fmt.Fprintln(w, "no habits yet")
		return
	}
	for i, h := range habits {
		mark := " "
		if h.Complete() {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %d. %s\n", mark, i+1, views.HabitRowText(rowData(h)))
	}
}

func rowData(h model.Habit) views.HabitRowData {
	return views.HabitRowData{Name: h.Name, Count: h.Count, Goal: h.Goal.String(), Complete: h.Complete()}
}

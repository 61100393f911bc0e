// Package tracker owns the in-memory habit list and theme flag and mediates
// every mutation of them.
//
// A Controller is not safe for concurrent use. It is meant to be driven from
// a single event loop; persistence only ever receives copies of the list.
package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/logger"
	"github.com/sandeepkv93/habitd/internal/model"
)

// Store is the persistence contract. Loads never fail: a missing or unusable
// value comes back as nil habits or an empty theme. Saves are fire-and-forget.
type Store interface {
	LoadHabits(ctx context.Context) []model.Habit
	LoadTheme(ctx context.Context) string
	SaveHabits(habits []model.Habit)
	SaveTheme(theme model.Theme)
}

type Reminders interface {
	ScheduleDailyReminder(ctx context.Context) error
}

type Options struct {
	// ThemeSupport enables the persisted light/dark flag.
	ThemeSupport bool
	// DefaultDark is used until a stored theme is applied.
	DefaultDark bool
	IDs         IDSource
}

type RejectReason string

const (
	ReasonEmptyName RejectReason = "empty_name"
	ReasonEmptyGoal RejectReason = "empty_goal"
)

// AddResult is the outcome of AddHabit. A rejected add changed nothing.
type AddResult struct {
	Added  bool
	Habit  model.Habit
	Reason RejectReason
}

// Loaded is persisted state read by Fetch and applied by Apply.
type Loaded struct {
	Habits []model.Habit
	Theme  string
}

type Controller struct {
	store     Store
	reminders Reminders
	logger    *zap.Logger
	ids       IDSource

	themeSupport bool
	habits       []model.Habit
	dark         bool
}

func NewController(store Store, reminders Reminders, l *zap.Logger, opts Options) *Controller {
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Source{}
	}
	return &Controller{
		store:        store,
		reminders:    reminders,
		logger:       logger.OrNop(l).Named("tracker"),
		ids:          ids,
		themeSupport: opts.ThemeSupport,
		habits:       make([]model.Habit, 0),
		dark:         opts.DefaultDark,
	}
}

// Initialize hydrates from the store and installs the daily reminder.
func (c *Controller) Initialize(ctx context.Context) {
	c.Apply(c.Fetch(ctx))
	c.InstallReminder(ctx)
}

// Fetch reads persisted state without touching the controller, so it may run
// off the event loop.
func (c *Controller) Fetch(ctx context.Context) Loaded {
	if c.store == nil {
		return Loaded{}
	}
	out := Loaded{Habits: c.store.LoadHabits(ctx)}
	if c.themeSupport {
		out.Theme = c.store.LoadTheme(ctx)
	}
	return out
}

// Apply replaces the list when a stored list was present and adopts a
// recognised stored theme. Anything else keeps the current state.
func (c *Controller) Apply(in Loaded) {
	if in.Habits != nil {
		c.habits = append(make([]model.Habit, 0, len(in.Habits)), in.Habits...)
	}
	if theme, ok := model.ParseTheme(in.Theme); ok && c.themeSupport {
		c.dark = theme.Dark()
	}
	c.logger.Debug("Applied persisted state",
		zap.Int("habits", len(c.habits)),
		zap.Bool("habits_present", in.Habits != nil),
		zap.String("theme", in.Theme))
}

// InstallReminder asks for the daily reminder. Failures are logged and never
// returned: startup must not depend on notifications.
func (c *Controller) InstallReminder(ctx context.Context) {
	if c.reminders == nil {
		return
	}
	if err := c.reminders.ScheduleDailyReminder(ctx); err != nil {
		c.logger.Warn("Daily reminder not installed", zap.Error(err))
	}
}

func (c *Controller) AddHabit(name, goalText string) AddResult {
	if name == "" {
		return AddResult{Reason: ReasonEmptyName}
	}
	if goalText == "" {
		return AddResult{Reason: ReasonEmptyGoal}
	}
	h := model.Habit{
		ID:    c.ids.NewID(),
		Name:  name,
		Goal:  model.ParseGoal(goalText),
		Count: 0,
	}
	if !h.Goal.Valid {
		c.logger.Info("Habit added with unparseable goal", zap.String("id", h.ID), zap.String("goal_text", goalText))
	}
	c.habits = append(c.habits, h)
	c.saveHabits()
	return AddResult{Added: true, Habit: h}
}

// IncrementHabit adds one to the matching habit. It reports false and does
// nothing for an unknown id.
func (c *Controller) IncrementHabit(id string) bool {
	return c.replace(id, model.Habit.Incremented)
}

func (c *Controller) ResetHabit(id string) bool {
	return c.replace(id, model.Habit.Reset)
}

// SetTheme is a no-op when theme support is disabled.
func (c *Controller) SetTheme(dark bool) {
	if !c.themeSupport {
		return
	}
	c.dark = dark
	if c.store != nil {
		c.store.SaveTheme(model.ThemeFor(dark))
	}
}

func (c *Controller) Habits() []model.Habit {
	return append(make([]model.Habit, 0, len(c.habits)), c.habits...)
}

func (c *Controller) Habit(id string) (model.Habit, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.habits[i], true
	}
	return model.Habit{}, false
}

func (c *Controller) Len() int { return len(c.habits) }

func (c *Controller) DarkMode() bool { return c.dark }

func (c *Controller) ThemeSupport() bool { return c.themeSupport }

func (c *Controller) replace(id string, next func(model.Habit) model.Habit) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	updated := make([]model.Habit, len(c.habits))
	copy(updated, c.habits)
	updated[i] = next(updated[i])
	c.habits = updated
	c.saveHabits()
	return true
}

func (c *Controller) indexOf(id string) int {
	for i, h := range c.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) saveHabits() {
	if c.store == nil {
		return
	}
	c.store.SaveHabits(c.Habits())
}

package tracker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/persistence"
	"github.com/sandeepkv93/habitd/internal/storage"
)

type fakeStore struct {
	habits      []model.Habit
	theme       string
	habitSaves  [][]model.Habit
	themeSaves  []model.Theme
	themeLoaded bool
}

func (f *fakeStore) LoadHabits(context.Context) []model.Habit { return f.habits }

func (f *fakeStore) LoadTheme(context.Context) string {
	f.themeLoaded = true
	return f.theme
}

func (f *fakeStore) SaveHabits(h []model.Habit) { f.habitSaves = append(f.habitSaves, h) }

func (f *fakeStore) SaveTheme(t model.Theme) { f.themeSaves = append(f.themeSaves, t) }

type fakeReminders struct {
	calls int
	err   error
}

func (f *fakeReminders) ScheduleDailyReminder(context.Context) error {
	f.calls++
	return f.err
}

func newTestController(store Store, rem Reminders, opts Options) *Controller {
	if opts.IDs == nil {
		base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
		opts.IDs = &MillisSource{Now: func() time.Time { return base }}
	}
	return NewController(store, rem, zap.NewNop(), opts)
}

func TestAddHabitAppendsInCallOrder(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(store, nil, Options{})

	inputs := []struct{ name, goal string }{{"Drink Water", "8"}, {"Read", "20"}, {"Walk", "1"}}
	for _, in := range inputs {
		res := c.AddHabit(in.name, in.goal)
		require.True(t, res.Added)
	}

	habits := c.Habits()
	require.Len(t, habits, len(inputs))
	seen := map[string]bool{}
	for i, in := range inputs {
		assert.Equal(t, in.name, habits[i].Name)
		assert.Equal(t, model.ParseGoal(in.goal), habits[i].Goal)
		assert.Equal(t, 0, habits[i].Count)
		assert.False(t, seen[habits[i].ID], "ids are unique")
		seen[habits[i].ID] = true
	}
	require.Len(t, store.habitSaves, 3)
	assert.Equal(t, habits, store.habitSaves[2])
}

func TestAddHabitRejectsEmptyInput(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(store, nil, Options{})
	c.AddHabit("Meditate", "1")
	before := c.Habits()

	cases := []struct {
		name, goal string
		reason     RejectReason
	}{
		{"", "3", ReasonEmptyName},
		{"Run", "", ReasonEmptyGoal},
		{"", "", ReasonEmptyName},
	}
	for _, tc := range cases {
		res := c.AddHabit(tc.name, tc.goal)
		assert.False(t, res.Added)
		assert.Equal(t, tc.reason, res.Reason)
	}
	assert.Equal(t, before, c.Habits())
	assert.Len(t, store.habitSaves, 1, "rejected adds do not persist")
}

func TestAddHabitKeepsUnparseableGoalFlagged(t *testing.T) {
	c := newTestController(&fakeStore{}, nil, Options{})
	res := c.AddHabit("Stretch", "lots")
	require.True(t, res.Added)
	assert.False(t, res.Habit.Goal.Valid)

	c.IncrementHabit(res.Habit.ID)
	h, _ := c.Habit(res.Habit.ID)
	assert.False(t, h.Complete())
}

func TestIncrementHabitOnlyTouchesTarget(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(store, nil, Options{})
	a := c.AddHabit("A", "2").Habit
	b := c.AddHabit("B", "2").Habit
	cc := c.AddHabit("C", "2").Habit

	require.True(t, c.IncrementHabit(b.ID))
	habits := c.Habits()
	assert.Equal(t, []string{a.ID, b.ID, cc.ID}, ids(habits))
	assert.Equal(t, []int{0, 1, 0}, counts(habits))

	saves := len(store.habitSaves)
	assert.False(t, c.IncrementHabit("missing"))
	assert.Equal(t, habits, c.Habits())
	assert.Len(t, store.habitSaves, saves, "unknown id does not persist")
}

func TestIncrementDoesNotMutatePreviousSnapshots(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(store, nil, Options{})
	h := c.AddHabit("A", "5").Habit
	snapshot := c.Habits()

	c.IncrementHabit(h.ID)
	assert.Equal(t, 0, snapshot[0].Count)
	assert.Equal(t, 0, store.habitSaves[0][0].Count)
	assert.Equal(t, 1, store.habitSaves[1][0].Count)
}

func TestResetHabit(t *testing.T) {
	c := newTestController(&fakeStore{}, nil, Options{})
	a := c.AddHabit("A", "3").Habit
	b := c.AddHabit("B", "3").Habit
	for i := 0; i < 4; i++ {
		c.IncrementHabit(a.ID)
	}
	c.IncrementHabit(b.ID)

	require.True(t, c.ResetHabit(a.ID))
	assert.Equal(t, []int{0, 1}, counts(c.Habits()))
	require.True(t, c.ResetHabit(a.ID), "reset of a zero count still succeeds")
	assert.False(t, c.ResetHabit("missing"))
	assert.Equal(t, []int{0, 1}, counts(c.Habits()))
}

func TestDrinkWaterScenario(t *testing.T) {
	c := newTestController(&fakeStore{}, nil, Options{})
	res := c.AddHabit("Drink Water", "8")
	require.True(t, res.Added)
	require.Equal(t, []model.Habit{{ID: res.Habit.ID, Name: "Drink Water", Goal: model.GoalOf(8), Count: 0}}, c.Habits())

	for i := 0; i < 3; i++ {
		c.IncrementHabit(res.Habit.ID)
	}
	h, ok := c.Habit(res.Habit.ID)
	require.True(t, ok)
	assert.Equal(t, 3, h.Count)
	assert.False(t, h.Complete())

	c.ResetHabit(res.Habit.ID)
	h, _ = c.Habit(res.Habit.ID)
	assert.Equal(t, 0, h.Count)
}

func TestInitializeFreshInstall(t *testing.T) {
	rem := &fakeReminders{}
	c := newTestController(&fakeStore{}, rem, Options{ThemeSupport: true, DefaultDark: true})

	c.Initialize(context.Background())
	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Habits())
	assert.True(t, c.DarkMode(), "default theme kept when nothing stored")
	assert.Equal(t, 1, rem.calls)
}

func TestInitializeAppliesStoredState(t *testing.T) {
	stored := []model.Habit{{ID: "1", Name: "Read", Goal: model.GoalOf(10), Count: 4}}
	cases := []struct {
		theme    string
		def      bool
		wantDark bool
	}{
		{"dark", false, true},
		{"light", true, false},
		{"", true, true},
		{"blue", false, false},
	}
	for _, tc := range cases {
		c := newTestController(&fakeStore{habits: stored, theme: tc.theme}, &fakeReminders{}, Options{ThemeSupport: true, DefaultDark: tc.def})
		c.Initialize(context.Background())
		assert.Equal(t, stored, c.Habits())
		assert.Equal(t, tc.wantDark, c.DarkMode(), "theme %q", tc.theme)
	}
}

func TestApplyKeepsListWhenNothingStored(t *testing.T) {
	c := newTestController(&fakeStore{}, nil, Options{})
	c.AddHabit("Early", "1")
	c.Apply(Loaded{})
	assert.Equal(t, 1, c.Len())

	c.Apply(Loaded{Habits: []model.Habit{}})
	assert.Equal(t, 0, c.Len(), "a stored empty list replaces the in-memory list")
}

func TestInitializeSwallowsReminderFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rem := &fakeReminders{err: errors.New("scheduler unavailable")}
	c := NewController(&fakeStore{}, rem, zap.New(core), Options{})

	c.Initialize(context.Background())
	assert.Equal(t, 1, rem.calls)
	assert.Equal(t, 1, logs.FilterMessage("Daily reminder not installed").Len())
}

func TestSetThemePersistsLiteral(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(store, nil, Options{ThemeSupport: true})

	c.SetTheme(true)
	c.SetTheme(false)
	assert.False(t, c.DarkMode())
	assert.Equal(t, []model.Theme{model.ThemeDark, model.ThemeLight}, store.themeSaves)
}

func TestThemeSupportDisabled(t *testing.T) {
	store := &fakeStore{theme: "dark"}
	c := newTestController(store, nil, Options{ThemeSupport: false})

	c.Initialize(context.Background())
	assert.False(t, c.DarkMode())
	assert.False(t, store.themeLoaded)

	c.SetTheme(true)
	assert.False(t, c.DarkMode())
	assert.Empty(t, store.themeSaves)
}

func TestControllerWithGatewayPersistsAcrossRestart(t *testing.T) {
	kv, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "habitd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	gw := persistence.NewGateway(kv, zap.NewNop(), time.Second)
	c := newTestController(gw, nil, Options{ThemeSupport: true})
	c.Initialize(ctx)
	h := c.AddHabit("Drink Water", "8").Habit
	c.IncrementHabit(h.ID)
	c.IncrementHabit(h.ID)
	c.SetTheme(true)
	require.NoError(t, gw.Close(ctx))

	gw2 := persistence.NewGateway(kv, zap.NewNop(), time.Second)
	defer gw2.Close(ctx)
	restarted := newTestController(gw2, nil, Options{ThemeSupport: true})
	restarted.Initialize(ctx)
	assert.Equal(t, c.Habits(), restarted.Habits())
	assert.True(t, restarted.DarkMode())
}

func TestMillisSourceNeverRepeats(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	src := &MillisSource{Now: func() time.Time { return fixed }}
	got := []string{src.NewID(), src.NewID(), src.NewID()}
	assert.Equal(t, []string{"1700000000000", "1700000000001", "1700000000002"}, got)
}

func TestUUIDv7SourceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := UUIDv7Source{}.NewID()
		require.False(t, seen[id], fmt.Sprintf("duplicate id %s", id))
		seen[id] = true
	}
}

func ids(habits []model.Habit) []string {
	out := make([]string, 0, len(habits))
	for _, h := range habits {
		out = append(out, h.ID)
	}
	return out
}

func counts(habits []model.Habit) []int {
	out := make([]int, 0, len(habits))
	for _, h := range habits {
		out = append(out, h.Count)
	}
	return out
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/logger"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/storage"
)

const (
	HabitsKey = "HABIT_TRACKER_DATA"
	ThemeKey  = "theme"
)

// Snapshot is a serialized copy of the tracker state. Habits is nil when
// nothing usable was stored; Theme is empty when no theme was stored.
type Snapshot struct {
	Habits []model.Habit
	Theme  string
}

// Gateway loads and saves tracker state under fixed keys. It never reports
// errors to callers: failures are logged and the default value is returned.
type Gateway struct {
	kv     storage.KV
	writer *Writer
	logger *zap.Logger
}

func NewGateway(kv storage.KV, l *zap.Logger, writeTimeout time.Duration) *Gateway {
	l = logger.OrNop(l).Named("persistence")
	return &Gateway{
		kv:     kv,
		writer: NewWriter(kv, l, writeTimeout),
		logger: l,
	}
}

func (g *Gateway) Load(ctx context.Context) Snapshot {
	return Snapshot{
		Habits: g.LoadHabits(ctx),
		Theme:  g.LoadTheme(ctx),
	}
}

func (g *Gateway) LoadHabits(ctx context.Context) []model.Habit {
	raw, ok := g.read(ctx, HabitsKey)
	if !ok {
		return nil
	}
	var habits []model.Habit
	if err := json.Unmarshal([]byte(raw), &habits); err != nil {
		g.logger.Error("Failed to decode habits", zap.String("key", HabitsKey), zap.Error(err))
		return nil
	}
	return g.validHabits(habits)
}

// validHabits drops records that fail validation and later duplicates of an
// id, keeping the order of the rest.
func (g *Gateway) validHabits(habits []model.Habit) []model.Habit {
	out := make([]model.Habit, 0, len(habits))
	seen := make(map[string]bool, len(habits))
	for i, h := range habits {
		if err := h.Validate(); err != nil {
			g.logger.Warn("Dropped invalid stored habit", zap.Int("index", i), zap.String("id", h.ID), zap.Error(err))
			continue
		}
		if seen[h.ID] {
			g.logger.Warn("Dropped duplicate stored habit", zap.Int("index", i), zap.String("id", h.ID))
			continue
		}
		seen[h.ID] = true
		out = append(out, h)
	}
	return out
}

func (g *Gateway) LoadTheme(ctx context.Context) string {
	raw, _ := g.read(ctx, ThemeKey)
	return raw
}

// Save queues both keys. An empty theme is left untouched in storage.
func (g *Gateway) Save(s Snapshot) {
	g.SaveHabits(s.Habits)
	if s.Theme != "" {
		g.submit(ThemeKey, s.Theme)
	}
}

func (g *Gateway) SaveHabits(habits []model.Habit) {
	raw, err := json.Marshal(habits)
	if err != nil {
		g.logger.Error("Failed to encode habits", zap.Int("habits", len(habits)), zap.Error(err))
		return
	}
	g.submit(HabitsKey, string(raw))
}

func (g *Gateway) SaveTheme(theme model.Theme) {
	g.submit(ThemeKey, string(theme))
}

func (g *Gateway) Flush(ctx context.Context) error {
	return g.writer.Flush(ctx)
}

func (g *Gateway) Close(ctx context.Context) error {
	return g.writer.Close(ctx)
}

func (g *Gateway) submit(key, value string) {
	if err := g.writer.Submit(key, value); err != nil {
		g.logger.Error("Dropped write", zap.String("key", key), zap.Error(err))
	}
}

func (g *Gateway) read(ctx context.Context, key string) (string, bool) {
	raw, err := g.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.logger.Error("Failed to read value", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

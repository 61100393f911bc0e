package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/config"
	"github.com/sandeepkv93/habitd/internal/logger"
	"github.com/sandeepkv93/habitd/internal/persistence"
	"github.com/sandeepkv93/habitd/internal/reminder"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

type appOptions struct {
	// logPath empty logs to stderr.
	logPath     string
	reminders   bool
	defaultDark bool
}

// app owns every long-lived resource of one habitd run.
type app struct {
	cfg        config.RuntimeConfig
	logger     *zap.Logger
	kv         *storage.SQLiteKV
	gateway    *persistence.Gateway
	scheduler  *reminder.Scheduler
	controller *tracker.Controller
}

func (c *CLI) resolveConfig() (config.RuntimeConfig, error) {
	cfg, err := config.Load(c.Config, c.EnvFile)
	if err != nil {
		return cfg, err
	}
	if c.Data != "" {
		cfg.DataPath = c.Data
	}
	if c.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openApp(cfg config.RuntimeConfig, opts appOptions) (*app, error) {
	log, err := logger.New(opts.logPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	kv, err := storage.OpenSQLite(cfg.DataPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open store %s: %w", cfg.DataPath, err)
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		kv:      kv,
		gateway: persistence.NewGateway(kv, log, cfg.WriteTimeout()),
	}

	var rem tracker.Reminders
	if opts.reminders {
		var notifier reminder.Notifier = reminder.NoopNotifier{}
		if cfg.DesktopNotifications {
			notifier = reminder.NewDesktopNotifier(true)
		}
		s, err := reminder.NewScheduler(notifier, log, reminder.Options{BufferSize: cfg.ReminderBuffer})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.scheduler = s
		rem = s
	}

	var ids tracker.IDSource = tracker.UUIDv7Source{}
	if cfg.IDFormat == config.IDFormatMillis {
		ids = &tracker.MillisSource{}
	}
	a.controller = tracker.NewController(a.gateway, rem, log, tracker.Options{
		ThemeSupport: cfg.ThemeSupport,
		DefaultDark:  opts.defaultDark,
		IDs:          ids,
	})
	log.Debug("habitd started",
		zap.String("data_path", cfg.DataPath),
		zap.Bool("reminders", opts.reminders),
		zap.Bool("theme_support", cfg.ThemeSupport))
	return a, nil
}

func (a *app) startReminders() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

func (a *app) reminderEvents() <-chan reminder.Event {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.C()
}

// Close stops reminders, drains pending writes, then closes the database.
func (a *app) Close() {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.logger.Warn("Failed to stop reminder scheduler", zap.Error(err))
		}
	}
	if a.gateway != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.gateway.Close(ctx); err != nil {
			a.logger.Warn("Pending writes not flushed", zap.Error(err))
		}
		cancel()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/logger"
	"github.com/sandeepkv93/habitd/internal/model"
)

const DailyJobName = "daily-reminder"

var ErrSchedulerClosed = errors.New("reminder: scheduler closed")

type Event struct {
	JobName string
	Title   string
	Body    string
	FiredAt time.Time
}

type Options struct {
	Reminder    model.DailyReminder
	Location    *time.Location
	BufferSize  int
	SendTimeout time.Duration
}

// Scheduler keeps at most one repeating daily reminder job on a gocron
// scheduler. Fired reminders go to the notifier and to C.
type Scheduler struct {
	cron     gocron.Scheduler
	notifier Notifier
	logger   *zap.Logger
	reminder model.DailyReminder
	loc      *time.Location
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	out     chan Event
	closing bool
	closed  bool
	dropped uint64
}

func NewScheduler(notifier Notifier, l *zap.Logger, opts Options) (*Scheduler, error) {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if opts.Reminder == (model.DailyReminder{}) {
		opts.Reminder = model.DefaultDailyReminder()
	}
	if err := opts.Reminder.Validate(); err != nil {
		return nil, err
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(opts.Location))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{
		cron:     cron,
		notifier: notifier,
		logger:   logger.OrNop(l).Named("reminder"),
		reminder: opts.Reminder,
		loc:      opts.Location,
		timeout:  opts.SendTimeout,
		now:      time.Now,
		out:      make(chan Event, opts.BufferSize),
	}, nil
}

func (s *Scheduler) C() <-chan Event {
	return s.out
}

func (s *Scheduler) Start() {
	s.logger.Info("Starting reminder scheduler")
	s.cron.Start()
}

// Shutdown stops the scheduler, waits for a running reminder and closes C.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	if s.closed || s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	err := s.cron.Shutdown()

	s.mu.Lock()
	s.closed = true
	close(s.out)
	s.mu.Unlock()
	return err
}

// ScheduleDailyReminder makes sure notifications are permitted, asking once
// if they are not, then replaces every scheduled job with one daily job at
// the reminder's clock time. A denied permission is logged and is not an
// error.
func (s *Scheduler) ScheduleDailyReminder(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed || s.closing
	s.mu.Unlock()
	if closed {
		return ErrSchedulerClosed
	}

	perm, err := s.notifier.Permission(ctx)
	if err != nil {
		s.logger.Warn("Failed to read notification permission", zap.Error(err))
		perm = PermissionUndetermined
	}
	if perm != PermissionGranted {
		perm, err = s.notifier.RequestPermission(ctx)
		if err != nil {
			s.logger.Warn("Notification permission request failed", zap.Error(err))
		}
	}
	if perm != PermissionGranted {
		s.logger.Warn("Notification permissions not granted", zap.String("permission", string(perm)))
		return nil
	}

	s.CancelAll()

	job, err := s.cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(s.reminder.Hour), uint(s.reminder.Minute), 0),
		)),
		gocron.NewTask(s.fire),
		gocron.WithName(DailyJobName),
		gocron.WithTags(DailyJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule daily reminder: %w", err)
	}
	s.logger.Info("Scheduled daily reminder",
		zap.String("at", s.reminder.Clock()),
		zap.String("location", s.loc.String()),
		zap.String("job_id", job.ID().String()))
	return nil
}

// CancelAll removes every job from the scheduler.
func (s *Scheduler) CancelAll() {
	for _, job := range s.cron.Jobs() {
		if err := s.cron.RemoveJob(job.ID()); err != nil {
			s.logger.Warn("Failed to remove scheduled job",
				zap.String("job_id", job.ID().String()),
				zap.Error(err))
		}
	}
}

func (s *Scheduler) JobCount() int {
	return len(s.cron.Jobs())
}

// NextRun reports the next trigger of the daily job. Before the scheduler
// has computed a run time it falls back to the reminder's next clock time.
func (s *Scheduler) NextRun() (time.Time, bool) {
	jobs := s.cron.Jobs()
	if len(jobs) == 0 {
		return time.Time{}, false
	}
	next, err := jobs[0].NextRun()
	if err != nil || next.IsZero() {
		return s.reminder.NextAfter(s.now().In(s.loc)), true
	}
	return next.In(s.loc), true
}

func (s *Scheduler) Reminder() model.DailyReminder {
	return s.reminder
}

func (s *Scheduler) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Scheduler) fire() {
	n := Notification{Title: s.reminder.Title, Body: s.reminder.Body}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Warn("Failed to deliver reminder notification", zap.Error(err))
	}

	ev := Event{JobName: DailyJobName, Title: n.Title, Body: n.Body, FiredAt: s.now().In(s.loc)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- ev:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderTime = errors.New("model: invalid reminder time")

// DailyReminder is a notification repeated every day at a fixed local
// wall-clock time.
type DailyReminder struct {
	Title  string
	Body   string
	Hour   int
	Minute int
}

func DefaultDailyReminder() DailyReminder {
	return DailyReminder{
		Title:  "🔁 Daily Reminder",
		Body:   "Don't forget today's habit goals!",
		Hour:   9,
		Minute: 0,
	}
}

func (r DailyReminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: reminder title is required")
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidReminderTime, r.Hour, r.Minute)
	}
	return nil
}

// NextAfter returns the first trigger strictly after from, in from's location.
func (r DailyReminder) NextAfter(from time.Time) time.Time {
	y, m, d := from.Date()
	candidate := time.Date(y, m, d, r.Hour, r.Minute, 0, 0, from.Location())
	if !candidate.After(from) {
		candidate = time.Date(y, m, d+1, r.Hour, r.Minute, 0, 0, from.Location())
	}
	return candidate
}

func (r DailyReminder) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

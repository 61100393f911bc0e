package model

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultDailyReminder(t *testing.T) {
	rem := DefaultDailyReminder()
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid default reminder, got error: %v", err)
	}
	if rem.Clock() != "09:00" {
		t.Fatalf("unexpected clock: %s", rem.Clock())
	}
	if rem.Title != "🔁 Daily Reminder" || rem.Body != "Don't forget today's habit goals!" {
		t.Fatalf("unexpected content: %+v", rem)
	}
}

func TestDailyReminderValidateInvalidTime(t *testing.T) {
	rem := DefaultDailyReminder()
	rem.Hour = 24
	if err := rem.Validate(); !errors.Is(err, ErrInvalidReminderTime) {
		t.Fatalf("expected ErrInvalidReminderTime, got %v", err)
	}
}

func TestDailyReminderNextAfter(t *testing.T) {
	rem := DefaultDailyReminder()
	loc := time.FixedZone("test", 3*60*60)

	cases := []struct {
		from time.Time
		want time.Time
	}{
		{time.Date(2026, 2, 9, 8, 59, 0, 0, loc), time.Date(2026, 2, 9, 9, 0, 0, 0, loc)},
		{time.Date(2026, 2, 9, 9, 0, 0, 0, loc), time.Date(2026, 2, 10, 9, 0, 0, 0, loc)},
		{time.Date(2026, 2, 28, 23, 0, 0, 0, loc), time.Date(2026, 3, 1, 9, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		if got := rem.NextAfter(tc.from); !got.Equal(tc.want) {
			t.Fatalf("NextAfter(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

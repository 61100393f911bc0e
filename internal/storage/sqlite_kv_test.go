package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "habitd-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestGetMissingKeyReturnsErrNotFound(t *testing.T) {
	kv := setupKV(t)
	if _, err := kv.Get(context.Background(), "HABIT_TRACKER_DATA"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSetOverwritesValue(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()
	first := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return first }

	if err := kv.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("set light: %v", err)
	}
	kv.now = func() time.Time { return first.Add(time.Minute) }
	if err := kv.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set dark: %v", err)
	}

	got, err := kv.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if got != "dark" {
		t.Fatalf("expected last write to win, got %q", got)
	}

	entries, err := kv.List(ctx, EntryListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %#v", entries)
	}
	if !entries[0].UpdatedAt.Equal(first.Add(time.Minute)) {
		t.Fatalf("unexpected updated_at: %s", entries[0].UpdatedAt)
	}
}

func TestListFiltersByPrefixAndPaginates(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()
	for _, key := range []string{"HABIT_TRACKER_DATA", "HABIT_X", "theme"} {
		if err := kv.Set(ctx, key, "v-"+key); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	habits, err := kv.List(ctx, EntryListFilter{Prefix: "HABIT_"})
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(habits) != 2 || habits[0].Key != "HABIT_TRACKER_DATA" || habits[1].Key != "HABIT_X" {
		t.Fatalf("unexpected prefix list: %#v", habits)
	}

	page, err := kv.List(ctx, EntryListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].Key != "HABIT_X" {
		t.Fatalf("unexpected page: %#v", page)
	}

	tail, err := kv.List(ctx, EntryListFilter{Offset: 2})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(tail) != 1 || tail[0].Key != "theme" {
		t.Fatalf("unexpected offset-only page: %#v", tail)
	}
}

func TestNewSQLiteKVRejectsNilDB(t *testing.T) {
	if _, err := NewSQLiteKV(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

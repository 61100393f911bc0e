package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// KV is a durable string key-value store. Keys are fixed by callers; there is
// no transaction or compare-and-set support.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context, filter EntryListFilter) ([]Entry, error)
}

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type EntryListFilter struct {
	Prefix string
	Limit  int
	Offset int
}

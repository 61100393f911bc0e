package tracker

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDSource hands out habit ids. Ids must be unique for the lifetime of the
// stored list.
type IDSource interface {
	NewID() string
}

// UUIDv7Source issues time-ordered UUIDs, falling back to random v4 ids if
// the v7 generator fails.
type UUIDv7Source struct{}

func (UUIDv7Source) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// MillisSource issues creation-time millisecond ids, bumped forward when two
// ids would collide.
type MillisSource struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

func (s *MillisSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ms := now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return strconv.FormatInt(ms, 10)
}

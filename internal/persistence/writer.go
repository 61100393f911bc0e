package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitd/internal/logger"
	"github.com/sandeepkv93/habitd/internal/storage"
)

var ErrWriterClosed = errors.New("persistence: writer closed")

const defaultWriteTimeout = 5 * time.Second

// Writer serializes writes to a KV through one goroutine. Each key has a
// single pending slot, so a value submitted later always replaces or follows
// an earlier one: the last value issued for a key is the one that ends up
// stored.
type Writer struct {
	kv      storage.KV
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]string
	order   []string
	closed  bool

	wake    chan struct{}
	flushCh chan chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewWriter(kv storage.KV, l *zap.Logger, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &Writer{
		kv:      kv,
		logger:  logger.OrNop(l),
		timeout: timeout,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		flushCh: make(chan chan struct{}),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues value for key and returns immediately.
func (w *Writer) Submit(key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.signalWakeup()
	return nil
}

// Flush blocks until every value submitted before the call has been written
// or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case w.flushCh <- reply:
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and stops the worker. Later submits fail with
// ErrWriterClosed.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.stopCh)
	}
	w.mu.Unlock()
	select {
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.wake:
			w.drain()
		case reply := <-w.flushCh:
			w.drain()
			close(reply)
		case <-w.stopCh:
			w.drain()
			return
		}
	}
}

func (w *Writer) signalWakeup() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) drain() {
	for {
		batch, order := w.takePending()
		if len(order) == 0 {
			return
		}
		for _, key := range order {
			w.write(key, batch[key])
		}
	}
}

func (w *Writer) takePending() (map[string]string, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch, order := w.pending, w.order
	w.pending = make(map[string]string)
	w.order = nil
	return batch, order
}

func (w *Writer) write(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.kv.Set(ctx, key, value); err != nil {
		w.logger.Error("Failed to persist value",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Error(err))
		return
	}
	w.logger.Debug("Persisted value", zap.String("key", key), zap.Int("bytes", len(value)))
}

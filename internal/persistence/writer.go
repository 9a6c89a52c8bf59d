package persistence

import (
	"context"
	"sync"

	"github.com/julianstephens/pausa/internal/logger"
)

// KV is the durable key/value backend.
type KV interface {
	GetValue(key string) (string, error)
	SetValues(values map[string]string) error
}

// Writer queues key/value writes and flushes them from its own goroutine.
// Pending writes to one key coalesce; the last value wins.
type Writer struct {
	kv KV

	mu      sync.Mutex
	pending map[string]string
	wake    chan struct{}

	// inflight is the batch being written; readers see it until SetValues returns.
	inflight map[string]string

	// flushMu keeps snapshots reaching the backend in the order they were taken.
	flushMu sync.Mutex
}

func NewWriter(kv KV) *Writer {
	return &Writer{
		kv:      kv,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
	}
}

// Put queues value for key. It never blocks on the backend.
func (w *Writer) Put(key, value string) {
	w.mu.Lock()
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Pending returns the queued or in-flight value for key, if any.
func (w *Writer) Pending(key string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.pending[key]; ok {
		return v, true
	}
	v, ok := w.inflight[key]
	return v, ok
}

// Run flushes queued writes until ctx is cancelled, then flushes once more.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return w.Flush()
		case <-w.wake:
			if err := w.Flush(); err != nil {
				logger.Warn("Failed to persist state", "error", err)
			}
		}
	}
}

// Flush writes every queued value synchronously. Values that fail to write
// are re-queued unless a newer value arrived meanwhile.
func (w *Writer) Flush() error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]string)
	if len(batch) > 0 {
		w.inflight = batch
	}
	w.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	err := w.kv.SetValues(batch)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight = nil
	if err != nil {
		for k, v := range batch {
			if _, newer := w.pending[k]; !newer {
				w.pending[k] = v
			}
		}
		return err
	}
	return nil
}

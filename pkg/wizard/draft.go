package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDraftDebounce is the quiet period before a draft is written.
const DefaultDraftDebounce = 500 * time.Millisecond

// DraftKeyPrefix prefixes the storage key of every draft.
const DraftKeyPrefix = "kagzat.onboarding.draft."

// ErrDraftClosed is returned by Save after Close.
var ErrDraftClosed = errors.New("wizard: draft writer closed")

// DraftStore is the storage a DraftWriter writes to.
type DraftStore interface {
	Set(ctx context.Context, key string, value []byte) error
}

// DraftKey returns the storage key for a flow's draft.
func DraftKey(flowID string) string {
	return DraftKeyPrefix + flowID
}

// DraftOption configures a DraftWriter.
type DraftOption func(*DraftWriter)

// WithDebounce overrides DefaultDraftDebounce. Non-positive values are
// ignored.
func WithDebounce(d time.Duration) DraftOption {
	return func(w *DraftWriter) {
		if d > 0 {
			w.delay = d
		}
	}
}

func WithDraftLogger(logger *zap.Logger) DraftOption {
	return func(w *DraftWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// DraftWriter debounces in-progress answers into a store. Only the last
// Save of a burst is written. Drafts are never read back into a Machine.
type DraftWriter struct {
	store  DraftStore
	key    string
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []byte
	closed  bool

	writeMu sync.Mutex
}

// NewDraftWriter returns a writer for flowID.
func NewDraftWriter(store DraftStore, flowID string, opts ...DraftOption) *DraftWriter {
	w := &DraftWriter{
		store:  store,
		key:    DraftKey(flowID),
		delay:  DefaultDraftDebounce,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Key returns the storage key the writer uses.
func (w *DraftWriter) Key() string { return w.key }

// Save schedules answers to be written once no further Save arrives within
// the debounce window.
func (w *DraftWriter) Save(answers any) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("wizard: encode draft: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrDraftClosed
	}
	w.pending = data
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
	return nil
}

func (w *DraftWriter) fire() {
	if err := w.flush(context.Background(), false); err != nil {
		w.logger.Warn("draft write failed", zap.String("key", w.key), zap.Error(err))
	}
}

// flush holds writeMu from take to Set so a timer write can never land
// after a newer draft written by Flush.
func (w *DraftWriter) flush(ctx context.Context, stop bool) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	data := w.take(stop)
	if data == nil {
		return nil
	}
	if err := w.store.Set(ctx, w.key, data); err != nil {
		return err
	}
	w.logger.Debug("draft saved", zap.String("key", w.key), zap.Int("bytes", len(data)))
	return nil
}

func (w *DraftWriter) take(stop bool) []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	if stop && w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	data := w.pending
	w.pending = nil
	return data
}

// Flush writes any pending draft now.
func (w *DraftWriter) Flush(ctx context.Context) error {
	return w.flush(ctx, true)
}

// Close flushes and rejects further saves.
func (w *DraftWriter) Close(ctx context.Context) error {
	err := w.Flush(ctx)
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return err
}

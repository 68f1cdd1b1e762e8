package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Default adapter timings.
const (
	// DefaultDebounce is how long the writer waits after a change before
	// reading the snapshot, so bursts collapse into one write.
	DefaultDebounce = 250 * time.Millisecond

	// writeTimeout bounds a single mirror write.
	writeTimeout = 5 * time.Second
)

// Source provides the snapshot to persist. The store implements it.
type Source interface {
	PersistedSnapshot() Snapshot
}

// Adapter serialises the scene to a Mirror on change.
//
// Thread Safety: Notify, Flush and SetOnError are safe for concurrent use.
type Adapter struct {
	mirror   Mirror
	key      string
	debounce time.Duration
	logger   Logger

	wake chan struct{}
	done chan struct{}

	mu      sync.Mutex
	source  Source
	onError func(error)
	last    []byte
	running bool
	cancel  context.CancelFunc

	writeMu sync.Mutex
}

// NewAdapter creates an adapter writing to mirror under key. An empty key
// uses DefaultStorageKey; a negative debounce uses DefaultDebounce.
func NewAdapter(mirror Mirror, key string, debounce time.Duration, logger Logger) *Adapter {
	if key == "" {
		key = DefaultStorageKey
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Adapter{
		mirror:   mirror,
		key:      key,
		debounce: debounce,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// SetOnError sets a callback for write failures.
func (a *Adapter) SetOnError(fn func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = fn
}

// Load reads the last persisted snapshot. It returns ErrSnapshotNotFound
// when nothing has been stored yet, and ErrCorruptSnapshot when the stored
// blob is unreadable.
func (a *Adapter) Load(ctx context.Context) (Snapshot, error) {
	data, err := a.mirror.Load(ctx, a.key)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := Decode(data)
	if err != nil {
		return Snapshot{}, err
	}

	a.mu.Lock()
	a.last = data
	a.mu.Unlock()

	a.logger.Info("snapshot loaded",
		"key", a.key,
		"objects", len(snap.Objects),
		"interactions", len(snap.ObjectInteractions),
	)
	return snap, nil
}

// Start launches the writer goroutine. It is a no-op if already running.
func (a *Adapter) Start(ctx context.Context, src Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.source = src
	a.cancel = cancel
	a.running = true
	a.done = make(chan struct{})
	go a.run(ctx, a.done)
}

// Stop halts the writer and flushes any pending change.
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = false
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	cancel()
	<-done
	return a.Flush(ctx)
}

// Notify marks the snapshot dirty. It never blocks.
func (a *Adapter) Notify() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Flush writes the current snapshot immediately. Unchanged snapshots are
// not rewritten.
func (a *Adapter) Flush(ctx context.Context) error {
	a.mu.Lock()
	src := a.source
	a.mu.Unlock()
	if src == nil {
		return nil
	}
	return a.write(ctx, src.PersistedSnapshot())
}

func (a *Adapter) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.wake:
		}

		if a.debounce > 0 {
			t := time.NewTimer(a.debounce)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		if err := a.Flush(writeCtx); err != nil {
			a.report(err)
		}
		cancel()
	}
}

func (a *Adapter) write(ctx context.Context, snap Snapshot) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	data, err := Encode(snap)
	if err != nil {
		return err
	}

	a.mu.Lock()
	same := bytes.Equal(a.last, data)
	a.mu.Unlock()
	if same {
		return nil
	}

	if err := a.mirror.Save(ctx, a.key, data); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	a.mu.Lock()
	a.last = data
	a.mu.Unlock()

	a.logger.Debug("snapshot persisted", "key", a.key, "bytes", len(data))
	return nil
}

func (a *Adapter) report(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	a.logger.Error("persistence write failed", "key", a.key, "error", err)

	a.mu.Lock()
	fn := a.onError
	a.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

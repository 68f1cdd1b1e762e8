package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// Default output location.
const (
	DefaultDir      = "./exports"
	DefaultFilename = "scene.json"

	dirPermissions  = 0750
	filePermissions = 0640
)

// Source is the part of the store the exporter needs.
type Source interface {
	Objects() []scene.SceneObject
	IsExporting() bool
	SetExporting(bool)
	Subscribe(store.Listener) (unsubscribe func())
}

// Result describes a finished export.
type Result struct {
	Path    string `json:"path"`
	Objects int    `json:"objects"`
	Bytes   int64  `json:"bytes"`
}

// Exporter runs an export each time the store's export flag is raised.
//
// Thread Safety: all methods are safe for concurrent use. At most one export
// runs at a time; requests raised while one is running are absorbed by it.
type Exporter struct {
	src      Source
	enc      Encoder
	dir      string
	filename string
	logger   Logger

	busy atomic.Bool
	wg   sync.WaitGroup

	mu       sync.Mutex
	onError  func(error)
	onDone   func(Result)
	unsub    func()
	ctx      context.Context //nolint:containedctx // Lifetime of the watch, set by Start
	lastPath string
}

// New creates an exporter. A nil encoder uses JSONEncoder; empty dir or
// filename use the defaults.
func New(src Source, enc Encoder, dir, filename string, logger Logger) *Exporter {
	if enc == nil {
		enc = JSONEncoder{}
	}
	if dir == "" {
		dir = DefaultDir
	}
	if filename == "" {
		filename = DefaultFilename
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Exporter{src: src, enc: enc, dir: dir, filename: filename, logger: logger}
}

// SetOnError sets a callback for failed exports.
func (e *Exporter) SetOnError(fn func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onError = fn
}

// SetOnDone sets a callback for successful exports.
func (e *Exporter) SetOnDone(fn func(Result)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDone = fn
}

// Start subscribes to the store. Exports run on their own goroutine so the
// mutation that raised the flag is never blocked.
func (e *Exporter) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsub != nil {
		return
	}
	e.ctx = ctx
	e.unsub = e.src.Subscribe(func(c store.Change) {
		if c.Slices.Has(store.SliceExport) {
			e.trigger()
		}
	})
}

// Stop unsubscribes and waits for a running export to finish.
func (e *Exporter) Stop() {
	e.mu.Lock()
	unsub := e.unsub
	e.unsub = nil
	e.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	e.wg.Wait()
}

// LastPath returns the file written by the most recent successful export.
func (e *Exporter) LastPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPath
}

func (e *Exporter) trigger() {
	if !e.src.IsExporting() || !e.busy.CompareAndSwap(false, true) {
		return
	}
	e.mu.Lock()
	ctx := e.ctx
	e.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.busy.Store(false)
		e.runOnce(ctx)
	}()
}

func (e *Exporter) runOnce(ctx context.Context) {
	res, err := e.Export(ctx)

	e.mu.Lock()
	onErr, onDone := e.onError, e.onDone
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("scene export failed", "error", err)
		if onErr != nil {
			onErr(err)
		}
		return
	}
	e.logger.Info("scene exported", "path", res.Path, "objects", res.Objects, "bytes", res.Bytes)
	if onDone != nil {
		onDone(res)
	}
}

// Export encodes the current objects to dir/filename and clears the export
// flag, whatever the outcome. The file is written to a temporary name and
// renamed into place.
func (e *Exporter) Export(ctx context.Context) (res Result, err error) {
	defer e.src.SetExporting(false)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	objects := e.src.Objects()
	if len(objects) == 0 {
		return Result{}, ErrNoObjects
	}

	if err := os.MkdirAll(e.dir, dirPermissions); err != nil {
		return Result{}, fmt.Errorf("creating export directory: %w", err)
	}
	tmp, err := os.CreateTemp(e.dir, "."+e.filename+".*")
	if err != nil {
		return Result{}, fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:errcheck,gosec // Cleanup on error path
			os.Remove(tmp.Name()) //nolint:errcheck,gosec // Cleanup on error path
		}
	}()

	if err := e.encode(tmp, objects); err != nil {
		return Result{}, err
	}
	info, err := tmp.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), filePermissions); err != nil {
		return Result{}, fmt.Errorf("setting export permissions: %w", err)
	}

	final := filepath.Join(e.dir, e.filename)
	if err := os.Rename(tmp.Name(), final); err != nil {
		return Result{}, fmt.Errorf("moving export into place: %w", err)
	}

	e.mu.Lock()
	e.lastPath = final
	e.mu.Unlock()
	return Result{Path: final, Objects: len(objects), Bytes: info.Size()}, nil
}

// encode runs the encoder, converting a panic into ErrEncodeFailed.
func (e *Exporter) encode(f *os.File, objects []scene.SceneObject) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrEncodeFailed, r)
		}
	}()
	if err := e.enc.Encode(f, objects); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return nil
}

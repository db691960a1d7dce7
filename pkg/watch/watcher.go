package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is used when Config.DebounceInterval is zero.
const DefaultDebounceInterval = 200 * time.Millisecond

// ErrAlreadyRunning is returned by Watch when called twice.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config configures a Watcher.
type Config struct {
	// Paths are the files to watch. They need not exist yet.
	Paths []string

	// DebounceInterval is the quiet period before the callback fires.
	DebounceInterval time.Duration
}

// Watcher watches a set of files.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	targets  map[string]struct{}
	dirs     []string
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// New creates a watcher over cfg.Paths.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.DebounceInterval
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	targets := make(map[string]struct{}, len(cfg.Paths))
	seenDir := make(map[string]struct{})
	var dirs []string
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		targets[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seenDir[dir]; !ok {
			seenDir[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fs:       fsw,
		logger:   logger,
		targets:  targets,
		dirs:     dirs,
		debounce: NewDebouncer(interval),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange with the path of the
// last changed target after each debounced burst of events. The watcher is
// closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.fs.Close()
	}()

	for _, dir := range w.dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		w.logger.Debug("watching directory", "path", dir)
	}
	w.logger.Info("file watcher started", "files", len(w.targets), "directories", len(w.dirs))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

			path := event.Name
			w.debounce.Trigger(func() { onChange(path) })

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches a target with a content-changing op.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[abs]
	return ok
}

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/slipstream/nameparser/internal/library/scanner"
)

// Operations carried by FileEvent.
const (
	OpCreate = "create"
	OpWrite  = "write"
)

// FileEvent is a video file that appeared or changed.
type FileEvent struct {
	Path      string    `json:"path"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// FileEventHandler is called with each debounced batch, sorted by path.
type FileEventHandler func(events []FileEvent)

// Config holds watcher configuration.
type Config struct {
	// DebounceDelay is how long to wait after the last event before processing.
	DebounceDelay time.Duration

	// MaxBatchSize is the maximum number of events to batch before forcing processing.
	MaxBatchSize int

	// RecursiveWatch enables watching subdirectories.
	RecursiveWatch bool

	// SkipSamples drops sample files.
	SkipSamples bool
}

// DefaultConfig returns default watcher configuration.
func DefaultConfig() Config {
	return Config{
		DebounceDelay:  500 * time.Millisecond,
		MaxBatchSize:   100,
		RecursiveWatch: true,
		SkipSamples:    true,
	}
}

// Watcher monitors directories for new video files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    Config
	logger    zerolog.Logger
	handler   FileEventHandler

	watchedPaths map[string]bool
	pathsMu      sync.RWMutex

	pendingEvents map[string]FileEvent
	eventsMu      sync.Mutex
	debounceTimer *time.Timer

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	handlerWG sync.WaitGroup
}

// New creates a new file watcher.
func New(config Config, logger zerolog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = DefaultConfig().MaxBatchSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		fsWatcher:     fsWatcher,
		config:        config,
		logger:        logger.With().Str("component", "watcher").Logger(),
		watchedPaths:  make(map[string]bool),
		pendingEvents: make(map[string]FileEvent),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// SetHandler sets the event handler function. It must be called before Start.
func (w *Watcher) SetHandler(handler FileEventHandler) {
	w.handler = handler
}

// Start begins watching for file events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.eventLoop()
}

// Stop flushes pending events, waits for running handlers and closes the
// underlying watcher.
func (w *Watcher) Stop() error {
	w.cancel()
	w.wg.Wait()
	w.handlerWG.Wait()
	return w.fsWatcher.Close()
}

// AddPath adds a directory, and with RecursiveWatch its subdirectories, to
// the watch list.
func (w *Watcher) AddPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.pathsMu.Lock()
	defer w.pathsMu.Unlock()

	if w.watchedPaths[absPath] {
		return nil
	}

	if err := w.fsWatcher.Add(absPath); err != nil {
		return err
	}
	w.watchedPaths[absPath] = true
	w.logger.Info().Str("path", absPath).Msg("Added watch path")

	if !w.config.RecursiveWatch {
		return nil
	}

	err = filepath.WalkDir(absPath, func(subPath string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || subPath == absPath {
			return nil //nolint:nilerr // Skip unreadable entries
		}
		if err := w.fsWatcher.Add(subPath); err != nil {
			w.logger.Warn().Err(err).Str("path", subPath).Msg("Failed to add subdirectory watch")
			return nil
		}
		w.watchedPaths[subPath] = true
		return nil
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("path", absPath).Msg("Error walking subdirectories")
	}
	return nil
}

// RemovePath removes a path and its watched subdirectories.
func (w *Watcher) RemovePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.pathsMu.Lock()
	defer w.pathsMu.Unlock()

	for watchedPath := range w.watchedPaths {
		if watchedPath == absPath || isSubPath(watchedPath, absPath) {
			_ = w.fsWatcher.Remove(watchedPath)
			delete(w.watchedPaths, watchedPath)
		}
	}

	w.logger.Info().Str("path", absPath).Msg("Removed watch path")
	return nil
}

// WatchedPaths returns the currently watched directories, sorted.
func (w *Watcher) WatchedPaths() []string {
	w.pathsMu.RLock()
	defer w.pathsMu.RUnlock()

	paths := make([]string, 0, len(w.watchedPaths))
	for path := range w.watchedPaths {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			w.flushPendingEvents()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)

	// A file that went away is no longer worth parsing.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.dropPendingEvent(event.Name)
		return
	}

	if !scanner.IsVideoFile(name) {
		if w.config.RecursiveWatch && event.Has(fsnotify.Create) {
			w.watchNewDir(event.Name)
		}
		return
	}

	if w.config.SkipSamples && scanner.IsSampleFile(name) {
		return
	}

	var op string
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	default:
		return
	}

	w.addPendingEvent(FileEvent{Path: event.Name, Op: op, Timestamp: time.Now()})
}

func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.AddPath(path); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch new subdirectory")
		return
	}
	w.logger.Debug().Str("path", path).Msg("Added new subdirectory to watch")
}

func (w *Watcher) addPendingEvent(event FileEvent) {
	w.eventsMu.Lock()
	defer w.eventsMu.Unlock()

	// Keep the first op so a create followed by writes still reads as a create.
	if prev, ok := w.pendingEvents[event.Path]; ok {
		event.Op = prev.Op
	}
	w.pendingEvents[event.Path] = event

	if len(w.pendingEvents) >= w.config.MaxBatchSize {
		w.flushPendingEventsLocked()
		return
	}

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.config.DebounceDelay, w.flushPendingEvents)
}

func (w *Watcher) dropPendingEvent(path string) {
	w.eventsMu.Lock()
	defer w.eventsMu.Unlock()
	delete(w.pendingEvents, path)
}

func (w *Watcher) flushPendingEvents() {
	w.eventsMu.Lock()
	defer w.eventsMu.Unlock()
	w.flushPendingEventsLocked()
}

// flushPendingEventsLocked hands the batch to the handler. Caller must hold eventsMu.
func (w *Watcher) flushPendingEventsLocked() {
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	if len(w.pendingEvents) == 0 {
		return
	}

	events := make([]FileEvent, 0, len(w.pendingEvents))
	for _, event := range w.pendingEvents {
		events = append(events, event)
	}
	slices.SortFunc(events, func(a, b FileEvent) int {
		return strings.Compare(a.Path, b.Path)
	})
	w.pendingEvents = make(map[string]FileEvent)

	if w.handler != nil {
		w.handlerWG.Add(1)
		go func() {
			defer w.handlerWG.Done()
			w.handler(events)
		}()
	}

	w.logger.Debug().Int("count", len(events)).Msg("Flushed file events")
}

// isSubPath checks if child is a subdirectory of parent.
func isSubPath(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !filepath.IsAbs(rel) &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

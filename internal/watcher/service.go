package watcher

import (
	"context"
	"path/filepath"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/slipstream/nameparser/internal/library/scanner"
)

// FileScanner parses a single file.
type FileScanner interface {
	ScanFile(ctx context.Context, filePath string) (*scanner.ParsedFile, error)
}

// ResultHandler receives the outcome of every watched file. Exactly one of
// parsed and err is non-nil.
type ResultHandler func(path string, parsed *scanner.ParsedFile, err error)

// Service feeds new files in the watched folders through the scanner.
type Service struct {
	watcher  *Watcher
	scanner  FileScanner
	onResult ResultHandler
	logger   zerolog.Logger

	folders map[string]bool
	mu      sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new watcher service.
func NewService(fileScanner FileScanner, config Config, onResult ResultHandler, logger zerolog.Logger) (*Service, error) {
	watcher, err := New(config, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		watcher:  watcher,
		scanner:  fileScanner,
		onResult: onResult,
		logger:   logger.With().Str("component", "watcher-service").Logger(),
		folders:  make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
	watcher.SetHandler(s.handleEvents)

	return s, nil
}

// Start watches folders and begins processing events. Folders that cannot
// be watched are logged and skipped.
func (s *Service) Start(folders []string) error {
	for _, folder := range folders {
		if err := s.WatchFolder(folder); err != nil {
			s.logger.Warn().Err(err).Str("path", folder).Msg("Failed to watch folder")
		}
	}

	s.watcher.Start()

	s.logger.Info().Int("folderCount", len(s.WatchedFolders())).Msg("Watcher service started")
	return nil
}

// Stop stops the watcher service. Files already handed to the scanner finish
// with a cancelled context.
func (s *Service) Stop() error {
	s.cancel()
	return s.watcher.Stop()
}

// WatchFolder adds a folder to the watch list.
func (s *Service) WatchFolder(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folders[absPath] {
		return nil
	}
	if err := s.watcher.AddPath(absPath); err != nil {
		return err
	}
	s.folders[absPath] = true
	s.logger.Info().Str("path", absPath).Msg("Started watching folder")
	return nil
}

// UnwatchFolder removes a folder from the watch list.
func (s *Service) UnwatchFolder(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.folders[absPath] {
		return nil
	}
	if err := s.watcher.RemovePath(absPath); err != nil {
		return err
	}
	delete(s.folders, absPath)
	s.logger.Info().Str("path", absPath).Msg("Stopped watching folder")
	return nil
}

// WatchedFolders returns the watched root folders, sorted.
func (s *Service) WatchedFolders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders := make([]string, 0, len(s.folders))
	for folder := range s.folders {
		folders = append(folders, folder)
	}
	slices.Sort(folders)
	return folders
}

func (s *Service) handleEvents(events []FileEvent) {
	for _, event := range events {
		if s.ctx.Err() != nil {
			return
		}

		s.logger.Debug().
			Str("path", event.Path).
			Str("op", event.Op).
			Msg("Processing file event")

		parsed, err := s.scanner.ScanFile(s.ctx, event.Path)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", event.Path).Msg("Failed to process file event")
		}
		if s.onResult != nil {
			s.onResult(event.Path, parsed, err)
		}
	}
}

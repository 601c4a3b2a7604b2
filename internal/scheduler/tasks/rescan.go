// Package tasks holds the scheduled jobs of watch mode.
package tasks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/slipstream/nameparser/internal/library/scanner"
	"github.com/slipstream/nameparser/internal/scheduler"
)

// RescanTaskID identifies the periodic rescan job.
const RescanTaskID = "library-rescan"

// FolderScanner scans a whole folder.
type FolderScanner interface {
	ScanFolder(ctx context.Context, folderPath string, progressCb scanner.ProgressCallback) (*scanner.ScanResult, error)
}

// ResultHandler receives each completed folder scan.
type ResultHandler func(result *scanner.ScanResult)

// RescanTask re-parses every configured folder.
type RescanTask struct {
	scanner  FolderScanner
	folders  []string
	onResult ResultHandler
	logger   zerolog.Logger
}

// NewRescanTask creates a rescan task over folders.
func NewRescanTask(s FolderScanner, folders []string, onResult ResultHandler, logger zerolog.Logger) *RescanTask {
	return &RescanTask{
		scanner:  s,
		folders:  folders,
		onResult: onResult,
		logger:   logger.With().Str("task", RescanTaskID).Logger(),
	}
}

// Run scans every folder. A failing folder does not stop the others; the last
// error is returned. Cancellation stops immediately.
func (t *RescanTask) Run(ctx context.Context) error {
	if len(t.folders) == 0 {
		t.logger.Info().Msg("No folders configured, skipping rescan")
		return nil
	}

	var lastErr error
	scanned := 0

	for _, folder := range t.folders {
		result, err := t.scanner.ScanFolder(ctx, folder, nil)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err != nil {
			t.logger.Error().Err(err).Str("path", folder).Msg("Failed to rescan folder")
			lastErr = err
			continue
		}

		t.logger.Info().
			Str("path", folder).
			Int("totalFiles", result.TotalFiles).
			Int("parsed", len(result.Parsed)).
			Int("errors", len(result.Errors)).
			Msg("Folder rescan completed")

		if t.onResult != nil {
			t.onResult(result)
		}
		scanned++
	}

	t.logger.Info().Int("scannedFolders", scanned).Int("totalFolders", len(t.folders)).Msg("Scheduled rescan completed")
	return lastErr
}

// RegisterRescanTask registers the rescan task on cron.
func RegisterRescanTask(sched *scheduler.Scheduler, cron string, task *RescanTask) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          RescanTaskID,
		Name:        "Library Rescan",
		Description: "Re-parses every watched folder",
		Cron:        cron,
		Func:        task.Run,
	})
}

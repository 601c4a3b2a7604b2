// Package scanner runs every video file of a library folder through the name
// parser and collects the results.
package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slipstream/nameparser/internal/nameparser"
)

// Error kinds recorded on ScanError.
const (
	KindUnresolvedShow = "unresolved_show"
	KindUnparseable    = "unparseable"
	KindMultiSeason    = "multi_season"
	KindIO             = "io"
	KindOther          = "other"
)

// Parser is the subset of the name parser the scanner needs.
type Parser interface {
	Parse(ctx context.Context, name string, opts ...nameparser.ParseOption) (*nameparser.ParseResult, error)
}

// ScanError represents a file that could not be identified.
type ScanError struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// ParsedFile is a successfully identified file.
type ParsedFile struct {
	Path   string                  `json:"path"`
	Size   int64                   `json:"size"`
	Result *nameparser.ParseResult `json:"result"`
}

// ScanResult contains the results of scanning a folder.
type ScanResult struct {
	ID         string        `json:"id"`
	RootPath   string        `json:"rootPath"`
	Parsed     []ParsedFile  `json:"parsed"`
	Errors     []ScanError   `json:"errors"`
	TotalFiles int           `json:"totalFiles"`
	Skipped    int           `json:"skipped"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
}

// ScanProgress is sent after each file to report progress.
type ScanProgress struct {
	ScanID       string `json:"scanId"`
	CurrentPath  string `json:"currentPath"`
	FilesScanned int    `json:"filesScanned"`
	Parsed       int    `json:"parsed"`
	Failed       int    `json:"failed"`
}

// ProgressCallback is called during scanning to report progress.
type ProgressCallback func(progress ScanProgress)

// Options configures a scanner.
type Options struct {
	SkipSamples bool
}

// Service provides library scanning operations.
type Service struct {
	parser Parser
	opts   Options
	logger zerolog.Logger
}

// NewService creates a new scanner service.
func NewService(parser Parser, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		parser: parser,
		opts:   opts,
		logger: logger.With().Str("component", "scanner").Logger(),
	}
}

// ScanFolder parses every video file under folderPath. Files that cannot be
// identified are recorded on the result; only cancellation of ctx or an
// unreadable root aborts the scan.
func (s *Service) ScanFolder(ctx context.Context, folderPath string, progressCb ProgressCallback) (*ScanResult, error) {
	result := &ScanResult{
		ID:       uuid.NewString(),
		RootPath: folderPath,
		Parsed:   make([]ParsedFile, 0),
		Errors:   make([]ScanError, 0),
		Started:  time.Now(),
	}

	if _, err := os.Stat(folderPath); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("scanId", result.ID).
		Str("path", folderPath).
		Msg("Starting folder scan")

	err := filepath.WalkDir(folderPath, func(path string, d os.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.processEntry(ctx, path, d, walkErr, result, progressCb)
	})
	result.Duration = time.Since(result.Started)

	if err != nil {
		s.logger.Info().Str("scanId", result.ID).Err(err).Msg("Folder scan aborted")
		return result, err
	}

	s.logger.Info().
		Str("scanId", result.ID).
		Str("path", folderPath).
		Int("totalFiles", result.TotalFiles).
		Int("parsed", len(result.Parsed)).
		Int("errors", len(result.Errors)).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("Folder scan completed")

	return result, nil
}

func (s *Service) processEntry(ctx context.Context, path string, d os.DirEntry, walkErr error, result *ScanResult, progressCb ProgressCallback) error {
	if walkErr != nil {
		result.Errors = append(result.Errors, ScanError{Path: path, Kind: KindIO, Error: walkErr.Error()})
		return nil //nolint:nilerr // Record error but continue scanning
	}

	if d.IsDir() || !IsVideoFile(d.Name()) {
		return nil
	}

	if s.opts.SkipSamples && IsSampleFile(d.Name()) {
		result.Skipped++
		return nil
	}

	result.TotalFiles++

	info, err := d.Info()
	if err != nil {
		result.Errors = append(result.Errors, ScanError{Path: path, Kind: KindIO, Error: err.Error()})
		return nil //nolint:nilerr // Record error but continue scanning
	}

	parsed, err := s.parse(ctx, path)
	switch {
	case err == nil:
		result.Parsed = append(result.Parsed, ParsedFile{Path: path, Size: info.Size(), Result: parsed})
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		result.Errors = append(result.Errors, ScanError{Path: path, Kind: ErrorKind(err), Error: err.Error()})
	}

	if progressCb != nil {
		progressCb(ScanProgress{
			ScanID:       result.ID,
			CurrentPath:  path,
			FilesScanned: result.TotalFiles,
			Parsed:       len(result.Parsed),
			Failed:       len(result.Errors),
		})
	}

	return nil
}

func (s *Service) parse(ctx context.Context, path string) (*nameparser.ParseResult, error) {
	res, err := s.parser.Parse(ctx, path)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Str("path", path).Msg("Failed to identify file")
		}
		return nil, err
	}
	s.logger.Debug().Str("path", path).Stringer("result", res).Msg("Identified file")
	return res, nil
}

// ScanFile parses a single file.
func (s *Service) ScanFile(ctx context.Context, filePath string) (*ParsedFile, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, os.ErrInvalid
	}

	res, err := s.parse(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &ParsedFile{Path: filePath, Size: info.Size(), Result: res}, nil
}

// ErrorKind classifies a parse failure for reporting.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, nameparser.ErrUnresolvedShow):
		return KindUnresolvedShow
	case errors.Is(err, nameparser.ErrUnparseableName):
		return KindUnparseable
	case errors.Is(err, nameparser.ErrMultiSeasonConflict):
		return KindMultiSeason
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return KindIO
	default:
		return KindOther
	}
}

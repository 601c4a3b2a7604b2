// Package nameparser identifies TV releases from file and directory names.
//
// A Parser runs a name's leaf and its parent directory through an ordered
// pattern table, scores every match, reconciles the winners against the
// show's canonical numbering and merges the two into one ParseResult.
package nameparser

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures a Parser.
type Options struct {
	// Show restricts parsing to a known show. It also fixes which pattern
	// modes are tried.
	Show *ShowRef

	// FileName strips a known media extension from the leaf before parsing.
	FileName bool

	// TryIndexers allows the show resolver to consult remote indexers.
	TryIndexers bool

	// Convert translates scene numbering into indexer numbering.
	Convert bool

	// NamingPattern attaches Show to every candidate without resolving it,
	// skips reconciliation and bypasses the cache.
	NamingPattern bool
}

// DefaultOptions returns the options used for library file names.
func DefaultOptions() Options {
	return Options{FileName: true}
}

// Parser is the name parsing engine. It is safe for concurrent use when its
// collaborators are.
type Parser struct {
	table  *Table
	collab Collaborators
	cache  *Cache
	pacer  Pacer
	opts   Options
	modes  []Mode
	logger zerolog.Logger
}

// New creates a parser. cache may be nil to disable caching; pacer may be nil
// to disable pacing.
func New(table *Table, collab Collaborators, cache *Cache, pacer Pacer, opts Options, logger zerolog.Logger) (*Parser, error) {
	if table == nil {
		return nil, errors.New("pattern table is required")
	}
	if err := collab.validate(); err != nil {
		return nil, err
	}
	if pacer == nil {
		pacer = NopPacer{}
	}

	p := &Parser{
		table:  table,
		collab: collab,
		cache:  cache,
		pacer:  pacer,
		opts:   opts,
		logger: logger.With().Str("component", "nameparser").Logger(),
	}
	p.modes = p.selectModes()
	return p, nil
}

func (p *Parser) selectModes() []Mode {
	if p.opts.Show == nil {
		return slices.Clone(allModes)
	}
	flags := p.flags(*p.opts.Show)
	switch {
	case flags.anime:
		return []Mode{ModeAnime}
	case flags.sports:
		return []Mode{ModeSports}
	default:
		return []Mode{ModeStandard}
	}
}

// Modes returns the pattern modes this parser tries, in order.
func (p *Parser) Modes() []Mode {
	return slices.Clone(p.modes)
}

type parseConfig struct {
	useCache bool
}

// ParseOption adjusts a single Parse call.
type ParseOption func(*parseConfig)

// SkipCache parses without reading or writing the cache.
func SkipCache() ParseOption {
	return func(c *parseConfig) {
		c.useCache = false
	}
}

// Parse identifies name, which may be a bare release name or a path. Only
// the leaf and its immediate parent directory are considered.
//
// Terminal failures are *UnresolvedShowError, *UnparseableNameError and
// *MultiSeasonConflictError. Cancelling ctx interrupts pacing.
func (p *Parser) Parse(ctx context.Context, name string, opts ...ParseOption) (*ParseResult, error) {
	cfg := parseConfig{useCache: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	useCache := cfg.useCache && p.cache != nil && !p.opts.NamingPattern

	if useCache {
		if cached, ok := p.cache.Get(name); ok {
			p.logger.Debug().Str("name", name).Msg("Using cached parse result")
			return cached, nil
		}
	}

	dir, leaf := splitName(name)
	if p.opts.FileName {
		leaf = StripExtension(leaf)
	}

	fileResult, err := p.parseString(ctx, leaf)
	if err != nil {
		return nil, err
	}
	dirResult, err := p.parseString(ctx, dir)
	if err != nil {
		return nil, err
	}
	if fileResult == nil && dirResult == nil {
		return nil, &UnparseableNameError{Name: name}
	}

	final := merge(name, fileResult, dirResult)
	if err := validate(final); err != nil {
		return nil, err
	}

	if useCache {
		p.cache.Add(name, final)
	}

	p.logger.Debug().Str("name", name).Str("result", final.String()).Msg("Parsed name")
	return final, nil
}

// parseString returns the reconciled best candidate for one path segment, or
// nil when nothing matched.
func (p *Parser) parseString(ctx context.Context, s string) (*ParseResult, error) {
	if s == "" {
		return nil, nil
	}

	candidates, err := p.extract(ctx, s)
	if err != nil {
		return nil, err
	}
	best := selectBest(candidates)
	if best == nil {
		return nil, nil
	}

	if p.collab.Quality != nil {
		anime := best.Show != nil && p.collab.Classifier.IsAnime(*best.Show)
		best.Quality = p.collab.Quality.Classify(s, anime)
	}

	return p.reconcile(ctx, best)
}

// splitName returns the base name of the parent directory and the leaf.
func splitName(name string) (dir, leaf string) {
	parent, leaf := filepath.Split(name)
	parent = strings.TrimRight(parent, `/\`)
	if parent == "" {
		return "", leaf
	}
	return filepath.Base(parent), leaf
}

var strippedExtensions = map[string]bool{
	".avi": true, ".mkv": true, ".mpg": true, ".mpeg": true, ".wmv": true,
	".ogm": true, ".mp4": true, ".iso": true, ".img": true, ".divx": true,
	".m2ts": true, ".m4v": true, ".ts": true, ".flv": true, ".f4v": true,
	".mov": true, ".rmvb": true, ".vob": true, ".dvr-ms": true, ".wtv": true,
	".ogv": true, ".3gp": true, ".webm": true, ".tp": true,
	".nzb": true, ".torrent": true,
}

// StripExtension removes a known media or download extension from name.
// Any other suffix is left alone, since release names are full of dots.
func StripExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || !strippedExtensions[strings.ToLower(ext)] {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipstream/nameparser/internal/config"
	"github.com/slipstream/nameparser/internal/database"
	"github.com/slipstream/nameparser/internal/library/quality"
	"github.com/slipstream/nameparser/internal/library/scanner"
	"github.com/slipstream/nameparser/internal/logger"
	"github.com/slipstream/nameparser/internal/nameparser"
	"github.com/slipstream/nameparser/internal/showdb"
)

// app holds the services shared by every command.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	store *showdb.Store
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Output:     cmd.ErrOrStderr(),
	})
	return cfg, log, nil
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, log, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database.Path, log.Logger)
	if err != nil {
		log.Close()
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		log.Close()
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: showdb.NewStore(db.Conn(), log.Logger),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.log.Close()
}

// loadTable returns the configured pattern table, or path when it is set.
func loadTable(cfg *config.Config, path string, log *logger.Logger) (*nameparser.Table, error) {
	opts := nameparser.TableOptions{MatchTimeout: cfg.Parser.MatchTimeout}
	if path == "" {
		path = cfg.Parser.PatternsFile
	}
	if path == "" {
		return nameparser.DefaultTable(opts, log.Logger)
	}
	return nameparser.LoadTableFile(path, opts, log.Logger)
}

type parserFlags struct {
	show          string
	convert       bool
	noFileName    bool
	namingPattern bool
}

func (f *parserFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.show, "show", "", "Restrict parsing to a show registered in the database")
	cmd.Flags().BoolVar(&f.convert, "convert", false, "Convert scene numbering (overrides parser.convert_scene)")
	cmd.Flags().BoolVar(&f.noFileName, "no-file-name", false, "Do not strip media extensions from the name")
	cmd.Flags().BoolVar(&f.namingPattern, "naming-pattern", false, "Treat names as naming pattern samples for --show")
}

func (a *app) newParser(ctx context.Context, flags parserFlags) (*nameparser.Parser, error) {
	table, err := loadTable(a.cfg, "", a.log)
	if err != nil {
		return nil, err
	}

	opts := nameparser.Options{
		FileName:      !flags.noFileName,
		TryIndexers:   a.cfg.Parser.TryIndexers,
		Convert:       a.cfg.Parser.ConvertScene || flags.convert,
		NamingPattern: flags.namingPattern,
	}

	if flags.show != "" {
		show, err := a.store.ResolveShow(ctx, flags.show, false)
		if err != nil {
			return nil, err
		}
		if show == nil {
			return nil, fmt.Errorf("show %q is not in the database", flags.show)
		}
		opts.Show = show
	} else if flags.namingPattern {
		return nil, fmt.Errorf("--naming-pattern requires --show")
	}

	collab := a.store.Collaborators()
	collab.Quality = quality.NewClassifier()

	return nameparser.New(
		table,
		collab,
		nameparser.NewCache(a.cfg.Parser.CacheSize),
		nameparser.NewPacer(a.cfg.Parser.Pacing),
		opts,
		a.log.Logger,
	)
}

func (a *app) newScanner(ctx context.Context, flags parserFlags) (*scanner.Service, error) {
	p, err := a.newParser(ctx, flags)
	if err != nil {
		return nil, err
	}
	return scanner.NewService(p, scanner.Options{SkipSamples: a.cfg.Scan.SkipSamples}, a.log.Logger), nil
}

package showdb

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportFile is the YAML layout accepted by Import.
type ImportFile struct {
	Shows []ImportShow `yaml:"shows"`
}

// ImportShow is one show with its numbering data.
type ImportShow struct {
	Indexer        string            `yaml:"indexer"`
	ID             int64             `yaml:"id"`
	Name           string            `yaml:"name"`
	Anime          bool              `yaml:"anime"`
	Sports         bool              `yaml:"sports"`
	AirByDate      bool              `yaml:"air_by_date"`
	Exceptions     []Exception       `yaml:"exceptions"`
	Episodes       []Episode         `yaml:"episodes"`
	SceneNumbering []SceneMapping    `yaml:"scene_numbering"`
	SceneAbsolute  []AbsoluteMapping `yaml:"scene_absolute"`
}

// ImportStats counts imported rows.
type ImportStats struct {
	Shows         int
	Episodes      int
	Exceptions    int
	SceneMappings int
	AbsoluteMaps  int
}

// ImportPath imports a YAML show file from disk.
func (s *Store) ImportPath(ctx context.Context, path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import upserts every show in r in a single transaction. Nothing is written
// when any entry fails.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var file ImportFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode import file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stats ImportStats
	for _, in := range file.Shows {
		id, err := upsertShow(ctx, tx, Show{
			Indexer:   in.Indexer,
			IndexerID: in.ID,
			Name:      in.Name,
			Anime:     in.Anime,
			Sports:    in.Sports,
			AirByDate: in.AirByDate,
		})
		if err != nil {
			return ImportStats{}, err
		}
		stats.Shows++

		for _, e := range in.Exceptions {
			if err := upsertException(ctx, tx, id, e); err != nil {
				return ImportStats{}, err
			}
			stats.Exceptions++
		}
		for _, ep := range in.Episodes {
			if err := upsertEpisode(ctx, tx, id, ep); err != nil {
				return ImportStats{}, err
			}
			stats.Episodes++
		}
		for _, m := range in.SceneNumbering {
			if err := upsertSceneMapping(ctx, tx, id, m); err != nil {
				return ImportStats{}, err
			}
			stats.SceneMappings++
		}
		for _, m := range in.SceneAbsolute {
			if err := upsertAbsoluteMapping(ctx, tx, id, m); err != nil {
				return ImportStats{}, err
			}
			stats.AbsoluteMaps++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}
	s.Flush()

	s.logger.Info().
		Int("shows", stats.Shows).
		Int("episodes", stats.Episodes).
		Int("exceptions", stats.Exceptions).
		Msg("Imported show data")
	return stats, nil
}

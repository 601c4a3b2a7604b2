package showdb

import (
	"context"
	"fmt"
)

// Episode is one indexer episode. Absolute is nil when the indexer has no
// absolute numbering for it.
type Episode struct {
	Season   int    `yaml:"season"`
	Episode  int    `yaml:"episode"`
	Absolute *int   `yaml:"absolute,omitempty"`
	Title    string `yaml:"title,omitempty"`
}

// SceneMapping maps a scene season/episode to indexer numbering.
type SceneMapping struct {
	SceneSeason  int `yaml:"scene_season"`
	SceneEpisode int `yaml:"scene_episode"`
	Season       int `yaml:"season"`
	Episode      int `yaml:"episode"`
}

// AbsoluteMapping maps a scene absolute number to the indexer's. A nil
// SceneSeason applies to every season.
type AbsoluteMapping struct {
	SceneSeason   *int `yaml:"scene_season,omitempty"`
	SceneAbsolute int  `yaml:"scene_absolute"`
	Absolute      int  `yaml:"absolute"`
}

// Exception is an alternative release name. A nil Season applies to the
// whole show.
type Exception struct {
	Name   string `yaml:"name"`
	Season *int   `yaml:"season,omitempty"`
}

func seasonOrAny(season *int) int {
	if season == nil {
		return -1
	}
	return *season
}

// AddShow inserts or updates a show and returns its row id.
func (s *Store) AddShow(ctx context.Context, show Show) (int64, error) {
	id, err := upsertShow(ctx, s.db, show)
	if err != nil {
		return 0, err
	}
	s.Flush()
	return id, nil
}

// AddEpisode inserts or updates an episode of a show.
func (s *Store) AddEpisode(ctx context.Context, showID int64, ep Episode) error {
	if err := upsertEpisode(ctx, s.db, showID, ep); err != nil {
		return err
	}
	return nil
}

// AddSceneMapping inserts or updates a scene numbering entry.
func (s *Store) AddSceneMapping(ctx context.Context, showID int64, m SceneMapping) error {
	return upsertSceneMapping(ctx, s.db, showID, m)
}

// AddAbsoluteMapping inserts or updates a scene absolute entry.
func (s *Store) AddAbsoluteMapping(ctx context.Context, showID int64, m AbsoluteMapping) error {
	return upsertAbsoluteMapping(ctx, s.db, showID, m)
}

// AddException registers a scene-exception name.
func (s *Store) AddException(ctx context.Context, showID int64, e Exception) error {
	if err := upsertException(ctx, s.db, showID, e); err != nil {
		return err
	}
	s.Flush()
	return nil
}

// ListShows returns every registered show ordered by name.
func (s *Store) ListShows(ctx context.Context) ([]Show, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+showColumns+` FROM shows s ORDER BY s.name, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		shows = append(shows, *show)
	}
	return shows, rows.Err()
}

func upsertShow(ctx context.Context, q querier, show Show) (int64, error) {
	if show.Indexer == "" || show.Name == "" {
		return 0, fmt.Errorf("show %q: indexer and name are required", show.Name)
	}

	var id int64
	err := q.QueryRowContext(ctx,
		`INSERT INTO shows (indexer, indexer_id, name, search_name, is_anime, is_sports, air_by_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (indexer, indexer_id) DO UPDATE SET
		   name = excluded.name,
		   search_name = excluded.search_name,
		   is_anime = excluded.is_anime,
		   is_sports = excluded.is_sports,
		   air_by_date = excluded.air_by_date,
		   updated_at = CURRENT_TIMESTAMP
		 RETURNING id`,
		show.Indexer, show.IndexerID, show.Name, NormalizeName(show.Name),
		show.Anime, show.Sports, show.AirByDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save show %q: %w", show.Name, err)
	}
	return id, nil
}

func upsertEpisode(ctx context.Context, q querier, showID int64, ep Episode) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO episodes (show_id, season, episode, absolute_number, title)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (show_id, season, episode) DO UPDATE SET
		   absolute_number = excluded.absolute_number,
		   title = excluded.title`,
		showID, ep.Season, ep.Episode, ep.Absolute, ep.Title)
	if err != nil {
		return fmt.Errorf("failed to save episode S%dE%d: %w", ep.Season, ep.Episode, err)
	}
	return nil
}

func upsertSceneMapping(ctx context.Context, q querier, showID int64, m SceneMapping) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO scene_numbering (show_id, scene_season, scene_episode, season, episode)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (show_id, scene_season, scene_episode) DO UPDATE SET
		   season = excluded.season,
		   episode = excluded.episode`,
		showID, m.SceneSeason, m.SceneEpisode, m.Season, m.Episode)
	if err != nil {
		return fmt.Errorf("failed to save scene mapping S%dE%d: %w", m.SceneSeason, m.SceneEpisode, err)
	}
	return nil
}

func upsertAbsoluteMapping(ctx context.Context, q querier, showID int64, m AbsoluteMapping) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO scene_absolute (show_id, scene_season, scene_absolute, absolute_number)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (show_id, scene_season, scene_absolute) DO UPDATE SET
		   absolute_number = excluded.absolute_number`,
		showID, seasonOrAny(m.SceneSeason), m.SceneAbsolute, m.Absolute)
	if err != nil {
		return fmt.Errorf("failed to save absolute mapping %d: %w", m.SceneAbsolute, err)
	}
	return nil
}

func upsertException(ctx context.Context, q querier, showID int64, e Exception) error {
	search := NormalizeName(e.Name)
	if search == "" {
		return fmt.Errorf("scene exception %q has no usable name", e.Name)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO scene_exceptions (show_id, name, search_name, season)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (show_id, search_name, season) DO UPDATE SET name = excluded.name`,
		showID, e.Name, search, seasonOrAny(e.Season))
	if err != nil {
		return fmt.Errorf("failed to save scene exception %q: %w", e.Name, err)
	}
	return nil
}

// Package showdb is a SQLite-backed show registry. Store answers every
// show-side question the name parser asks: name resolution, classification,
// scene numbering, absolute lookups and scene exceptions.
package showdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/slipstream/nameparser/internal/nameparser"
)

// ErrShowNotFound is returned when a ShowRef has no row in the registry.
var ErrShowNotFound = errors.New("show not found")

const (
	memoTTL     = 5 * time.Minute
	memoCleanup = 10 * time.Minute
)

// Show is a registered show.
type Show struct {
	ID        int64
	Indexer   string
	IndexerID int64
	Name      string
	Anime     bool
	Sports    bool
	AirByDate bool
}

// Ref returns the reference the parser attaches to results.
func (s Show) Ref() nameparser.ShowRef {
	return nameparser.ShowRef{Indexer: s.Indexer, ID: s.IndexerID}
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements the parser collaborators over the show database.
type Store struct {
	db     *sql.DB
	memo   *cache.Cache
	logger zerolog.Logger
}

var (
	_ nameparser.ShowResolver    = (*Store)(nil)
	_ nameparser.ShowClassifier  = (*Store)(nil)
	_ nameparser.SceneNumbering  = (*Store)(nil)
	_ nameparser.EpisodeLookup   = (*Store)(nil)
	_ nameparser.SceneExceptions = (*Store)(nil)
)

// NewStore creates a store over a migrated database.
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		memo:   cache.New(memoTTL, memoCleanup),
		logger: logger.With().Str("component", "showdb").Logger(),
	}
}

// Collaborators returns the parser collaborators backed by this store.
func (s *Store) Collaborators() nameparser.Collaborators {
	return nameparser.Collaborators{
		Shows:      s,
		Classifier: s,
		Scene:      s,
		Episodes:   s,
		Exceptions: s,
	}
}

// NormalizeName lowercases name and collapses punctuation and whitespace to
// single spaces, so "Show.Name" and "show name" compare equal.
func NormalizeName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

type resolved struct {
	show  nameparser.ShowRef
	found bool
}

// ResolveShow finds a show by name or scene exception. Only the local
// registry is consulted; allowRemoteLookup is accepted for interface
// compatibility.
func (s *Store) ResolveShow(ctx context.Context, name string, allowRemoteLookup bool) (*nameparser.ShowRef, error) {
	key := NormalizeName(name)
	if key == "" {
		return nil, nil
	}
	if allowRemoteLookup {
		s.logger.Debug().Str("name", name).Msg("Remote lookup requested, using local registry only")
	}

	if v, ok := s.memo.Get("resolve:" + key); ok {
		r := v.(resolved)
		if !r.found {
			return nil, nil
		}
		show := r.show
		return &show, nil
	}

	show, err := s.lookupName(ctx, key)
	if err != nil {
		return nil, err
	}
	if show == nil {
		s.memo.SetDefault("resolve:"+key, resolved{})
		return nil, nil
	}

	ref := show.Ref()
	s.memo.SetDefault("resolve:"+key, resolved{show: ref, found: true})
	s.memo.SetDefault(flagsKey(ref), *show)
	return &ref, nil
}

const showColumns = `s.id, s.indexer, s.indexer_id, s.name, s.is_anime, s.is_sports, s.air_by_date`

func scanShow(row interface{ Scan(...any) error }) (*Show, error) {
	var show Show
	if err := row.Scan(&show.ID, &show.Indexer, &show.IndexerID, &show.Name, &show.Anime, &show.Sports, &show.AirByDate); err != nil {
		return nil, err
	}
	return &show, nil
}

func (s *Store) lookupName(ctx context.Context, searchName string) (*Show, error) {
	show, err := scanShow(s.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows s WHERE s.search_name = ? ORDER BY s.id LIMIT 1`, searchName))
	if err == nil {
		return show, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up show %q: %w", searchName, err)
	}

	show, err = scanShow(s.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows s
		 JOIN scene_exceptions e ON e.show_id = s.id
		 WHERE e.search_name = ? ORDER BY s.id LIMIT 1`, searchName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up scene exception %q: %w", searchName, err)
	}
	return show, nil
}

func flagsKey(ref nameparser.ShowRef) string {
	return "show:" + ref.String()
}

// Show returns the registered show for ref.
func (s *Store) Show(ctx context.Context, ref nameparser.ShowRef) (*Show, error) {
	if v, ok := s.memo.Get(flagsKey(ref)); ok {
		show := v.(Show)
		return &show, nil
	}

	show, err := scanShow(s.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows s WHERE s.indexer = ? AND s.indexer_id = ?`, ref.Indexer, ref.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrShowNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load show %s: %w", ref, err)
	}
	s.memo.SetDefault(flagsKey(ref), *show)
	return show, nil
}

func (s *Store) flag(ref nameparser.ShowRef, get func(*Show) bool) bool {
	show, err := s.Show(context.Background(), ref)
	if err != nil {
		s.logger.Debug().Err(err).Stringer("show", ref).Msg("Show classification unavailable")
		return false
	}
	return get(show)
}

// IsAnime reports whether the show is anime.
func (s *Store) IsAnime(show nameparser.ShowRef) bool {
	return s.flag(show, func(sh *Show) bool { return sh.Anime })
}

// IsSports reports whether the show is a sports show.
func (s *Store) IsSports(show nameparser.ShowRef) bool {
	return s.flag(show, func(sh *Show) bool { return sh.Sports })
}

// IsAirByDate reports whether the show is numbered by air date.
func (s *Store) IsAirByDate(show nameparser.ShowRef) bool {
	return s.flag(show, func(sh *Show) bool { return sh.AirByDate })
}

// ConvertSceneEpisode maps scene numbering to indexer numbering. Numbers
// without a mapping are returned unchanged.
func (s *Store) ConvertSceneEpisode(ctx context.Context, ref nameparser.ShowRef, season, episode int) (int, int, error) {
	show, err := s.Show(ctx, ref)
	if errors.Is(err, ErrShowNotFound) {
		return season, episode, nil
	}
	if err != nil {
		return 0, 0, err
	}

	var outSeason, outEpisode int
	err = s.db.QueryRowContext(ctx,
		`SELECT season, episode FROM scene_numbering
		 WHERE show_id = ? AND scene_season = ? AND scene_episode = ?`,
		show.ID, season, episode).Scan(&outSeason, &outEpisode)
	if errors.Is(err, sql.ErrNoRows) {
		return season, episode, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query scene numbering: %w", err)
	}
	return outSeason, outEpisode, nil
}

// ConvertSceneAbsolute maps a scene absolute number to the indexer's. A
// non-negative seasonHint prefers mappings for that season over mappings
// that apply to every season. Unmapped numbers are returned unchanged.
func (s *Store) ConvertSceneAbsolute(ctx context.Context, ref nameparser.ShowRef, absolute, seasonHint int) (int, error) {
	show, err := s.Show(ctx, ref)
	if errors.Is(err, ErrShowNotFound) {
		return absolute, nil
	}
	if err != nil {
		return 0, err
	}

	var row *sql.Row
	if seasonHint >= 0 {
		row = s.db.QueryRowContext(ctx,
			`SELECT absolute_number FROM scene_absolute
			 WHERE show_id = ? AND scene_absolute = ? AND scene_season IN (?, -1)
			 ORDER BY scene_season DESC LIMIT 1`,
			show.ID, absolute, seasonHint)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT absolute_number FROM scene_absolute
			 WHERE show_id = ? AND scene_absolute = ?
			 ORDER BY scene_season LIMIT 1`,
			show.ID, absolute)
	}

	var out int
	err = row.Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return absolute, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query scene absolute: %w", err)
	}
	return out, nil
}

// EpisodesFromAbsolute returns the season and episodes carrying an absolute
// number. When the absolute number spans seasons only the earliest season is
// returned.
func (s *Store) EpisodesFromAbsolute(ctx context.Context, ref nameparser.ShowRef, absolute int) (int, []int, error) {
	show, err := s.Show(ctx, ref)
	if err != nil {
		return 0, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT season, episode FROM episodes
		 WHERE show_id = ? AND absolute_number = ?
		 ORDER BY season, episode`,
		show.ID, absolute)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query absolute %d: %w", absolute, err)
	}
	defer rows.Close()

	season := -1
	var episodes []int
	for rows.Next() {
		var se, ep int
		if err := rows.Scan(&se, &ep); err != nil {
			return 0, nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		if season == -1 {
			season = se
		}
		if se == season {
			episodes = append(episodes, ep)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	if len(episodes) == 0 {
		return 0, nil, fmt.Errorf("%w: %s absolute %d", nameparser.ErrAbsoluteNotFound, ref, absolute)
	}
	return season, episodes, nil
}

// AbsoluteFromSeasonEpisode returns the absolute number of an episode, if known.
func (s *Store) AbsoluteFromSeasonEpisode(ctx context.Context, ref nameparser.ShowRef, season, episode int) (int, bool, error) {
	show, err := s.Show(ctx, ref)
	if errors.Is(err, ErrShowNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var absolute sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT absolute_number FROM episodes WHERE show_id = ? AND season = ? AND episode = ?`,
		show.ID, season, episode).Scan(&absolute)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !absolute.Valid) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query absolute for S%dE%d: %w", season, episode, err)
	}
	return int(absolute.Int64), true, nil
}

// SceneExceptionSeason returns the season a scene-exception name is tied to.
func (s *Store) SceneExceptionSeason(ctx context.Context, seriesName string) (int, bool) {
	key := NormalizeName(seriesName)
	if key == "" {
		return 0, false
	}

	var season int
	err := s.db.QueryRowContext(ctx,
		`SELECT season FROM scene_exceptions WHERE search_name = ? AND season >= 0
		 ORDER BY season LIMIT 1`, key).Scan(&season)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn().Err(err).Str("name", seriesName).Msg("Failed to query scene exception")
		}
		return 0, false
	}
	return season, true
}

// Flush clears the lookup memo.
func (s *Store) Flush() {
	s.memo.Flush()
}

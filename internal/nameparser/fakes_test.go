package nameparser

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	standardShow = ShowRef{Indexer: "tvdb", ID: 1}
	animeShow    = ShowRef{Indexer: "tvdb", ID: 2}
	sportsShow   = ShowRef{Indexer: "tvdb", ID: 3}
	dailyShow    = ShowRef{Indexer: "tvdb", ID: 4}
	otherShow    = ShowRef{Indexer: "tvdb", ID: 5}
)

type fakeShows struct {
	mu     sync.Mutex
	byName map[string]ShowRef
	calls  int
}

func newFakeShows() *fakeShows {
	return &fakeShows{byName: map[string]ShowRef{
		"Show Name":      standardShow,
		"Anime Show":     animeShow,
		"UFC":            sportsShow,
		"The Daily Show": dailyShow,
	}}
}

func (f *fakeShows) ResolveShow(_ context.Context, name string, _ bool) (*ShowRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if show, ok := f.byName[name]; ok {
		return &show, nil
	}
	return nil, nil
}

func (f *fakeShows) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClassifier struct{}

func (fakeClassifier) IsAnime(show ShowRef) bool     { return show == animeShow }
func (fakeClassifier) IsSports(show ShowRef) bool    { return show == sportsShow }
func (fakeClassifier) IsAirByDate(show ShowRef) bool { return show == dailyShow }

type seasonEpisode struct {
	season, episode int
}

type absoluteEntry struct {
	season   int
	episodes []int
}

type fakeNumbering struct {
	scene    map[seasonEpisode]seasonEpisode
	sceneAbs map[int]int
	absolute map[int]absoluteEntry
	reverse  map[seasonEpisode]int
	hints    []int
}

func (f *fakeNumbering) ConvertSceneEpisode(_ context.Context, _ ShowRef, season, episode int) (int, int, error) {
	if se, ok := f.scene[seasonEpisode{season, episode}]; ok {
		return se.season, se.episode, nil
	}
	return season, episode, nil
}

func (f *fakeNumbering) ConvertSceneAbsolute(_ context.Context, _ ShowRef, absolute, seasonHint int) (int, error) {
	f.hints = append(f.hints, seasonHint)
	if a, ok := f.sceneAbs[absolute]; ok {
		return a, nil
	}
	return absolute, nil
}

func (f *fakeNumbering) EpisodesFromAbsolute(_ context.Context, _ ShowRef, absolute int) (int, []int, error) {
	entry, ok := f.absolute[absolute]
	if !ok {
		return 0, nil, ErrAbsoluteNotFound
	}
	return entry.season, entry.episodes, nil
}

func (f *fakeNumbering) AbsoluteFromSeasonEpisode(_ context.Context, _ ShowRef, season, episode int) (int, bool, error) {
	a, ok := f.reverse[seasonEpisode{season, episode}]
	return a, ok, nil
}

type fakeExceptions map[string]int

func (f fakeExceptions) SceneExceptionSeason(_ context.Context, name string) (int, bool) {
	season, ok := f[name]
	return season, ok
}

func testCollaborators(shows *fakeShows) Collaborators {
	return Collaborators{
		Shows:      shows,
		Classifier: fakeClassifier{},
	}
}

func loadDefaultTable(t *testing.T) *Table {
	t.Helper()
	table, err := DefaultTable(TableOptions{}, zerolog.Nop())
	require.NoError(t, err)
	require.Empty(t, table.Errors())
	return table
}

func newTestParser(t *testing.T, collab Collaborators, cache *Cache, opts Options) *Parser {
	t.Helper()
	p, err := New(loadDefaultTable(t), collab, cache, NopPacer{}, opts, zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	return p
}

package nameparser

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/nameparser/internal/library/quality"
)

func TestNew_Modes(t *testing.T) {
	collab := testCollaborators(newFakeShows())

	tests := []struct {
		name string
		show *ShowRef
		want []Mode
	}{
		{"no show", nil, []Mode{ModeStandard, ModeSports, ModeAnime}},
		{"standard show", &standardShow, []Mode{ModeStandard}},
		{"air by date show", &dailyShow, []Mode{ModeStandard}},
		{"sports show", &sportsShow, []Mode{ModeSports}},
		{"anime show", &animeShow, []Mode{ModeAnime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, collab, nil, Options{Show: tt.show})
			assert.Equal(t, tt.want, p.Modes())
		})
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	table := loadDefaultTable(t)

	_, err := New(table, Collaborators{Classifier: fakeClassifier{}}, nil, nil, DefaultOptions(), zerolog.Nop())
	assert.Error(t, err)

	_, err = New(table, Collaborators{Shows: newFakeShows()}, nil, nil, DefaultOptions(), zerolog.Nop())
	assert.Error(t, err)

	_, err = New(nil, testCollaborators(newFakeShows()), nil, nil, DefaultOptions(), zerolog.Nop())
	assert.Error(t, err)
}

func TestParse_FileInsideReleaseDirectory(t *testing.T) {
	show := standardShow
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, Options{Show: &show, FileName: true})

	got, err := p.Parse(context.Background(), "/tv/Show.Name.S01.720p.HDTV-GRP/Show.Name.S01E02.720p.HDTV-GRP.mkv")
	require.NoError(t, err)

	assert.Equal(t, "Show Name", got.SeriesName)
	require.NotNil(t, got.SeasonNumber)
	assert.Equal(t, 1, *got.SeasonNumber)
	assert.Equal(t, []int{2}, got.EpisodeNumbers)
	assert.Equal(t, "720p.HDTV", got.ExtraInfo)
	assert.Equal(t, "GRP", got.ReleaseGroup)
	assert.Equal(t, &standardShow, got.Show)
	assert.Equal(t, quality.Unknown, got.Quality)
	require.Len(t, got.Provenance, 1, "the merge equals the file result")
	assert.Equal(t, "2_standard", got.Provenance[0].String())
}

func TestParse_ClassifiesQuality(t *testing.T) {
	collab := testCollaborators(newFakeShows())
	collab.Quality = quality.NewClassifier()
	p := newTestParser(t, collab, nil, DefaultOptions())

	got, err := p.Parse(context.Background(), "Show.Name.S01E02.1080p.BluRay.x264-GRP.mkv")
	require.NoError(t, err)
	assert.Equal(t, quality.FullHDBluRay, got.Quality)
}

func TestParse_Anime(t *testing.T) {
	collab := testCollaborators(newFakeShows())
	numbering := &fakeNumbering{absolute: map[int]absoluteEntry{13: {season: 1, episodes: []int{13}}}}
	collab.Episodes = numbering
	p := newTestParser(t, collab, nil, DefaultOptions())

	got, err := p.Parse(context.Background(), "[Group] Anime Show - 13 [720p].mkv")
	require.NoError(t, err)

	assert.Equal(t, "Anime Show", got.SeriesName)
	assert.Equal(t, "Group", got.ReleaseGroup)
	assert.Equal(t, "720p", got.ExtraInfo)
	assert.Equal(t, []int{13}, got.AbsoluteEpisodeNumbers)
	require.NotNil(t, got.SeasonNumber)
	assert.Equal(t, 1, *got.SeasonNumber)
	assert.Equal(t, []int{13}, got.EpisodeNumbers)
	assert.Equal(t, "0_anime_ultimate", got.Provenance[0].String())
	assert.Equal(t, ModeAnime, got.Provenance[0].Mode)
}

func TestParse_AnimeIncompleteMapping(t *testing.T) {
	collab := testCollaborators(newFakeShows())
	collab.Episodes = &fakeNumbering{}
	p := newTestParser(t, collab, nil, DefaultOptions())

	got, err := p.Parse(context.Background(), "[Group] Anime Show - 14 [720p].mkv")
	require.NoError(t, err)
	assert.Equal(t, []int{14}, got.AbsoluteEpisodeNumbers)
	assert.Nil(t, got.SeasonNumber)
	assert.Empty(t, got.EpisodeNumbers)
	assert.True(t, got.IsAnime())
}

func TestParse_Sports(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	got, err := p.Parse(context.Background(), "UFC.168.Weidman.vs.Silva.2013.12.28.HDTV-GRP")
	require.NoError(t, err)
	assert.True(t, got.IsSports())
	assert.Equal(t, &sportsShow, got.Show)
	assert.Nil(t, got.SeasonNumber)
}

func TestParse_Errors(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	t.Run("no pattern matches", func(t *testing.T) {
		_, err := p.Parse(context.Background(), "randomtext")
		var unparseable *UnparseableNameError
		require.True(t, errors.As(err, &unparseable))
		assert.Equal(t, "randomtext", unparseable.Name)
		assert.ErrorIs(t, err, ErrUnparseableName)
	})

	t.Run("unknown show", func(t *testing.T) {
		_, err := p.Parse(context.Background(), "Unknown.Series.S01E02.HDTV-GRP")
		assert.ErrorIs(t, err, ErrUnresolvedShow)
	})
}

func TestParse_CacheIsIdempotent(t *testing.T) {
	shows := newFakeShows()
	cache := NewCache(10)
	p := newTestParser(t, testCollaborators(shows), cache, DefaultOptions())

	name := "Show.Name.S01E02.720p.HDTV-GRP.mkv"
	first, err := p.Parse(context.Background(), name)
	require.NoError(t, err)
	calls := shows.Calls()
	assert.Equal(t, 1, cache.Len())

	second, err := p.Parse(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, calls, shows.Calls(), "a cache hit does not parse again")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached result differs (-first +second):\n%s", diff)
	}

	_, err = p.Parse(context.Background(), name, SkipCache())
	require.NoError(t, err)
	assert.Greater(t, shows.Calls(), calls)
}

func TestParse_FailuresAreNotCached(t *testing.T) {
	cache := NewCache(10)
	p := newTestParser(t, testCollaborators(newFakeShows()), cache, DefaultOptions())

	_, err := p.Parse(context.Background(), "Unknown.Series.S01E02.HDTV-GRP")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestParse_NamingPattern(t *testing.T) {
	shows := newFakeShows()
	cache := NewCache(10)
	show := standardShow
	p := newTestParser(t, testCollaborators(shows), cache, Options{Show: &show, NamingPattern: true})

	got, err := p.Parse(context.Background(), "Season 1/Show.Name.S01E02.Ep.Name.HDTV-GRP")
	require.NoError(t, err)
	assert.Equal(t, &standardShow, got.Show)
	assert.Equal(t, 0, shows.Calls(), "naming patterns never resolve shows")
	assert.Equal(t, 0, cache.Len(), "naming patterns bypass the cache")
}

func TestParse_CancelledContext(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Parse(ctx, "Show.Name.S01E02.HDTV-GRP")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_Concurrent(t *testing.T) {
	cache := NewCache(10)
	p := newTestParser(t, testCollaborators(newFakeShows()), cache, DefaultOptions())

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := p.Parse(context.Background(), "Show.Name.S01E02.HDTV-GRP.mkv")
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		input, dir, leaf string
	}{
		{"Show.S01E02.mkv", "", "Show.S01E02.mkv"},
		{"Show.S01/Show.S01E02.mkv", "Show.S01", "Show.S01E02.mkv"},
		{"/tv/Show/Season 1/Show.S01E02.mkv", "Season 1", "Show.S01E02.mkv"},
		{"/Show.S01E02.mkv", "", "Show.S01E02.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dir, leaf := splitName(tt.input)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.leaf, leaf)
		})
	}
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "Show.S01E02", StripExtension("Show.S01E02.mkv"))
	assert.Equal(t, "Show.S01E02", StripExtension("Show.S01E02.MKV"))
	assert.Equal(t, "Show.S01E02", StripExtension("Show.S01E02.nzb"))
	assert.Equal(t, "Show.S01E02.HDTV", StripExtension("Show.S01E02.HDTV"))
	assert.Equal(t, "Show.S01E02.srt", StripExtension("Show.S01E02.srt"))
}

package nameparser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString_Standard(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "Show.Name.S01E02.Source.Quality.Etc-Group")
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "Show Name", r.SeriesName)
	require.NotNil(t, r.SeasonNumber)
	assert.Equal(t, 1, *r.SeasonNumber)
	assert.Equal(t, []int{2}, r.EpisodeNumbers)
	assert.Equal(t, "Source.Quality.Etc", r.ExtraInfo)
	assert.Equal(t, "Group", r.ReleaseGroup)
	assert.Equal(t, &standardShow, r.Show)
	require.Len(t, r.Provenance, 1)
	assert.Equal(t, "2_standard", r.Provenance[0].String())
	assert.Equal(t, ModeStandard, r.Provenance[0].Mode)
	// -2 for the position, +1 per field and +1 for the mode agreeing with the show
	assert.Equal(t, 4, r.Score)
}

func TestParseString_EpisodeRange(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	tests := []struct {
		name string
		want []int
	}{
		{"Show.Name.S01E03-05.HDTV-GRP", []int{3, 4, 5}},
		{"Show.Name.S01E03E04.HDTV-GRP", []int{3, 4}},
		{"Show.Name.1x03.1x04.HDTV-GRP", []int{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := p.parseString(context.Background(), tt.name)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, tt.want, r.EpisodeNumbers)
		})
	}
}

func TestParseString_BareGuardDropsSeason(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "Show.Name.1920.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "11_bare", r.Provenance[0].String())
	assert.Nil(t, r.SeasonNumber, "season 19 from the bare pattern is discarded")
	assert.Equal(t, []int{20}, r.EpisodeNumbers)

	r, err = p.parseString(context.Background(), "Show.Name.0102.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	require.NotNil(t, r.SeasonNumber)
	assert.Equal(t, 1, *r.SeasonNumber)
	assert.Equal(t, []int{2}, r.EpisodeNumbers)
}

func TestParseString_SeasonOnlySpecialMarker(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "Show.Name.S04.Special-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "7_season_only", r.Provenance[0].String())
	require.NotNil(t, r.SeasonNumber)
	assert.Equal(t, 4, *r.SeasonNumber)
	assert.Empty(t, r.ExtraInfo, "a special marker is not a full season")
	assert.Equal(t, "GRP", r.ReleaseGroup)

	r, err = p.parseString(context.Background(), "Show.Name.S04.720p.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "720p.HDTV", r.ExtraInfo)
}

func TestParseString_AirByDateNeedsDateShow(t *testing.T) {
	show := dailyShow
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, Options{Show: &show})

	r, err := p.parseString(context.Background(), "The.Daily.Show.2010.11.23.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	require.NotNil(t, r.AirDate)
	assert.Equal(t, time.Date(2010, 11, 23, 0, 0, 0, 0, time.UTC), *r.AirDate)
	assert.True(t, r.IsAirByDate())

	r, err = p.parseString(context.Background(), "The.Daily.Show.2010.02.30.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Nil(t, r.AirDate, "an impossible date is dropped, not fatal")
}

func TestParseString_Sports(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "UFC.168.Weidman.vs.Silva.2013.12.28.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "0_sports_event", r.Provenance[0].String())
	assert.Equal(t, ModeSports, r.Provenance[0].Mode)
	assert.Equal(t, "UFC", r.SeriesName)
	require.NotNil(t, r.SportsEventID)
	assert.Equal(t, 168, *r.SportsEventID)
	assert.Equal(t, "Weidman vs Silva", r.SportsEventName)
	require.NotNil(t, r.SportsAirDate)
	assert.Equal(t, time.Date(2013, 12, 28, 0, 0, 0, 0, time.UTC), *r.SportsAirDate)
	assert.True(t, r.IsSports())
}

func TestParseString_NoMatch(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "randomtext")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = p.parseString(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestExtract_ResolvesEachNameOnce(t *testing.T) {
	shows := newFakeShows()
	show := standardShow
	p := newTestParser(t, testCollaborators(shows), nil, Options{Show: &show})

	candidates, err := p.extract(context.Background(), "Show.Name.S01E02.720p.HDTV-GRP")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(candidates), 2)

	// one lookup for "Show Name" no matter how many patterns matched
	assert.Equal(t, 1, shows.Calls())
}

func TestExtract_StopsModeForNonAnimeShow(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	candidates, err := p.extract(context.Background(), "Show.Name.S01E02.720p.HDTV-GRP")
	require.NoError(t, err)

	var standard int
	for _, c := range candidates {
		switch c.Provenance[0].Mode {
		case ModeStandard:
			standard++
		case ModeSports, ModeAnime:
			assert.Nil(t, c.Show, "%s resolved a standard show outside standard mode", c.Provenance[0])
		}
	}
	assert.Positive(t, standard)
}

func TestExtract_AbandonsOnDifferentShow(t *testing.T) {
	expected := otherShow
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, Options{Show: &expected})

	candidates, err := p.extract(context.Background(), "Show.Name.S01E02.HDTV-GRP")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestParseSportsDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2013.12.28", time.Date(2013, 12, 28, 0, 0, 0, 0, time.UTC)},
		{"2013-1-5", time.Date(2013, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"28th.Dec.2013", time.Date(2013, 12, 28, 0, 0, 0, 0, time.UTC)},
		{"1st Feb 2014", time.Date(2014, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSportsDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSportsDate("2013.13.45")
	assert.Error(t, err)
}

func TestNumberRange(t *testing.T) {
	assert.Equal(t, []int{3, 4, 5}, numberRange("3", "5"))
	assert.Equal(t, []int{7}, numberRange("7", ""))
	assert.Empty(t, numberRange("7", "2"))
	assert.Equal(t, []int{2, 3}, numberRange("ii", "iii"))
	assert.Len(t, numberRange("1", "500"), 500)
	assert.Equal(t, []int{1}, numberRange("1", "501"))
	assert.Equal(t, []int{1}, numberRange("1", "2000000000"))
}

func TestParseString_OversizedRangeKeepsFirstEpisode(t *testing.T) {
	p := newTestParser(t, testCollaborators(newFakeShows()), nil, DefaultOptions())

	r, err := p.parseString(context.Background(), "Show.Name.S01E01-E20000000.720p.HDTV-GRP")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, []int{1}, r.EpisodeNumbers)
}

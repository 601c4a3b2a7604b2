package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name    string
		release string
		anime   bool
		want    Quality
	}{
		{
			name:    "720p HDTV",
			release: "Show.Name.S01E02.720p.HDTV.x264-GRP",
			want:    HDTV,
		},
		{
			name:    "1080p WEB-DL",
			release: "Show.Name.S01E02.1080p.WEB-DL.DD5.1.H.264-GRP",
			want:    FullHDWebDL,
		},
		{
			name:    "1080p BluRay",
			release: "Show.Name.S02E01.1080p.BluRay.x264-GRP",
			want:    FullHDBluRay,
		},
		{
			name:    "2160p BluRay",
			release: "Show.Name.S02E01.2160p.BluRay.x265-GRP",
			want:    UHD4KBluRay,
		},
		{
			name:    "SD HDTV",
			release: "Show.Name.S01E02.HDTV.XviD-GRP",
			want:    SDTV,
		},
		{
			name:    "DVDRip",
			release: "Show.Name.S01E01.DVDRip.XviD-GRP",
			want:    SDDVD,
		},
		{
			name:    "no quality tokens",
			release: "Show.Name.S01E02",
			want:    Unknown,
		},
		{
			name:    "empty name",
			release: "",
			want:    Unknown,
		},
		{
			name:    "anime bare 720p",
			release: "[Group] Show Name - 01 [720p]",
			anime:   true,
			want:    HDTV,
		},
		{
			name:    "anime bare 1080p",
			release: "[Group] Show Name - 01 [1080p]",
			anime:   true,
			want:    FullHDTV,
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.release, tt.anime))
		})
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(FullHDBluRay)
	assert.True(t, ok)
	assert.Equal(t, 1080, d.Resolution)
	assert.Equal(t, "bluray", d.Source)

	_, ok = Lookup(Quality("nope"))
	assert.False(t, ok)
}

func TestQuality_String(t *testing.T) {
	assert.Equal(t, "hdtv", HDTV.String())
	assert.Equal(t, "unknown", Quality("").String())
}

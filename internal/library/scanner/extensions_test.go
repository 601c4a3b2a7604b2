package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"show.s01e01.mkv", true},
		{"show.s01e01.MKV", true},
		{"show.mp4", true},
		{"show.m2ts", true},
		{"show.iso", true},
		{"Show.With.Dots.In.Name.mkv", true},
		{".mkv", true},

		{"show.srt", false},
		{"show.nfo", false},
		{"show.nzb", false},
		{"show.mkv.txt", false},
		{"show", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVideoFile(tt.filename))
		})
	}
}

func TestIsSampleFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"sample.mkv", true},
		{"SAMPLE.mkv", true},
		{"show.s01e01-sample.mkv", true},
		{"show.s01e01.sample.mkv", true},
		{"sample-show.s01e01.mkv", true},
		{"show_sample2.mkv", true},
		{"show.proof.mkv", true},

		{"show.s01e01.mkv", false},
		{"The.Sampler.S01E01.mkv", false},
		{"Trailer.Park.Boys.S01E01.mkv", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSampleFile(tt.filename))
		})
	}
}

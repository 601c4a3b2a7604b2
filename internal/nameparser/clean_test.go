package nameparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSeriesName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"an.example.1.0.test", "an example 1.0 test"},
		{"an_example_1.0_test", "an example 1.0 test"},
		{"Show.Name", "Show Name"},
		{"Show.Name.2010", "Show Name 2010"},
		{"Show_Name-", "Show Name"},
		{"[Group] Show Name", "Show Name"},
		{"  Show Name  ", "Show Name"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSeriesName(tt.input))
		})
	}
}

package nameparser

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/slipstream/nameparser/internal/library/quality"
)

// ParseResult is the structured identification of a release name.
type ParseResult struct {
	OriginalName           string          `json:"originalName"`
	SeriesName             string          `json:"seriesName,omitempty"`
	SeasonNumber           *int            `json:"seasonNumber,omitempty"`
	EpisodeNumbers         []int           `json:"episodeNumbers,omitempty"`
	AbsoluteEpisodeNumbers []int           `json:"absoluteEpisodeNumbers,omitempty"`
	AirDate                *time.Time      `json:"airDate,omitempty"`
	SportsEventID          *int            `json:"sportsEventId,omitempty"`
	SportsEventName        string          `json:"sportsEventName,omitempty"`
	SportsAirDate          *time.Time      `json:"sportsAirDate,omitempty"`
	ExtraInfo              string          `json:"extraInfo,omitempty"`
	ReleaseGroup           string          `json:"releaseGroup,omitempty"`
	Quality                quality.Quality `json:"quality"`
	Provenance             []PatternRef    `json:"provenance,omitempty"`
	Show                   *ShowRef        `json:"show,omitempty"`

	// Score only matters while candidates are compared.
	Score int `json:"-"`
}

func newResult(name string) *ParseResult {
	return &ParseResult{
		OriginalName: name,
		Quality:      quality.Unknown,
	}
}

// IsAirByDate reports a date-indexed result: no season, no episodes, an air date.
func (r *ParseResult) IsAirByDate() bool {
	return r.SeasonNumber == nil && len(r.EpisodeNumbers) == 0 && r.AirDate != nil
}

// IsSports reports a sports result: no season, no episodes, a sports air date.
func (r *ParseResult) IsSports() bool {
	return r.SeasonNumber == nil && len(r.EpisodeNumbers) == 0 && r.SportsAirDate != nil
}

// IsAnime reports whether any absolute episode number is present.
func (r *ParseResult) IsAnime() bool {
	return len(r.AbsoluteEpisodeNumbers) > 0
}

// Ambiguous reports whether more than one classification predicate holds.
// Well-formed results never are; the predicates themselves stay permissive.
func (r *ParseResult) Ambiguous() bool {
	n := 0
	for _, ok := range []bool{r.IsAirByDate(), r.IsSports(), r.IsAnime()} {
		if ok {
			n++
		}
	}
	return n > 1
}

// Clone returns a deep copy of the result.
func (r *ParseResult) Clone() *ParseResult {
	if r == nil {
		return nil
	}
	c := *r
	c.SeasonNumber = clonePtr(r.SeasonNumber)
	c.SportsEventID = clonePtr(r.SportsEventID)
	c.AirDate = clonePtr(r.AirDate)
	c.SportsAirDate = clonePtr(r.SportsAirDate)
	c.Show = clonePtr(r.Show)
	c.EpisodeNumbers = slices.Clone(r.EpisodeNumbers)
	c.AbsoluteEpisodeNumbers = slices.Clone(r.AbsoluteEpisodeNumbers)
	c.Provenance = slices.Clone(r.Provenance)
	return &c
}

// sameIdentity compares the identifying fields of two results, ignoring the
// original name, provenance and score.
func (r *ParseResult) sameIdentity(o *ParseResult) bool {
	if r == nil || o == nil {
		return false
	}
	return r.SeriesName == o.SeriesName &&
		equalPtr(r.SeasonNumber, o.SeasonNumber) &&
		slices.Equal(r.EpisodeNumbers, o.EpisodeNumbers) &&
		slices.Equal(r.AbsoluteEpisodeNumbers, o.AbsoluteEpisodeNumbers) &&
		equalDate(r.AirDate, o.AirDate) &&
		equalPtr(r.SportsEventID, o.SportsEventID) &&
		r.SportsEventName == o.SportsEventName &&
		equalDate(r.SportsAirDate, o.SportsAirDate) &&
		r.ExtraInfo == o.ExtraInfo &&
		r.ReleaseGroup == o.ReleaseGroup &&
		r.Quality == o.Quality &&
		equalPtr(r.Show, o.Show)
}

func (r *ParseResult) String() string {
	var b strings.Builder
	if r.SeriesName != "" {
		b.WriteString(r.SeriesName + " - ")
	}
	if r.SeasonNumber != nil {
		fmt.Fprintf(&b, "S%d", *r.SeasonNumber)
	}
	for _, e := range r.EpisodeNumbers {
		fmt.Fprintf(&b, "E%d", e)
	}
	if r.IsAirByDate() {
		b.WriteString(r.AirDate.Format(time.DateOnly))
	}
	if r.IsSports() {
		b.WriteString(r.SportsEventName)
		if r.SportsEventID != nil {
			fmt.Fprintf(&b, "%d", *r.SportsEventID)
		}
		b.WriteString(r.SportsAirDate.Format(time.DateOnly))
	}
	if len(r.AbsoluteEpisodeNumbers) > 0 {
		fmt.Fprintf(&b, " [Absolute Nums: %v]", r.AbsoluteEpisodeNumbers)
	}
	if r.ReleaseGroup != "" {
		b.WriteString(" [GROUP: " + r.ReleaseGroup + "]")
	}
	fmt.Fprintf(&b, " [ABD: %t] [SPORTS: %t] [ANIME: %t]", r.IsAirByDate(), r.IsSports(), r.IsAnime())
	names := make([]string, len(r.Provenance))
	for i, p := range r.Provenance {
		names[i] = p.String()
	}
	fmt.Fprintf(&b, " [whichReg: %v]", names)
	return b.String()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func intPtr(v int) *int {
	return &v
}

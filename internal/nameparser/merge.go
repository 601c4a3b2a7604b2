package nameparser

import (
	"slices"
	"time"

	"github.com/slipstream/nameparser/internal/library/quality"
)

// preferFirst reads a field from first and, when it is absent there, from
// second. Either result may be nil.
func preferFirst[T any](first, second *ParseResult, get func(*ParseResult) T, present func(T) bool) T {
	if first != nil {
		if v := get(first); present(v) {
			return v
		}
	}
	if second != nil {
		return get(second)
	}
	var zero T
	return zero
}

func hasString(s string) bool   { return s != "" }
func hasInts(v []int) bool      { return len(v) > 0 }
func hasInt(p *int) bool        { return p != nil }
func hasDate(p *time.Time) bool { return p != nil }
func hasShow(p *ShowRef) bool   { return p != nil }

// anyQuality treats every quality, including unknown, as present.
func anyQuality(quality.Quality) bool { return true }

// merge combines the leaf and directory parses of name. Identity fields come
// from the directory first; numbering, dates and quality from the file first.
func merge(name string, file, dir *ParseResult) *ParseResult {
	out := newResult(name)

	out.AirDate = clonePtr(preferFirst(file, dir, func(r *ParseResult) *time.Time { return r.AirDate }, hasDate))
	out.AbsoluteEpisodeNumbers = slices.Clone(preferFirst(file, dir, func(r *ParseResult) []int { return r.AbsoluteEpisodeNumbers }, hasInts))
	out.SportsEventID = clonePtr(preferFirst(file, dir, func(r *ParseResult) *int { return r.SportsEventID }, hasInt))
	out.SportsEventName = preferFirst(file, dir, func(r *ParseResult) string { return r.SportsEventName }, hasString)
	out.SportsAirDate = clonePtr(preferFirst(file, dir, func(r *ParseResult) *time.Time { return r.SportsAirDate }, hasDate))

	if out.AirDate == nil && out.SportsAirDate == nil {
		out.SeasonNumber = clonePtr(preferFirst(file, dir, func(r *ParseResult) *int { return r.SeasonNumber }, hasInt))
		out.EpisodeNumbers = slices.Clone(preferFirst(file, dir, func(r *ParseResult) []int { return r.EpisodeNumbers }, hasInts))
	}

	out.SeriesName = preferFirst(dir, file, func(r *ParseResult) string { return r.SeriesName }, hasString)
	out.ExtraInfo = preferFirst(dir, file, func(r *ParseResult) string { return r.ExtraInfo }, hasString)
	out.ReleaseGroup = preferFirst(dir, file, func(r *ParseResult) string { return r.ReleaseGroup }, hasString)
	out.Show = clonePtr(preferFirst(dir, file, func(r *ParseResult) *ShowRef { return r.Show }, hasShow))

	if file != nil || dir != nil {
		out.Quality = preferFirst(file, dir, func(r *ParseResult) quality.Quality { return r.Quality }, anyQuality)
	}

	switch {
	case out.sameIdentity(file):
		out.Provenance = slices.Clone(file.Provenance)
	case out.sameIdentity(dir):
		out.Provenance = slices.Clone(dir.Provenance)
	default:
		if dir != nil {
			out.Provenance = append(out.Provenance, dir.Provenance...)
		}
		if file != nil {
			out.Provenance = append(out.Provenance, file.Provenance...)
		}
	}

	return out
}

// validate applies the terminal checks to a merged result.
func validate(r *ParseResult) error {
	if r.Show == nil {
		return &UnresolvedShowError{Name: r.OriginalName}
	}
	if !hasIdentity(r) {
		return &UnparseableNameError{Name: r.OriginalName}
	}
	return nil
}

func hasIdentity(r *ParseResult) bool {
	return r.SeriesName != "" || r.SeasonNumber != nil || len(r.EpisodeNumbers) > 0 ||
		r.AirDate != nil || r.SportsAirDate != nil || len(r.AbsoluteEpisodeNumbers) > 0
}

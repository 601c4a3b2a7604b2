package nameparser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dlclark/regexp2"
)

var (
	specialMarker = regexp2.MustCompile(`([. _-]|^)(special|extra)s?\w*([. _-]|$)`, regexp2.IgnoreCase)
	dateSeparator = regexp2.MustCompile(`[. _-]+`, regexp2.None)
	ordinalSuffix = regexp2.MustCompile(`^(\d{1,2})(st|nd|rd|th)$`, regexp2.IgnoreCase)
)

type showFlags struct {
	anime, sports, airByDate bool
}

// capture reads fields out of a match, limited to the pattern's capability set.
type capture struct {
	m *regexp2.Match
	p *Pattern
}

func (c capture) get(f Field) (string, bool) {
	if !c.p.Has(f) {
		return "", false
	}
	g := c.m.GroupByName(string(f))
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}

// extract runs every configured mode against name and returns all candidates.
func (p *Parser) extract(ctx context.Context, name string) ([]*ParseResult, error) {
	var candidates []*ParseResult
	resolved := make(map[string]*ShowRef)

	for _, mode := range p.modes {
		found, done, err := p.extractMode(ctx, mode, name, resolved)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)

		if err := p.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return candidates, nil
}

// extractMode tries one mode's patterns in order. done reports that the
// search for this name should stop entirely.
func (p *Parser) extractMode(ctx context.Context, mode Mode, name string, resolved map[string]*ShowRef) (candidates []*ParseResult, done bool, err error) {
	p.logger.Debug().Str("mode", mode.String()).Str("name", name).Msg("Trying patterns")

	for _, pat := range p.table.Patterns(mode) {
		m, err := pat.match(name)
		if err != nil {
			p.logger.Warn().Err(err).Str("pattern", pat.Name).Str("name", name).Msg("Pattern match failed")
			continue
		}
		if m == nil {
			continue
		}

		c := capture{m: m, p: pat}
		r := newResult(name)
		r.Provenance = []PatternRef{{Mode: mode, Group: pat.Group, Position: pat.Position, Name: pat.Name}}
		r.Score = -pat.Position

		if v, ok := c.get(FieldSeriesName); ok {
			r.SeriesName = CleanSeriesName(v)
			if r.SeriesName != "" {
				r.Score++
			}
		}

		show, err := p.showFor(ctx, r.SeriesName, resolved)
		if err != nil {
			return nil, false, err
		}

		var flags showFlags
		if show != nil {
			if p.opts.Show != nil && *p.opts.Show != *show {
				p.logger.Debug().Str("name", name).Stringer("show", show).Msg("Resolved show differs from expected show")
				return candidates, true, nil
			}
			r.Show = show
			flags = p.flags(*show)

			if modeMatches(mode, flags) {
				r.Score++
			} else if !flags.anime {
				break
			}
		}

		p.fill(r, pat, c, flags)

		p.logger.Debug().Str("pattern", r.Provenance[0].String()).Int("score", r.Score).Msg("Candidate")
		candidates = append(candidates, r)
	}

	return candidates, false, nil
}

// fill populates every field the pattern captured, other than the series name.
func (p *Parser) fill(r *ParseResult, pat *Pattern, c capture, flags showFlags) {
	if v, ok := c.get(FieldSeasonNum); ok {
		if season, err := strconv.Atoi(v); err == nil && !(pat.Name == "bare" && (season == 19 || season == 20)) {
			r.SeasonNumber = intPtr(season)
			r.Score++
		}
	}

	if v, ok := c.get(FieldEpNum); ok {
		extra, _ := c.get(FieldExtraEpNum)
		r.EpisodeNumbers = numberRange(v, extra)
		r.Score++
	}

	if v, ok := c.get(FieldAbsEpNum); ok {
		extra, _ := c.get(FieldExtraAbsEpNum)
		r.AbsoluteEpisodeNumbers = numberRange(v, extra)
		r.Score++
	}

	if v, ok := c.get(FieldSportsEventID); ok && v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			r.SportsEventID = intPtr(id)
			r.Score++
		}
	}

	if v, ok := c.get(FieldSportsEventName); ok {
		r.SportsEventName = CleanSeriesName(v)
		if r.SportsEventName != "" {
			r.Score++
		}
	}

	if v, ok := c.get(FieldSportsAirDate); ok && flags.sports {
		if d, err := parseSportsDate(v); err == nil {
			r.SportsAirDate = &d
			r.Score++
		} else {
			p.logger.Debug().Err(err).Str("value", v).Msg("Ignoring sports air date")
		}
	}

	if flags.airByDate {
		year, okY := c.get(FieldAirYear)
		month, okM := c.get(FieldAirMonth)
		day, okD := c.get(FieldAirDay)
		if okY && okM && okD {
			if d, err := parseAirDate(year, month, day); err == nil {
				r.AirDate = &d
				r.Score++
			} else {
				p.logger.Debug().Err(err).Msg("Ignoring air date")
			}
		}
	}

	if v, ok := c.get(FieldExtraInfo); ok {
		if !(v != "" && strings.Contains(pat.Name, "season_only") && isSpecialMarker(v)) {
			r.ExtraInfo = v
			r.Score++
		}
	}

	if v, ok := c.get(FieldReleaseGroup); ok {
		r.ReleaseGroup = v
		r.Score++
	}
}

// showFor returns the show for a candidate. Names are resolved at most once per parsed string.
func (p *Parser) showFor(ctx context.Context, seriesName string, resolved map[string]*ShowRef) (*ShowRef, error) {
	if p.opts.NamingPattern {
		return clonePtr(p.opts.Show), nil
	}
	if seriesName == "" {
		return nil, nil
	}
	if show, ok := resolved[seriesName]; ok {
		return clonePtr(show), nil
	}

	show, err := p.collab.Shows.ResolveShow(ctx, seriesName, p.opts.TryIndexers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve show %q: %w", seriesName, err)
	}
	resolved[seriesName] = show
	return clonePtr(show), nil
}

func (p *Parser) flags(show ShowRef) showFlags {
	return showFlags{
		anime:     p.collab.Classifier.IsAnime(show),
		sports:    p.collab.Classifier.IsSports(show),
		airByDate: p.collab.Classifier.IsAirByDate(show),
	}
}

func modeMatches(mode Mode, flags showFlags) bool {
	switch mode {
	case ModeStandard:
		return !flags.anime && !flags.sports
	case ModeSports:
		return flags.sports
	case ModeAnime:
		return flags.anime
	default:
		return false
	}
}

// maxRangeSpan bounds how many numbers a single captured range may expand to.
const maxRangeSpan = 500

// numberRange expands first..last inclusive. A missing last or a span wider
// than maxRangeSpan yields just first; a last below first yields nothing.
func numberRange(first, last string) []int {
	start := ConvertNumber(first)
	if last == "" {
		return []int{start}
	}
	end := ConvertNumber(last)
	if end < start {
		return nil
	}
	if end-start >= maxRangeSpan {
		return []int{start}
	}
	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}

func isSpecialMarker(s string) bool {
	ok, err := specialMarker.MatchString(s)
	return err == nil && ok
}

// parseAirDate builds a calendar date, rejecting impossible days.
func parseAirDate(year, month, day string) (time.Time, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, err
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, err
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("2006-1-2", fmt.Sprintf("%d-%d-%d", y, m, d))
}

// parseSportsDate accepts "2013.12.28" and "28th.Dec.2013" style dates.
func parseSportsDate(s string) (time.Time, error) {
	normalized, err := dateSeparator.Replace(strings.TrimSpace(s), " ", -1, -1)
	if err != nil {
		return time.Time{}, err
	}
	parts := strings.Fields(normalized)
	if len(parts) == 3 && len(parts[0]) == 4 {
		return parseAirDate(parts[0], parts[1], parts[2])
	}
	if len(parts) > 0 {
		if day, err := ordinalSuffix.Replace(parts[0], "$1", -1, -1); err == nil {
			parts[0] = day
		}
	}

	t, err := dateparse.ParseIn(strings.Join(parts, " "), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

package nameparser

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// noSeasonHint is passed to scene absolute conversion when the series name
// is not a scene exception tied to a season.
const noSeasonHint = -1

// reconcile converts the best candidate's numbering into the show's canonical
// numbering. A missing absolute mapping is logged and the candidate is
// returned unchanged.
func (p *Parser) reconcile(ctx context.Context, best *ParseResult) (*ParseResult, error) {
	if best.Show == nil || best.IsAirByDate() || best.IsSports() || p.opts.NamingPattern {
		return best, nil
	}

	show := *best.Show
	anime := p.collab.Classifier.IsAnime(show)

	var seasons, episodes, absolutes []int

	switch {
	case anime && len(best.AbsoluteEpisodeNumbers) > 0:
		if p.collab.Episodes == nil {
			return best, nil
		}

		hint := noSeasonHint
		if p.collab.Exceptions != nil {
			if season, ok := p.collab.Exceptions.SceneExceptionSeason(ctx, best.SeriesName); ok {
				hint = season
			}
		}

		for _, abs := range best.AbsoluteEpisodeNumbers {
			a := abs
			if p.opts.Convert && p.collab.Scene != nil {
				converted, err := p.collab.Scene.ConvertSceneAbsolute(ctx, show, abs, hint)
				if err != nil {
					return nil, fmt.Errorf("failed to convert scene absolute %d: %w", abs, err)
				}
				a = converted
			}

			season, eps, err := p.collab.Episodes.EpisodesFromAbsolute(ctx, show, a)
			if errors.Is(err, ErrAbsoluteNotFound) {
				p.logger.Warn().
					Err(fmt.Errorf("%w: %w", ErrIncompleteAbsoluteMapping, err)).
					Stringer("show", show).
					Int("absolute", abs).
					Msg("Absolute number is incomplete, keeping unreconciled result")
				return best, nil
			}
			if err != nil {
				return nil, fmt.Errorf("failed to look up absolute %d: %w", a, err)
			}

			absolutes = append(absolutes, a)
			episodes = append(episodes, eps...)
			seasons = append(seasons, season)
		}

	// Season 0 specials keep their parsed numbering.
	case best.SeasonNumber != nil && *best.SeasonNumber > 0 && len(best.EpisodeNumbers) > 0:
		for _, ep := range best.EpisodeNumbers {
			s, e := *best.SeasonNumber, ep
			if p.opts.Convert && p.collab.Scene != nil {
				var err error
				s, e, err = p.collab.Scene.ConvertSceneEpisode(ctx, show, *best.SeasonNumber, ep)
				if err != nil {
					return nil, fmt.Errorf("failed to convert scene episode S%dE%d: %w", *best.SeasonNumber, ep, err)
				}
			}

			if anime && p.collab.Episodes != nil {
				a, ok, err := p.collab.Episodes.AbsoluteFromSeasonEpisode(ctx, show, s, e)
				if err != nil {
					return nil, fmt.Errorf("failed to look up absolute for S%dE%d: %w", s, e, err)
				}
				if ok {
					absolutes = append(absolutes, a)
				}
			}

			episodes = append(episodes, e)
			seasons = append(seasons, s)
		}
	}

	seasons = sortedUnique(seasons)
	if len(seasons) > 1 {
		return nil, &MultiSeasonConflictError{Name: best.OriginalName, Seasons: seasons}
	}
	episodes = sortedUnique(episodes)
	absolutes = sortedUnique(absolutes)

	if len(absolutes) > 0 {
		best.AbsoluteEpisodeNumbers = absolutes
	}
	if len(seasons) > 0 && len(episodes) > 0 {
		best.EpisodeNumbers = episodes
		best.SeasonNumber = intPtr(seasons[0])
	}

	if p.opts.Convert {
		p.logger.Debug().Str("name", best.OriginalName).Str("result", best.String()).Msg("Converted parsed result")
	}
	return best, nil
}

func sortedUnique(values []int) []int {
	if len(values) == 0 {
		return values
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

package nameparser

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipstream/nameparser/internal/library/quality"
)

// ErrAbsoluteNotFound is returned by EpisodeLookup when an absolute number has
// no entry in the show's numbering table. It is distinct from a missing show.
var ErrAbsoluteNotFound = errors.New("absolute number not found")

// ShowRef is a non-owning reference to a show held by an external registry.
type ShowRef struct {
	Indexer string `json:"indexer"`
	ID      int64  `json:"id"`
}

func (s ShowRef) String() string {
	return fmt.Sprintf("%s:%d", s.Indexer, s.ID)
}

// ShowResolver looks up a show identity by display name. A nil ShowRef with a
// nil error means no show matched.
type ShowResolver interface {
	ResolveShow(ctx context.Context, name string, allowRemoteLookup bool) (*ShowRef, error)
}

// ShowClassifier answers the classification predicates of a show.
type ShowClassifier interface {
	IsAnime(show ShowRef) bool
	IsSports(show ShowRef) bool
	IsAirByDate(show ShowRef) bool
}

// SceneNumbering translates scene numbering into indexer numbering.
type SceneNumbering interface {
	ConvertSceneEpisode(ctx context.Context, show ShowRef, season, episode int) (int, int, error)
	ConvertSceneAbsolute(ctx context.Context, show ShowRef, absolute, seasonHint int) (int, error)
}

// EpisodeLookup maps between absolute and season/episode numbering.
// EpisodesFromAbsolute returns ErrAbsoluteNotFound when the mapping is incomplete.
// AbsoluteFromSeasonEpisode reports false when no absolute number is known.
type EpisodeLookup interface {
	EpisodesFromAbsolute(ctx context.Context, show ShowRef, absolute int) (int, []int, error)
	AbsoluteFromSeasonEpisode(ctx context.Context, show ShowRef, season, episode int) (int, bool, error)
}

// SceneExceptions provides season context for scene-exception names.
// It reports false when the name is not a known exception or carries no season.
type SceneExceptions interface {
	SceneExceptionSeason(ctx context.Context, seriesName string) (int, bool)
}

// QualityClassifier derives the quality tag of a release name.
type QualityClassifier interface {
	Classify(name string, anime bool) quality.Quality
}

// Collaborators bundles the external services the engine consults.
// Shows and Classifier are required; the rest may be nil, in which case the
// corresponding conversion is skipped.
type Collaborators struct {
	Shows      ShowResolver
	Classifier ShowClassifier
	Scene      SceneNumbering
	Episodes   EpisodeLookup
	Exceptions SceneExceptions
	Quality    QualityClassifier
}

func (c Collaborators) validate() error {
	if c.Shows == nil {
		return errors.New("show resolver is required")
	}
	if c.Classifier == nil {
		return errors.New("show classifier is required")
	}
	return nil
}

package nameparser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedShow means no show identity could be attached to a name.
	ErrUnresolvedShow = errors.New("unable to resolve show")

	// ErrUnparseableName means no identifying field could be extracted.
	ErrUnparseableName = errors.New("unable to parse name")

	// ErrMultiSeasonConflict means reconciliation produced episodes from more than one season.
	ErrMultiSeasonConflict = errors.New("episodes span more than one season")

	// ErrIncompleteAbsoluteMapping marks an absolute number missing from the show's
	// numbering table. Parse logs it and keeps the unreconciled result.
	ErrIncompleteAbsoluteMapping = errors.New("incomplete absolute number mapping")
)

// UnresolvedShowError is returned when a merged result has no show.
type UnresolvedShowError struct {
	Name string
}

func (e *UnresolvedShowError) Error() string {
	return fmt.Sprintf("unable to resolve show for %q", e.Name)
}

func (e *UnresolvedShowError) Unwrap() error { return ErrUnresolvedShow }

// UnparseableNameError is returned when a merged result carries no identifying information.
type UnparseableNameError struct {
	Name string
}

func (e *UnparseableNameError) Error() string {
	return fmt.Sprintf("unable to parse %q", e.Name)
}

func (e *UnparseableNameError) Unwrap() error { return ErrUnparseableName }

// MultiSeasonConflictError lists the seasons a single name resolved to.
type MultiSeasonConflictError struct {
	Name    string
	Seasons []int
}

func (e *MultiSeasonConflictError) Error() string {
	return fmt.Sprintf("numbering for %q resolves to seasons %v, only one season is supported", e.Name, e.Seasons)
}

func (e *MultiSeasonConflictError) Unwrap() error { return ErrMultiSeasonConflict }

// PatternError reports a table entry that failed to compile or validate.
type PatternError struct {
	Group string
	Name  string
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %s/%s: %v", e.Group, e.Name, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

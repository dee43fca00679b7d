package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoIndex signals that none of the configured index names exist.
	ErrNoIndex = errors.New("no lead index available")
	// ErrSearchFailed signals a generic search engine failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrShardFailure signals a shard or search-phase execution failure reported by the engine.
	ErrShardFailure = errors.New("search shard failure")
	// ErrJobNotFound signals an unknown export job id.
	ErrJobNotFound = errors.New("export job not found")
	// ErrExportNotReady signals a download attempt for a job that is not done.
	ErrExportNotReady = errors.New("export not ready")
	// ErrForbidden signals a caller without the required role.
	ErrForbidden = errors.New("forbidden")
)

// IndexResolutionError wraps ErrNoIndex with the index names that were probed.
type IndexResolutionError struct {
	Attempted []string
}

func (e *IndexResolutionError) Error() string {
	return fmt.Sprintf("%s (attempted: %s)", ErrNoIndex.Error(), strings.Join(e.Attempted, ", "))
}

func (e *IndexResolutionError) Unwrap() error { return ErrNoIndex }

// SearchError is a terminal search failure after the retry budget is spent.
// Kind is either ErrShardFailure or ErrSearchFailed.
type SearchError struct {
	Kind   error
	Type   string
	Reason string
	Err    error
}

func (e *SearchError) Error() string {
	if e.Reason != "" {
		return e.Kind.Error() + ": " + e.Reason
	}
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes both the classification sentinel and the engine error.
func (e *SearchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

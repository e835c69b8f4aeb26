package types

import (
	"fmt"
	"time"
)

// NoCandidatesError reports an empty media directory.
type NoCandidatesError struct {
	Dir string
	Ext string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no %s candidates in %s", e.Ext, e.Dir)
}

// ClipTooShortError reports a candidate that cannot cover the requested duration.
type ClipTooShortError struct {
	Candidate string
	Duration  time.Duration
	Requested time.Duration
}

func (e *ClipTooShortError) Error() string {
	return fmt.Sprintf("background %q is too short: %.3fs available, %.3fs requested",
		e.Candidate, e.Duration.Seconds(), e.Requested.Seconds())
}

// MediaProbeError reports an unreadable or corrupt media file.
type MediaProbeError struct {
	Candidate string
	Err       error
}

func (e *MediaProbeError) Error() string {
	return fmt.Sprintf("probe %q: %v", e.Candidate, e.Err)
}

func (e *MediaProbeError) Unwrap() error { return e.Err }

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

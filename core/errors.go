package core

import "errors"

var (
	// ErrInvalidConfig indicates a mission configuration failed
	// validation. It is raised once at pipeline construction, never
	// mid-run.
	ErrInvalidConfig = errors.New("invalid mission config")

	// ErrDegenerateInput indicates a precondition violation on pipeline
	// input (for example an unexpected grid shape). Fatal to the run.
	ErrDegenerateInput = errors.New("degenerate pipeline input")

	// ErrUpstreamUnavailable indicates the orbit position source could
	// not resolve a sub-satellite point for a tick. The pipeline never
	// substitutes a stale coordinate; the tick fails.
	ErrUpstreamUnavailable = errors.New("orbit position source unavailable")
)

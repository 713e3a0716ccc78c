// Package errors defines all exported error sentinels for the lzjd library.
//
// This is the single source of truth for error values. Both the top-level
// lzjd package and the CLI import from here, ensuring errors.Is checks work
// across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrInvalidCapacity   = errors.New("lzjd: sketch capacity must be at least 1")
	ErrUnknownHashFamily = errors.New("lzjd: unknown hash family")
	ErrInvalidWorkers    = errors.New("lzjd: worker count must be at least 1")
	ErrInvalidMaxPhrases = errors.New("lzjd: max phrase count must not be negative")
	ErrThresholdRange    = errors.New("lzjd: threshold is outside the valid range")
)

// Codec errors
var (
	ErrMalformedDigest = errors.New("lzjd: malformed digest line")
	ErrSourceIDColon   = errors.New("lzjd: source id must not contain ':'")
)

// Comparison errors
var (
	ErrIncompatibleDigests = errors.New("lzjd: digests have incompatible hash width or capacity")
)

// Batch errors
var (
	ErrNoSources            = errors.New("lzjd: no input sources")
	ErrAllSourcesFailed     = errors.New("lzjd: no source could be digested")
	ErrTooManyCompareInputs = errors.New("lzjd: compare mode takes one or two digest files")
)

package lzjd

import (
	"runtime"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// DefaultCapacity is the default bottom-k sketch capacity.
const DefaultCapacity = 1024

// Option is a functional option for configuring digest construction and
// batch orchestration.
type Option func(*config)

type config struct {
	capacity   int
	family     HashFamily
	workers    int
	maxPhrases int // 0 = unbounded parser dictionary
}

func defaultConfig() *config {
	return &config{
		capacity: DefaultCapacity,
		family:   FamilyCRC32,
		workers:  runtime.NumCPU(),
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.capacity < 1 {
		return lzjderrors.ErrInvalidCapacity
	}
	if !c.family.valid() {
		return lzjderrors.ErrUnknownHashFamily
	}
	if c.workers < 1 {
		return lzjderrors.ErrInvalidWorkers
	}
	if c.maxPhrases < 0 {
		return lzjderrors.ErrInvalidMaxPhrases
	}
	return nil
}

// WithCapacity sets the bottom-k sketch capacity. Digests built with
// different capacities are not comparable.
func WithCapacity(k int) Option {
	return func(c *config) {
		c.capacity = k
	}
}

// WithHashFamily sets the phrase hash family. Digests built with families of
// different widths are not comparable.
func WithHashFamily(f HashFamily) Option {
	return func(c *config) {
		c.family = f
	}
}

// WithWorkers sets the number of parallel workers used by DigestAll,
// CompareAll and CompareSets. Defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithMaxPhrases caps the parser's dictionary of seen phrases, bounding
// memory on very large inputs. Once the cap is reached, known phrases are
// still recognized but no new phrases are learned; unlearned phrases that
// recur are re-emitted and deduplicated by the sketch. 0 (the default) means
// unbounded.
func WithMaxPhrases(n int) Option {
	return func(c *config) {
		c.maxPhrases = n
	}
}

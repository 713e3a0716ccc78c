package lzjd

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// Source is one named byte-stream input to a batch digest run.
type Source interface {
	// ID identifies the source in digests, reports and errors.
	ID() string

	// Bytes returns the source content and a release function that must be
	// called once the content is no longer needed (file sources use it to
	// unmap). release is non-nil whenever err is nil.
	Bytes() (data []byte, release func() error, err error)
}

// SourceError attributes a digestion failure to one source.
type SourceError struct {
	ID  string
	Err error
}

func (e SourceError) Error() string { return fmt.Sprintf("%s: %v", e.ID, e.Err) }

func (e SourceError) Unwrap() error { return e.Err }

// PairError attributes a comparison failure to one digest pair.
type PairError struct {
	LeftID  string
	RightID string
	Err     error
}

func (e PairError) Error() string { return fmt.Sprintf("%s vs %s: %v", e.LeftID, e.RightID, e.Err) }

func (e PairError) Unwrap() error { return e.Err }

// DigestAll digests every source with a bounded worker pool and returns the
// digests in source order. A failure on one source is isolated: it is
// reported in the SourceError slice and does not stop sibling digestions.
// The error return is reserved for invalid options and context cancellation.
//
// Each digestion owns its parser and sketch exclusively; the returned
// digests are immutable, so the caller may hand them straight to the
// comparison phase without further synchronization.
func DigestAll(ctx context.Context, sources []Source, opts ...Option) ([]Digest, []SourceError, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, lzjderrors.ErrNoSources
	}

	digests := make([]Digest, len(sources))
	taskErrs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, release, err := src.Bytes()
			if err != nil {
				taskErrs[i] = err
				return nil
			}
			d, err := digestReader(src.ID(), bytes.NewReader(data), cfg)
			if relErr := release(); err == nil {
				err = relErr
			}
			if err != nil {
				taskErrs[i] = err
				return nil
			}
			digests[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]Digest, 0, len(sources))
	var srcErrs []SourceError
	for i, src := range sources {
		if taskErrs[i] != nil {
			srcErrs = append(srcErrs, SourceError{ID: src.ID(), Err: taskErrs[i]})
			continue
		}
		out = append(out, digests[i])
	}
	return out, srcErrs, nil
}

// CompareAll estimates every unordered pair of distinct digests (no
// self-pairs, N·(N-1)/2 comparisons) in parallel and returns the comparisons
// whose similarity is at or above threshold, in deterministic order:
// descending similarity, then by source IDs. threshold is on the [0, 1]
// scale. A failure on one pair (incompatible digests) is isolated in the
// PairError slice.
func CompareAll(ctx context.Context, digests []Digest, threshold float64, opts ...Option) ([]Comparison, []PairError, error) {
	n := len(digests)
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return comparePairs(ctx, digests, digests, pairs, threshold, opts)
}

// CompareSets estimates every cross pair between two digest sets (|a|·|b|
// comparisons), filtered and ordered like CompareAll. Used by compare mode
// when two digest files are given.
func CompareSets(ctx context.Context, a, b []Digest, threshold float64, opts ...Option) ([]Comparison, []PairError, error) {
	pairs := make([][2]int, 0, len(a)*len(b))
	for i := range a {
		for j := range b {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return comparePairs(ctx, a, b, pairs, threshold, opts)
}

func comparePairs(ctx context.Context, left, right []Digest, pairs [][2]int, threshold float64, opts []Option) ([]Comparison, []PairError, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	if threshold < 0 || threshold > 1 {
		return nil, nil, fmt.Errorf("threshold %v not in [0, 1]: %w", threshold, lzjderrors.ErrThresholdRange)
	}

	results := make([]Comparison, len(pairs))
	taskErrs := make([]error, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for idx, pair := range pairs {
		idx, pair := idx, pair
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cmp, err := Estimate(left[pair[0]], right[pair[1]])
			if err != nil {
				taskErrs[idx] = err
				return nil
			}
			results[idx] = cmp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	kept := make([]Comparison, 0, len(pairs))
	var pairErrs []PairError
	for idx, pair := range pairs {
		if taskErrs[idx] != nil {
			pairErrs = append(pairErrs, PairError{
				LeftID:  left[pair[0]].SourceID(),
				RightID: right[pair[1]].SourceID(),
				Err:     taskErrs[idx],
			})
			continue
		}
		if results[idx].Similarity >= threshold {
			kept = append(kept, results[idx])
		}
	}
	sortComparisons(kept)
	return kept, pairErrs, nil
}

// sortComparisons orders results for stable, reproducible output regardless
// of completion order.
func sortComparisons(results []Comparison) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].LeftID != results[j].LeftID {
			return results[i].LeftID < results[j].LeftID
		}
		return results[i].RightID < results[j].RightID
	})
}

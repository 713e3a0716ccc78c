package lzjd

import (
	"fmt"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// Comparison is the result of estimating the similarity of two digests.
// Similarity and Distance are in [0, 1] with Distance = 1 - Similarity.
type Comparison struct {
	LeftID     string
	RightID    string
	Similarity float64
	Distance   float64
}

// Estimate computes the bottom-k Jaccard similarity estimate of two digests.
// It is symmetric: Estimate(a, b) and Estimate(b, a) produce the same values.
//
// When both sketches are saturated, each is a bottom-k subsample of a larger
// phrase set, and values above t = min(max(a), max(b)) carry no information
// about the other sketch. The estimate is therefore computed over the values
// at or below t only. When either sketch is unsaturated it holds its input's
// full phrase set, and the exact Jaccard over the sketch contents is used.
//
// Two empty digests are declared identical (similarity 1.0). This is a
// deliberate convention for zero-length inputs, not a derived value.
//
// Digests with different hash widths or capacities are not numerically
// comparable; Estimate fails with ErrIncompatibleDigests.
func Estimate(a, b Digest) (Comparison, error) {
	if a.width != b.width || a.capacity != b.capacity {
		return Comparison{}, fmt.Errorf("%q (width=%d k=%d) vs %q (width=%d k=%d): %w",
			a.sourceID, a.width, a.capacity,
			b.sourceID, b.width, b.capacity,
			lzjderrors.ErrIncompatibleDigests)
	}

	similarity := estimateSimilarity(a, b)
	return Comparison{
		LeftID:     a.sourceID,
		RightID:    b.sourceID,
		Similarity: similarity,
		Distance:   1 - similarity,
	}, nil
}

func estimateSimilarity(a, b Digest) float64 {
	if len(a.values) == 0 && len(b.values) == 0 {
		return 1.0
	}
	if len(a.values) == 0 || len(b.values) == 0 {
		return 0.0
	}

	if a.Saturated() && b.Saturated() {
		t := a.values[len(a.values)-1]
		if bm := b.values[len(b.values)-1]; bm < t {
			t = bm
		}
		inter, union := intersectUnion(a.values, b.values, t)
		// union >= 1: the sketch whose maximum equals t contributes at
		// least that value.
		return float64(inter) / float64(union)
	}

	inter, union := intersectUnionAll(a.values, b.values)
	return float64(inter) / float64(union)
}

// intersectUnion counts distinct values at or below limit present in both
// slices (inter) and in either slice (union). Both inputs are sorted
// ascending and pairwise distinct.
func intersectUnion(av, bv []uint64, limit uint64) (inter, union int) {
	i, j := 0, 0
	for i < len(av) && j < len(bv) {
		switch {
		case av[i] > limit || bv[j] > limit:
			// Both slices are sorted, so once either side passes the
			// cutoff only out-of-range values remain on it.
			if av[i] > limit && bv[j] > limit {
				return inter, union
			}
			if av[i] > limit {
				i = len(av)
			} else {
				j = len(bv)
			}
		case av[i] == bv[j]:
			inter++
			union++
			i++
			j++
		case av[i] < bv[j]:
			union++
			i++
		default:
			union++
			j++
		}
	}
	for ; i < len(av) && av[i] <= limit; i++ {
		union++
	}
	for ; j < len(bv) && bv[j] <= limit; j++ {
		union++
	}
	return inter, union
}

// intersectUnionAll is intersectUnion without a cutoff.
func intersectUnionAll(av, bv []uint64) (inter, union int) {
	i, j := 0, 0
	for i < len(av) && j < len(bv) {
		switch {
		case av[i] == bv[j]:
			inter++
			i++
			j++
		case av[i] < bv[j]:
			i++
		default:
			j++
		}
	}
	union = len(av) + len(bv) - inter
	return inter, union
}

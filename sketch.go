package lzjd

import "sort"

// sketch retains the k smallest distinct hash values ever offered to it.
// Because phrase hashes are near-uniform, the retained values are a random
// subsample of the input's true phrase set, which is what makes two sketches
// comparable as Jaccard estimators.
//
// The values live in a binary max-heap over a preallocated contiguous
// buffer: heap[0] is the largest retained value, so a full sketch rejects or
// replaces in O(log k) per offer. Distinctness is tracked by a membership
// set. Offer order does not affect the final contents.
type sketch struct {
	k       int
	heap    []uint64
	members map[uint64]struct{}
}

func newSketch(k int) *sketch {
	return &sketch{
		k:       k,
		heap:    make([]uint64, 0, k),
		members: make(map[uint64]struct{}, k),
	}
}

// offer folds one phrase hash into the sketch: duplicates are ignored, the
// sketch fills up to k values, and after that a new value only displaces the
// current maximum if it is smaller.
func (s *sketch) offer(h uint64) {
	if _, ok := s.members[h]; ok {
		return
	}
	if len(s.heap) < s.k {
		s.members[h] = struct{}{}
		s.heap = append(s.heap, h)
		s.siftUp(len(s.heap) - 1)
		return
	}
	if h >= s.heap[0] {
		return
	}
	delete(s.members, s.heap[0])
	s.members[h] = struct{}{}
	s.heap[0] = h
	s.siftDown(0)
}

func (s *sketch) len() int { return len(s.heap) }

// values seals the sketch contents into a sorted ascending slice.
func (s *sketch) values() []uint64 {
	out := make([]uint64, len(s.heap))
	copy(out, s.heap)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *sketch) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.heap[parent] >= s.heap[i] {
			return
		}
		s.heap[parent], s.heap[i] = s.heap[i], s.heap[parent]
		i = parent
	}
}

func (s *sketch) siftDown(i int) {
	n := len(s.heap)
	for {
		largest := i
		if l := 2*i + 1; l < n && s.heap[l] > s.heap[largest] {
			largest = l
		}
		if r := 2*i + 2; r < n && s.heap[r] > s.heap[largest] {
			largest = r
		}
		if largest == i {
			return
		}
		s.heap[i], s.heap[largest] = s.heap[largest], s.heap[i]
		i = largest
	}
}

package lzjd

import (
	"bufio"
	"bytes"
	"io"
)

// Digest is the persisted, comparable summary of one input: a bottom-k
// sketch of the input's phrase hashes plus the metadata needed to decide
// whether two digests are comparable.
//
// A Digest is immutable once constructed. Comparison (Estimate) reads
// digests but never mutates or merges them, so digests are safe for
// concurrent use.
type Digest struct {
	sourceID string
	length   uint64
	capacity int
	width    int
	values   []uint64 // sorted ascending, pairwise distinct, len <= capacity
}

// DigestBytes runs the phrase parser and sketch over data to completion and
// seals the result.
func DigestBytes(sourceID string, data []byte, opts ...Option) (Digest, error) {
	return DigestReader(sourceID, bytes.NewReader(data), opts...)
}

// DigestReader digests r to exhaustion in a single forward pass.
func DigestReader(sourceID string, r io.Reader, opts ...Option) (Digest, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Digest{}, err
	}
	return digestReader(sourceID, r, cfg)
}

func digestReader(sourceID string, r io.Reader, cfg *config) (Digest, error) {
	p, err := newParser(cfg.family, cfg.maxPhrases)
	if err != nil {
		return Digest{}, err
	}

	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	sk := newSketch(cfg.capacity)
	n, err := p.parse(br, sk.offer)
	if err != nil {
		return Digest{}, err
	}

	return Digest{
		sourceID: sourceID,
		length:   n,
		capacity: cfg.capacity,
		width:    cfg.family.Width(),
		values:   sk.values(),
	}, nil
}

// SourceID returns the identifier of the digested input.
func (d Digest) SourceID() string { return d.sourceID }

// Length returns the original input length in bytes.
func (d Digest) Length() uint64 { return d.length }

// Capacity returns the sketch capacity k the digest was built with.
func (d Digest) Capacity() int { return d.capacity }

// Width returns the phrase hash width in bits (32 or 64).
func (d Digest) Width() int { return d.width }

// Len returns the number of values retained in the sketch.
func (d Digest) Len() int { return len(d.values) }

// Saturated reports whether the sketch reached its capacity, meaning the
// input had at least k distinct phrases and the sketch is a subsample rather
// than the full phrase set.
func (d Digest) Saturated() bool { return len(d.values) == d.capacity }

// Values returns a copy of the sketch contents, sorted ascending.
func (d Digest) Values() []uint64 {
	out := make([]uint64, len(d.values))
	copy(out, d.values)
	return out
}

// Equal reports whether two digests are identical in metadata and sketch
// contents.
func (d Digest) Equal(other Digest) bool {
	if d.sourceID != other.sourceID ||
		d.length != other.length ||
		d.capacity != other.capacity ||
		d.width != other.width ||
		len(d.values) != len(other.values) {
		return false
	}
	for i, v := range d.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}

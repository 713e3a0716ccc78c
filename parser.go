package lzjd

import (
	"io"
)

// parser factors one byte stream into non-overlapping phrases, approximating
// the classic LZ factorization. Only phrase content matters, so instead of
// recording offsets and lengths, the parser keeps a set of the hashes of all
// phrases seen so far in this input. The current phrase grows one byte at a
// time through the streaming hasher and ends at the first byte whose running
// hash is unseen: the shortest extension of a known phrase. This boundary
// rule is deterministic and makes the scan a single forward pass with memory
// bounded by the seen-set, not by phrase count times hash width.
//
// A parser is NOT safe for concurrent use and holds per-input state. Each
// digest construction creates its own instance and discards it afterwards.
type parser struct {
	hasher     phraseHasher
	seen       map[uint64]struct{}
	maxPhrases int // 0 = unbounded
}

func newParser(family HashFamily, maxPhrases int) (*parser, error) {
	h, err := newPhraseHasher(family)
	if err != nil {
		return nil, err
	}
	return &parser{
		hasher:     h,
		seen:       make(map[uint64]struct{}),
		maxPhrases: maxPhrases,
	}, nil
}

// parse scans r to exhaustion and invokes emit once per phrase hash, in
// stream order. It returns the number of bytes consumed. An empty input
// emits nothing. A phrase cut short by end-of-input is emitted as-is; its
// hash may duplicate an earlier phrase, which the sketch ignores.
func (p *parser) parse(r io.ByteReader, emit func(uint64)) (uint64, error) {
	p.hasher.reset()

	var (
		n       uint64
		h       uint64
		pending bool
	)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		n++

		p.hasher.writeByte(b)
		h = p.hasher.sum()
		pending = true

		if _, ok := p.seen[h]; ok {
			// Known phrase prefix; keep extending.
			continue
		}

		if p.maxPhrases == 0 || len(p.seen) < p.maxPhrases {
			p.seen[h] = struct{}{}
		}
		emit(h)
		p.hasher.reset()
		pending = false
	}

	if pending {
		emit(h)
	}
	return n, nil
}

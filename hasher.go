package lzjd

import (
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// HashFamily identifies the hash function used for phrase hashing.
// A digest records the hash width of its family; digests built with
// different widths or families are not comparable.
type HashFamily uint16

const (
	// FamilyCRC32 uses the Castagnoli CRC-32 polynomial. Default.
	FamilyCRC32 HashFamily = 0

	// FamilyMurmur3 uses 32-bit MurmurHash3.
	FamilyMurmur3 HashFamily = 1

	// FamilyXXHash64 uses 64-bit xxHash.
	FamilyXXHash64 HashFamily = 2

	// FamilyXXH3 uses 64-bit xxHash3.
	FamilyXXH3 HashFamily = 3
)

// String returns the family name.
func (f HashFamily) String() string {
	switch f {
	case FamilyCRC32:
		return "crc32"
	case FamilyMurmur3:
		return "murmur3"
	case FamilyXXHash64:
		return "xxhash64"
	case FamilyXXH3:
		return "xxh3"
	default:
		return "unknown"
	}
}

// Width returns the hash width in bits (32 or 64), or 0 for an unknown family.
func (f HashFamily) Width() int {
	switch f {
	case FamilyCRC32, FamilyMurmur3:
		return 32
	case FamilyXXHash64, FamilyXXH3:
		return 64
	default:
		return 0
	}
}

func (f HashFamily) valid() bool {
	return f.Width() != 0
}

// phraseHasher is the streaming hash fed one byte at a time by the parser.
// All implementations are deterministic across runs and processes, which is
// required for cross-machine digest comparability.
//
// A phraseHasher is NOT safe for concurrent use. Each digest construction
// creates its own instance.
type phraseHasher interface {
	// writeByte folds one byte into the running hash.
	writeByte(b byte)

	// sum returns the hash of the bytes written since the last reset.
	// It does not disturb the running state; more bytes may be written after.
	sum() uint64

	// reset clears the running state for the next phrase.
	reset()
}

// newPhraseHasher returns a fresh streaming hasher for the family.
func newPhraseHasher(f HashFamily) (phraseHasher, error) {
	switch f {
	case FamilyCRC32:
		return &crcHasher{}, nil
	case FamilyMurmur3:
		return &murmurHasher{digest: murmur3.New32()}, nil
	case FamilyXXHash64:
		return &xxhashHasher{digest: xxhash.New()}, nil
	case FamilyXXH3:
		return &xxh3Hasher{}, nil
	default:
		return nil, lzjderrors.ErrUnknownHashFamily
	}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// crcHasher keeps the raw CRC register; per-byte updates go through the
// table-driven stdlib implementation.
type crcHasher struct {
	state uint32
	buf   [1]byte
}

func (h *crcHasher) writeByte(b byte) {
	h.buf[0] = b
	h.state = crc32.Update(h.state, castagnoli, h.buf[:])
}

func (h *crcHasher) sum() uint64 { return uint64(h.state) }

func (h *crcHasher) reset() { h.state = 0 }

type murmurHasher struct {
	digest hash.Hash32
	buf    [1]byte
}

func (h *murmurHasher) writeByte(b byte) {
	h.buf[0] = b
	_, _ = h.digest.Write(h.buf[:]) // murmur3 Write never fails
}

func (h *murmurHasher) sum() uint64 { return uint64(h.digest.Sum32()) }

func (h *murmurHasher) reset() { h.digest.Reset() }

type xxhashHasher struct {
	digest *xxhash.Digest
	buf    [1]byte
}

func (h *xxhashHasher) writeByte(b byte) {
	h.buf[0] = b
	_, _ = h.digest.Write(h.buf[:]) // xxhash Write never fails
}

func (h *xxhashHasher) sum() uint64 { return h.digest.Sum64() }

func (h *xxhashHasher) reset() { h.digest.Reset() }

type xxh3Hasher struct {
	digest xxh3.Hasher
	buf    [1]byte
}

func (h *xxh3Hasher) writeByte(b byte) {
	h.buf[0] = b
	_, _ = h.digest.Write(h.buf[:]) // xxh3 Write never fails
}

func (h *xxh3Hasher) sum() uint64 { return h.digest.Sum64() }

func (h *xxh3Hasher) reset() { h.digest.Reset() }

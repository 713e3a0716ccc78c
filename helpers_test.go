package lzjd

import (
	"encoding/binary"
	"hash/fnv"
	"math/bits"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// testRNG is a bit-exact port of math/rand/v2's *rand.Rand over a PCG source
// (DXSM output, 128-bit state), restricted to the methods these tests use.
// It exists because this module builds with a Go toolchain older than 1.22,
// where math/rand/v2 is unavailable; the port keeps every test consuming the
// exact byte streams the suite was written against.
type testRNG struct {
	hi, lo uint64
}

func (p *testRNG) next() (hi, lo uint64) {
	const (
		mulHi = 2549297995355413924
		mulLo = 4865540595714422341
		incHi = 6364136223846793005
		incLo = 1442695040888963407
	)
	hi, lo = bits.Mul64(p.lo, mulLo)
	hi += p.hi*mulLo + p.lo*mulHi
	lo, c := bits.Add64(lo, incLo, 0)
	hi, _ = bits.Add64(hi, incHi, c)
	p.lo = lo
	p.hi = hi
	return hi, lo
}

func (p *testRNG) Uint64() uint64 {
	hi, lo := p.next()
	const cheapMul = 0xda942042e4dd58b5
	hi ^= hi >> 32
	hi *= cheapMul
	hi ^= hi >> 48
	hi *= (lo | 1)
	return hi
}

func (p *testRNG) Uint32() uint32 { return uint32(p.Uint64() >> 32) }

func (p *testRNG) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 { // n is power of two, can mask
		return p.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(p.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(p.Uint64(), n)
		}
	}
	return hi
}

func (p *testRNG) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("invalid argument to Uint64N")
	}
	return p.uint64n(n)
}

func (p *testRNG) IntN(n int) int {
	if n <= 0 {
		panic("invalid argument to IntN")
	}
	return int(p.uint64n(uint64(n)))
}

func (p *testRNG) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("invalid argument to Shuffle")
	}
	for i := n - 1; i > 0; i-- {
		j := int(p.uint64n(uint64(i + 1)))
		swap(i, j)
	}
}

func newTestRNG(t testing.TB) *testRNG {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return &testRNG{hi: testSeed1 ^ s1, lo: testSeed2 ^ s2}
}

// randomBytes fills a buffer with bytes drawn from alphabet, or from the
// full byte range when alphabet is nil.
func randomBytes(rng *testRNG, n int, alphabet []byte) []byte {
	buf := make([]byte, n)
	if alphabet == nil {
		for i := range buf {
			buf[i] = byte(rng.Uint32())
		}
		return buf
	}
	for i := range buf {
		buf[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return buf
}

// byteRange returns the bytes [lo, hi] inclusive.
func byteRange(lo, hi byte) []byte {
	out := make([]byte, 0, int(hi)-int(lo)+1)
	for b := int(lo); b <= int(hi); b++ {
		out = append(out, byte(b))
	}
	return out
}

// makeDigest builds a digest directly from sorted distinct sketch values,
// bypassing the parser. Values must be strictly ascending.
func makeDigest(t testing.TB, id string, width, capacity int, values ...uint64) Digest {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("makeDigest %s: values not strictly ascending at %d", id, i)
		}
	}
	return Digest{
		sourceID: id,
		length:   uint64(len(values)),
		capacity: capacity,
		width:    width,
		values:   values,
	}
}

func checkSortedDistinct(t *testing.T, values []uint64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("values not strictly ascending at index %d: %d then %d", i, values[i-1], values[i])
		}
	}
}

package lzjd

import (
	"fmt"
	"testing"
)

func BenchmarkDigestBytes(b *testing.B) {
	rng := newTestRNG(b)
	data := randomBytes(rng, 1<<20, nil)

	for _, family := range []HashFamily{FamilyCRC32, FamilyMurmur3, FamilyXXHash64, FamilyXXH3} {
		b.Run(family.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := DigestBytes("bench", data, WithHashFamily(family)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSketchOffer(b *testing.B) {
	rng := newTestRNG(b)
	offers := make([]uint64, 1<<16)
	for i := range offers {
		offers[i] = rng.Uint64()
	}

	for _, k := range []int{64, 1024, 8192} {
		b.Run(fmt.Sprintf("k%d", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := newSketch(k)
				for _, v := range offers {
					s.offer(v)
				}
			}
		})
	}
}

func BenchmarkEstimate(b *testing.B) {
	rng := newTestRNG(b)
	x, err := DigestBytes("x", randomBytes(rng, 1<<20, byteRange(0, 191)))
	if err != nil {
		b.Fatal(err)
	}
	y, err := DigestBytes("y", randomBytes(rng, 1<<20, byteRange(64, 255)))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Estimate(x, y); err != nil {
			b.Fatal(err)
		}
	}
}

// Package lzjd implements the Lempel-Ziv Jaccard Distance, an approximate
// similarity measure between byte streams that does not require exact
// byte-for-byte comparison or full-content storage.
//
// Each input is factored into non-overlapping phrases by a greedy LZ-style
// parse. The phrases are hashed and the k smallest distinct hash values are
// retained in a bottom-k sketch. Two sketches estimate the Jaccard similarity
// of the underlying phrase sets, which tracks how similar the original byte
// streams are. The sketch is a fixed-size summary, so a corpus of digests can
// be compared pairwise without rereading any input.
//
// # Basic Usage
//
// Digesting and comparing two inputs:
//
//	a, err := lzjd.DigestBytes("a.bin", dataA)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := lzjd.DigestBytes("b.bin", dataB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cmp, err := lzjd.Estimate(a, b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("similarity: %.3f\n", cmp.Similarity)
//
// Digesting many files in parallel and comparing all pairs:
//
//	sources := []lzjd.Source{lzjd.FileSource("a.bin"), lzjd.FileSource("b.bin")}
//	digests, srcErrs, err := lzjd.DigestAll(ctx, sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, pairErrs, err := lzjd.CompareAll(ctx, digests, 0.5)
//
// Digests persist as one text line each (Encode/Decode/ReadDigests) and are
// portable across machines as long as the hash family configuration matches.
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Digest construction: digest.go (DigestBytes, DigestReader, DigestFile)
//   - Parsing: parser.go (greedy LZ factorization into phrase hashes)
//   - Sketch: sketch.go (bottom-k retention of phrase hashes)
//   - Comparison: estimate.go (Estimate, Comparison)
//   - Batch orchestration: batch.go (DigestAll, CompareAll, CompareSets)
//   - Serialization: codec.go (Encode, Decode, ReadDigests)
//   - Hash families: hasher.go (HashFamily, streaming hasher adapters)
//   - Configuration: options.go (Option, With* functions)
//   - Input sources: source.go (FileSource, BytesSource), fadvise_*.go
//     (OS-specific read hints)
package lzjd

package lzjd

import (
	"context"
	"errors"
	"testing"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// failingSource simulates an unreadable input.
type failingSource struct {
	id  string
	err error
}

func (s failingSource) ID() string { return s.id }

func (s failingSource) Bytes() ([]byte, func() error, error) { return nil, nil, s.err }

func TestDigestAllOrderAndIsolation(t *testing.T) {
	rng := newTestRNG(t)
	readErr := errors.New("disk on fire")
	sources := []Source{
		BytesSource{Name: "a", Data: randomBytes(rng, 2048, nil)},
		failingSource{id: "b", err: readErr},
		BytesSource{Name: "c", Data: randomBytes(rng, 2048, nil)},
	}

	digests, srcErrs, err := DigestAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("DigestAll: %v", err)
	}
	if len(digests) != 2 || digests[0].SourceID() != "a" || digests[1].SourceID() != "c" {
		t.Fatalf("digests: got %d entries, want a then c", len(digests))
	}
	if len(srcErrs) != 1 {
		t.Fatalf("got %d source errors, want 1", len(srcErrs))
	}
	if srcErrs[0].ID != "b" || !errors.Is(srcErrs[0], readErr) {
		t.Errorf("source error %v not attributed to b", srcErrs[0])
	}
}

func TestDigestAllNoSources(t *testing.T) {
	_, _, err := DigestAll(context.Background(), nil)
	if !errors.Is(err, lzjderrors.ErrNoSources) {
		t.Errorf("got %v, want ErrNoSources", err)
	}
}

func TestDigestAllConfigError(t *testing.T) {
	sources := []Source{BytesSource{Name: "a", Data: []byte("x")}}
	_, _, err := DigestAll(context.Background(), sources, WithCapacity(0))
	if !errors.Is(err, lzjderrors.ErrInvalidCapacity) {
		t.Errorf("got %v, want ErrInvalidCapacity", err)
	}
}

func TestDigestAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []Source{BytesSource{Name: "a", Data: []byte("x")}}
	_, _, err := DigestAll(ctx, sources)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func digestSources(t *testing.T, sources []Source, opts ...Option) []Digest {
	t.Helper()
	digests, srcErrs, err := DigestAll(context.Background(), sources, opts...)
	if err != nil {
		t.Fatalf("DigestAll: %v", err)
	}
	if len(srcErrs) != 0 {
		t.Fatalf("unexpected source errors: %v", srcErrs)
	}
	return digests
}

func TestCompareAllPairCount(t *testing.T) {
	rng := newTestRNG(t)
	const n = 5
	sources := make([]Source, n)
	for i := range sources {
		sources[i] = BytesSource{
			Name: string(rune('a' + i)),
			Data: randomBytes(rng, 4096, nil),
		}
	}
	digests := digestSources(t, sources)

	results, pairErrs, err := CompareAll(context.Background(), digests, 0)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(pairErrs) != 0 {
		t.Fatalf("unexpected pair errors: %v", pairErrs)
	}
	if want := n * (n - 1) / 2; len(results) != want {
		t.Fatalf("got %d results, want %d", len(results), want)
	}
	seen := make(map[string]struct{}, len(results))
	for _, c := range results {
		if c.LeftID == c.RightID {
			t.Errorf("self-pair reported: %v", c)
		}
		key := c.LeftID + "|" + c.RightID
		if _, dup := seen[key]; dup {
			t.Errorf("duplicate pair reported: %v", c)
		}
		seen[key] = struct{}{}
	}
}

func TestCompareAllThresholdScenario(t *testing.T) {
	rng := newTestRNG(t)
	shared := randomBytes(rng, 8192, byteRange(0, 127))
	sources := []Source{
		BytesSource{Name: "left", Data: shared},
		BytesSource{Name: "right", Data: shared},
		BytesSource{Name: "other", Data: randomBytes(rng, 8192, byteRange(128, 255))},
	}
	digests := digestSources(t, sources)

	results, pairErrs, err := CompareAll(context.Background(), digests, 0.5)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(pairErrs) != 0 {
		t.Fatalf("unexpected pair errors: %v", pairErrs)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results above threshold, want 1", len(results))
	}
	if results[0].LeftID != "left" || results[0].RightID != "right" {
		t.Errorf("wrong pair reported: %v", results[0])
	}
	if results[0].Similarity != 1.0 {
		t.Errorf("identical sources: similarity %v, want 1.0", results[0].Similarity)
	}
}

func TestCompareAllOrderingDeterministic(t *testing.T) {
	const k = 4
	digests := []Digest{
		makeDigest(t, "a", 64, k, 1, 2, 3),
		makeDigest(t, "b", 64, k, 1, 2, 3),
		makeDigest(t, "c", 64, k, 1, 2, 40),
	}

	results, _, err := CompareAll(context.Background(), digests, 0)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	// a-b are identical (1.0); a-c and b-c tie at 2/4 and order by IDs.
	wantPairs := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	for i, want := range wantPairs {
		if results[i].LeftID != want[0] || results[i].RightID != want[1] {
			t.Errorf("result %d: got %s/%s, want %s/%s",
				i, results[i].LeftID, results[i].RightID, want[0], want[1])
		}
	}
}

func TestCompareAllIncompatiblePairIsolated(t *testing.T) {
	digests := []Digest{
		makeDigest(t, "w32a", 32, 8, 1, 2, 3),
		makeDigest(t, "w32b", 32, 8, 1, 2, 3),
		makeDigest(t, "w64", 64, 8, 1, 2, 3),
	}

	results, pairErrs, err := CompareAll(context.Background(), digests, 0)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if len(pairErrs) != 2 {
		t.Fatalf("got %d pair errors, want 2", len(pairErrs))
	}
	for _, pe := range pairErrs {
		if !errors.Is(pe, lzjderrors.ErrIncompatibleDigests) {
			t.Errorf("pair error %v does not wrap ErrIncompatibleDigests", pe)
		}
	}
}

func TestCompareSetsCrossCount(t *testing.T) {
	rng := newTestRNG(t)
	a := digestSources(t, []Source{
		BytesSource{Name: "a1", Data: randomBytes(rng, 2048, nil)},
		BytesSource{Name: "a2", Data: randomBytes(rng, 2048, nil)},
	})
	b := digestSources(t, []Source{
		BytesSource{Name: "b1", Data: randomBytes(rng, 2048, nil)},
		BytesSource{Name: "b2", Data: randomBytes(rng, 2048, nil)},
		BytesSource{Name: "b3", Data: randomBytes(rng, 2048, nil)},
	})

	results, pairErrs, err := CompareSets(context.Background(), a, b, 0)
	if err != nil {
		t.Fatalf("CompareSets: %v", err)
	}
	if len(pairErrs) != 0 {
		t.Fatalf("unexpected pair errors: %v", pairErrs)
	}
	if len(results) != len(a)*len(b) {
		t.Fatalf("got %d results, want %d", len(results), len(a)*len(b))
	}
}

func TestCompareAllThresholdRange(t *testing.T) {
	digests := []Digest{
		makeDigest(t, "a", 32, 4, 1),
		makeDigest(t, "b", 32, 4, 2),
	}
	for _, threshold := range []float64{-0.1, 1.5} {
		if _, _, err := CompareAll(context.Background(), digests, threshold); !errors.Is(err, lzjderrors.ErrThresholdRange) {
			t.Errorf("threshold %v: got %v, want ErrThresholdRange", threshold, err)
		}
	}
}

func TestCompareAllSingleWorker(t *testing.T) {
	rng := newTestRNG(t)
	sources := make([]Source, 4)
	for i := range sources {
		sources[i] = BytesSource{Name: string(rune('a' + i)), Data: randomBytes(rng, 1024, nil)}
	}
	digests := digestSources(t, sources, WithWorkers(1))

	parallel, _, err := CompareAll(context.Background(), digests, 0)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	serial, _, err := CompareAll(context.Background(), digests, 0, WithWorkers(1))
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(parallel) != len(serial) {
		t.Fatalf("result counts differ: %d vs %d", len(parallel), len(serial))
	}
	for i := range parallel {
		if parallel[i] != serial[i] {
			t.Errorf("result %d differs: %v vs %v", i, parallel[i], serial[i])
		}
	}
}

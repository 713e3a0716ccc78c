package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tamirms/lzjd"
	lzjderrors "github.com/tamirms/lzjd/errors"
)

type runOptions struct {
	compare    bool
	deep       bool
	genCompare bool
	output     string
	threshold  float64 // percent, 0-100
	threads    int
}

var errPartialFailure = errors.New("some inputs failed")

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "lzjd [flags] INPUT...",
		Short: "Lempel-Ziv Jaccard distance of input binaries",
		Long: `lzjd digests byte streams with the Lempel-Ziv Jaccard distance and
compares the digests pairwise, for near-duplicate detection and fuzzy file
matching.

Without flags, every INPUT is digested and written as one digest line.
With --gen-compare, all inputs are digested and all pairs compared.
With --compare, inputs are digest files produced earlier: one file compares
its digests against each other, two files are compared cross-wise.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, stdout, stderr)
		},
	}

	cmd.Flags().BoolVarP(&opts.compare, "compare", "c", false, "compare digests in a file, or two digest files")
	cmd.Flags().BoolVarP(&opts.deep, "deep", "r", false, "descend directories, digesting every contained file")
	cmd.Flags().BoolVarP(&opts.genCompare, "gen-compare", "g", false, "generate digests for all inputs, then compare all pairs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write results to FILE instead of standard output")
	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", 1, "only report results at or above this similarity percentage")
	cmd.Flags().IntVarP(&opts.threads, "threads", "p", runtime.NumCPU(), "restrict compute workers to N threads")

	return cmd
}

func run(ctx context.Context, opts *runOptions, args []string, stdout, stderr io.Writer) error {
	// Configuration errors are fatal before any work starts.
	if opts.threshold < 0 || opts.threshold > 100 {
		return fmt.Errorf("threshold %v not in [0, 100]: %w", opts.threshold, lzjderrors.ErrThresholdRange)
	}
	if opts.threads < 1 {
		return lzjderrors.ErrInvalidWorkers
	}
	if opts.compare && opts.genCompare {
		return errors.New("--compare and --gen-compare are mutually exclusive")
	}

	out, closeOut, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	runErr := dispatch(ctx, opts, args, out, stderr)
	if err := closeOut(); runErr == nil {
		runErr = err
	}
	return runErr
}

func dispatch(ctx context.Context, opts *runOptions, args []string, out, stderr io.Writer) error {
	if opts.compare {
		return runCompare(ctx, opts, args, out, stderr)
	}

	inputs, err := collectInputs(args, opts.deep)
	if err != nil {
		return err
	}
	sources := make([]lzjd.Source, len(inputs))
	for i, path := range inputs {
		sources[i] = lzjd.FileSource(path)
	}

	digests, srcErrs, err := lzjd.DigestAll(ctx, sources, lzjd.WithWorkers(opts.threads))
	if err != nil {
		return err
	}
	for _, se := range srcErrs {
		fmt.Fprintf(stderr, "lzjd: %v\n", se)
	}
	if len(digests) == 0 {
		return lzjderrors.ErrAllSourcesFailed
	}

	if opts.genCompare {
		results, pairErrs, err := lzjd.CompareAll(ctx, digests, opts.threshold/100, lzjd.WithWorkers(opts.threads))
		if err != nil {
			return err
		}
		for _, pe := range pairErrs {
			fmt.Fprintf(stderr, "lzjd: %v\n", pe)
		}
		if err := writeResults(out, results); err != nil {
			return err
		}
		if len(srcErrs) > 0 || len(pairErrs) > 0 {
			return errPartialFailure
		}
		return nil
	}

	for _, d := range digests {
		line, err := lzjd.Encode(d)
		if err != nil {
			fmt.Fprintf(stderr, "lzjd: %s: %v\n", d.SourceID(), err)
			srcErrs = append(srcErrs, lzjd.SourceError{ID: d.SourceID(), Err: err})
			continue
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	if len(srcErrs) > 0 {
		return errPartialFailure
	}
	return nil
}

func runCompare(ctx context.Context, opts *runOptions, args []string, out, stderr io.Writer) error {
	if len(args) > 2 {
		return fmt.Errorf("got %d inputs: %w", len(args), lzjderrors.ErrTooManyCompareInputs)
	}

	var (
		sets       [][]lzjd.Digest
		lineErrors int
	)
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		digests, errs := lzjd.ReadDigests(f)
		f.Close()
		for _, le := range errs {
			fmt.Fprintf(stderr, "lzjd: %s: %v\n", path, le)
		}
		lineErrors += len(errs)
		sets = append(sets, digests)
	}

	var (
		results  []lzjd.Comparison
		pairErrs []lzjd.PairError
		err      error
	)
	threshold := opts.threshold / 100
	if len(sets) == 1 {
		results, pairErrs, err = lzjd.CompareAll(ctx, sets[0], threshold, lzjd.WithWorkers(opts.threads))
	} else {
		results, pairErrs, err = lzjd.CompareSets(ctx, sets[0], sets[1], threshold, lzjd.WithWorkers(opts.threads))
	}
	if err != nil {
		return err
	}
	for _, pe := range pairErrs {
		fmt.Fprintf(stderr, "lzjd: %v\n", pe)
	}
	if err := writeResults(out, results); err != nil {
		return err
	}
	if lineErrors > 0 || len(pairErrs) > 0 {
		return errPartialFailure
	}
	return nil
}

// collectInputs expands the positional arguments into concrete file paths.
// With deep set, directories are walked and every regular file inside is a
// separate source.
func collectInputs(args []string, deep bool) ([]string, error) {
	if !deep {
		return args, nil
	}
	var paths []string
	for _, root := range args {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// writeResults emits one line per reported pair: the similarity on the
// percentage scale, then the two source ids. Results arrive already in
// deterministic order.
func writeResults(w io.Writer, results []lzjd.Comparison) error {
	for _, c := range results {
		pct := int(math.Round(c.Similarity * 100))
		if _, err := fmt.Fprintf(w, "%03d %s %s\n", pct, c.LeftID, c.RightID); err != nil {
			return err
		}
	}
	return nil
}

// openOutput returns the buffered result writer and a close function that
// flushes it (and closes the file when --output was given).
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		w := bufio.NewWriter(stdout)
		return w, w.Flush, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	w := bufio.NewWriter(f)
	closeOut := func() error {
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return w, closeOut, nil
}

// Package main provides the lzjd command, which digests files with the
// Lempel-Ziv Jaccard distance and compares the digests pairwise.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
)

// main is the composition root: it loads backend config, opens one engine
// and runs a single query against it.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

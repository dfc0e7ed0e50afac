// Command patchc compiles and runs patch documents: load a YAML patch,
// run it through the Graph Compiler and IR Builder, then either report
// diagnostics, execute a single frame, or export a frame range.
package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

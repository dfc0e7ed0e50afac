package main

import (
	"fmt"

	"github.com/katalvlaran/patchcore/compile"
	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/patch"
	"github.com/katalvlaran/patchcore/registry"
)

// loadAndCompile reads the patch document at path, compiles it against the
// full builtin registry (transforms + core blocks + render blocks), and
// returns the patch alongside the compile result. Callers decide whether a
// non-empty res.Errors is fatal for their subcommand.
func loadAndCompile(path string) (*patch.Patch, *compile.Result, error) {
	p, err := patch.Load(path)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(log.Scoped("registry"))
	if err := registry.RegisterBuiltins(reg); err != nil {
		return nil, nil, fmt.Errorf("patchc: registering builtins: %w", err)
	}

	blocks := compile.NewBuiltinBlockRegistry()
	compile.RegisterRenderBlocks(blocks)

	res := compile.Compile(p, reg, blocks, cfg, log)
	return p, res, nil
}

// buildIR compiles path and lowers the result into an ir.Program. If the
// compile produced any errors it returns a nil Program and a nil error,
// leaving callers to report res.Errors; ToIR is not called on a broken
// compile, so no partial Program is emitted.
func buildIR(path string) (*patch.Patch, *ir.Program, *compile.Result, error) {
	p, res, err := loadAndCompile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(res.Errors) > 0 {
		return p, nil, res, nil
	}
	prog, err := compile.ToIR(res, p)
	if err != nil {
		return p, nil, res, err
	}
	return p, prog, res, nil
}

func printDiagnostics(res *compile.Result) {
	for _, e := range res.Errors {
		fmt.Printf("error: [%s] %s", e.Code, e.Message)
		if e.At.BlockID != "" {
			fmt.Printf(" (block=%s)", e.At.BlockID)
		}
		if e.At.BusID != "" {
			fmt.Printf(" (bus=%s)", e.At.BusID)
		}
		fmt.Println()
	}
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s", w.Message)
		if w.At.BlockID != "" {
			fmt.Printf(" (block=%s)", w.At.BlockID)
		}
		fmt.Println()
	}
}

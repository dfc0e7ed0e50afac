package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompileCmd builds the `compile` subcommand: load a patch document,
// run it through the Graph Compiler and IR Builder, and report either the
// resulting schedule summary or the diagnostics that blocked it.
func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <patch.yaml>",
		Short: "Compile a patch document and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, prog, res, err := buildIR(args[0])
			if err != nil {
				return err
			}
			printDiagnostics(res)
			if len(res.Errors) > 0 {
				return fmt.Errorf("patchc: compile failed with %d error(s)", len(res.Errors))
			}

			fmt.Printf("compiled ok: %d schedule step(s), %d output(s), %d closure(s)\n",
				len(prog.Schedule.Steps), len(prog.Outputs), len(prog.ClosureTable))
			for _, name := range prog.Schedule.Determinism.AllowedOrderingInputs {
				fmt.Printf("  ordering input: %s\n", name)
			}
			return nil
		},
	}
	return cmd
}

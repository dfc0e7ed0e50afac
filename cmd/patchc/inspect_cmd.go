package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newInspectCmd builds the `inspect` subcommand: compile a patch and print
// its schedule, outputs, state layout, and debug labels without executing
// any frames — the static counterpart to `run`.
func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <patch.yaml>",
		Short: "Print a compiled patch's schedule and IR layout",
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

			fmt.Println("schedule:")
			for _, step := range prog.Schedule.Steps {
				fmt.Printf("  %-20s %s\n", step.Kind, step.ID)
			}

			fmt.Println("outputs:")
			for _, o := range prog.Outputs {
				fmt.Printf("  %s (%s)\n", o.ID, o.Kind)
			}

			fmt.Println("state layout:")
			for _, cell := range prog.StateLayout {
				fmt.Printf("  %s: %s x%d\n", cell.Label, cell.Kind, cell.Size)
			}

			labels := make([]string, 0, len(prog.DebugIndex))
			for k := range prog.DebugIndex {
				labels = append(labels, k)
			}
			sort.Strings(labels)
			fmt.Println("debug labels:")
			for _, k := range labels {
				fmt.Printf("  %s -> %s\n", k, prog.DebugIndex[k])
			}

			return nil
		},
	}
	return cmd
}

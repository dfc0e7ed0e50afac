package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/internal/output"
)

var (
	configFlag  string
	verboseFlag bool

	cfg *config.Config
	log *output.Logger
)

// newRootCmd builds the patchc command tree. Mirrors
// open-platform-model-cli's root command: persistent flags resolved once
// in PersistentPreRunE, subcommands read the resolved *config.Config and
// *output.Logger package vars rather than re-parsing flags themselves.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "patchc",
		Short:         "Compile and run visual patching documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			loaded.Verbose = loaded.Verbose || verboseFlag
			cfg = loaded
			log = output.New(output.Config{Verbose: cfg.Verbose})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFlag, "config", "", "path to a config file (env: PATCHCORE_*)")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newInspectCmd())

	return root
}

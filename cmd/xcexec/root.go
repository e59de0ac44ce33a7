package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	dryRun  bool
	format  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "xcexec",
		Short:         "xcexec runs a build execution core over a declarative target/invocation description",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Run without any filesystem or subprocess side effects")
	cmd.PersistentFlags().StringVar(&flags.format, "format", "human", "Formatter to use: human, json, or tui")

	cmd.AddCommand(newBuildCmd(flags))

	return cmd
}

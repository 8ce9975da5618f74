package main

import (
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cli",
		Short:         "Muscle AI waitlist tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMigrateCmd(logger))
	rootCmd.AddCommand(newSetupTableCmd(logger))
	rootCmd.AddCommand(newJoinCmd(logger))

	return rootCmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/config"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sectionforge",
		Short:         "Define, validate and render theme sections from a declarative document",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultFile, "Path to the project file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSectionsCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newSnapshotCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

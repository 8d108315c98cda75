package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	"github.com/alexisbeaulieu97/sectionforge/internal/store"
	"github.com/alexisbeaulieu97/sectionforge/internal/ui"
)

func newSnapshotCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and restore stored document snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSnapshotListCmd(root))
	cmd.AddCommand(newSnapshotRestoreCmd(root))
	cmd.AddCommand(newSnapshotPruneCmd(root))

	return cmd
}

func newSnapshotListCmd(root *rootFlags) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			snaps, err := app.Store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(nonNil(snaps))
			}
			renderSnapshots(cmd, snaps)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of snapshots to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderSnapshots(cmd *cobra.Command, snaps []store.Snapshot) {
	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots stored yet.")
		fmt.Fprintln(out, "\nRun 'sectionforge export' or 'sectionforge validate --save' to store one.")
		return
	}

	styles := ui.New(out)
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			s.ID,
			s.Label,
			s.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d B", s.Size),
		})
	}
	fmt.Fprint(out, styles.Table([]string{"ID", "LABEL", "CREATED", "SIZE"}, rows))
}

func newSnapshotRestoreCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Write a stored snapshot back to the document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			backup, snap, err := app.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := document.Save(app.Config.Document, backup); err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}

			app.Logger.WithFields(map[string]any{"snapshot": snap.ID, "path": app.Config.Document}).Info("snapshot restored")
			fmt.Fprintf(cmd.OutOrStdout(), "Restored snapshot %s (%s) to %s\n", snap.ID, snap.Label, app.Config.Document)
			return nil
		},
	}
	return cmd
}

func newSnapshotPruneCmd(root *rootFlags) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 1 {
				return fmt.Errorf("--keep must be at least 1")
			}
			app, err := newAppContext(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			removed, err := app.Store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshots, kept %d\n", removed, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of snapshots to keep")
	return cmd
}

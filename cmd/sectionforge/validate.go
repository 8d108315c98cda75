package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	"github.com/alexisbeaulieu97/sectionforge/internal/export"
	"github.com/alexisbeaulieu97/sectionforge/internal/ui"
	"github.com/alexisbeaulieu97/sectionforge/internal/validation"
)

type validateOptions struct {
	save       bool
	jsonOutput bool
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the theme document and report repaired settings",
		Long: `Validate loads the theme document, migrates legacy section ids, reconciles
page orders and re-validates every stored section config. Nothing is written
unless --save is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.save, "save", false, "Write the migrated and reconciled document back and store a snapshot")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, opts *validateOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	ws, err := app.loadWorkspace(ctx)
	if err != nil {
		return err
	}

	result, err := app.Pipeline.Export(ctx, ws.Document, app.Config.TierValue())
	if err != nil {
		return newCommandError("validate", "rendering the document", err, "Check the templates directory and content file.")
	}

	if opts.save {
		if err := app.saveWorkspace(ctx, ws.Document, "validate"); err != nil {
			return err
		}
	}

	if opts.jsonOutput {
		return renderValidateJSON(cmd.OutOrStdout(), app.Config.Document, ws, result.Report, opts.save)
	}
	renderValidateText(cmd.OutOrStdout(), app.Config.Document, ws, result.Report, opts.save)
	return nil
}

type sectionIssue struct {
	Page     string               `json:"page"`
	ID       string               `json:"id"`
	Warnings []validation.Warning `json:"warnings,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func collectIssues(report *export.Report) (warnings, unknown []sectionIssue) {
	for _, e := range report.Entries {
		if len(e.Warnings) > 0 {
			warnings = append(warnings, sectionIssue{Page: e.Page, ID: e.ID, Warnings: e.Warnings})
		}
		if e.Status == export.StatusUnknown {
			unknown = append(unknown, sectionIssue{Page: e.Page, ID: e.ID, Error: e.Error})
		}
	}
	return warnings, unknown
}

type validateJSONPayload struct {
	Document   string                `json:"document"`
	Source     workspaceSource       `json:"source"`
	SnapshotID string                `json:"snapshotId,omitempty"`
	LoadError  string                `json:"loadError,omitempty"`
	Renames    []document.Rename     `json:"renames"`
	Dropped    []document.OrderIssue `json:"dropped"`
	Seeded     []document.Seeded     `json:"seeded"`
	Sections   int                   `json:"sections"`
	Warnings   []sectionIssue        `json:"warnings"`
	Unknown    []sectionIssue        `json:"unknown"`
	Saved      bool                  `json:"saved"`
}

func renderValidateJSON(w io.Writer, path string, ws *workspace, report *export.Report, saved bool) error {
	warnings, unknown := collectIssues(report)
	payload := validateJSONPayload{
		Document:   path,
		Source:     ws.Source,
		SnapshotID: ws.SnapshotID,
		Renames:    nonNil(ws.Renames),
		Dropped:    nonNil(ws.Reconcile.Dropped),
		Seeded:     nonNil(ws.Reconcile.Seeded),
		Sections:   len(report.Entries),
		Warnings:   nonNil(warnings),
		Unknown:    nonNil(unknown),
		Saved:      saved,
	}
	if ws.Source == sourceSnapshot && ws.LoadErr != nil {
		payload.LoadError = ws.LoadErr.Error()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func renderValidateText(w io.Writer, path string, ws *workspace, report *export.Report, saved bool) {
	styles := ui.New(w)
	warnings, unknown := collectIssues(report)

	fmt.Fprintf(w, "Document: %s %s\n", path, styles.Muted("("+string(ws.Source)+")"))
	if ws.Source == sourceSnapshot {
		fmt.Fprintf(w, "%s file is malformed, loaded snapshot %s\n", styles.Badge("!", ui.VariantWarning), ws.SnapshotID)
		fmt.Fprintf(w, "  %v\n", ws.LoadErr)
	}

	for _, r := range ws.Renames {
		fmt.Fprintf(w, "Migrated: %s/%s -> %s\n", r.Page, r.From, r.To)
	}
	for _, d := range ws.Reconcile.Dropped {
		fmt.Fprintf(w, "Dropped:  %s/%s (%s)\n", d.Page, d.ID, d.Reason)
	}
	for _, s := range ws.Reconcile.Seeded {
		fmt.Fprintf(w, "Seeded:   %s/%s\n", s.Page, s.ID)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w, styles.Heading("Repaired settings"))
		for _, issue := range warnings {
			for _, warning := range issue.Warnings {
				fmt.Fprintf(w, "  %s/%s  %s\n", issue.Page, issue.ID, warning)
			}
		}
	}
	if len(unknown) > 0 {
		fmt.Fprintln(w, styles.Heading("Skipped sections"))
		for _, issue := range unknown {
			fmt.Fprintf(w, "  %s/%s  %s\n", issue.Page, issue.ID, issue.Error)
		}
	}

	summary := fmt.Sprintf("%d sections checked, %d warnings, %d unknown", len(report.Entries), report.WarningCount(), len(unknown))
	if report.WarningCount() == 0 && len(unknown) == 0 {
		fmt.Fprintf(w, "%s %s\n", styles.Badge("✔", ui.VariantSuccess), summary)
	} else {
		fmt.Fprintf(w, "%s %s\n", styles.Badge("⚠", ui.VariantWarning), summary)
	}

	switch {
	case saved:
		fmt.Fprintln(w, "Document saved.")
	case ws.Changed():
		fmt.Fprintln(w, styles.Muted("Run with --save to write these changes."))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

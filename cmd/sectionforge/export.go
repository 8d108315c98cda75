package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/export"
	"github.com/alexisbeaulieu97/sectionforge/internal/ui"
)

type exportOptions struct {
	tier   string
	diff   bool
	dryRun bool
}

func newExportCmd(root *rootFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page of the theme document into the output directory",
		Long: `Export validates and renders every active section of the theme document
and writes one file per page, one fragment per section and a manifest.
A successful export stores the document as a snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			return runExport(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.tier, "tier", "", "Export as this tier (free or premium); defaults to the project tier")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Print a unified diff against the current output directory")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Render and compare without writing files")

	return cmd
}

func runExport(ctx context.Context, app *AppContext, opts *exportOptions, out io.Writer) error {
	tier, err := resolveTier(opts.tier, app.Config.TierValue())
	if err != nil {
		return err
	}

	ws, err := app.loadWorkspace(ctx)
	if err != nil {
		return err
	}

	result, err := app.Pipeline.Export(ctx, ws.Document, tier)
	if err != nil {
		return newCommandError("export", "rendering the document", err, "Run 'sectionforge validate' for details.")
	}

	styles := ui.New(out)
	if opts.diff || opts.dryRun {
		changes, err := export.Diff(app.Config.Output, result.Artifacts)
		if err != nil {
			return err
		}
		renderChanges(out, styles, changes, opts.diff)
	}

	if opts.dryRun {
		fmt.Fprintln(out, styles.Muted("Dry run: nothing written."))
		return nil
	}

	if err := export.WriteDir(app.Config.Output, result.Artifacts); err != nil {
		return newCommandError("export", "writing "+app.Config.Output, err, "Check that the output directory is writable.")
	}
	if err := app.snapshot(ctx, ws.Document, "export"); err != nil {
		return err
	}

	renderExportSummary(out, styles, app.Config.Output, result)
	return nil
}

func renderChanges(out io.Writer, styles *ui.Styles, changes []export.Change, withDiff bool) {
	counts := map[export.ChangeKind]int{}
	for _, c := range changes {
		counts[c.Kind]++
		switch c.Kind {
		case export.ChangeAdded:
			fmt.Fprintf(out, "%s %s\n", styles.Badge("+", ui.VariantSuccess), c.Path)
		case export.ChangeModified:
			fmt.Fprintf(out, "%s %s\n", styles.Badge("~", ui.VariantWarning), c.Path)
			if withDiff && c.Diff != "" {
				fmt.Fprint(out, c.Diff)
			}
		case export.ChangeRemoved:
			fmt.Fprintf(out, "%s %s\n", styles.Badge("-", ui.VariantDanger), c.Path)
		}
	}
	fmt.Fprintf(out, "%d added, %d modified, %d removed, %d unchanged\n",
		counts[export.ChangeAdded], counts[export.ChangeModified], counts[export.ChangeRemoved], counts[export.ChangeUnchanged])
}

func renderExportSummary(out io.Writer, styles *ui.Styles, dir string, result *export.Result) {
	report := result.Report
	fmt.Fprintf(out, "%s Exported %d files to %s\n", styles.Badge("✔", ui.VariantSuccess), len(result.Artifacts), dir)
	fmt.Fprintf(out, "  %d rendered, %d placeholder, %d omitted, %d hidden, %d unknown\n",
		report.Count(export.StatusRendered),
		report.Count(export.StatusPlaceholder),
		report.Count(export.StatusOmitted),
		report.Count(export.StatusHidden),
		report.Count(export.StatusUnknown),
	)
	if n := report.WarningCount(); n > 0 {
		fmt.Fprintf(out, "  %s\n", styles.Badge(fmt.Sprintf("%d settings repaired; run 'sectionforge validate' for details", n), ui.VariantWarning))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/sections"
)

type previewOptions struct {
	page   string
	tier   string
	output string
}

func newPreviewCmd(root *rootFlags) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one page through the preview backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.page, "page", sections.HomePage, "Page template key to render")
	cmd.Flags().StringVar(&opts.tier, "tier", "", "Render as this tier (free or premium); defaults to the project tier")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Write the page to a file instead of stdout")

	return cmd
}

func runPreview(cmd *cobra.Command, root *rootFlags, opts *previewOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	tier, err := resolveTier(opts.tier, app.Config.TierValue())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, err := app.loadWorkspace(ctx)
	if err != nil {
		return err
	}

	markup, report, err := app.Pipeline.PreviewPage(ctx, ws.Document, opts.page, tier)
	if err != nil {
		return err
	}

	app.Logger.WithFields(map[string]any{
		"page":     opts.page,
		"tier":     string(tier),
		"rendered": len(report.Pages[opts.page]),
		"warnings": report.WarningCount(),
	}).Debug("preview rendered")

	if opts.output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), markup)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Preview of %q written to %s\n", opts.page, opts.output)
	return nil
}

// resolveTier parses a --tier flag, falling back to the project tier.
func resolveTier(flag string, fallback gate.Tier) (gate.Tier, error) {
	if flag == "" {
		return fallback, nil
	}
	return gate.ParseTier(flag)
}

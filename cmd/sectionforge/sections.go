package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexisbeaulieu97/sectionforge/internal/config"
	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/registry"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
	"github.com/alexisbeaulieu97/sectionforge/internal/ui"
)

type sectionsOptions struct {
	category   string
	jsonOutput bool
}

func newSectionsCmd(root *rootFlags) *cobra.Command {
	opts := &sectionsOptions{}

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List registered section definitions",
		Long: `List every built-in section definition with its category and premium
classification. The gate block of the project file is applied when the file exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "Only list definitions in this category")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runSections(cmd *cobra.Command, root *rootFlags, opts *sectionsOptions) error {
	log, err := newLogger("warn", root.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	g := gate.Open()
	if _, statErr := os.Stat(root.configPath); statErr == nil {
		cfg, err := config.ParseConfig(root.configPath)
		if err != nil {
			return err
		}
		if g, err = cfg.FeatureGate(); err != nil {
			return err
		}
	}

	reg, err := newRegistry(g, log)
	if err != nil {
		return err
	}

	defs := reg.List()
	if opts.category != "" {
		category := section.Category(strings.ToLower(opts.category))
		if !category.Valid() {
			return fmt.Errorf("unknown category %q (known: %s)", opts.category, joinCategories())
		}
		defs = reg.ListByCategory(category)
	}

	if opts.jsonOutput {
		return renderSectionsJSON(cmd, reg, defs)
	}
	return renderSectionsTable(cmd, reg, defs)
}

type sectionJSON struct {
	section.Descriptor
	Class gate.Class `json:"class"`
}

type sectionsJSONPayload struct {
	Count    int           `json:"count"`
	Sections []sectionJSON `json:"sections"`
}

func renderSectionsJSON(cmd *cobra.Command, reg *registry.Registry, defs []*section.Definition) error {
	payload := sectionsJSONPayload{Count: len(defs), Sections: make([]sectionJSON, len(defs))}
	for i, d := range defs {
		payload.Sections[i] = sectionJSON{Descriptor: d.Describe(), Class: reg.Classify(d.ID)}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func renderSectionsTable(cmd *cobra.Command, reg *registry.Registry, defs []*section.Definition) error {
	out := cmd.OutOrStdout()
	if len(defs) == 0 {
		fmt.Fprintln(out, "No section definitions in this category.")
		return nil
	}

	styles := ui.New(out)
	title := cases.Title(language.English)

	grouped := make(map[section.Category][]*section.Definition)
	for _, d := range defs {
		grouped[d.Category] = append(grouped[d.Category], d)
	}

	first := true
	for _, category := range section.Categories() {
		group := grouped[category]
		if len(group) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(out)
		}
		first = false

		fmt.Fprintln(out, styles.Heading(title.String(string(category))))
		rows := make([][]string, 0, len(group))
		for _, d := range group {
			rows = append(rows, []string{
				d.ID,
				d.Label,
				classBadge(styles, reg.Classify(d.ID)),
				strconv.Itoa(len(d.Blocks)),
				bindingLabel(d),
			})
		}
		fmt.Fprint(out, styles.Table([]string{"ID", "LABEL", "CLASS", "BLOCKS", "BINDING"}, rows))
	}
	return nil
}

func classBadge(styles *ui.Styles, class gate.Class) string {
	switch class {
	case gate.ClassPremium:
		return styles.Badge(string(class), ui.VariantPremium)
	case gate.ClassFree:
		return styles.Badge(string(class), ui.VariantSuccess)
	default:
		return styles.Badge(string(class), ui.VariantDefault)
	}
}

func bindingLabel(d *section.Definition) string {
	if d.Binding == nil {
		return "-"
	}
	if d.Binding.Multiple {
		return "tag (many)"
	}
	return "tag"
}

func joinCategories() string {
	names := make([]string, 0, len(section.Categories()))
	for _, c := range section.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

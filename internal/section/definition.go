package section

import (
	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
)

// Category groups definitions in listings and editors.
type Category string

const (
	CategoryHeader  Category = "header"
	CategoryFooter  Category = "footer"
	CategoryHero    Category = "hero"
	CategoryContent Category = "content"
	CategoryGrid    Category = "grid"
	CategoryMedia   Category = "media"
	CategoryPromo   Category = "promo"
	CategoryLayout  Category = "layout"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryHeader, CategoryHero, CategoryContent, CategoryGrid,
		CategoryMedia, CategoryPromo, CategoryLayout, CategoryFooter,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Bound is the external content resolved for a tag-bound section.
// Page is nil when nothing matched.
type Bound struct {
	Page  *content.Page
	Pages []content.Page
}

// RenderFunc renders a section without a template. Implementations must be pure
// and must escape any text they emit.
type RenderFunc func(cfg Config, bound Bound) (string, error)

// TagBinding describes how a section pulls pages from the content source.
type TagBinding struct {
	// TagField names the text setting holding the tag to match.
	TagField string `json:"tagField" validate:"required"`
	// HideTagField optionally names a setting whose tag excludes a page.
	HideTagField string `json:"hideTagField,omitempty"`
	// Multiple binds every matching page instead of the first one.
	Multiple bool `json:"multiple"`
	// LimitField optionally names a range setting capping the bound pages.
	LimitField string `json:"limitField,omitempty"`
}

// Definition is the static descriptor for one section kind.
// Definitions are immutable once registered.
type Definition struct {
	ID          string
	Label       string
	Description string
	Category    Category

	// Settings is what the editor shows, in order.
	Settings []schema.Setting
	// Hidden fields are part of the config but never shown in the editor.
	Hidden []schema.Field
	// Blocks lists the repeatable sub-items this section accepts.
	Blocks []schema.Block
	// DefaultBlocks seeds new configs. Missing block values take the block defaults.
	DefaultBlocks []Block

	DefaultVisibility bool
	DefaultPadding    Padding
	Premium           bool

	// Exactly one of Template and Render is set.
	Template string
	Render   RenderFunc

	Binding *TagBinding
}

// Fields returns every config field: settable fields followed by hidden ones.
func (d *Definition) Fields() []schema.Field {
	fields := schema.Fields(d.Settings)
	return append(fields, d.Hidden...)
}

// Block returns the block schema for a block type.
func (d *Definition) Block(blockType string) (schema.Block, bool) {
	for _, b := range d.Blocks {
		if b.Type == blockType {
			return b, true
		}
	}
	return schema.Block{}, false
}

// CreateConfig builds the default config for a new instance.
func (d *Definition) CreateConfig() Config {
	cfg := Config{
		Visible: d.DefaultVisibility,
		Padding: clonePadding(d.DefaultPadding),
		Values:  schema.Defaults(d.Fields()),
		Extra:   map[string]any{},
	}
	if len(d.Blocks) > 0 {
		cfg.Blocks = d.SeedBlocks()
	}
	return cfg
}

// SeedBlocks returns the default block instances with every block field filled.
func (d *Definition) SeedBlocks() []Block {
	blocks := make([]Block, 0, len(d.DefaultBlocks))
	for _, seed := range d.DefaultBlocks {
		schemaBlock, ok := d.Block(seed.Type)
		if !ok {
			continue
		}
		values := schema.Defaults(schemaBlock.Fields())
		for k, v := range seed.Values {
			values[k] = cloneValue(v)
		}
		blocks = append(blocks, Block{
			Type:          seed.Type,
			Values:        values,
			Extra:         nonNil(cloneMap(seed.Extra)),
			SettingsExtra: nonNil(cloneMap(seed.SettingsExtra)),
		})
	}
	return blocks
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// Descriptor is the wire view of a definition, used by listings and for
// structural comparison at registration.
type Descriptor struct {
	ID                string                   `json:"id" validate:"required,section_id"`
	Label             string                   `json:"label" validate:"required"`
	Description       string                   `json:"description,omitempty"`
	Category          Category                 `json:"category" validate:"required,section_category"`
	Premium           bool                     `json:"premium"`
	Template          string                   `json:"template,omitempty"`
	CustomRender      bool                     `json:"customRender,omitempty"`
	Settings          []schema.Descriptor      `json:"settings" validate:"dive"`
	Hidden            []schema.Descriptor      `json:"hidden,omitempty" validate:"dive"`
	Blocks            []schema.BlockDescriptor `json:"blocks,omitempty" validate:"dive"`
	DefaultBlocks     []map[string]any         `json:"defaultBlocks,omitempty"`
	DefaultVisibility bool                     `json:"defaultVisibility"`
	DefaultPadding    Padding                  `json:"defaultPadding"`
	Binding           *TagBinding              `json:"binding,omitempty" validate:"omitempty"`
}

// Describe flattens the definition into its descriptor.
func (d *Definition) Describe() Descriptor {
	desc := Descriptor{
		ID:                d.ID,
		Label:             d.Label,
		Description:       d.Description,
		Category:          d.Category,
		Premium:           d.Premium,
		Template:          d.Template,
		CustomRender:      d.Render != nil,
		Settings:          schema.DescribeAll(d.Settings),
		DefaultVisibility: d.DefaultVisibility,
		DefaultPadding:    clonePadding(d.DefaultPadding),
	}
	for _, f := range d.Hidden {
		desc.Hidden = append(desc.Hidden, schema.Describe(f))
	}
	for _, b := range d.Blocks {
		desc.Blocks = append(desc.Blocks, schema.DescribeBlock(b))
	}
	for _, b := range d.DefaultBlocks {
		desc.DefaultBlocks = append(desc.DefaultBlocks, b.ToMap())
	}
	if d.Binding != nil {
		binding := *d.Binding
		desc.Binding = &binding
	}
	return desc
}

// Instance is a concrete occurrence of a section on a page.
type Instance struct {
	ID           string   `json:"id"`
	DefinitionID string   `json:"definitionId"`
	Label        string   `json:"label"`
	Category     Category `json:"category"`
	Config       Config   `json:"-"`
}

// NewInstance creates an instance of d with its default config.
func NewInstance(id string, d *Definition) Instance {
	return Instance{
		ID:           id,
		DefinitionID: d.ID,
		Label:        d.Label,
		Category:     d.Category,
		Config:       d.CreateConfig(),
	}
}

package section

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

func gridDefinition() *Definition {
	return &Definition{
		ID:       "card-grid",
		Label:    "Card grid",
		Category: CategoryGrid,
		Settings: []schema.Setting{
			schema.Header{Label: "Content"},
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Latest"},
			schema.Text{ID: "tag", Label: "Tag", DefaultValue: "#ghost-card"},
			schema.Range{ID: "columns", Label: "Columns", Min: 1, Max: 4, Step: 1, DefaultValue: 3},
		},
		Hidden: []schema.Field{
			schema.Text{ID: "layoutVersion", DefaultValue: "2"},
		},
		Blocks: []schema.Block{{
			Type:  "card",
			Name:  "Card",
			Limit: 2,
			Settings: []schema.Setting{
				schema.Text{ID: "title", Label: "Title", DefaultValue: "Card"},
				schema.URL{ID: "link", Label: "Link", DefaultValue: "#"},
			},
		}},
		DefaultBlocks:     []Block{{Type: "card", Values: map[string]any{"title": "First"}}},
		DefaultVisibility: true,
		DefaultPadding:    Padding{Top: 40, Bottom: 40},
		Template:          "card-grid",
		Binding:           &TagBinding{TagField: "tag", Multiple: true, LimitField: "columns"},
	}
}

func TestCreateConfigFillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := gridDefinition().CreateConfig()

	assert.True(t, cfg.Visible)
	assert.Equal(t, Padding{Top: 40, Bottom: 40}, cfg.Padding)
	assert.Equal(t, map[string]any{
		"heading":       "Latest",
		"tag":           "#ghost-card",
		"columns":       float64(3),
		"layoutVersion": "2",
	}, cfg.Values)
	require.Len(t, cfg.Blocks, 1)
	assert.Equal(t, map[string]any{"title": "First", "link": "#"}, cfg.Blocks[0].Values)
	assert.Empty(t, cfg.Extra)
}

func TestCreateConfigReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	def := gridDefinition()
	first := def.CreateConfig()
	first.Values["heading"] = "changed"
	first.Blocks[0].Values["title"] = "changed"

	second := def.CreateConfig()
	assert.Equal(t, "Latest", second.String("heading"))
	assert.Equal(t, "First", second.Blocks[0].Values["title"])
}

func TestConfigToMap(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Visible: false,
		Padding: Padding{Top: 10, Bottom: 20, Left: IntPtr(5)},
		Values:  map[string]any{"heading": "Hi"},
		Blocks:  []Block{{Type: "card", Values: map[string]any{"title": "A"}, Extra: map[string]any{"legacy": 1}}},
		Extra:   map[string]any{"futureKey": "kept"},
	}

	assert.Equal(t, map[string]any{
		"heading":   "Hi",
		"futureKey": "kept",
		"visible":   false,
		"padding":   map[string]any{"top": 10, "bottom": 20, "left": 5},
		"blocks": []any{
			map[string]any{"type": "card", "settings": map[string]any{"title": "A"}, "legacy": 1},
		},
	}, cfg.ToMap())
}

func TestConfigCloneIsDeep(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Padding: Padding{Left: IntPtr(3)},
		Values:  map[string]any{"list": []any{"a"}},
		Extra:   map[string]any{"nested": map[string]any{"k": "v"}},
	}
	clone := cfg.Clone()
	*clone.Padding.Left = 9
	clone.Values["list"].([]any)[0] = "b"
	clone.Extra["nested"].(map[string]any)["k"] = "x"

	assert.Equal(t, 3, *cfg.Padding.Left)
	assert.Equal(t, "a", cfg.Values["list"].([]any)[0])
	assert.Equal(t, "v", cfg.Extra["nested"].(map[string]any)["k"])
}

func TestPaddingUnified(t *testing.T) {
	t.Parallel()

	top, bottom, lossless := Padding{Top: 12, Bottom: 24}.Unified()
	assert.Equal(t, 12, top)
	assert.Equal(t, 24, bottom)
	assert.True(t, lossless)
	assert.Equal(t, Padding{Top: 12, Bottom: 24}, FromUnified(top, bottom))

	_, _, lossless = Padding{Top: 1, Right: IntPtr(2)}.Unified()
	assert.False(t, lossless)
}

func TestPaddingClamp(t *testing.T) {
	t.Parallel()

	got := Padding{Top: -10, Bottom: 999, Left: IntPtr(-1), Right: IntPtr(50)}.Clamp()
	assert.Equal(t, 0, got.Top)
	assert.Equal(t, MaxPadding, got.Bottom)
	assert.Equal(t, 0, *got.Left)
	assert.Equal(t, 50, *got.Right)
}

func TestValidateDefinitionAcceptsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateDefinition(gridDefinition()))
}

func TestValidateDefinitionRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(d *Definition)
		field  string
	}{
		{name: "bad id", mutate: func(d *Definition) { d.ID = "Card Grid" }, field: "Card Grid.id"},
		{name: "missing label", mutate: func(d *Definition) { d.Label = "" }, field: "card-grid.label"},
		{name: "unknown category", mutate: func(d *Definition) { d.Category = "sidebar" }, field: "card-grid.category"},
		{name: "padding out of bounds", mutate: func(d *Definition) { d.DefaultPadding.Top = 300 }, field: "card-grid.defaultPadding.top"},
		{name: "no renderer", mutate: func(d *Definition) { d.Template = "" }, field: "card-grid"},
		{name: "two renderers", mutate: func(d *Definition) {
			d.Render = func(Config, Bound) (string, error) { return "", nil }
		}, field: "card-grid"},
		{name: "duplicate setting id", mutate: func(d *Definition) {
			d.Settings = append(d.Settings, schema.Text{ID: "heading"})
		}, field: "card-grid.settings[4]"},
		{name: "hidden collides with setting", mutate: func(d *Definition) {
			d.Hidden = append(d.Hidden, schema.Checkbox{ID: "tag"})
		}, field: "card-grid.hidden[1]"},
		{name: "reserved id", mutate: func(d *Definition) {
			d.Settings = append(d.Settings, schema.Checkbox{ID: "visible"})
		}, field: "card-grid.settings[4]"},
		{name: "range min above max", mutate: func(d *Definition) {
			d.Settings[3] = schema.Range{ID: "columns", Min: 5, Max: 1, DefaultValue: 3}
		}, field: "card-grid.settings[3]"},
		{name: "range default outside bounds", mutate: func(d *Definition) {
			d.Settings[3] = schema.Range{ID: "columns", Min: 1, Max: 4, DefaultValue: 9}
		}, field: "card-grid.settings[3]"},
		{name: "select default not an option", mutate: func(d *Definition) {
			d.Settings = append(d.Settings, schema.Select{ID: "style", Options: []schema.Option{{Label: "A", Value: "a"}}, DefaultValue: "b"})
		}, field: "card-grid.settings[4]"},
		{name: "color default not canonical", mutate: func(d *Definition) {
			d.Settings = append(d.Settings, schema.Color{ID: "bg", DefaultValue: "#FFF"})
		}, field: "card-grid.settings[4]"},
		{name: "duplicate block type", mutate: func(d *Definition) {
			d.Blocks = append(d.Blocks, schema.Block{Type: "card", Name: "Again"})
		}, field: "card-grid.blocks[1]"},
		{name: "default blocks over limit", mutate: func(d *Definition) {
			d.DefaultBlocks = append(d.DefaultBlocks, Block{Type: "card"}, Block{Type: "card"})
		}, field: "card-grid.defaultBlocks[2]"},
		{name: "default block unknown type", mutate: func(d *Definition) {
			d.DefaultBlocks = []Block{{Type: "slide"}}
		}, field: "card-grid.defaultBlocks[0]"},
		{name: "binding tag field missing", mutate: func(d *Definition) {
			d.Binding = &TagBinding{TagField: "missing"}
		}, field: "card-grid.binding"},
		{name: "binding limit field not a range", mutate: func(d *Definition) {
			d.Binding = &TagBinding{TagField: "tag", LimitField: "heading"}
		}, field: "card-grid.binding"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			def := gridDefinition()
			tc.mutate(def)

			err := ValidateDefinition(def)
			require.Error(t, err)

			var verr *sferrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestDescribeMarksCustomRender(t *testing.T) {
	t.Parallel()

	def := &Definition{
		ID:       "spacer",
		Label:    "Spacer",
		Category: CategoryLayout,
		Render:   func(Config, Bound) (string, error) { return "", nil },
	}

	desc := def.Describe()
	assert.True(t, desc.CustomRender)
	assert.Empty(t, desc.Template)
	require.NoError(t, ValidateDefinition(def))
}

func TestNewInstance(t *testing.T) {
	t.Parallel()

	inst := NewInstance("card-grid-01", gridDefinition())
	assert.Equal(t, "card-grid", inst.DefinitionID)
	assert.Equal(t, CategoryGrid, inst.Category)
	assert.Equal(t, "Latest", inst.Config.String("heading"))
	assert.Equal(t, float64(3), inst.Config.Number("columns"))
}

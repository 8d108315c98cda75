package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsSkipsPresentationalSettings(t *testing.T) {
	t.Parallel()

	settings := []Setting{
		Header{Label: "Layout"},
		Text{ID: "title", Label: "Title", DefaultValue: "Hello"},
		Paragraph{Info: "Cards come from tagged posts."},
		Checkbox{ID: "show_date", Label: "Show date", DefaultValue: true},
	}

	fields := Fields(settings)
	require.Len(t, fields, 2)
	assert.Equal(t, "title", fields[0].Meta().ID)
	assert.Equal(t, "show_date", fields[1].Meta().ID)

	assert.Equal(t, map[string]any{"title": "Hello", "show_date": true}, Defaults(fields))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	options := []Option{{Label: "Left", Value: "left"}, {Label: "Right", Value: "right"}}

	cases := []struct {
		name      string
		field     Field
		raw       any
		want      any
		wantIssue bool
	}{
		{name: "text accepts string", field: Text{ID: "t", DefaultValue: "d"}, raw: "x", want: "x"},
		{name: "text rejects number", field: Text{ID: "t", DefaultValue: "d"}, raw: 4, want: "d", wantIssue: true},
		{name: "textarea rejects nil", field: Textarea{ID: "t", DefaultValue: "d"}, raw: nil, want: "d", wantIssue: true},
		{name: "richtext sanitised", field: RichText{ID: "r"}, raw: `<p>a</p><script>x</script>`, want: "<p>a</p>", wantIssue: true},
		{name: "richtext clean", field: RichText{ID: "r"}, raw: `<p>a</p>`, want: "<p>a</p>"},
		{name: "color expanded", field: Color{ID: "c", DefaultValue: "#000000"}, raw: "#FA0", want: "#ffaa00"},
		{name: "color invalid", field: Color{ID: "c", DefaultValue: "#000000"}, raw: "red", want: "#000000", wantIssue: true},
		{name: "checkbox bool", field: Checkbox{ID: "b"}, raw: true, want: true},
		{name: "checkbox string", field: Checkbox{ID: "b", DefaultValue: true}, raw: "false", want: true, wantIssue: true},
		{name: "range int", field: Range{ID: "n", Min: 0, Max: 10, DefaultValue: 5}, raw: 3, want: float64(3)},
		{name: "range json number", field: Range{ID: "n", Min: 0, Max: 10, DefaultValue: 5}, raw: json.Number("7.5"), want: 7.5},
		{name: "range below", field: Range{ID: "n", Min: 0, Max: 200, DefaultValue: 5}, raw: -10, want: float64(0), wantIssue: true},
		{name: "range above", field: Range{ID: "n", Min: 0, Max: 200, DefaultValue: 5}, raw: 250.0, want: float64(200), wantIssue: true},
		{name: "range string", field: Range{ID: "n", Min: 0, Max: 10, DefaultValue: 5}, raw: "3", want: float64(5), wantIssue: true},
		{name: "select known", field: Select{ID: "s", Options: options, DefaultValue: "left"}, raw: "right", want: "right"},
		{name: "select unknown", field: Select{ID: "s", Options: options, DefaultValue: "left"}, raw: "center", want: "left", wantIssue: true},
		{name: "radio unknown", field: Radio{ID: "s", Options: options, DefaultValue: "right"}, raw: "up", want: "right", wantIssue: true},
		{name: "url bare domain", field: URL{ID: "u", DefaultValue: "#"}, raw: "example.com", want: "https://example.com"},
		{name: "url script", field: URL{ID: "u", DefaultValue: "/"}, raw: "javascript:alert(1)", want: "#", wantIssue: true},
		{name: "url anchor", field: URL{ID: "u", DefaultValue: "/"}, raw: "#", want: "#"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, issue := tc.field.Normalize(tc.raw)
			assert.Equal(t, tc.want, got)
			if tc.wantIssue {
				assert.NotEmpty(t, issue)
			} else {
				assert.Empty(t, issue)
			}
		})
	}
}

func TestToFloatRejectsNonFinite(t *testing.T) {
	t.Parallel()

	_, ok := ToFloat(json.Number("NaN"))
	assert.False(t, ok)

	n, ok := ToFloat(uint8(7))
	assert.True(t, ok)
	assert.Equal(t, float64(7), n)
}

func TestDescribeRange(t *testing.T) {
	t.Parallel()

	d := Describe(Range{ID: "gap", Label: "Gap", Min: 0, Max: 64, Step: 4, Unit: "px", DefaultValue: 16})

	require.NotNil(t, d.Min)
	require.NotNil(t, d.Max)
	assert.Equal(t, KindRange, d.Type)
	assert.Equal(t, float64(64), *d.Max)
	assert.Equal(t, float64(16), d.Default)
	assert.Equal(t, "px", d.Unit)
}

func TestDescribeBlockEncodesDiscriminator(t *testing.T) {
	t.Parallel()

	block := Block{
		Type:  "card",
		Name:  "Card",
		Limit: 3,
		Settings: []Setting{
			Header{Label: "Content"},
			Select{ID: "style", Label: "Style", Options: []Option{{Label: "Plain", Value: "plain"}}, DefaultValue: "plain"},
		},
	}

	data, err := json.Marshal(DescribeBlock(block))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "card",
		"name": "Card",
		"limit": 3,
		"settings": [
			{"type": "header", "label": "Content", "default": null},
			{"type": "select", "id": "style", "label": "Style", "default": "plain", "options": [{"label": "Plain", "value": "plain"}]}
		]
	}`, string(data))
}

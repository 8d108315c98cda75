// Package schema describes the settings a section exposes to editors and the
// blocks it may repeat. Schemas are pure data: each setting kind knows its default
// and how to coerce an untrusted value into its own domain.
package schema

// Kind discriminates the setting variants.
type Kind string

const (
	KindText      Kind = "text"
	KindTextarea  Kind = "textarea"
	KindRichText  Kind = "richtext"
	KindColor     Kind = "color"
	KindCheckbox  Kind = "checkbox"
	KindRange     Kind = "range"
	KindSelect    Kind = "select"
	KindURL       Kind = "url"
	KindRadio     Kind = "radio"
	KindHeader    Kind = "header"
	KindParagraph Kind = "paragraph"
)

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool {
	switch k {
	case KindText, KindTextarea, KindRichText, KindColor, KindCheckbox, KindRange,
		KindSelect, KindURL, KindRadio, KindHeader, KindParagraph:
		return true
	}
	return false
}

// Presentational reports whether settings of this kind only decorate the editor
// and never produce a config value.
func (k Kind) Presentational() bool {
	return k == KindHeader || k == KindParagraph
}

// Meta is shared by every setting variant.
type Meta struct {
	ID    string
	Label string
	Info  string
}

// Setting is one entry of a settings schema.
type Setting interface {
	Kind() Kind
	Meta() Meta
}

// Field is a setting that owns a config value.
type Field interface {
	Setting
	// Default returns the value used when input is missing or unusable.
	Default() any
	// Normalize coerces raw into the field's value domain. A non-empty issue
	// means the input was replaced, clamped or rewritten; value is always usable.
	Normalize(raw any) (value any, issue string)
}

// Option is one choice of a select or radio setting.
type Option struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value"`
}

// Block describes a repeatable sub-item of a section, such as a card inside a grid.
type Block struct {
	Type string
	Name string
	// Limit caps the number of instances of this block type; zero means unlimited.
	Limit    int
	Settings []Setting
}

// Fields returns the value-producing settings of the block in declaration order.
func (b Block) Fields() []Field {
	return Fields(b.Settings)
}

// Fields filters presentational entries out of a settings list.
func Fields(settings []Setting) []Field {
	out := make([]Field, 0, len(settings))
	for _, s := range settings {
		if f, ok := s.(Field); ok && !s.Kind().Presentational() {
			out = append(out, f)
		}
	}
	return out
}

// Defaults builds the default value map for a list of fields.
func Defaults(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Meta().ID] = f.Default()
	}
	return out
}

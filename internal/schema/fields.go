package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/sanitize"
)

// Text is a single-line plain text setting. Rendered escaped.
type Text struct {
	ID, Label, Info string
	DefaultValue    string
}

func (s Text) Kind() Kind   { return KindText }
func (s Text) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Text) Default() any { return s.DefaultValue }

func (s Text) Normalize(raw any) (any, string) {
	return normalizeString(raw, s.DefaultValue)
}

// Textarea is a multi-line plain text setting. Rendered escaped.
type Textarea struct {
	ID, Label, Info string
	DefaultValue    string
}

func (s Textarea) Kind() Kind   { return KindTextarea }
func (s Textarea) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Textarea) Default() any { return s.DefaultValue }

func (s Textarea) Normalize(raw any) (any, string) {
	return normalizeString(raw, s.DefaultValue)
}

// RichText holds author HTML. It is the only kind rendered without escaping,
// so values are passed through the rich-text sanitizer.
type RichText struct {
	ID, Label, Info string
	DefaultValue    string
}

func (s RichText) Kind() Kind   { return KindRichText }
func (s RichText) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s RichText) Default() any { return s.DefaultValue }

func (s RichText) Normalize(raw any) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return s.DefaultValue, wrongType(raw, "string")
	}
	clean := sanitize.RichText(str)
	if clean != str {
		return clean, "unsafe markup removed"
	}
	return clean, ""
}

// Color is a hex colour or "transparent".
type Color struct {
	ID, Label, Info string
	DefaultValue    string
}

func (s Color) Kind() Kind   { return KindColor }
func (s Color) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Color) Default() any { return s.DefaultValue }

func (s Color) Normalize(raw any) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return s.DefaultValue, wrongType(raw, "string")
	}
	clean := sanitize.Hex(str, "")
	if clean == "" {
		return s.DefaultValue, fmt.Sprintf("%q is not a colour", str)
	}
	return clean, ""
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	ID, Label, Info string
	DefaultValue    bool
}

func (s Checkbox) Kind() Kind   { return KindCheckbox }
func (s Checkbox) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Checkbox) Default() any { return s.DefaultValue }

func (s Checkbox) Normalize(raw any) (any, string) {
	b, ok := raw.(bool)
	if !ok {
		return s.DefaultValue, wrongType(raw, "boolean")
	}
	return b, ""
}

// Range is a bounded number. Out-of-range input is clamped rather than rejected.
type Range struct {
	ID, Label, Info string
	Min, Max, Step  float64
	Unit            string
	DefaultValue    float64
}

func (s Range) Kind() Kind   { return KindRange }
func (s Range) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Range) Default() any { return s.DefaultValue }

func (s Range) Normalize(raw any) (any, string) {
	n, ok := ToFloat(raw)
	if !ok {
		return s.DefaultValue, wrongType(raw, "number")
	}
	if n < s.Min {
		return s.Min, fmt.Sprintf("%v clamped to minimum %v", n, s.Min)
	}
	if n > s.Max {
		return s.Max, fmt.Sprintf("%v clamped to maximum %v", n, s.Max)
	}
	return n, ""
}

// Select is a choice among fixed options rendered as a dropdown.
type Select struct {
	ID, Label, Info string
	Options         []Option
	DefaultValue    string
}

func (s Select) Kind() Kind   { return KindSelect }
func (s Select) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Select) Default() any { return s.DefaultValue }

func (s Select) Normalize(raw any) (any, string) {
	return normalizeChoice(raw, s.Options, s.DefaultValue)
}

// Radio is a choice among fixed options rendered as radio buttons.
type Radio struct {
	ID, Label, Info string
	Options         []Option
	DefaultValue    string
}

func (s Radio) Kind() Kind   { return KindRadio }
func (s Radio) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s Radio) Default() any { return s.DefaultValue }

func (s Radio) Normalize(raw any) (any, string) {
	return normalizeChoice(raw, s.Options, s.DefaultValue)
}

// URL is a link target passed through the href sanitizer.
type URL struct {
	ID, Label, Info string
	DefaultValue    string
}

func (s URL) Kind() Kind   { return KindURL }
func (s URL) Meta() Meta   { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }
func (s URL) Default() any { return s.DefaultValue }

func (s URL) Normalize(raw any) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return s.DefaultValue, wrongType(raw, "string")
	}
	clean := sanitize.Href(str)
	if clean == "#" && strings.TrimSpace(str) != "#" {
		return clean, fmt.Sprintf("link %q replaced with #", str)
	}
	return clean, ""
}

// Header is an editor-only heading between groups of settings.
type Header struct {
	ID, Label, Info string
}

func (s Header) Kind() Kind { return KindHeader }
func (s Header) Meta() Meta { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }

// Paragraph is editor-only help text.
type Paragraph struct {
	ID, Label, Info string
}

func (s Paragraph) Kind() Kind { return KindParagraph }
func (s Paragraph) Meta() Meta { return Meta{ID: s.ID, Label: s.Label, Info: s.Info} }

// ToFloat accepts any Go or JSON numeric representation. Strings are not numbers.
func ToFloat(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func normalizeString(raw any, fallback string) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return fallback, wrongType(raw, "string")
	}
	return str, ""
}

func normalizeChoice(raw any, options []Option, fallback string) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return fallback, wrongType(raw, "string")
	}
	for _, opt := range options {
		if opt.Value == str {
			return str, ""
		}
	}
	return fallback, fmt.Sprintf("%q is not one of the allowed options", str)
}

func wrongType(raw any, want string) string {
	if raw == nil {
		return fmt.Sprintf("expected %s, got null", want)
	}
	return fmt.Sprintf("expected %s, got %T", want, raw)
}

// Package validation turns untrusted, possibly legacy section settings into a
// fully-defaulted config. Validation is total: every field problem becomes a
// warning and a default, never an error.
package validation

import (
	"fmt"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// Validate coerces raw into a config for def. raw may be nil (treated as an
// empty object) or a decoded JSON/YAML object. Any other shape cannot be
// repaired and returns a ValidationError.
func Validate(def *section.Definition, raw any) (*Result, error) {
	if def == nil {
		return nil, sferrors.NewValidationError("definition", "definition is nil", nil)
	}

	input, err := asObject(raw)
	if err != nil {
		return nil, err
	}

	c := &collector{}
	cfg := section.Config{
		Values: validateFields(c, "", def.Fields(), input),
		Extra:  map[string]any{},
	}

	cfg.Visible = def.DefaultVisibility
	if v, ok := input[section.KeyVisible]; ok {
		if b, isBool := v.(bool); isBool {
			cfg.Visible = b
		} else {
			c.add(section.KeyVisible, WarningInvalid, "expected boolean, got %s", typeName(v))
		}
	}

	cfg.Padding = resolvePadding(c, input, def.DefaultPadding)

	if len(def.Blocks) > 0 {
		cfg.Blocks = validateBlocks(c, def, input)
	}

	for key, value := range input {
		if isKnownKey(def, key) {
			continue
		}
		cfg.Extra[key] = section.CloneValue(value)
	}

	return &Result{Config: cfg, Warnings: c.warnings}, nil
}

func asObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	}
	return nil, sferrors.NewValidationError("settings", fmt.Sprintf("expected an object, got %s", typeName(raw)), nil)
}

func isKnownKey(def *section.Definition, key string) bool {
	if key == section.KeyBlocks {
		return len(def.Blocks) > 0
	}
	if section.IsReservedKey(key) {
		return true
	}
	for _, f := range def.Fields() {
		if f.Meta().ID == key {
			return true
		}
	}
	return false
}

func validateFields(c *collector, prefix string, fields []schema.Field, input map[string]any) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		id := f.Meta().ID
		path := prefix + id

		raw, present := input[id]
		if !present {
			values[id] = section.CloneValue(f.Default())
			c.add(path, WarningMissing, "missing, default used")
			continue
		}

		value, issue := f.Normalize(raw)
		values[id] = section.CloneValue(value)
		if issue == "" {
			continue
		}
		// Field values are scalars, so == is safe here.
		if value == f.Default() {
			c.add(path, WarningInvalid, "%s, default used", issue)
		} else {
			c.add(path, WarningAdjusted, "%s", issue)
		}
	}
	return values
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := schema.ToFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

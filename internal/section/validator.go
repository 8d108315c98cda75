package section

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	sectionIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)
	settingIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("section_id", func(fl validator.FieldLevel) bool {
			return sectionIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("setting_id", func(fl validator.FieldLevel) bool {
			return settingIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("setting_kind", func(fl validator.FieldLevel) bool {
			return schema.Kind(fl.Field().String()).Known()
		})

		_ = v.RegisterValidation("section_category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validateInst = v
	})

	return validateInst
}

// ValidateDefinition checks a definition before it is registered. Anything it
// rejects would make validation or rendering ambiguous later.
func ValidateDefinition(d *Definition) error {
	if d == nil {
		return sferrors.NewValidationError("definition", "definition is nil", nil)
	}

	desc := d.Describe()
	if err := validatorInstance().Struct(desc); err != nil {
		return convertValidationError(d.ID, err)
	}

	if (d.Template == "") == (d.Render == nil) {
		return sferrors.NewValidationError(d.ID, "exactly one of template or render is required", nil)
	}

	ids := make(map[string]struct{})
	for i, s := range d.Settings {
		field := fmt.Sprintf("%s.settings[%d]", d.ID, i)
		if err := validateSetting(field, s); err != nil {
			return err
		}
		if s.Kind().Presentational() {
			continue
		}
		if err := claimID(ids, field, s.Meta().ID); err != nil {
			return err
		}
	}
	for i, f := range d.Hidden {
		field := fmt.Sprintf("%s.hidden[%d]", d.ID, i)
		if f.Kind().Presentational() {
			return sferrors.NewValidationError(field, "hidden fields must hold a value", nil)
		}
		if err := validateSetting(field, f); err != nil {
			return err
		}
		if err := claimID(ids, field, f.Meta().ID); err != nil {
			return err
		}
	}

	if err := validateBlocks(d); err != nil {
		return err
	}
	return validateBinding(d, ids)
}

func claimID(ids map[string]struct{}, field, id string) error {
	if IsReservedKey(id) {
		return sferrors.NewValidationError(field, fmt.Sprintf("setting id %q is reserved", id), nil)
	}
	if _, exists := ids[id]; exists {
		return sferrors.NewValidationError(field, fmt.Sprintf("duplicate setting id %q", id), nil)
	}
	ids[id] = struct{}{}
	return nil
}

func validateSetting(field string, s schema.Setting) error {
	if s.Kind().Presentational() {
		return nil
	}

	f, ok := s.(schema.Field)
	if !ok {
		return sferrors.NewValidationError(field, fmt.Sprintf("%s setting has no value", s.Kind()), nil)
	}
	if f.Meta().ID == "" {
		return sferrors.NewValidationError(field, "id is required", nil)
	}

	switch v := s.(type) {
	case schema.Range:
		if v.Min > v.Max {
			return sferrors.NewValidationError(field, fmt.Sprintf("min %v exceeds max %v", v.Min, v.Max), nil)
		}
		if v.Step < 0 {
			return sferrors.NewValidationError(field, "step must not be negative", nil)
		}
	case schema.Select:
		if len(v.Options) == 0 {
			return sferrors.NewValidationError(field, "select requires options", nil)
		}
	case schema.Radio:
		if len(v.Options) == 0 {
			return sferrors.NewValidationError(field, "radio requires options", nil)
		}
	}

	// Defaults must survive their own normalization, otherwise an empty input
	// and a fresh config would disagree.
	got, issue := f.Normalize(f.Default())
	if issue != "" || !reflect.DeepEqual(got, f.Default()) {
		return sferrors.NewValidationError(field, fmt.Sprintf("default %v is not a valid %s value", f.Default(), s.Kind()), nil)
	}
	return nil
}

func validateBlocks(d *Definition) error {
	types := make(map[string]struct{}, len(d.Blocks))
	for i, b := range d.Blocks {
		field := fmt.Sprintf("%s.blocks[%d]", d.ID, i)
		if _, exists := types[b.Type]; exists {
			return sferrors.NewValidationError(field, fmt.Sprintf("duplicate block type %q", b.Type), nil)
		}
		types[b.Type] = struct{}{}

		ids := make(map[string]struct{})
		for j, s := range b.Settings {
			settingField := fmt.Sprintf("%s.settings[%d]", field, j)
			if err := validateSetting(settingField, s); err != nil {
				return err
			}
			if s.Kind().Presentational() {
				continue
			}
			if _, exists := ids[s.Meta().ID]; exists {
				return sferrors.NewValidationError(settingField, fmt.Sprintf("duplicate setting id %q", s.Meta().ID), nil)
			}
			ids[s.Meta().ID] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for i, seed := range d.DefaultBlocks {
		field := fmt.Sprintf("%s.defaultBlocks[%d]", d.ID, i)
		b, ok := d.Block(seed.Type)
		if !ok {
			return sferrors.NewValidationError(field, fmt.Sprintf("unknown block type %q", seed.Type), nil)
		}
		counts[seed.Type]++
		if b.Limit > 0 && counts[seed.Type] > b.Limit {
			return sferrors.NewValidationError(field, fmt.Sprintf("more than %d %q blocks", b.Limit, seed.Type), nil)
		}
		known := make(map[string]schema.Field)
		for _, f := range b.Fields() {
			known[f.Meta().ID] = f
		}
		for key, value := range seed.Values {
			f, ok := known[key]
			if !ok {
				return sferrors.NewValidationError(field, fmt.Sprintf("unknown block setting %q", key), nil)
			}
			if got, issue := f.Normalize(value); issue != "" || !reflect.DeepEqual(got, value) {
				return sferrors.NewValidationError(field, fmt.Sprintf("value for %q is not canonical", key), nil)
			}
		}
	}
	return nil
}

func validateBinding(d *Definition, ids map[string]struct{}) error {
	if d.Binding == nil {
		return nil
	}

	field := d.ID + ".binding"
	kinds := make(map[string]schema.Kind)
	for _, f := range d.Fields() {
		kinds[f.Meta().ID] = f.Kind()
	}

	check := func(name, id string, want schema.Kind) error {
		if id == "" {
			return nil
		}
		if _, ok := ids[id]; !ok {
			return sferrors.NewValidationError(field, fmt.Sprintf("%s %q is not a setting", name, id), nil)
		}
		if kinds[id] != want {
			return sferrors.NewValidationError(field, fmt.Sprintf("%s %q must be a %s setting", name, id, want), nil)
		}
		return nil
	}

	if err := check("tag field", d.Binding.TagField, schema.KindText); err != nil {
		return err
	}
	if err := check("hide tag field", d.Binding.HideTagField, schema.KindText); err != nil {
		return err
	}
	return check("limit field", d.Binding.LimitField, schema.KindRange)
}

func convertValidationError(id string, err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := fieldPath(id, ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return sferrors.NewValidationError(field, msg, err)
	}

	return sferrors.NewValidationError(id, err.Error(), err)
}

// fieldPath turns "Descriptor.settings[2].id" into "hero.settings[2].id".
func fieldPath(id string, fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	if id == "" {
		return ns
	}
	return id + "." + ns
}

package schema

// Descriptor is the wire and validation view of a setting. Editors receive it as JSON
// and registration validates it with struct tags.
type Descriptor struct {
	Type    Kind     `json:"type" validate:"required,setting_kind"`
	ID      string   `json:"id,omitempty" validate:"omitempty,setting_id"`
	Label   string   `json:"label,omitempty"`
	Info    string   `json:"info,omitempty"`
	Default any      `json:"default"`
	Options []Option `json:"options,omitempty" validate:"omitempty,dive"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Unit    string   `json:"unit,omitempty"`
}

// BlockDescriptor is the wire and validation view of a block schema.
type BlockDescriptor struct {
	Type     string       `json:"type" validate:"required,setting_id"`
	Name     string       `json:"name" validate:"required"`
	Limit    int          `json:"limit,omitempty" validate:"min=0"`
	Settings []Descriptor `json:"settings" validate:"dive"`
}

// Describe flattens a setting into its descriptor.
func Describe(s Setting) Descriptor {
	meta := s.Meta()
	d := Descriptor{Type: s.Kind(), ID: meta.ID, Label: meta.Label, Info: meta.Info}
	if f, ok := s.(Field); ok && !s.Kind().Presentational() {
		d.Default = f.Default()
	}

	switch v := s.(type) {
	case Range:
		d.Min, d.Max, d.Step, d.Unit = &v.Min, &v.Max, &v.Step, v.Unit
	case Select:
		d.Options = append([]Option(nil), v.Options...)
	case Radio:
		d.Options = append([]Option(nil), v.Options...)
	}
	return d
}

// DescribeAll describes a settings list in order.
func DescribeAll(settings []Setting) []Descriptor {
	out := make([]Descriptor, 0, len(settings))
	for _, s := range settings {
		out = append(out, Describe(s))
	}
	return out
}

// DescribeBlock flattens a block schema into its descriptor.
func DescribeBlock(b Block) BlockDescriptor {
	return BlockDescriptor{
		Type:     b.Type,
		Name:     b.Name,
		Limit:    b.Limit,
		Settings: DescribeAll(b.Settings),
	}
}

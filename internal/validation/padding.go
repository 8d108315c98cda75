package validation

import (
	"math"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

type paddingSide struct {
	name      string
	flatKey   string
	fromBlock bool
}

var paddingSides = []paddingSide{
	{name: "top", flatKey: section.KeyPaddingTop, fromBlock: true},
	{name: "bottom", flatKey: section.KeyPaddingBottom, fromBlock: true},
	{name: "left", flatKey: section.KeyPaddingLeft},
	{name: "right", flatKey: section.KeyPaddingRight},
}

type paddingSource struct {
	field string
	value any
}

// resolvePadding reads each side from, in order of precedence, the nested
// "padding" object, the flat paddingTop/... keys and the legacy paddingBlock
// number. Sides found nowhere keep the definition default.
func resolvePadding(c *collector, input map[string]any, def section.Padding) section.Padding {
	nested := map[string]any{}
	if raw, ok := input[section.KeyPadding]; ok {
		if m, isMap := raw.(map[string]any); isMap {
			nested = m
		} else {
			c.add(section.KeyPadding, WarningInvalid, "expected object, got %s", typeName(raw))
		}
	}

	out := section.Padding{Top: def.Top, Bottom: def.Bottom, Left: copyInt(def.Left), Right: copyInt(def.Right)}
	for _, side := range paddingSides {
		var sources []paddingSource
		if v, ok := nested[side.name]; ok {
			sources = append(sources, paddingSource{field: section.KeyPadding + "." + side.name, value: v})
		}
		if v, ok := input[side.flatKey]; ok {
			sources = append(sources, paddingSource{field: side.flatKey, value: v})
		}
		if v, ok := input[section.KeyPaddingBlock]; ok && side.fromBlock {
			sources = append(sources, paddingSource{field: section.KeyPaddingBlock, value: v})
		}

		for _, src := range sources {
			f, ok := schema.ToFloat(src.value)
			if !ok {
				c.add(src.field, WarningInvalid, "expected number, got %s", typeName(src.value))
				continue
			}
			n, clamped := clampPadding(f)
			if clamped {
				c.add(src.field, WarningAdjusted, "%v clamped to %d", f, n)
			}
			setSide(&out, side.name, n)
			break
		}
	}
	return out.Clamp()
}

// clampPadding rounds f to whole pixels within [MinPadding, MaxPadding]. The
// bounds are applied before the int conversion so huge inputs cannot wrap.
func clampPadding(f float64) (int, bool) {
	switch {
	case f < section.MinPadding:
		return section.MinPadding, true
	case f > section.MaxPadding:
		return section.MaxPadding, true
	}
	return int(math.Round(f)), false
}

func setSide(p *section.Padding, side string, n int) {
	switch side {
	case "top":
		p.Top = n
	case "bottom":
		p.Bottom = n
	case "left":
		p.Left = section.IntPtr(n)
	case "right":
		p.Right = section.IntPtr(n)
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return section.IntPtr(*p)
}

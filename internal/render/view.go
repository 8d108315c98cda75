package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/sanitize"
	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
	"github.com/alexisbeaulieu97/sectionforge/internal/tags"
)

// View is the data every section template executes against.
type View struct {
	ID       string
	Type     string
	Anchor   string
	PageKey  string
	Visible  bool
	Settings map[string]any
	Blocks   []BlockView
	Padding  section.Padding
	Style    template.CSS
	Page     *content.Page
	Pages    []content.Page
	Miss     bool
}

// BlockView is one block instance as templates see it.
type BlockView struct {
	Type     string
	Index    int
	Settings map[string]any
}

// BuildView converts a config into template data. Text stays plain and is
// escaped by html/template; rich text is sanitized again and passed as HTML;
// links and colours are passed as already-safe URL and CSS values.
func BuildView(def *section.Definition, cfg section.Config, ctx Context) View {
	view := View{
		ID:       ctx.InstanceID,
		Type:     def.ID,
		Anchor:   "sf-" + tags.IDSlug(ctx.InstanceID),
		PageKey:  ctx.PageKey,
		Visible:  cfg.Visible,
		Settings: viewValues(def.Fields(), cfg.Values),
		Padding:  cfg.Padding.Clamp(),
		Page:     ctx.Bound.Page,
		Pages:    ctx.Bound.Pages,
		Miss:     ctx.Miss,
	}
	view.Style = paddingStyle(view.Padding)

	for i, b := range cfg.Blocks {
		schemaBlock, ok := def.Block(b.Type)
		if !ok {
			continue
		}
		view.Blocks = append(view.Blocks, BlockView{
			Type:     b.Type,
			Index:    i,
			Settings: viewValues(schemaBlock.Fields(), b.Values),
		})
	}
	return view
}

func viewValues(fields []schema.Field, values map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		id := f.Meta().ID
		value, ok := values[id]
		if !ok {
			value = f.Default()
		}

		switch f.Kind() {
		case schema.KindRichText:
			s, _ := value.(string)
			out[id] = template.HTML(sanitize.RichText(s))
		case schema.KindURL:
			s, _ := value.(string)
			out[id] = template.URL(sanitize.Href(s))
		case schema.KindColor:
			s, _ := value.(string)
			out[id] = template.CSS(sanitize.Hex(s, "transparent"))
		default:
			out[id] = value
		}
	}
	return out
}

func paddingStyle(p section.Padding) template.CSS {
	parts := []string{
		fmt.Sprintf("padding-top:%dpx", p.Top),
		fmt.Sprintf("padding-bottom:%dpx", p.Bottom),
	}
	if p.Left != nil {
		parts = append(parts, fmt.Sprintf("padding-left:%dpx", *p.Left))
	}
	if p.Right != nil {
		parts = append(parts, fmt.Sprintf("padding-right:%dpx", *p.Right))
	}
	return template.CSS(strings.Join(parts, ";"))
}

// Funcs is the function map both backends compile templates with.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"px":       px,
		"number":   number,
		"slug":     tags.Slugify,
		"truncate": truncate,
		"add":      func(a, b int) int { return a + b },
		"hasTag":   func(p content.Page, tag string) bool { return p.HasTag(tags.ToAPISlug(tags.FormatInternalTag(tag))) },
		"href":     func(s string) template.URL { return template.URL(sanitize.Href(s)) },
	}
}

func px(v any) template.CSS {
	n, ok := schema.ToFloat(v)
	if !ok {
		return "0px"
	}
	return template.CSS(strconv.FormatFloat(n, 'f', -1, 64) + "px")
}

func number(v any) string {
	n, ok := schema.ToFloat(v)
	if !ok {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

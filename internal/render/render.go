// Package render turns a validated section config into markup. Two backends
// share one view model and one function map so the live preview and the static
// export produce identical bytes for identical input.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// Backend resolves a template and executes it against a view.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Execute runs the template with data: a View for sections, a PageView for layouts.
	Execute(w io.Writer, templateID string, data any) error
}

// Context is everything a render needs besides the config.
type Context struct {
	// InstanceID is the section instance being rendered.
	InstanceID string
	// PageKey is the page template the section belongs to ("home", "footer", ...).
	PageKey string
	// Bound holds pages resolved for tag-bound sections.
	Bound section.Bound
	// Miss is set when a tag-bound section found no matching page.
	Miss bool
}

// Renderer renders sections through one backend. It holds no mutable state of
// its own, so it is safe for concurrent use when the backend is.
type Renderer struct {
	backend Backend
}

// New returns a renderer over backend.
func New(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

// Backend returns the backend the renderer executes with.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// Render produces the markup for one section instance wrapped in its
// <section> element. cfg is never modified.
func (r *Renderer) Render(def *section.Definition, cfg section.Config, ctx Context) (string, error) {
	if def == nil {
		return "", fmt.Errorf("render %q: definition is nil", ctx.InstanceID)
	}

	view := BuildView(def, cfg, ctx)

	var inner string
	if def.Render != nil {
		out, err := def.Render(cfg.Clone(), ctx.Bound)
		if err != nil {
			return "", fmt.Errorf("render %q (%s): %w", ctx.InstanceID, def.ID, err)
		}
		inner = out
	} else {
		var buf bytes.Buffer
		if err := r.backend.Execute(&buf, def.Template, view); err != nil {
			return "", fmt.Errorf("render %q (%s) with %s backend: %w", ctx.InstanceID, def.ID, r.backend.Name(), err)
		}
		inner = buf.String()
	}

	return wrap(view, inner)
}

// LayoutTemplate is the template id pages are composed with.
const LayoutTemplate = "layouts/page"

// PageView is the data the page layout executes against.
type PageView struct {
	Key      string
	Title    string
	SiteName string
	Header   template.HTML
	Sections []template.HTML
	Footer   template.HTML
}

// Compose renders a full page from already-rendered section markup.
func (r *Renderer) Compose(page PageView) (string, error) {
	var buf bytes.Buffer
	if err := r.backend.Execute(&buf, LayoutTemplate, page); err != nil {
		return "", fmt.Errorf("compose %q with %s backend: %w", page.Key, r.backend.Name(), err)
	}
	return buf.String(), nil
}

// Trusted marks markup returned by Render for embedding in a PageView.
func Trusted(markup string) template.HTML {
	// Render output is escaped by html/template or by the definition's render func.
	return template.HTML(markup)
}

var wrapper = template.Must(template.New("section").Parse(
	`<section id="{{.Anchor}}" class="sf-section sf-{{.Type}}" data-section-type="{{.Type}}" style="{{.Style}}">` +
		"\n{{.Inner}}\n</section>\n"))

type wrapperData struct {
	View
	Inner template.HTML
}

func wrap(view View, inner string) (string, error) {
	var buf bytes.Buffer
	// Inner markup is produced by html/template or by a render func that
	// escapes its own output.
	if err := wrapper.Execute(&buf, wrapperData{View: view, Inner: template.HTML(strings.TrimSpace(inner))}); err != nil {
		return "", fmt.Errorf("wrap %q: %w", view.ID, err)
	}
	return buf.String(), nil
}

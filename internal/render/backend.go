package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// Template layout inside a template file system.
const (
	sectionsDir     = "sections"
	partialsPattern = "partials/*.html"
	templateExt     = ".html"
)

// TemplatePath is where a template id lives inside a template file system.
// Bare ids are section templates; ids with a directory ("layouts/page") are
// taken relative to the root.
func TemplatePath(templateID string) string {
	if strings.Contains(templateID, "/") {
		return path.Clean(templateID) + templateExt
	}
	return path.Join(sectionsDir, templateID+templateExt)
}

// parse compiles one section template plus every shared partial. Both backends
// go through here so they compile the same source with the same functions.
func parse(fsys fs.FS, templateID string) (*template.Template, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template id is empty")
	}
	file := TemplatePath(templateID)

	patterns := []string{file}
	partials, err := fs.Glob(fsys, partialsPattern)
	if err != nil {
		return nil, err
	}
	if len(partials) > 0 {
		patterns = append(patterns, partialsPattern)
	}

	tmpl, err := template.New(path.Base(file)).Funcs(Funcs()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return tmpl, nil
}

// PreviewBackend compiles each template once and serves later renders from
// a cache keyed by template id.
type PreviewBackend struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewPreviewBackend returns a caching backend over fsys.
func NewPreviewBackend(fsys fs.FS) *PreviewBackend {
	return &PreviewBackend{fsys: fsys, cache: make(map[string]*template.Template)}
}

// Name implements Backend.
func (b *PreviewBackend) Name() string { return "preview" }

// Execute implements Backend.
func (b *PreviewBackend) Execute(w io.Writer, templateID string, data any) error {
	tmpl, err := b.lookup(templateID)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// Cached reports how many templates have been compiled.
func (b *PreviewBackend) Cached() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cache)
}

func (b *PreviewBackend) lookup(templateID string) (*template.Template, error) {
	b.mu.RLock()
	tmpl, ok := b.cache[templateID]
	b.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if tmpl, ok := b.cache[templateID]; ok {
		return tmpl, nil
	}
	tmpl, err := parse(b.fsys, templateID)
	if err != nil {
		return nil, err
	}
	b.cache[templateID] = tmpl
	return tmpl, nil
}

// ExportBackend resolves templates by path on every render. It keeps no state.
type ExportBackend struct {
	fsys fs.FS
}

// NewExportBackend returns a path-resolving backend over fsys.
func NewExportBackend(fsys fs.FS) *ExportBackend {
	return &ExportBackend{fsys: fsys}
}

// Name implements Backend.
func (b *ExportBackend) Name() string { return "export" }

// Execute implements Backend.
func (b *ExportBackend) Execute(w io.Writer, templateID string, data any) error {
	tmpl, err := parse(b.fsys, templateID)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

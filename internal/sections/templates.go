package sections

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embedded embed.FS

// Templates returns the built-in template set rooted so that section templates
// live at sections/<id>.html, shared partials at partials/*.html and the page
// layout at layouts/page.html.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

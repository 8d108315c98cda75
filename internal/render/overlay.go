package render

import (
	"errors"
	"io/fs"
	"sort"
)

// Overlay serves files from upper when present and from lower otherwise.
// Directory listings merge both layers. It lets a project override single
// templates on disk while the rest come from the embedded set.
type Overlay struct {
	upper fs.FS
	lower fs.FS
}

// NewOverlay layers upper over lower. A nil upper returns lower unchanged.
func NewOverlay(upper, lower fs.FS) fs.FS {
	if upper == nil {
		return lower
	}
	return &Overlay{upper: upper, lower: lower}
}

// Open implements fs.FS.
func (o *Overlay) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}

// ReadDir implements fs.ReadDirFS so fs.Glob sees both layers.
func (o *Overlay) ReadDir(name string) ([]fs.DirEntry, error) {
	upper, upperErr := fs.ReadDir(o.upper, name)
	lower, lowerErr := fs.ReadDir(o.lower, name)
	if upperErr != nil && lowerErr != nil {
		return nil, lowerErr
	}

	seen := make(map[string]struct{}, len(upper))
	out := make([]fs.DirEntry, 0, len(upper)+len(lower))
	for _, e := range upper {
		seen[e.Name()] = struct{}{}
		out = append(out, e)
	}
	for _, e := range lower {
		if _, dup := seen[e.Name()]; !dup {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

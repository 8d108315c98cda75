package export

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/alexisbeaulieu97/sectionforge/internal/tags"
	"github.com/alexisbeaulieu97/sectionforge/pkg/diff"
)

// Artifact layout inside the output directory.
const (
	ManifestPath = "manifest.json"
	pagesDir     = "pages"
	fragmentsDir = "sections"
)

// Artifacts maps a slash-separated relative path to file content.
type Artifacts map[string][]byte

// Paths returns the artifact paths sorted.
func (a Artifacts) Paths() []string {
	paths := make([]string, 0, len(a))
	for p := range a {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// PagePath is where the composed page for key is written.
func PagePath(key string) string {
	return path.Join(pagesDir, key+".html")
}

// fragmentPath is where one rendered section is written. Ids come from stored
// documents, so they are slugged before becoming file names.
func fragmentPath(page, id string) string {
	return path.Join(fragmentsDir, tags.IDSlug(page), tags.IDSlug(id)+".html")
}

// WriteDir writes every artifact under dir, replacing each file atomically.
func WriteDir(dir string, artifacts Artifacts) error {
	for _, rel := range artifacts.Paths() {
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return fmt.Errorf("artifact path %q escapes the output directory", rel)
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}

		tmpPath := target + ".tmp"
		if err := os.WriteFile(tmpPath, artifacts[rel], 0o644); err != nil {
			return fmt.Errorf("failed to write temporary file: %w", err)
		}
		if err := os.Rename(tmpPath, target); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("failed to rename temporary file: %w", err)
		}
	}
	return nil
}

// ChangeKind classifies an artifact against what is already on disk.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
	ChangeRemoved   ChangeKind = "removed"
)

// Change describes one path. Diff is set for modified files.
type Change struct {
	Path string
	Kind ChangeKind
	Diff string
}

// Diff compares artifacts with the files under dir. Files under the artifact
// directories that the new export no longer produces are reported removed.
// A missing dir means every artifact is added.
func Diff(dir string, artifacts Artifacts) ([]Change, error) {
	var changes []Change
	for _, rel := range artifacts.Paths() {
		next := artifacts[rel]
		previous, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if errors.Is(err, fs.ErrNotExist) {
			changes = append(changes, Change{Path: rel, Kind: ChangeAdded})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		if hashContent(previous) == hashContent(next) {
			changes = append(changes, Change{Path: rel, Kind: ChangeUnchanged})
			continue
		}
		changes = append(changes, Change{
			Path: rel,
			Kind: ChangeModified,
			Diff: diff.GenerateUnifiedDiff(previous, next, "a/"+rel, "b/"+rel),
		})
	}

	removed, err := stale(dir, artifacts)
	if err != nil {
		return nil, err
	}
	for _, rel := range removed {
		changes = append(changes, Change{Path: rel, Kind: ChangeRemoved})
	}
	return changes, nil
}

func stale(dir string, artifacts Artifacts) ([]string, error) {
	var out []string
	fsys := os.DirFS(dir)
	for _, root := range []string{pagesDir, fragmentsDir} {
		err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := artifacts[p]; !ok {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func hashContent(content []byte) string {
	hasher := sha256.New()
	hasher.Write(content)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Package content is the read-only boundary to the external content source that
// supplies tagged pages and posts to tag-bound sections.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// Tag is a content tag as the source reports it. Only Slug is used for matching.
type Tag struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Slug       string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Page is a page or post from the content source.
type Page struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Slug         string `json:"slug" yaml:"slug"`
	URL          string `json:"url" yaml:"url"`
	HTML         string `json:"html,omitempty" yaml:"html,omitempty"`
	Excerpt      string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	FeatureImage string `json:"feature_image,omitempty" yaml:"feature_image,omitempty"`
	Tags         []Tag  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasTag reports whether the page carries a tag with the given slug.
// An empty slug never matches.
func (p Page) HasTag(slug string) bool {
	if slug == "" {
		return false
	}
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// Source supplies pages to the renderer.
type Source interface {
	Pages(ctx context.Context) ([]Page, error)
}

// Static is an in-memory source.
type Static []Page

// Pages returns a copy of the pages.
func (s Static) Pages(context.Context) ([]Page, error) {
	return append([]Page(nil), s...), nil
}

// File reads pages from a JSON or YAML fixture. The file may hold either a bare
// list of pages or an object with a "posts" and/or "pages" list, in that order.
type File struct {
	Path string
}

type envelope struct {
	Posts []Page `json:"posts" yaml:"posts"`
	Pages []Page `json:"pages" yaml:"pages"`
}

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Pages loads the fixture. It is re-read on every call so watch mode sees edits.
func (f File) Pages(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, sferrors.NewParseError(f.Path, 0, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	ext := strings.ToLower(filepath.Ext(f.Path))
	if ext == ".yaml" || ext == ".yml" {
		return decodeYAML(f.Path, data)
	}
	return decodeJSON(f.Path, trimmed)
}

func decodeJSON(path, data string) ([]Page, error) {
	if strings.HasPrefix(data, "[") {
		var pages []Page
		if err := json.Unmarshal([]byte(data), &pages); err != nil {
			return nil, sferrors.NewParseError(path, 0, err)
		}
		return pages, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, sferrors.NewParseError(path, 0, err)
	}
	return append(env.Posts, env.Pages...), nil
}

func decodeYAML(path string, data []byte) ([]Page, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, sferrors.NewParseError(path, extractLine(err), err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var pages []Page
		if err := node.Decode(&pages); err != nil {
			return nil, sferrors.NewParseError(path, extractLine(err), err)
		}
		return pages, nil
	}

	var env envelope
	if err := node.Decode(&env); err != nil {
		return nil, sferrors.NewParseError(path, extractLine(err), err)
	}
	return append(env.Posts, env.Pages...), nil
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

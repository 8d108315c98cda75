package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFileJSONEnvelope(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "content.json", `{
		"posts": [{"id": "1", "title": "First", "slug": "first", "url": "/first/", "tags": [{"slug": "hash-ghost-card"}]}],
		"pages": [{"id": "2", "title": "About", "slug": "about", "url": "/about/"}]
	}`)

	pages, err := File{Path: path}.Pages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "first", pages[0].Slug)
	assert.True(t, pages[0].HasTag("hash-ghost-card"))
	assert.Equal(t, "about", pages[1].Slug)
}

func TestFileYAMLList(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "content.yaml", `
- id: "1"
  title: First
  slug: first
  url: /first/
  feature_image: /img/first.jpg
  tags:
    - name: "#ghost-card"
      slug: hash-ghost-card
`)

	pages, err := File{Path: path}.Pages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "/img/first.jpg", pages[0].FeatureImage)
	assert.Equal(t, "#ghost-card", pages[0].Tags[0].Name)
}

func TestFileYAMLSyntaxErrorReportsLine(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "content.yaml", "posts:\n  - id: \"1\"\n\ttitle: bad\n")

	_, err := File{Path: path}.Pages(context.Background())
	require.Error(t, err)

	var parseErr *sferrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
	assert.Positive(t, parseErr.Line)
}

func TestFileEmptyAndCancelled(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "content.json", "  \n")
	pages, err := File{Path: path}.Pages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pages)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = File{Path: path}.Pages(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHasTagNeverMatchesEmptySlug(t *testing.T) {
	t.Parallel()

	untagged := Page{ID: "1"}
	assert.False(t, untagged.HasTag(""))
	assert.False(t, untagged.HasTag("news"))

	tagged := Page{ID: "2", Tags: []Tag{{Name: "News"}}}
	assert.False(t, tagged.HasTag(""))
}

func TestStaticReturnsCopy(t *testing.T) {
	t.Parallel()

	src := Static{{ID: "1"}}
	pages, err := src.Pages(context.Background())
	require.NoError(t, err)
	pages[0].ID = "changed"
	assert.Equal(t, "1", src[0].ID)
}

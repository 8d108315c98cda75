package sections

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/render"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
	"github.com/alexisbeaulieu97/sectionforge/internal/testutil"
	"github.com/alexisbeaulieu97/sectionforge/internal/validation"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestBuiltinsAreValid(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, def := range All() {
		require.NoError(t, section.ValidateDefinition(def), def.ID)
		assert.False(t, seen[def.ID], "duplicate %s", def.ID)
		seen[def.ID] = true
	}
	assert.Len(t, seen, 13)
	assert.True(t, seen[Spacer])
}

func TestBuiltinDefaultsSurviveValidation(t *testing.T) {
	t.Parallel()

	for _, def := range All() {
		cfg := def.CreateConfig()
		result, err := validation.Validate(def, cfg.ToMap())
		require.NoError(t, err, def.ID)
		assert.Empty(t, result.Warnings, def.ID)
		assert.Equal(t, cfg, result.Config, def.ID)
	}
}

func TestPremiumBuiltins(t *testing.T) {
	t.Parallel()

	var premium []string
	for _, def := range All() {
		if def.Premium {
			premium = append(premium, def.ID)
		}
	}
	assert.Equal(t, []string{Testimonials, PricingTable}, premium)
}

func TestEveryTemplateExists(t *testing.T) {
	t.Parallel()

	preview := render.New(render.NewPreviewBackend(Templates()))
	export := render.New(render.NewExportBackend(Templates()))
	for _, def := range All() {
		ctx := render.Context{InstanceID: def.ID, PageKey: HomePage, Miss: def.Binding != nil}
		a, err := preview.Render(def, def.CreateConfig(), ctx)
		require.NoError(t, err, def.ID)
		b, err := export.Render(def, def.CreateConfig(), ctx)
		require.NoError(t, err, def.ID)
		assert.Equal(t, a, b, def.ID)
	}
}

func TestDefaultRenders(t *testing.T) {
	t.Parallel()

	roots := map[string]string{
		Header:          "header.sf-header",
		AnnouncementBar: "div.sf-announcement",
		Hero:            "div.sf-hero",
		CardGrid:        "div.sf-card-grid",
		TwoColumnGrid:   "div.sf-two-column",
		ImageWithText:   "div.sf-image-with-text",
		RichText:        "div.sf-rich-text",
		FAQ:             "div.sf-faq",
		Newsletter:      "div.sf-newsletter",
		Testimonials:    "div.sf-testimonials",
		PricingTable:    "div.sf-pricing",
		Spacer:          "div.sf-spacer",
		Footer:          "footer.sf-footer",
	}

	r := render.New(render.NewExportBackend(Templates()))
	for _, def := range All() {
		t.Run(def.ID, func(t *testing.T) {
			t.Parallel()

			out, err := r.Render(def, def.CreateConfig(), render.Context{InstanceID: def.ID, PageKey: HomePage})
			require.NoError(t, err)

			doc := testutil.ParseHTML(t, out)
			wrapper := doc.Find("section#sf-" + def.ID)
			require.Equal(t, 1, wrapper.Length())
			assert.Equal(t, def.ID, wrapper.AttrOr("data-section-type", ""))
			assert.NotEmpty(t, wrapper.AttrOr("style", ""))

			root, ok := roots[def.ID]
			require.True(t, ok, "no root selector for %s", def.ID)
			assert.Equal(t, 1, wrapper.ChildrenFiltered(root).Length())
		})
	}
}

func TestCatalogueSnapshot(t *testing.T) {
	t.Parallel()

	lines := make([]string, 0, len(All()))
	for _, def := range All() {
		line := def.ID + " " + string(def.Category)
		if def.Premium {
			line += " premium"
		}
		lines = append(lines, line)
	}
	snaps.MatchSnapshot(t, strings.Join(lines, "\n"))
}

func TestCardGridRendersBoundPages(t *testing.T) {
	t.Parallel()

	def := cardGrid()
	cfg := def.CreateConfig()
	pages := []content.Page{
		{ID: "1", Title: "First", URL: "/first/", Excerpt: "One"},
		{ID: "2", Title: "Second", URL: "/second/", Excerpt: "Two"},
	}
	out, err := render.New(render.NewPreviewBackend(Templates())).Render(def, cfg, render.Context{
		InstanceID: "card-grid-1",
		Bound:      section.Bound{Page: &pages[0], Pages: pages},
	})
	require.NoError(t, err)

	doc := testutil.ParseHTML(t, out)
	assert.Equal(t, 2, doc.Find(".sf-post-card").Length())
	assert.Equal(t, "/second/", doc.Find(".sf-post-card a").Eq(1).AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find(".sf-empty").Length())
	assert.True(t, doc.Find(".sf-card-grid").HasClass("sf-cols-3"))
}

func TestCardGridEmptyStateOnMiss(t *testing.T) {
	t.Parallel()

	def := cardGrid()
	out, err := render.New(render.NewExportBackend(Templates())).Render(def, def.CreateConfig(), render.Context{InstanceID: "g", Miss: true})
	require.NoError(t, err)
	doc := testutil.ParseHTML(t, out)
	assert.Equal(t, "No posts tagged #ghost-card yet.", testutil.Text(t, doc, ".sf-empty"))
}

func TestImageWithTextUsesFirstBoundPage(t *testing.T) {
	t.Parallel()

	def := imageWithText()
	page := content.Page{Title: "Feature <b>", URL: "javascript:alert(1)", FeatureImage: "/img.png"}
	out, err := render.New(render.NewExportBackend(Templates())).Render(def, def.CreateConfig(), render.Context{
		InstanceID: "iwt",
		Bound:      section.Bound{Page: &page, Pages: []content.Page{page}},
	})
	require.NoError(t, err)

	doc := testutil.ParseHTML(t, out)
	assert.Equal(t, "Feature <b>", testutil.Text(t, doc, "h2"))
	assert.Equal(t, "#", doc.Find("a.sf-button").AttrOr("href", ""))
	assert.Equal(t, "/img.png", doc.Find("img.sf-media").AttrOr("src", ""))
	assert.True(t, doc.Find(".sf-image-with-text").HasClass("sf-image-left"))
}

func TestSpacerRenderFunc(t *testing.T) {
	t.Parallel()

	def := spacer()
	cfg := def.CreateConfig()
	cfg.Values["height"] = 500.0
	cfg.Values["divider"] = true

	out, err := def.Render(cfg, section.Bound{})
	require.NoError(t, err)
	assert.Equal(t, `<div class="sf-spacer sf-divider" style="height:200px" aria-hidden="true"></div>`, out)
}

func TestComposeUsesLayout(t *testing.T) {
	t.Parallel()

	r := render.New(render.NewPreviewBackend(Templates()))
	out, err := r.Compose(render.PageView{
		Key:      HomePage,
		Title:    "Home",
		SiteName: "Site & Co",
		Header:   render.Trusted(`<header id="h"></header>`),
	})
	require.NoError(t, err)

	doc := testutil.ParseHTML(t, out)
	assert.Equal(t, "Home | Site & Co", testutil.Text(t, doc, "title"))
	assert.True(t, doc.Find("body").HasClass("sf-page-home"))
	assert.Equal(t, 1, doc.Find("header#h").Length())
}

func TestPageTemplates(t *testing.T) {
	t.Parallel()

	ids := make(map[string]bool)
	for _, def := range All() {
		ids[def.ID] = true
	}
	for _, p := range PageTemplates() {
		for _, s := range p.Sections {
			assert.True(t, ids[s.DefinitionID], "%s/%s", p.Key, s.DefinitionID)
		}
	}

	footer, ok := PageTemplateFor(FooterPage)
	require.True(t, ok)
	assert.True(t, footer.Sections[0].Required)

	_, ok = PageTemplateFor("missing")
	assert.False(t, ok)
}

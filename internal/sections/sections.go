// Package sections holds the built-in section catalogue and the templates that
// render it.
package sections

import (
	"fmt"
	"html"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// Built-in definition ids.
const (
	Header          = "header"
	Footer          = "footer"
	AnnouncementBar = "announcement-bar"
	Hero            = "hero"
	CardGrid        = "card-grid"
	TwoColumnGrid   = "two-column-grid"
	ImageWithText   = "image-with-text"
	RichText        = "rich-text"
	FAQ             = "faq"
	Newsletter      = "newsletter"
	Testimonials    = "testimonials"
	PricingTable    = "pricing-table"
	Spacer          = "spacer"
)

// All returns fresh copies of every built-in definition in catalogue order.
func All() []*section.Definition {
	return []*section.Definition{
		header(),
		announcementBar(),
		hero(),
		cardGrid(),
		twoColumnGrid(),
		imageWithText(),
		richText(),
		faq(),
		newsletter(),
		testimonials(),
		pricingTable(),
		spacer(),
		footer(),
	}
}

func pad(top, bottom int) section.Padding {
	return section.Padding{Top: top, Bottom: bottom}
}

// options labels each value with its title-cased form.
func options(values ...string) []schema.Option {
	title := cases.Title(language.English)
	out := make([]schema.Option, 0, len(values))
	for _, v := range values {
		out = append(out, schema.Option{Label: title.String(v), Value: v})
	}
	return out
}

func linkBlock(limit int) schema.Block {
	return schema.Block{
		Type:  "link",
		Name:  "Link",
		Limit: limit,
		Settings: []schema.Setting{
			schema.Text{ID: "label", Label: "Label", DefaultValue: "Link"},
			schema.URL{ID: "url", Label: "URL", DefaultValue: "/"},
		},
	}
}

func header() *section.Definition {
	return &section.Definition{
		ID:          Header,
		Label:       "Header",
		Description: "Site title and primary navigation.",
		Category:    section.CategoryHeader,
		Settings: []schema.Setting{
			schema.Text{ID: "siteTitle", Label: "Site title", DefaultValue: "My Site"},
			schema.URL{ID: "logoLink", Label: "Logo link", DefaultValue: "/"},
			schema.Checkbox{ID: "sticky", Label: "Stick to top", DefaultValue: false},
			schema.Header{ID: "colors", Label: "Colors"},
			schema.Color{ID: "background", Label: "Background", DefaultValue: "#ffffff"},
			schema.Color{ID: "textColor", Label: "Text", DefaultValue: "#111111"},
		},
		Blocks: []schema.Block{linkBlock(8)},
		DefaultBlocks: []section.Block{
			{Type: "link", Values: map[string]any{"label": "Home", "url": "/"}},
			{Type: "link", Values: map[string]any{"label": "About", "url": "/about/"}},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(16, 16),
		Template:          Header,
	}
}

func footer() *section.Definition {
	return &section.Definition{
		ID:          Footer,
		Label:       "Footer",
		Description: "Copyright line, secondary links and a short note.",
		Category:    section.CategoryFooter,
		Settings: []schema.Setting{
			schema.Text{ID: "copyright", Label: "Copyright", DefaultValue: "© My Site"},
			schema.RichText{ID: "note", Label: "Note", DefaultValue: ""},
			schema.Color{ID: "background", Label: "Background", DefaultValue: "#111111"},
			schema.Color{ID: "textColor", Label: "Text", DefaultValue: "#ffffff"},
		},
		Blocks:            []schema.Block{linkBlock(10)},
		DefaultVisibility: true,
		DefaultPadding:    pad(48, 48),
		Template:          Footer,
	}
}

func announcementBar() *section.Definition {
	return &section.Definition{
		ID:       AnnouncementBar,
		Label:    "Announcement bar",
		Category: section.CategoryPromo,
		Settings: []schema.Setting{
			schema.Text{ID: "message", Label: "Message", DefaultValue: "Welcome to our new site"},
			schema.URL{ID: "link", Label: "Link", DefaultValue: "#"},
			schema.Checkbox{ID: "dismissible", Label: "Dismissible", DefaultValue: true},
			schema.Color{ID: "background", Label: "Background", DefaultValue: "#111111"},
			schema.Color{ID: "textColor", Label: "Text", DefaultValue: "#ffffff"},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(8, 8),
		Template:          AnnouncementBar,
	}
}

func hero() *section.Definition {
	return &section.Definition{
		ID:          Hero,
		Label:       "Hero",
		Description: "Large heading with an optional image and call-to-action buttons.",
		Category:    section.CategoryHero,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Welcome to my site"},
			schema.Textarea{ID: "subheading", Label: "Subheading", DefaultValue: "Tell visitors what you write about."},
			schema.Text{ID: "image", Label: "Image URL", DefaultValue: ""},
			schema.Header{ID: "layout", Label: "Layout"},
			schema.Select{ID: "align", Label: "Alignment", Options: options("left", "center", "right"), DefaultValue: "center"},
			schema.Range{ID: "minHeight", Label: "Minimum height", Min: 240, Max: 900, Step: 20, Unit: "px", DefaultValue: 480},
			schema.Color{ID: "background", Label: "Background", DefaultValue: "#f5f5f5"},
			schema.Color{ID: "textColor", Label: "Text", DefaultValue: "#111111"},
		},
		Hidden: []schema.Field{
			schema.Text{ID: "variant", DefaultValue: "classic"},
		},
		Blocks: []schema.Block{{
			Type:  "button",
			Name:  "Button",
			Limit: 2,
			Settings: []schema.Setting{
				schema.Text{ID: "label", Label: "Label", DefaultValue: "Learn more"},
				schema.URL{ID: "link", Label: "Link", DefaultValue: "#"},
				schema.Radio{ID: "style", Label: "Style", Options: options("primary", "secondary"), DefaultValue: "primary"},
			},
		}},
		DefaultBlocks: []section.Block{
			{Type: "button", Values: map[string]any{"label": "Get started"}},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(96, 96),
		Template:          Hero,
	}
}

func cardGrid() *section.Definition {
	return &section.Definition{
		ID:          CardGrid,
		Label:       "Card grid",
		Description: "Posts carrying a tag, followed by any hand-written cards.",
		Category:    section.CategoryGrid,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Latest posts"},
			schema.Header{ID: "source", Label: "Source"},
			schema.Text{ID: "tag", Label: "Tag", Info: "Internal tags start with #.", DefaultValue: "#ghost-card"},
			schema.Text{ID: "hideTag", Label: "Hide posts tagged", DefaultValue: ""},
			schema.Range{ID: "limit", Label: "Posts to show", Min: 1, Max: 12, Step: 1, DefaultValue: 6},
			schema.Header{ID: "display", Label: "Display"},
			schema.Range{ID: "columns", Label: "Columns", Min: 1, Max: 4, Step: 1, DefaultValue: 3},
			schema.Checkbox{ID: "showExcerpt", Label: "Show excerpt", DefaultValue: true},
		},
		Blocks: []schema.Block{{
			Type:  "card",
			Name:  "Card",
			Limit: 6,
			Settings: []schema.Setting{
				schema.Text{ID: "title", Label: "Title", DefaultValue: "Card title"},
				schema.Textarea{ID: "text", Label: "Text", DefaultValue: ""},
				schema.URL{ID: "link", Label: "Link", DefaultValue: "#"},
				schema.Text{ID: "image", Label: "Image URL", DefaultValue: ""},
			},
		}},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Template:          CardGrid,
		Binding: &section.TagBinding{
			TagField:     "tag",
			HideTagField: "hideTag",
			Multiple:     true,
			LimitField:   "limit",
		},
	}
}

func twoColumnGrid() *section.Definition {
	return &section.Definition{
		ID:       TwoColumnGrid,
		Label:    "Two column grid",
		Category: section.CategoryGrid,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: ""},
			schema.Text{ID: "tag", Label: "Tag", DefaultValue: "#two-column"},
			schema.Text{ID: "hideTag", Label: "Hide posts tagged", DefaultValue: ""},
			schema.Range{ID: "limit", Label: "Posts to show", Min: 2, Max: 8, Step: 2, DefaultValue: 4},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Template:          TwoColumnGrid,
		Binding: &section.TagBinding{
			TagField:     "tag",
			HideTagField: "hideTag",
			Multiple:     true,
			LimitField:   "limit",
		},
	}
}

func imageWithText() *section.Definition {
	return &section.Definition{
		ID:          ImageWithText,
		Label:       "Image with text",
		Description: "Feature image, title and excerpt of the first post carrying a tag.",
		Category:    section.CategoryMedia,
		Settings: []schema.Setting{
			schema.Text{ID: "tag", Label: "Tag", DefaultValue: "#image-with-text"},
			schema.Select{ID: "imagePosition", Label: "Image position", Options: options("left", "right"), DefaultValue: "left"},
			schema.Text{ID: "buttonLabel", Label: "Button label", DefaultValue: "Read more"},
			schema.Paragraph{ID: "help", Info: "Tag a post to show it here."},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Template:          ImageWithText,
		Binding:           &section.TagBinding{TagField: "tag"},
	}
}

func richText() *section.Definition {
	return &section.Definition{
		ID:       RichText,
		Label:    "Rich text",
		Category: section.CategoryContent,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: ""},
			schema.RichText{ID: "body", Label: "Body", DefaultValue: "<p>Share your story.</p>"},
			schema.Select{ID: "width", Label: "Width", Options: options("narrow", "wide"), DefaultValue: "narrow"},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(48, 48),
		Template:          RichText,
	}
}

func faq() *section.Definition {
	return &section.Definition{
		ID:       FAQ,
		Label:    "FAQ",
		Category: section.CategoryContent,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Frequently asked questions"},
		},
		Blocks: []schema.Block{{
			Type:  "item",
			Name:  "Question",
			Limit: 20,
			Settings: []schema.Setting{
				schema.Text{ID: "question", Label: "Question", DefaultValue: "Question"},
				schema.RichText{ID: "answer", Label: "Answer", DefaultValue: "<p>Answer</p>"},
			},
		}},
		DefaultBlocks: []section.Block{
			{Type: "item", Values: map[string]any{"question": "How often do you publish?", "answer": "<p>Every week.</p>"}},
			{Type: "item", Values: map[string]any{"question": "Can I subscribe?", "answer": "<p>Yes, sign up below.</p>"}},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Template:          FAQ,
	}
}

func newsletter() *section.Definition {
	return &section.Definition{
		ID:       Newsletter,
		Label:    "Newsletter",
		Category: section.CategoryPromo,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Subscribe"},
			schema.Textarea{ID: "description", Label: "Description", DefaultValue: "Get the latest posts delivered to your inbox."},
			schema.Text{ID: "placeholder", Label: "Placeholder", DefaultValue: "you@example.com"},
			schema.Text{ID: "buttonLabel", Label: "Button label", DefaultValue: "Subscribe"},
			schema.Color{ID: "background", Label: "Background", DefaultValue: "#f5f5f5"},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Template:          Newsletter,
	}
}

func testimonials() *section.Definition {
	return &section.Definition{
		ID:       Testimonials,
		Label:    "Testimonials",
		Category: section.CategoryPromo,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "What readers say"},
		},
		Blocks: []schema.Block{{
			Type:  "quote",
			Name:  "Quote",
			Limit: 6,
			Settings: []schema.Setting{
				schema.Textarea{ID: "quote", Label: "Quote", DefaultValue: "A great read every week."},
				schema.Text{ID: "author", Label: "Author", DefaultValue: "A reader"},
				schema.Text{ID: "role", Label: "Role", DefaultValue: ""},
			},
		}},
		DefaultBlocks:     []section.Block{{Type: "quote"}},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Premium:           true,
		Template:          Testimonials,
	}
}

func pricingTable() *section.Definition {
	return &section.Definition{
		ID:       PricingTable,
		Label:    "Pricing table",
		Category: section.CategoryPromo,
		Settings: []schema.Setting{
			schema.Text{ID: "heading", Label: "Heading", DefaultValue: "Pricing"},
		},
		Blocks: []schema.Block{{
			Type:  "plan",
			Name:  "Plan",
			Limit: 4,
			Settings: []schema.Setting{
				schema.Text{ID: "name", Label: "Name", DefaultValue: "Plan"},
				schema.Text{ID: "price", Label: "Price", DefaultValue: "$0"},
				schema.Textarea{ID: "features", Label: "Features", DefaultValue: ""},
				schema.URL{ID: "link", Label: "Link", DefaultValue: "#"},
				schema.Text{ID: "buttonLabel", Label: "Button label", DefaultValue: "Choose"},
				schema.Checkbox{ID: "highlighted", Label: "Highlight", DefaultValue: false},
			},
		}},
		DefaultBlocks: []section.Block{
			{Type: "plan", Values: map[string]any{"name": "Free", "price": "$0"}},
			{Type: "plan", Values: map[string]any{"name": "Supporter", "price": "$5/month", "highlighted": true}},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(64, 64),
		Premium:           true,
		Template:          PricingTable,
	}
}

func spacer() *section.Definition {
	return &section.Definition{
		ID:       Spacer,
		Label:    "Spacer",
		Category: section.CategoryLayout,
		Settings: []schema.Setting{
			schema.Range{ID: "height", Label: "Height", Min: 0, Max: 200, Step: 4, Unit: "px", DefaultValue: 48},
			schema.Checkbox{ID: "divider", Label: "Show divider", DefaultValue: false},
		},
		DefaultVisibility: true,
		DefaultPadding:    pad(0, 0),
		Render:            renderSpacer,
	}
}

func renderSpacer(cfg section.Config, _ section.Bound) (string, error) {
	height := section.ClampSide(int(cfg.Number("height")))
	class := "sf-spacer"
	if cfg.Bool("divider") {
		class += " sf-divider"
	}
	return fmt.Sprintf(`<div class="%s" style="height:%dpx" aria-hidden="true"></div>`, html.EscapeString(class), height), nil
}

package sections

// Page template keys. FooterPage holds the shared footer layout.
const (
	HomePage   = "home"
	PostPage   = "post"
	StaticPage = "page"
	TagPage    = "tag"
	FooterPage = "footer"
)

// DefaultSection is a section a page template starts with.
type DefaultSection struct {
	ID           string
	DefinitionID string
	// Required sections are re-seeded when missing from a stored document.
	Required bool
}

// PageTemplate is a named layout and the sections it ships with.
type PageTemplate struct {
	Key      string
	Label    string
	Sections []DefaultSection
}

// PageTemplates lists the page templates a document always carries, in
// export order.
func PageTemplates() []PageTemplate {
	return []PageTemplate{
		{
			Key:   HomePage,
			Label: "Home",
			Sections: []DefaultSection{
				{ID: Hero, DefinitionID: Hero, Required: true},
				{ID: CardGrid, DefinitionID: CardGrid, Required: true},
				{ID: Newsletter, DefinitionID: Newsletter},
			},
		},
		{
			Key:   PostPage,
			Label: "Post",
			Sections: []DefaultSection{
				{ID: RichText, DefinitionID: RichText, Required: true},
				{ID: Newsletter, DefinitionID: Newsletter},
			},
		},
		{
			Key:      StaticPage,
			Label:    "Page",
			Sections: []DefaultSection{{ID: RichText, DefinitionID: RichText, Required: true}},
		},
		{
			Key:      TagPage,
			Label:    "Tag archive",
			Sections: []DefaultSection{{ID: CardGrid, DefinitionID: CardGrid, Required: true}},
		},
		{
			Key:      FooterPage,
			Label:    "Footer",
			Sections: []DefaultSection{{ID: Footer, DefinitionID: Footer, Required: true}},
		},
	}
}

// PageTemplateFor returns the page template with key.
func PageTemplateFor(key string) (PageTemplate, bool) {
	for _, p := range PageTemplates() {
		if p.Key == key {
			return p, true
		}
	}
	return PageTemplate{}, false
}

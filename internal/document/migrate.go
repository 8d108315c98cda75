package document

import (
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
)

// Deprecated and current prefix of the card grid section ids.
const (
	LegacyPrefix  = "ghost-cards"
	CurrentPrefix = "card-grid"
)

// Rename records one migrated section id.
type Rename struct {
	Page string `json:"page"`
	From string `json:"from"`
	To   string `json:"to"`
}

// MigrateLegacyIDs renames section ids, order entries and types that carry
// the legacy prefix. An id whose new name is already taken is left as it is.
func MigrateLegacyIDs(doc *Document, log *logger.Logger) []Rename {
	var renames []Rename

	if migrated, ok := migrateID(doc.Header.Type); ok {
		doc.Header.Type = migrated
	}

	for _, page := range append([]string{FooterKey}, doc.PageKeys()...) {
		layout, ok := doc.Layout(page)
		if !ok {
			continue
		}
		renames = append(renames, migrateLayout(page, layout, log)...)
	}
	return renames
}

func migrateLayout(page string, layout *Layout, log *logger.Logger) []Rename {
	var renames []Rename

	for _, id := range sortedSectionIDs(layout) {
		cfg := layout.Sections[id]
		if migrated, ok := migrateID(cfg.Type); ok {
			cfg.Type = migrated
			layout.Sections[id] = cfg
		}

		to, ok := migrateID(id)
		if !ok {
			continue
		}
		if _, taken := layout.Sections[to]; taken {
			log.WithFields(map[string]any{"page": page, "section": id, "target": to}).
				Warn("legacy section id not migrated: target id already exists")
			continue
		}

		layout.Sections[to] = cfg
		delete(layout.Sections, id)
		for i, entry := range layout.Order {
			if entry == id {
				layout.Order[i] = to
			}
		}
		renames = append(renames, Rename{Page: page, From: id, To: to})
	}
	return renames
}

func migrateID(id string) (string, bool) {
	if !strings.HasPrefix(id, LegacyPrefix) {
		return id, false
	}
	return CurrentPrefix + strings.TrimPrefix(id, LegacyPrefix), true
}

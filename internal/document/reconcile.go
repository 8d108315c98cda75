package document

import (
	"sort"

	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
	"github.com/alexisbeaulieu97/sectionforge/internal/sections"
)

// Dropped reasons reported by Reconcile.
const (
	ReasonDuplicate = "duplicate"
	ReasonMissing   = "missing"
)

// OrderIssue is an order entry removed during reconciliation.
type OrderIssue struct {
	Page   string `json:"page"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Seeded is a default section added during reconciliation.
type Seeded struct {
	Page string `json:"page"`
	ID   string `json:"id"`
}

// ReconcileReport lists what reconciliation changed.
type ReconcileReport struct {
	Dropped []OrderIssue
	Seeded  []Seeded
}

// Changed reports whether the document was modified.
func (r ReconcileReport) Changed() bool {
	return len(r.Dropped) > 0 || len(r.Seeded) > 0
}

// Reconcile brings every order list in line with its sections map: duplicate
// and dangling ids are dropped, and required template sections missing from
// both are seeded with their default config. Soft-deleted sections stay.
func Reconcile(doc *Document, defs Definitions, templates []sections.PageTemplate, log *logger.Logger) ReconcileReport {
	doc.normalize()
	var report ReconcileReport

	if doc.Header.IsZero() {
		if cfg, ok := defaultConfig(defs, sections.Header); ok {
			doc.Header = cfg
			report.Seeded = append(report.Seeded, Seeded{Page: HeaderKey, ID: sections.Header})
		}
	}

	known := make(map[string]sections.PageTemplate, len(templates))
	for _, tmpl := range templates {
		known[tmpl.Key] = tmpl
		if tmpl.Key != FooterKey {
			if _, ok := doc.Pages[tmpl.Key]; !ok {
				doc.Pages[tmpl.Key] = NewLayout()
			}
		}
	}

	for _, page := range append([]string{FooterKey}, doc.PageKeys()...) {
		layout, _ := doc.Layout(page)
		report.Dropped = append(report.Dropped, cleanOrder(page, layout)...)
		if tmpl, ok := known[page]; ok {
			report.Seeded = append(report.Seeded, seedRequired(page, layout, tmpl, defs)...)
		}
	}

	for _, issue := range report.Dropped {
		log.WithFields(map[string]any{"page": issue.Page, "section": issue.ID, "reason": issue.Reason}).
			Warn("order entry dropped")
	}
	for _, s := range report.Seeded {
		log.WithFields(map[string]any{"page": s.Page, "section": s.ID}).Debug("required section seeded")
	}
	return report
}

func cleanOrder(page string, layout *Layout) []OrderIssue {
	var dropped []OrderIssue
	seen := make(map[string]struct{}, len(layout.Order))
	kept := make([]string, 0, len(layout.Order))
	for _, id := range layout.Order {
		if _, dup := seen[id]; dup {
			dropped = append(dropped, OrderIssue{Page: page, ID: id, Reason: ReasonDuplicate})
			continue
		}
		seen[id] = struct{}{}
		if _, ok := layout.Sections[id]; !ok {
			dropped = append(dropped, OrderIssue{Page: page, ID: id, Reason: ReasonMissing})
			continue
		}
		kept = append(kept, id)
	}
	layout.Order = kept
	return dropped
}

func seedRequired(page string, layout *Layout, tmpl sections.PageTemplate, defs Definitions) []Seeded {
	var seeded []Seeded
	for _, s := range tmpl.Sections {
		if !s.Required {
			continue
		}
		if _, ok := layout.Sections[s.ID]; ok {
			continue
		}
		cfg, ok := defaultConfig(defs, s.DefinitionID)
		if !ok {
			continue
		}
		layout.Sections[s.ID] = cfg
		layout.Order = append(layout.Order, s.ID)
		seeded = append(seeded, Seeded{Page: page, ID: s.ID})
	}
	return seeded
}

// Seed builds a document holding every default section of every template.
func Seed(defs Definitions, templates []sections.PageTemplate) *Document {
	doc := New()
	if cfg, ok := defaultConfig(defs, sections.Header); ok {
		doc.Header = cfg
	}
	for _, tmpl := range templates {
		layout := NewLayout()
		for _, s := range tmpl.Sections {
			cfg, ok := defaultConfig(defs, s.DefinitionID)
			if !ok {
				continue
			}
			layout.Sections[s.ID] = cfg
			layout.Order = append(layout.Order, s.ID)
		}
		if tmpl.Key == FooterKey {
			doc.Footer = layout
		} else {
			doc.Pages[tmpl.Key] = layout
		}
	}
	return doc
}

func defaultConfig(defs Definitions, definitionID string) (SectionConfig, bool) {
	if defs == nil {
		return SectionConfig{}, false
	}
	def, ok := defs.Lookup(definitionID)
	if !ok {
		return SectionConfig{}, false
	}
	return SectionConfig{Type: def.ID, Settings: def.CreateConfig().ToMap()}, true
}

func sortedSectionIDs(layout *Layout) []string {
	ids := make([]string, 0, len(layout.Sections))
	for id := range layout.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

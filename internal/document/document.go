// Package document models the persisted theme: the header section, the footer
// layout and one layout per page, each an ordered view over a map of stored
// section configs.
package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// HeaderKey and FooterKey address the header and footer like page keys.
const (
	HeaderKey = "header"
	FooterKey = "footer"
)

// Definitions is the part of the registry the document needs.
type Definitions interface {
	Lookup(id string) (*section.Definition, bool)
}

// SectionConfig is one stored section. Settings is the raw settings object
// handed to the validator; keys this version does not know are kept in Extra
// and written back unchanged.
type SectionConfig struct {
	Type     string
	Settings map[string]any
	Extra    map[string]any
}

const (
	keyType     = "type"
	keySettings = "settings"
)

// MarshalJSON writes Extra first so the known keys win on collision.
func (c SectionConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+2)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.Type != "" {
		out[keyType] = c.Type
	}
	if c.Settings != nil {
		out[keySettings] = c.Settings
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any object; only type and settings are interpreted.
func (c *SectionConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("section config must be an object")
	}

	*c = SectionConfig{}
	if v, ok := raw[keyType]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("section type must be a string, got %T", v)
		}
		c.Type = s
		delete(raw, keyType)
	}
	if v, ok := raw[keySettings]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("section settings must be an object, got %T", v)
		}
		c.Settings = m
		delete(raw, keySettings)
	}
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

// Clone returns a deep copy.
func (c SectionConfig) Clone() SectionConfig {
	return SectionConfig{
		Type:     c.Type,
		Settings: section.CloneMap(c.Settings),
		Extra:    section.CloneMap(c.Extra),
	}
}

// IsZero reports whether nothing is stored.
func (c SectionConfig) IsZero() bool {
	return c.Type == "" && c.Settings == nil && len(c.Extra) == 0
}

// Layout is the ordered composition of one page or of the footer. Ids in
// Sections but not in Order are soft-deleted: inactive, kept for undo.
type Layout struct {
	Order    []string                 `json:"order" validate:"dive,required"`
	Sections map[string]SectionConfig `json:"sections" validate:"dive,keys,required,endkeys"`
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{Order: []string{}, Sections: map[string]SectionConfig{}}
}

// Active returns the ordered ids that resolve to a stored section.
func (l *Layout) Active() []string {
	out := make([]string, 0, len(l.Order))
	for _, id := range l.Order {
		if _, ok := l.Sections[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SoftDeleted returns the stored ids missing from the order, sorted.
func (l *Layout) SoftDeleted() []string {
	inOrder := make(map[string]struct{}, len(l.Order))
	for _, id := range l.Order {
		inOrder[id] = struct{}{}
	}
	var out []string
	for id := range l.Sections {
		if _, ok := inOrder[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	out := &Layout{
		Order:    append([]string{}, l.Order...),
		Sections: make(map[string]SectionConfig, len(l.Sections)),
	}
	for id, cfg := range l.Sections {
		out.Sections[id] = cfg.Clone()
	}
	return out
}

func (l *Layout) indexOf(id string) int {
	for i, candidate := range l.Order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// Document is the full theme composition.
type Document struct {
	Header SectionConfig      `json:"header"`
	Footer *Layout            `json:"footer"`
	Pages  map[string]*Layout `json:"pages" validate:"dive,keys,page_key,endkeys,required"`
}

// New returns an empty document with an initialized footer and page map.
func New() *Document {
	return &Document{Footer: NewLayout(), Pages: map[string]*Layout{}}
}

// Layout returns the layout for a page key; FooterKey addresses the footer.
func (d *Document) Layout(page string) (*Layout, bool) {
	if page == FooterKey {
		return d.Footer, d.Footer != nil
	}
	l, ok := d.Pages[page]
	return l, ok
}

// PageKeys returns the page keys sorted, without the footer.
func (d *Document) PageKeys() []string {
	keys := make([]string, 0, len(d.Pages))
	for k := range d.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Header: d.Header.Clone(),
		Footer: d.Footer.Clone(),
		Pages:  make(map[string]*Layout, len(d.Pages)),
	}
	for k, l := range d.Pages {
		out.Pages[k] = l.Clone()
	}
	return out
}

// normalize fills nil collections so later code never checks for them.
func (d *Document) normalize() {
	if d.Footer == nil {
		d.Footer = NewLayout()
	}
	if d.Pages == nil {
		d.Pages = map[string]*Layout{}
	}
	for _, l := range append([]*Layout{d.Footer}, mapValues(d.Pages)...) {
		if l.Order == nil {
			l.Order = []string{}
		}
		if l.Sections == nil {
			l.Sections = map[string]SectionConfig{}
		}
	}
}

func mapValues(m map[string]*Layout) []*Layout {
	out := make([]*Layout, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// DefinitionID resolves which definition a stored section renders with: its
// type when set, otherwise the longest dash-separated prefix of the instance
// id that names a definition ("card-grid-2" resolves to "card-grid").
func DefinitionID(instanceID string, cfg SectionConfig, defs Definitions) string {
	if cfg.Type != "" {
		return cfg.Type
	}
	candidate := instanceID
	for {
		if defs != nil {
			if _, ok := defs.Lookup(candidate); ok {
				return candidate
			}
		}
		i := strings.LastIndex(candidate, "-")
		if i <= 0 {
			break
		}
		candidate = candidate[:i]
	}
	if i := strings.LastIndex(instanceID, "-"); i > 0 {
		return instanceID[:i]
	}
	return instanceID
}

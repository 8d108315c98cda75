// Package tags normalizes section tag settings and matches them against the
// tags of pages from the content source.
package tags

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// hashPrefix is how the content source spells the leading "#" of internal tags.
const hashPrefix = "hash-"

var (
	legacyCardTag       = regexp.MustCompile(`(?i)^ghost-cards?(?:-(\d+))?$`)
	nonAlphanumericExpr = regexp.MustCompile(`[^a-z0-9]+`)
)

// FormatInternalTag canonicalizes a tag setting into its internal "#name" form.
// The ghost-card family of legacy aliases maps to "#ghost-card" or "#ghost-card-N".
// Empty input yields "", which callers treat as unset.
func FormatInternalTag(input string) string {
	stripped := strings.TrimSpace(input)
	stripped = strings.TrimSpace(strings.TrimLeft(stripped, "#"))
	if stripped == "" {
		return ""
	}

	if m := legacyCardTag.FindStringSubmatch(stripped); m != nil {
		if m[1] != "" {
			return "#ghost-card-" + m[1]
		}
		return "#ghost-card"
	}
	return "#" + stripped
}

// ToAPISlug converts a tag to the content source's slug scheme. Internal
// "#name" tags become "hash-" followed by the slug of name.
func ToAPISlug(tag string) string {
	tag = strings.TrimSpace(tag)
	if strings.HasPrefix(tag, "#") {
		name := Slugify(strings.TrimLeft(tag, "#"))
		if name == "" {
			return ""
		}
		return hashPrefix + name
	}
	return Slugify(tag)
}

// IDSlug turns a section instance id into a file-name and anchor-safe token.
// Ids that are already slugs are returned unchanged; any other id gets a short
// hash of the raw id appended, so distinct ids never share a token.
func IDSlug(id string) string {
	slug := Slugify(id)
	if slug == id && slug != "" {
		return slug
	}
	sum := sha256.Sum256([]byte(id))
	suffix := hex.EncodeToString(sum[:4])
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// Slugify lower-cases s and collapses every run of characters outside
// [a-z0-9] into a single "-".
func Slugify(s string) string {
	lowered := strings.ToLower(s)
	sanitized := nonAlphanumericExpr.ReplaceAllString(lowered, "-")
	return strings.Trim(sanitized, "-")
}

// FindByTag returns the first page carrying tagSlug and not carrying hideTagSlug.
// An empty tagSlug matches nothing.
func FindByTag(pages []content.Page, tagSlug, hideTagSlug string) (content.Page, bool) {
	for _, p := range pages {
		if matches(p, tagSlug, hideTagSlug) {
			return p, true
		}
	}
	return content.Page{}, false
}

// FilterByTag returns every page carrying tagSlug and not carrying hideTagSlug,
// in source order.
func FilterByTag(pages []content.Page, tagSlug, hideTagSlug string) []content.Page {
	var out []content.Page
	for _, p := range pages {
		if matches(p, tagSlug, hideTagSlug) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p content.Page, tagSlug, hideTagSlug string) bool {
	if !p.HasTag(tagSlug) {
		return false
	}
	return hideTagSlug == "" || !p.HasTag(hideTagSlug)
}

// SlugFor reads a tag setting from cfg and returns its content-source slug.
func SlugFor(cfg section.Config, field string) string {
	if field == "" {
		return ""
	}
	return ToAPISlug(FormatInternalTag(cfg.String(field)))
}

// Resolve binds pages to a tag-bound section. ok is false on a miss: the tag is
// unset or no page matched. A miss is not an error; the section renders empty.
func Resolve(binding *section.TagBinding, cfg section.Config, pages []content.Page) (bound section.Bound, ok bool) {
	if binding == nil {
		return section.Bound{}, true
	}

	tagSlug := SlugFor(cfg, binding.TagField)
	hideSlug := SlugFor(cfg, binding.HideTagField)
	if tagSlug == "" {
		return section.Bound{}, false
	}

	if !binding.Multiple {
		page, found := FindByTag(pages, tagSlug, hideSlug)
		if !found {
			return section.Bound{}, false
		}
		return section.Bound{Page: &page, Pages: []content.Page{page}}, true
	}

	matched := FilterByTag(pages, tagSlug, hideSlug)
	if binding.LimitField != "" {
		if limit := int(cfg.Number(binding.LimitField)); limit >= 0 && len(matched) > limit {
			matched = matched[:limit]
		}
	}
	if len(matched) == 0 {
		return section.Bound{}, false
	}
	first := matched[0]
	return section.Bound{Page: &first, Pages: matched}, true
}

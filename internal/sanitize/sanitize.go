// Package sanitize holds the value sanitizers whose output ends up in rendered markup:
// colours, link targets and rich-text HTML.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Hex returns a canonical lower-case #rrggbb colour, the literal "transparent", or fallback.
// The raw input is never echoed back unless it matched.
func Hex(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "transparent") {
		return "transparent"
	}
	if !hexPattern.MatchString(trimmed) {
		return fallback
	}

	lower := strings.ToLower(trimmed)
	if len(lower) == 4 {
		return string([]byte{'#', lower[1], lower[1], lower[2], lower[2], lower[3], lower[3]})
	}
	return lower
}

var passthroughPrefixes = []string{"http://", "https://", "mailto:", "tel:", "/", "#"}

// Href makes a user-supplied link target safe to place in an href attribute.
// Script URLs and empty input collapse to "#"; bare domains get an https:// prefix.
func Href(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "#"
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "javascript:") {
		return "#"
	}
	// "//" is covered by the "/" prefix.
	for _, prefix := range passthroughPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return trimmed
		}
	}
	return "https://" + trimmed
}

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	richTextOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("figure", "figcaption")
		p.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div")
		p.AllowAttrs("loading").OnElements("img")
		p.RequireNoFollowOnLinks(true)
		richTextPolicy = p
	})
	return richTextPolicy
}

// RichText strips scripts, event handlers and unsafe URLs from user-authored HTML.
// Policies are safe for concurrent use once built.
func RichText(html string) string {
	return policy().Sanitize(html)
}

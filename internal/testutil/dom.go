// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses rendered markup into a queryable document.
func ParseHTML(t testing.TB, body string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// Text returns the trimmed text of the first match of selector.
func Text(t testing.TB, doc *goquery.Document, selector string) string {
	t.Helper()

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		t.Fatalf("selector %q matched nothing", selector)
	}
	return strings.TrimSpace(sel.First().Text())
}

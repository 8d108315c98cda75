// Package ui styles terminal output for the CLI with lipgloss. Styles are
// bound to a renderer for the destination writer, so output piped to a file or
// captured in tests carries no escape codes.
package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Variant selects a badge colour.
type Variant int

const (
	VariantDefault Variant = iota
	VariantSuccess
	VariantWarning
	VariantDanger
	VariantInfo
	VariantPremium
)

var palette = map[Variant]lipgloss.AdaptiveColor{
	VariantDefault: {Light: "#475569", Dark: "#94a3b8"},
	VariantSuccess: {Light: "#15803d", Dark: "#4ade80"},
	VariantWarning: {Light: "#a16207", Dark: "#facc15"},
	VariantDanger:  {Light: "#b91c1c", Dark: "#f87171"},
	VariantInfo:    {Light: "#0e7490", Dark: "#22d3ee"},
	VariantPremium: {Light: "#7e22ce", Dark: "#c084fc"},
}

// Styles renders headings, badges and tables for one writer.
type Styles struct {
	renderer *lipgloss.Renderer
	heading  lipgloss.Style
	muted    lipgloss.Style
	header   lipgloss.Style
}

// New returns styles for w.
func New(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		renderer: r,
		heading:  r.NewStyle().Bold(true).Foreground(palette[VariantInfo]),
		muted:    r.NewStyle().Faint(true),
		header:   r.NewStyle().Bold(true).Underline(true),
	}
}

// Heading renders a section title.
func (s *Styles) Heading(text string) string {
	return s.heading.Render(text)
}

// Muted renders secondary text.
func (s *Styles) Muted(text string) string {
	return s.muted.Render(text)
}

// Badge renders a short status label.
func (s *Styles) Badge(text string, v Variant) string {
	color, ok := palette[v]
	if !ok {
		color = palette[VariantDefault]
	}
	return s.renderer.NewStyle().Foreground(color).Bold(v != VariantDefault).Render(text)
}

// Table aligns rows under headers. Cells may carry styling; widths are
// measured without escape codes.
func (s *Styles) Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			rendered := cell
			if style != nil {
				rendered = style(cell)
			}
			b.WriteString(rendered)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(c string) string { return s.header.Render(c) })
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

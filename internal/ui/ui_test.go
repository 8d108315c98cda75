package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylesArePlainForNonTerminalWriter(t *testing.T) {
	t.Parallel()

	s := New(&bytes.Buffer{})
	assert.Equal(t, "premium", s.Badge("premium", VariantPremium))
	assert.Equal(t, "Sections", s.Heading("Sections"))
	assert.Equal(t, "hint", s.Muted("hint"))
}

func TestTableAlignsColumns(t *testing.T) {
	t.Parallel()

	s := New(&bytes.Buffer{})
	out := s.Table([]string{"ID", "CLASS"}, [][]string{
		{"hero", "free"},
		{"pricing-table", "premium"},
		{"short"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID             CLASS", lines[0])
	assert.Equal(t, "hero           free", lines[1])
	assert.Equal(t, "pricing-table  premium", lines[2])
	assert.Equal(t, "short          ", lines[3])
}

func TestTableStylesHeaderOnly(t *testing.T) {
	t.Parallel()

	s := New(&bytes.Buffer{})
	s.renderer.SetColorProfile(termenv.ANSI)

	out := s.Table([]string{"ID", "CLASS"}, [][]string{
		{"pricing-table", "premium"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\x1b[")
	assert.Contains(t, lines[0], "ID")
	assert.Equal(t, lipgloss.Width("pricing-table  premium"), lipgloss.Width(lines[0])+len("premium")-len("CLASS"))
	assert.Equal(t, "pricing-table  premium", lines[1])
}

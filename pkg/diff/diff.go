package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// GenerateUnifiedDiff renders a line-oriented unified diff between two artifact versions.
// Returns empty string if content is identical.
// Truncates diffs exceeding 10,000 lines with a truncation marker.
func GenerateUnifiedDiff(previous, next []byte, previousLabel, nextLabel string) string {
	if bytes.Equal(previous, next) {
		return ""
	}

	dmp := diffmatchpatch.New()

	prevStr := string(previous)
	nextStr := string(next)

	// Diff whole lines so markup changes never split a line in the middle.
	prevChars, nextChars, lineArray := dmp.DiffLinesToChars(prevStr, nextStr)
	diffs := dmp.DiffMain(prevChars, nextChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- %s\n", previousLabel)
	fmt.Fprintf(&buf, "+++ %s\n", nextLabel)
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", countLines(prevStr), countLines(nextStr))

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		truncated := strings.Join(lines[:maxDiffLines], "\n")
		return truncated + "\n" + truncateMessage + "\n"
	}

	return result
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func countLines(text string) int {
	return len(splitLines(text))
}

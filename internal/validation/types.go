package validation

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// WarningKind classifies why a value was not taken as given.
type WarningKind string

const (
	// WarningMissing means the field was absent and its default was used.
	WarningMissing WarningKind = "missing"
	// WarningInvalid means the value had the wrong type or domain and was replaced.
	WarningInvalid WarningKind = "invalid"
	// WarningAdjusted means the value was clamped or rewritten into range.
	WarningAdjusted WarningKind = "adjusted"
	// WarningDropped means a block instance was discarded.
	WarningDropped WarningKind = "dropped"
)

// Warning is a non-fatal validation issue. The config is still usable.
type Warning struct {
	Field   string      `json:"field"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Result is the outcome of validating one section's raw settings.
type Result struct {
	Config   section.Config
	Warnings []Warning
}

// Issues returns the warnings other than missing fields: the ones that mean
// stored data was rewritten.
func (r *Result) Issues() []Warning {
	if r == nil {
		return nil
	}
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind != WarningMissing {
			out = append(out, w)
		}
	}
	return out
}

// Summary joins the issues into one line for logs and CLI output.
func (r *Result) Summary() string {
	issues := r.Issues()
	parts := make([]string, 0, len(issues))
	for _, w := range issues {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, "; ")
}

type collector struct {
	warnings []Warning
}

func (c *collector) add(field string, kind WarningKind, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Field: field, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

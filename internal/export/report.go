package export

import (
	"encoding/json"
	"fmt"

	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/validation"
)

// Status is what happened to one section during a run.
type Status string

const (
	StatusRendered    Status = "rendered"
	StatusPlaceholder Status = "placeholder"
	StatusOmitted     Status = "omitted"
	StatusHidden      Status = "hidden"
	StatusUnknown     Status = "unknown"
)

// Entry reports one section.
type Entry struct {
	Page       string               `json:"page"`
	ID         string               `json:"id"`
	Definition string               `json:"definition"`
	Status     Status               `json:"status"`
	Class      gate.Class           `json:"class,omitempty"`
	Miss       bool                 `json:"tagMiss,omitempty"`
	Warnings   []validation.Warning `json:"warnings,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Report lists every section a run looked at, in render order.
type Report struct {
	Tier    gate.Tier           `json:"tier"`
	Policy  gate.Policy         `json:"policy"`
	Entries []Entry             `json:"sections"`
	Pages   map[string][]string `json:"pages"`
}

// Count returns the number of entries with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// WithStatus returns the entries with status.
func (r *Report) WithStatus(status Status) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Entry returns the entry for a section on a page.
func (r *Report) Entry(page, id string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Page == page && e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// WarningCount is the total number of repaired fields.
func (r *Report) WarningCount() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Warnings)
	}
	return n
}

func (r *Report) manifest() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

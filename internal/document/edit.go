package document

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/alexisbeaulieu97/sectionforge/internal/validation"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// newSuffix makes the unique part of a new instance id. ULIDs sort by
// creation time, so ids added later sort later.
var newSuffix = func() string {
	return strings.ToLower(ulid.Make().String())
}

func (d *Document) layout(page string) (*Layout, error) {
	l, ok := d.Layout(page)
	if !ok {
		return nil, sferrors.NewNotFoundError("page", page)
	}
	return l, nil
}

// AddSection appends a new instance of definitionID to a page with the
// definition's default config and returns its id.
func (d *Document) AddSection(defs Definitions, page, definitionID string) (string, error) {
	layout, err := d.layout(page)
	if err != nil {
		return "", err
	}
	cfg, ok := defaultConfig(defs, definitionID)
	if !ok {
		return "", sferrors.NewNotFoundError("section", definitionID)
	}

	id := definitionID + "-" + newSuffix()
	if _, taken := layout.Sections[id]; taken {
		return "", sferrors.NewDuplicateIDError(id)
	}
	layout.Sections[id] = cfg
	layout.Order = append(layout.Order, id)
	return id, nil
}

// RemoveSection takes a section out of the page order. Its config is kept so
// RestoreSection can bring it back.
func (d *Document) RemoveSection(page, id string) error {
	layout, err := d.layout(page)
	if err != nil {
		return err
	}
	i := layout.indexOf(id)
	if i < 0 {
		return sferrors.NewNotFoundError("section", id)
	}
	layout.Order = append(layout.Order[:i], layout.Order[i+1:]...)
	return nil
}

// RestoreSection re-appends a soft-deleted section to the page order.
func (d *Document) RestoreSection(page, id string) error {
	layout, err := d.layout(page)
	if err != nil {
		return err
	}
	if _, ok := layout.Sections[id]; !ok {
		return sferrors.NewNotFoundError("section", id)
	}
	if layout.indexOf(id) >= 0 {
		return sferrors.NewValidationError(id, "section is already active", nil)
	}
	layout.Order = append(layout.Order, id)
	return nil
}

// MoveSection moves an active section to index, clamped to the order bounds.
func (d *Document) MoveSection(page, id string, index int) error {
	layout, err := d.layout(page)
	if err != nil {
		return err
	}
	from := layout.indexOf(id)
	if from < 0 {
		return sferrors.NewNotFoundError("section", id)
	}

	order := append(layout.Order[:from:from], layout.Order[from+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(order) {
		index = len(order)
	}
	order = append(order[:index], append([]string{id}, order[index:]...)...)
	layout.Order = order
	return nil
}

// UpdateSection validates raw against the section's definition and stores
// the result. Keys outside settings are kept.
func (d *Document) UpdateSection(defs Definitions, page, id string, raw any) (*validation.Result, error) {
	layout, err := d.layout(page)
	if err != nil {
		return nil, err
	}
	cfg, ok := layout.Sections[id]
	if !ok {
		return nil, sferrors.NewNotFoundError("section", id)
	}

	definitionID := DefinitionID(id, cfg, defs)
	def, ok := defs.Lookup(definitionID)
	if !ok {
		return nil, sferrors.NewUnknownSectionError(id, definitionID)
	}
	result, err := validation.Validate(def, raw)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", page, id, err)
	}

	cfg.Settings = result.Config.ToMap()
	layout.Sections[id] = cfg
	return result, nil
}

// UpdateHeader validates raw against the header definition and stores it.
func (d *Document) UpdateHeader(defs Definitions, raw any) (*validation.Result, error) {
	definitionID := DefinitionID(HeaderKey, d.Header, defs)
	def, ok := defs.Lookup(definitionID)
	if !ok {
		return nil, sferrors.NewUnknownSectionError(HeaderKey, definitionID)
	}
	result, err := validation.Validate(def, raw)
	if err != nil {
		return nil, fmt.Errorf("update header: %w", err)
	}
	d.Header.Settings = result.Config.ToMap()
	return result, nil
}

// Purge erases the soft-deleted sections of a page and returns their ids.
func (d *Document) Purge(page string) ([]string, error) {
	layout, err := d.layout(page)
	if err != nil {
		return nil, err
	}
	removed := layout.SoftDeleted()
	for _, id := range removed {
		delete(layout.Sections, id)
	}
	return removed, nil
}

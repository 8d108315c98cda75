// Package registry holds every section definition known to the process. It is
// filled once at startup and is read-only after the first lookup.
package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
	"github.com/alexisbeaulieu97/sectionforge/internal/section"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// Registry maps definition ids to definitions in registration order.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]*section.Definition
	fingerprints map[string]string
	order        []string
	sealed       atomic.Bool
	gate         *gate.FeatureGate
	logger       *logger.Logger
}

// New returns an empty registry. A nil gate treats every section as unrestricted.
func New(g *gate.FeatureGate, log *logger.Logger) *Registry {
	if g == nil {
		g = gate.Open()
	}
	return &Registry{
		definitions:  make(map[string]*section.Definition),
		fingerprints: make(map[string]string),
		gate:         g,
		logger:       log,
	}
}

// NewWithDefinitions registers defs in order and seals the registry.
func NewWithDefinitions(g *gate.FeatureGate, log *logger.Logger, defs ...*section.Definition) (*Registry, error) {
	r := New(g, log)
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// Register adds a definition. Registering a structurally identical definition
// twice is a no-op; any other reuse of an id is a DuplicateIDError.
func (r *Registry) Register(d *section.Definition) error {
	if d == nil {
		return fmt.Errorf("definition is nil")
	}
	if err := section.ValidateDefinition(d); err != nil {
		return err
	}
	if d.Premium && r.gate.InFreeSet(d.ID) {
		return sferrors.NewValidationError(d.ID, "premium section is listed as free", nil)
	}

	fingerprint, err := fingerprintOf(d)
	if err != nil {
		return fmt.Errorf("fingerprint %q: %w", d.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return sferrors.NewSealedError(d.ID)
	}

	if existing, exists := r.fingerprints[d.ID]; exists {
		if existing == fingerprint {
			r.logDebug(d.ID, "identical definition registered again")
			return nil
		}
		return sferrors.NewDuplicateIDError(d.ID)
	}

	stored := *d
	r.definitions[d.ID] = &stored
	r.fingerprints[d.ID] = fingerprint
	r.order = append(r.order, d.ID)
	return nil
}

// Seal stops further registration. Lookups seal implicitly.
func (r *Registry) Seal() {
	if r.sealed.Swap(true) {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range append(r.gate.Premium(), r.gate.Free()...) {
		if _, ok := r.definitions[id]; !ok {
			r.logWarn(id, "gate lists a section that is not registered")
		}
	}
}

// Sealed reports whether registration is closed.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Get returns the definition for id or a NotFoundError.
func (r *Registry) Get(id string) (*section.Definition, error) {
	if d, ok := r.Lookup(id); ok {
		return d, nil
	}
	return nil, sferrors.NewNotFoundError("section", id)
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (*section.Definition, bool) {
	r.Seal()

	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.definitions[id]
	return d, ok
}

// List returns every definition in registration order.
func (r *Registry) List() []*section.Definition {
	r.Seal()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*section.Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.definitions[id])
	}
	return out
}

// ListByCategory returns the definitions of one category in registration order.
func (r *Registry) ListByCategory(c section.Category) []*section.Definition {
	var out []*section.Definition
	for _, d := range r.List() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Classify combines the gate membership with the definition's own premium flag.
func (r *Registry) Classify(id string) gate.Class {
	if d, ok := r.Lookup(id); ok && d.Premium {
		return gate.ClassPremium
	}
	return r.gate.Classify(id)
}

// IsPremium reports whether id needs a premium tier.
func (r *Registry) IsPremium(id string) bool {
	return r.Classify(id) == gate.ClassPremium
}

// IsFree reports whether every tier may use id. Ids in neither set are free.
func (r *Registry) IsFree(id string) bool {
	return !r.IsPremium(id)
}

// Gate returns the feature gate the registry classifies with.
func (r *Registry) Gate() *gate.FeatureGate {
	return r.gate
}

// fingerprintOf identifies a definition by its descriptor and render function.
func fingerprintOf(d *section.Definition) (string, error) {
	data, err := json.Marshal(d.Describe())
	if err != nil {
		return "", err
	}
	var render uintptr
	if d.Render != nil {
		render = reflect.ValueOf(d.Render).Pointer()
	}
	return fmt.Sprintf("%s|%x", data, render), nil
}

func (r *Registry) logWarn(id, msg string) {
	r.logger.WithSection("", id).Warn(msg)
}

func (r *Registry) logDebug(id, msg string) {
	r.logger.WithSection("", id).Debug(msg)
}

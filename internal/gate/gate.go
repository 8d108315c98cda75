// Package gate decides which section kinds a tier may render.
package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is the plan the acting user is on.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ParseTier accepts "free" or "premium", case-insensitively. Empty means free.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierFree:
		return TierFree, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Class is the membership of a section id.
type Class string

const (
	ClassPremium      Class = "premium"
	ClassFree         Class = "free"
	ClassUnrestricted Class = "unrestricted"
)

// Policy says what happens to a section the tier is not entitled to.
type Policy string

const (
	// PolicyPlaceholder renders a neutral locked marker in place of the section.
	PolicyPlaceholder Policy = "placeholder"
	// PolicyOmit drops the section from the output.
	PolicyOmit Policy = "omit"
)

// ParsePolicy accepts "omit" or "placeholder". Empty means placeholder.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPlaceholder:
		return PolicyPlaceholder, nil
	case PolicyOmit:
		return PolicyOmit, nil
	}
	return "", fmt.Errorf("unknown gating policy %q", s)
}

// FeatureGate holds the premium and free membership sets. It is built once and
// passed to the registry and the export pipeline.
type FeatureGate struct {
	premium map[string]struct{}
	free    map[string]struct{}
	policy  Policy
}

// NewFeatureGate builds a gate. The two sets must be disjoint.
func NewFeatureGate(premium, free []string, policy Policy) (*FeatureGate, error) {
	if policy == "" {
		policy = PolicyPlaceholder
	}
	if policy != PolicyPlaceholder && policy != PolicyOmit {
		return nil, fmt.Errorf("unknown gating policy %q", policy)
	}

	g := &FeatureGate{
		premium: toSet(premium),
		free:    toSet(free),
		policy:  policy,
	}

	var overlap []string
	for id := range g.premium {
		if _, ok := g.free[id]; ok {
			overlap = append(overlap, id)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return nil, fmt.Errorf("section ids are both premium and free: %s", strings.Join(overlap, ", "))
	}
	return g, nil
}

// Open returns a gate with empty sets: every section is unrestricted.
func Open() *FeatureGate {
	return &FeatureGate{premium: map[string]struct{}{}, free: map[string]struct{}{}, policy: PolicyPlaceholder}
}

// Classify reports the membership of id. Ids in neither set are unrestricted.
func (g *FeatureGate) Classify(id string) Class {
	if g == nil {
		return ClassUnrestricted
	}
	if _, ok := g.premium[id]; ok {
		return ClassPremium
	}
	if _, ok := g.free[id]; ok {
		return ClassFree
	}
	return ClassUnrestricted
}

// InPremiumSet reports whether id is listed as premium.
func (g *FeatureGate) InPremiumSet(id string) bool {
	return g.Classify(id) == ClassPremium
}

// InFreeSet reports whether id is listed as free.
func (g *FeatureGate) InFreeSet(id string) bool {
	return g.Classify(id) == ClassFree
}

// Policy returns the gating policy.
func (g *FeatureGate) Policy() Policy {
	if g == nil || g.policy == "" {
		return PolicyPlaceholder
	}
	return g.policy
}

// Premium lists the premium ids sorted.
func (g *FeatureGate) Premium() []string {
	if g == nil {
		return nil
	}
	return sortedKeys(g.premium)
}

// Free lists the free ids sorted.
func (g *FeatureGate) Free() []string {
	if g == nil {
		return nil
	}
	return sortedKeys(g.free)
}

// Entitled reports whether tier may render a section of the given class.
func Entitled(tier Tier, class Class) bool {
	return class != ClassPremium || tier == TierPremium
}

// Placeholder is the markup standing in for a gated section.
func Placeholder(instanceID, definitionID string) string {
	return fmt.Sprintf(`<div class="sf-locked" data-section-id="%s" data-section-type="%s"></div>`,
		escapeAttr(instanceID), escapeAttr(definitionID))
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&#34;", `'`, "&#39;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

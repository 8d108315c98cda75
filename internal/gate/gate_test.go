package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureGateRejectsOverlap(t *testing.T) {
	t.Parallel()

	_, err := NewFeatureGate([]string{"pricing-table", "hero"}, []string{"hero", "card-grid"}, PolicyOmit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hero")
}

func TestClassify(t *testing.T) {
	t.Parallel()

	g, err := NewFeatureGate([]string{"pricing-table"}, []string{"hero"}, "")
	require.NoError(t, err)

	assert.Equal(t, ClassPremium, g.Classify("pricing-table"))
	assert.Equal(t, ClassFree, g.Classify("hero"))
	assert.Equal(t, ClassUnrestricted, g.Classify("spacer"))
	assert.Equal(t, PolicyPlaceholder, g.Policy())

	for _, id := range append(g.Premium(), g.Free()...) {
		assert.False(t, g.InPremiumSet(id) && g.InFreeSet(id), id)
	}
}

func TestNilGateIsOpen(t *testing.T) {
	t.Parallel()

	var g *FeatureGate
	assert.Equal(t, ClassUnrestricted, g.Classify("anything"))
	assert.Equal(t, PolicyPlaceholder, g.Policy())
	assert.Nil(t, g.Premium())
	assert.Equal(t, ClassUnrestricted, Open().Classify("anything"))
}

func TestEntitled(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tier  Tier
		class Class
		want  bool
	}{
		{TierFree, ClassPremium, false},
		{TierFree, ClassFree, true},
		{TierFree, ClassUnrestricted, true},
		{TierPremium, ClassPremium, true},
		{TierPremium, ClassFree, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Entitled(tc.tier, tc.class), "%s/%s", tc.tier, tc.class)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tier, err := ParseTier(" Premium ")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, tier)

	tier, err = ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierFree, tier)

	_, err = ParseTier("gold")
	require.Error(t, err)

	policy, err := ParsePolicy("OMIT")
	require.NoError(t, err)
	assert.Equal(t, PolicyOmit, policy)

	_, err = ParsePolicy("hide")
	require.Error(t, err)
}

func TestPlaceholderEscapesAttributes(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`<div class="sf-locked" data-section-id="pricing-table-1" data-section-type="pricing-table"></div>`,
		Placeholder("pricing-table-1", "pricing-table"))
	assert.Equal(t,
		`<div class="sf-locked" data-section-id="a&#34;&gt;" data-section-type="b"></div>`,
		Placeholder(`a">`, "b"))
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	validYAML := `version: "1"
name: "My Site"
document: theme.json
content: content/posts.yaml
tier: premium
gate:
  premium: [testimonials, pricing-table]
  free: [hero]
  policy: omit
settings:
  parallel: 8
  log_level: debug
`

	minimalYAML := `version: "1"
name: Minimal
document: /var/theme.json
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, path string, cfg *Config, err error)
	}{
		{
			name:     "valid configuration is parsed and paths resolved",
			contents: validYAML,
			assert: func(t *testing.T, path string, cfg *Config, err error) {
				require.NoError(t, err)
				dir := filepath.Dir(path)
				require.Equal(t, "My Site", cfg.Name)
				require.Equal(t, filepath.Join(dir, "theme.json"), cfg.Document)
				require.Equal(t, filepath.Join(dir, "content", "posts.yaml"), cfg.Content)
				require.Equal(t, filepath.Join(dir, DefaultOutput), cfg.Output)
				require.Empty(t, cfg.Templates)
				require.Equal(t, 8, cfg.Settings.Parallel)
				require.Equal(t, gate.TierPremium, cfg.TierValue())
				require.NotNil(t, cfg.ContentSource())

				g, err := cfg.FeatureGate()
				require.NoError(t, err)
				require.Equal(t, gate.PolicyOmit, g.Policy())
				require.Equal(t, gate.ClassPremium, g.Classify("testimonials"))
			},
		},
		{
			name:     "defaults are applied",
			contents: minimalYAML,
			assert: func(t *testing.T, path string, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "/var/theme.json", cfg.Document)
				require.Equal(t, DefaultParallel, cfg.Settings.Parallel)
				require.Equal(t, DefaultLogLevel, cfg.Settings.LogLevel)
				require.Equal(t, string(gate.PolicyPlaceholder), cfg.Gate.Policy)
				require.Equal(t, filepath.Join(filepath.Dir(path), DefaultSnapshots), cfg.Snapshots)
				require.Equal(t, gate.TierFree, cfg.TierValue())
				require.Nil(t, cfg.ContentSource())
			},
		},
		{
			name:     "yaml errors carry the line",
			contents: "version: \"1\"\nname: [broken\n",
			assert: func(t *testing.T, _ string, cfg *Config, err error) {
				require.Nil(t, cfg)
				var parseErr *sferrors.ParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Positive(t, parseErr.Line)
			},
		},
		{
			name:     "missing document is rejected",
			contents: "version: \"1\"\nname: x\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *sferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "config.document", validationErr.Field)
			},
		},
		{
			name:     "unknown version is rejected",
			contents: "version: \"2\"\nname: x\ndocument: d.json\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *sferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "config.version", validationErr.Field)
			},
		},
		{
			name:     "parallel above the pool limit is rejected",
			contents: "version: \"1\"\nname: x\ndocument: d.json\nsettings:\n  parallel: 64\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *sferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "config.settings.parallel", validationErr.Field)
			},
		},
		{
			name:     "malformed section ids are rejected",
			contents: "version: \"1\"\nname: x\ndocument: d.json\ngate:\n  premium: [\"Not Valid\"]\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *sferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "config.gate.premium[0]", validationErr.Field)
			},
		},
		{
			name:     "overlapping gate sets are rejected",
			contents: "version: \"1\"\nname: x\ndocument: d.json\ngate:\n  premium: [hero]\n  free: [faq, hero]\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *sferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "gate.free[1]", validationErr.Field)
			},
		},
		{
			name:     "unknown tier is rejected",
			contents: "version: \"1\"\nname: x\ndocument: d.json\ntier: gold\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				require.Error(t, err)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, tc.contents)
			cfg, err := ParseConfig(path)
			tc.assert(t, path, cfg, err)
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	var parseErr *sferrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExtractLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, extractLine(errors.New("yaml: line 3: did not find expected key")))
	assert.Equal(t, 0, extractLine(errors.New("no line here")))
	assert.Equal(t, 0, extractLine(nil))
}

func TestValidateConfigNil(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateConfig(nil))
}

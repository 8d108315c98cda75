package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// DefaultFile is the project file looked up when none is given.
const DefaultFile = "sectionforge.yaml"

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a project file from disk, applies defaults, validates it,
// and resolves every relative path against the file's directory.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sferrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, sferrors.NewParseError(path, extractLine(err), err)
	}

	cfg.applyDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	cfg.resolvePaths(base)
	return &cfg, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Document, &c.Content, &c.Output, &c.Templates, &c.Snapshots} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		*p = filepath.Join(base, *p)
	}
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is looked up in the repository root when no --config
// flag names a file.
const ProjectFileName = "gitdeck.yaml"

// Project holds per-repository defaults. Command-line flags the user set
// explicitly take precedence over these values.
type Project struct {
	Theme    string `yaml:"theme"`
	Style    string `yaml:"style"`
	Out      string `yaml:"out"`
	Focus    string `yaml:"focus"`
	Audience string `yaml:"audience"`
	TeamSize int    `yaml:"team_size"`
}

// LoadProject reads a project config file. A missing file is not an
// error when the path was not explicitly requested; callers pass
// required=true for user-supplied paths so typos surface.
func LoadProject(path string, required bool) (Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Project{}, nil
		}
		return Project{}, fmt.Errorf("reading project config %s: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Project{}, fmt.Errorf("parsing project config %s: %w", path, err)
	}
	return p, nil
}

package styles

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gitdeck.app/cli/common"
)

// fileSpec is the YAML shape of a user-supplied style.
type fileSpec struct {
	Name         string   `yaml:"name"`
	Voice        string   `yaml:"voice"`
	Tone         string   `yaml:"tone"`
	Emphasis     []string `yaml:"emphasis"`
	Instructions string   `yaml:"instructions"`
}

type fileStyle struct {
	name string
	spec fileSpec
}

// LoadFile reads a custom style definition from a YAML file. At minimum
// the file must carry a name and a voice. The name is slugified so logs
// and lookups see a stable identifier regardless of how the author
// spelled it.
func LoadFile(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style file: %w", err)
	}

	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse style file %s: %w", path, err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("style file %s: missing name", path)
	}
	if spec.Voice == "" {
		return nil, fmt.Errorf("style file %s: missing voice", path)
	}

	name, err := common.Slugify(spec.Name, "custom")
	if err != nil {
		return nil, fmt.Errorf("generating style name: %w", err)
	}
	return &fileStyle{name: name, spec: spec}, nil
}

func (s *fileStyle) Name() string { return s.name }

func (s *fileStyle) BuildPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Voice: %s\n", s.spec.Voice)
	if s.spec.Tone != "" {
		fmt.Fprintf(&sb, "Tone: %s\n", s.spec.Tone)
	}
	if len(s.spec.Emphasis) > 0 {
		sb.WriteString("Emphasize:\n")
		for _, e := range s.spec.Emphasis {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	if s.spec.Instructions != "" {
		sb.WriteString(s.spec.Instructions)
		if !strings.HasSuffix(s.spec.Instructions, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	writeWorkSummary(&sb, req.CategorizedWork)
	writeDigest(&sb, req.CommitDigest)
	writeOptions(&sb, req.Options)
	return sb.String()
}

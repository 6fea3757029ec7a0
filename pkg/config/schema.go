package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lampmaker/guistuff/pkg/model"
)

// LoadSchema reads a node-type/toggle schema from a YAML file and finalizes
// it. A missing path falls back to the built-in default schema so a bare
// document is still browsable.
func LoadSchema(path string) (*model.Schema, error) {
	if path == "" {
		return model.DefaultSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultSchema(), nil
		}
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	var s model.Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if err := s.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return &s, nil
}

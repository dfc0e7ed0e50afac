package patch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a Patch document from path. Grounded on
// open-platform-model-cli's config-loading convention (read file, unmarshal
// into a typed struct, wrap the error with the path for context).
func Load(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patch: read %s: %w", path, err)
	}
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("patch: parse %s: %w", path, err)
	}
	return &p, nil
}

// Save serializes p to path as YAML.
func Save(p *Patch, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("patch: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("patch: write %s: %w", path, err)
	}
	return nil
}

// Decode parses a Patch document from an in-memory byte slice.
func Decode(data []byte) (*Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("patch: decode: %w", err)
	}
	return &p, nil
}

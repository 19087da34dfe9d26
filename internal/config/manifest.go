package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one contact sheet in YAML. Fields left out fall back
// to the command line flags and then to Config.
type Manifest struct {
	Output       string   `yaml:"output"`
	Columns      *int     `yaml:"columns"`
	Rows         *int     `yaml:"rows"`
	Width        *int     `yaml:"width"`
	Transparency string   `yaml:"transparency"`
	Fuzz         *float64 `yaml:"fuzz"`
	Quality      *int     `yaml:"quality"`
	Fill         string   `yaml:"fill"`
	Images       []string `yaml:"images"`
}

// LoadManifest reads a manifest. Relative image and output paths are taken
// relative to the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, img := range m.Images {
		m.Images[i] = resolve(dir, img)
	}
	if m.Output != "" {
		m.Output = resolve(dir, m.Output)
	}
	return &m, nil
}

// Save writes m as YAML to path.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

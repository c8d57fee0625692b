// Package project loads the optional bundlekit.yaml manifest describing
// named build variants.
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// DefaultManifestPath is where Load looks when no path is given.
const DefaultManifestPath = "bundlekit.yaml"

// Manifest declares the build variants for a project.
type Manifest struct {
	// OutputDir overrides the default output directory for all variants.
	OutputDir string `yaml:"outputDir"`
	// Variants are built independently, each with its own entry point and
	// feature flags.
	Variants []Variant `yaml:"variants"`
}

// Variant is one named flag-set and entry-point combination.
type Variant struct {
	Name  string   `yaml:"name"`
	Entry string   `yaml:"entry"`
	Flags []string `yaml:"flags"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if len(manifest.Variants) == 0 {
		return nil, fmt.Errorf("manifest %s declares no variants", path)
	}

	return &manifest, nil
}

// Specs translates the manifest variants into factory variant specs. Flag
// names are validated here so a manifest typo fails before any build runs.
func (m *Manifest) Specs() ([]buildcfg.VariantSpec, error) {
	specs := make([]buildcfg.VariantSpec, 0, len(m.Variants))
	for _, v := range m.Variants {
		if v.Name == "" {
			return nil, fmt.Errorf("variant with entry %q is missing a name", v.Entry)
		}
		flags, err := buildcfg.ParseFlags(v.Flags)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		specs = append(specs, buildcfg.VariantSpec{
			Name:  v.Name,
			Entry: v.Entry,
			Flags: flags,
		})
	}
	return specs, nil
}

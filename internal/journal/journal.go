// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal loads journal template presets. A preset bundles the
// pandoc settings for one journal's submission format so manuscripts can
// select a target with a single name.
// Implements: prd002-conversion (R2.5);
//
//	docs/ARCHITECTURE § Conversion.
package journal

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rmd2tex/pkg/types"
)

// Preset holds one journal's conversion settings.
type Preset struct {
	// Name is the preset key passed to --journal.
	Name string `yaml:"name"`

	// Pandoc is the converter configuration for this journal.
	Pandoc types.PandocConfig `yaml:"pandoc"`
}

// PresetsFile holds all presets from a journals.yaml file.
type PresetsFile struct {
	// Journals lists the available presets.
	Journals []Preset `yaml:"journals"`
}

// LoadPresets reads a journals.yaml presets file.
func LoadPresets(path string) (*PresetsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	var file PresetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	return &file, nil
}

// Find returns the preset with the given name.
func (f *PresetsFile) Find(name string) (Preset, bool) {
	for _, p := range f.Journals {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names, sorted.
func (f *PresetsFile) Names() []string {
	names := make([]string, 0, len(f.Journals))
	for _, p := range f.Journals {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PandocConfig controls the format-converter invocation.
// Per prd002-conversion R2.1-R2.4.
type PandocConfig struct {
	// Template is the path to the journal's LaTeX template passed to pandoc.
	// Empty means pandoc's default LaTeX template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Bibliography is the path to the .bib file, if the manuscript cites.
	Bibliography string `json:"bibliography,omitempty" yaml:"bibliography,omitempty"`

	// CSL is the citation style file applied during conversion.
	CSL string `json:"csl,omitempty" yaml:"csl,omitempty"`

	// Standalone emits a complete document rather than a fragment.
	Standalone bool `json:"standalone" yaml:"standalone"`
}

// ConvertOptions holds per-run switches for the conversion pipeline.
// Per prd002-conversion R1.2, R1.3.
type ConvertOptions struct {
	// OutDir is the submission directory receiving the .tex and its assets.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Force re-runs the pipeline even when the output .tex already exists.
	Force bool `json:"force" yaml:"force"`

	// KeepIntermediate retains the rendered markdown next to the .tex.
	KeepIntermediate bool `json:"keep_intermediate" yaml:"keep_intermediate"`

	// Pandoc configures the format-converter stage.
	Pandoc PandocConfig `json:"pandoc" yaml:"pandoc"`
}

// RunLogConfig locates the conversion run history database.
// Per prd007-runlog R1.1.
type RunLogConfig struct {
	// Dir is the directory holding runs.db. Defaults to ".rmd2tex".
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults caps the number of runs listed. Zero means the default (20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

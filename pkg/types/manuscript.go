// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
)

// ConversionStatus indicates the state of a manuscript conversion run.
// Per prd002-conversion R1.4.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Manuscript identifies one Rmarkdown source document moving through the
// pipeline. Per prd001-render R1.1.
type Manuscript struct {
	// ID is the manuscript slug, derived from the source filename.
	ID string `json:"id" yaml:"id"`

	// SourcePath is the path to the .Rmd source document.
	SourcePath string `json:"source_path" yaml:"source_path"`
}

// NewManuscript builds a Manuscript record from a source path, deriving the
// ID from the filename without its extension.
func NewManuscript(sourcePath string) Manuscript {
	base := filepath.Base(sourcePath)
	return Manuscript{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		SourcePath: sourcePath,
	}
}

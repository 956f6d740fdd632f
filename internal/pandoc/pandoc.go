// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc drives the external format converter that turns the
// rendered intermediate markdown into LaTeX under a journal template.
// Implements: prd002-conversion (R2);
//
//	docs/ARCHITECTURE § Conversion.
package pandoc

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/rmd2tex/pkg/types"
)

const binPandoc = "pandoc"

// runner abstracts command execution for testing.
type runner interface {
	LookPath(file string) (string, error)
	RunCombined(name string, args ...string) ([]byte, error)
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (o *osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osRunner) RunCombined(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Converter invokes pandoc to produce the journal-formatted LaTeX document.
type Converter struct {
	exec runner
}

// NewConverter creates a pandoc-backed converter. It verifies that the
// pandoc binary exists on PATH before returning.
func NewConverter() (*Converter, error) {
	return newConverter(&osRunner{})
}

func newConverter(exec runner) (*Converter, error) {
	if _, err := exec.LookPath(binPandoc); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binPandoc, err)
	}
	return &Converter{exec: exec}, nil
}

// Convert runs pandoc on the intermediate markdown at mdPath, writing LaTeX
// to texPath according to cfg.
func (c *Converter) Convert(mdPath, texPath string, cfg types.PandocConfig) error {
	args := buildArgs(mdPath, texPath, cfg)

	out, err := c.exec.RunCombined(binPandoc, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("converting %s with pandoc: %w: %s", mdPath, err, msg)
		}
		return fmt.Errorf("converting %s with pandoc: %w", mdPath, err)
	}
	return nil
}

// buildArgs assembles the pandoc command line from the conversion config.
func buildArgs(mdPath, texPath string, cfg types.PandocConfig) []string {
	args := []string{
		"--from", "markdown",
		"--to", "latex",
		"--output", texPath,
	}
	if cfg.Standalone {
		args = append(args, "--standalone")
	}
	if cfg.Template != "" {
		args = append(args, "--template", cfg.Template)
	}
	if cfg.Bibliography != "" {
		args = append(args, "--citeproc", "--bibliography", cfg.Bibliography)
	}
	if cfg.CSL != "" {
		args = append(args, "--csl", cfg.CSL)
	}
	return append(args, mdPath)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render implements render engine detection and execution. The
// engine evaluates the code chunks in an Rmarkdown source and emits the
// intermediate markdown that the format converter consumes.
// Implements: prd001-render (R1-R3);
//
//	docs/ARCHITECTURE § Rendering.
package render

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	binRscript = "Rscript"
	binR       = "R"
)

// Engine runs the knitr render step: checking availability and turning an
// Rmd source into intermediate markdown.
type Engine interface {
	// Name returns the engine binary name ("Rscript" or "R").
	Name() string

	// Available reports whether the binary exists on PATH and responds
	// to a version query.
	Available() bool

	// Render knits srcPath into intermediate markdown at outPath.
	Render(srcPath, outPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCombined(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCombined(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// engine implements Engine for a specific R front-end binary. Rscript and
// the plain R interpreter share the same logic; they differ only in binary
// name and the flags needed to evaluate an expression.
type engine struct {
	bin      string
	exprArgs []string // flags preceding the -e expression, e.g. ["--no-echo"] for R
	exec     executor
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available() bool {
	if _, err := e.exec.LookPath(e.bin); err != nil {
		return false
	}
	return e.exec.RunSilent(e.bin, "--version") == nil
}

func (e *engine) Render(srcPath, outPath string) error {
	expr := fmt.Sprintf("knitr::knit(%q, output = %q)", srcPath, outPath)

	args := make([]string, 0, len(e.exprArgs)+2)
	args = append(args, e.exprArgs...)
	args = append(args, "-e", expr)

	out, err := e.exec.RunCombined(e.bin, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("rendering %s with %s: %w: %s", srcPath, e.bin, err, msg)
		}
		return fmt.Errorf("rendering %s with %s: %w", srcPath, e.bin, err)
	}
	return nil
}

func newRscriptEngine(exec executor) *engine {
	return &engine{
		bin:  binRscript,
		exec: exec,
	}
}

func newREngine(exec executor) *engine {
	return &engine{
		bin:      binR,
		exprArgs: []string{"--no-echo"},
		exec:     exec,
	}
}

var defaultExec = &osExecutor{}

// DetectEngine tries Rscript first, falls back to the plain R interpreter.
// Returns an error if neither is available.
func DetectEngine() (Engine, error) {
	return detectEngine(defaultExec)
}

func detectEngine(exec executor) (Engine, error) {
	rscript := newRscriptEngine(exec)
	if rscript.Available() {
		return rscript, nil
	}

	r := newREngine(exec)
	if r.Available() {
		return r, nil
	}

	return nil, fmt.Errorf(
		"no render engine available: neither %s nor %s found or operational",
		binRscript, binR,
	)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates the manuscript pipeline: render the Rmd to
// intermediate markdown, convert it to LaTeX under the journal template,
// rewrite longtable environments, and copy referenced assets into the
// submission directory.
// Implements: prd002-conversion (R1, R3, R4);
//
//	docs/ARCHITECTURE § Pipeline.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/rmd2tex/internal/assets"
	"github.com/pdiddy/rmd2tex/internal/latex"
	"github.com/pdiddy/rmd2tex/pkg/types"
)

// Renderer knits an Rmd source into intermediate markdown. render.Engine
// implements this.
type Renderer interface {
	Name() string
	Render(srcPath, outPath string) error
}

// TexConverter turns intermediate markdown into LaTeX. pandoc.Converter
// implements this.
type TexConverter interface {
	Convert(mdPath, texPath string, cfg types.PandocConfig) error
}

// Result holds the outcome of one conversion run.
type Result struct {
	// Status is the run's final state.
	Status types.ConversionStatus

	// TexPath is the submission LaTeX document, valid when Status is done.
	TexPath string

	// TablesRewritten counts the longtable blocks rewritten to tabledata.
	TablesRewritten int

	// AssetsCopied counts the resources copied into the submission directory.
	AssetsCopied int

	// Duration is the wall-clock time of the run.
	Duration time.Duration

	// Err records the failure when Status is failed.
	Err error
}

// ConvertManuscript runs the full pipeline for one manuscript, writing
// per-step status lines to w. If the output .tex already exists the run is
// skipped unless opts.Force is set.
func ConvertManuscript(r Renderer, c TexConverter, m types.Manuscript, opts types.ConvertOptions, w io.Writer) Result {
	start := time.Now()
	texPath := filepath.Join(opts.OutDir, m.ID+".tex")

	if _, err := os.Stat(texPath); err == nil && !opts.Force {
		fmt.Fprintf(w, "skipped: %s (already exists, use --force to rebuild)\n", texPath)
		return Result{Status: types.ConversionNone, TexPath: texPath, Duration: time.Since(start)}
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fail(w, start, fmt.Errorf("creating %s: %w", opts.OutDir, err))
	}

	mdPath := filepath.Join(opts.OutDir, m.ID+".md")
	if err := r.Render(m.SourcePath, mdPath); err != nil {
		return fail(w, start, err)
	}
	fmt.Fprintf(w, "rendered: %s (%s)\n", mdPath, r.Name())

	if err := c.Convert(mdPath, texPath, opts.Pandoc); err != nil {
		return fail(w, start, err)
	}
	fmt.Fprintf(w, "converted: %s\n", texPath)

	tables, err := countTableBlocks(texPath)
	if err != nil {
		return fail(w, start, err)
	}
	if err := latex.RewriteTables(texPath, texPath); err != nil {
		return fail(w, start, err)
	}
	fmt.Fprintf(w, "tables: %d rewritten\n", tables)

	res, err := assets.Discover(m.SourcePath)
	if err != nil {
		return fail(w, start, err)
	}
	copied, err := assets.CopyAll(res, filepath.Dir(m.SourcePath), opts.OutDir, w)
	if err != nil {
		return fail(w, start, err)
	}

	if !opts.KeepIntermediate {
		os.Remove(mdPath)
	}

	d := time.Since(start)
	fmt.Fprintf(w, "done: %s (%d tables, %d assets, %s)\n",
		texPath, tables, copied.Copied, d.Round(time.Millisecond))

	return Result{
		Status:          types.ConversionDone,
		TexPath:         texPath,
		TablesRewritten: tables,
		AssetsCopied:    copied.Copied,
		Duration:        d,
	}
}

func fail(w io.Writer, start time.Time, err error) Result {
	fmt.Fprintf(w, "failed: %v\n", err)
	return Result{Status: types.ConversionFailed, Duration: time.Since(start), Err: err}
}

// countTableBlocks reports how many longtable blocks the document holds,
// before they are rewritten.
func countTableBlocks(texPath string) (int, error) {
	data, err := os.ReadFile(texPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", texPath, err)
	}
	doc := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	blocks, err := latex.FindTableBlocks(doc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", texPath, err)
	}
	return len(blocks), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assets discovers the auxiliary files an Rmarkdown manuscript
// references (figures, bibliography, citation style) and copies them into
// the submission directory.
// Implements: prd004-assets (R1-R3);
//
//	docs/ARCHITECTURE § Asset Handling.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Resources lists the auxiliary files referenced by a manuscript.
type Resources struct {
	// Images are image destinations from the document body, in order of
	// first appearance. Remote URLs are excluded.
	Images []string

	// Bibliography are .bib paths from the frontmatter bibliography field.
	Bibliography []string

	// CSL is the citation style path from the frontmatter, if any.
	CSL string
}

// All returns every referenced path in one slice.
func (r Resources) All() []string {
	paths := make([]string, 0, len(r.Images)+len(r.Bibliography)+1)
	paths = append(paths, r.Images...)
	paths = append(paths, r.Bibliography...)
	if r.CSL != "" {
		paths = append(paths, r.CSL)
	}
	return paths
}

// markdown is the shared parser; GFM for tables, meta for the YAML header.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		meta.Meta,
	),
)

// Discover parses the manuscript source and returns its referenced
// resources: image links from the body and bibliography/csl entries from
// the YAML frontmatter.
func Discover(srcPath string) (Resources, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return Resources{}, fmt.Errorf("reading %s: %w", srcPath, err)
	}

	ctx := parser.NewContext()
	reader := text.NewReader(content)
	doc := markdown.Parser().Parse(reader, parser.WithContext(ctx))

	var res Resources
	seen := make(map[string]bool)

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if dest == "" || isRemote(dest) || seen[dest] {
			return ast.WalkContinue, nil
		}
		seen[dest] = true
		res.Images = append(res.Images, dest)
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Resources{}, fmt.Errorf("walking %s: %w", srcPath, err)
	}

	front := meta.Get(ctx)
	res.Bibliography = stringList(front["bibliography"])
	if csl, ok := front["csl"].(string); ok {
		res.CSL = csl
	}

	return res, nil
}

// CopyResult holds the outcome of copying a manuscript's resources.
type CopyResult struct {
	Copied  int
	Missing int
}

// CopyAll copies each resource from the manuscript's directory into outDir,
// preserving relative layout and reporting per-file status to w. A missing
// resource is reported and counted but does not abort the copy; the render
// engine may reference figures it generates at submission-build time.
func CopyAll(res Resources, baseDir, outDir string, w io.Writer) (CopyResult, error) {
	var result CopyResult

	for _, rel := range res.All() {
		src := rel
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, rel)
		}
		dst := filepath.Join(outDir, rel)

		if _, err := os.Stat(src); err != nil {
			fmt.Fprintf(w, "missing: %s\n", rel)
			result.Missing++
			continue
		}

		if err := copyFile(src, dst); err != nil {
			return result, fmt.Errorf("copying %s: %w", rel, err)
		}
		fmt.Fprintf(w, "copied:  %s\n", rel)
		result.Copied++
	}

	return result, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func isRemote(dest string) bool {
	return strings.HasPrefix(dest, "http://") ||
		strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "//")
}

// stringList coerces a frontmatter value into a string slice; the
// bibliography field may be a single path or a list.
func stringList(v interface{}) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []interface{}:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

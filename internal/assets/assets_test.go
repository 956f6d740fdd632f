// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleRmd = `---
title: "A Study of Things"
bibliography: refs.bib
csl: royal-society.csl
---

# Introduction

See Figure 1.

![A generated plot](figure/plot-1.png)

![Remote logo](https://example.com/logo.png)

![The same plot again](figure/plot-1.png)

![Map](maps/region.pdf)
`

func writeManuscript(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.Rmd")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscover(t *testing.T) {
	path := writeManuscript(t, sampleRmd)

	res, err := Discover(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantImages := []string{"figure/plot-1.png", "maps/region.pdf"}
	if !reflect.DeepEqual(res.Images, wantImages) {
		t.Errorf("images = %v, want %v (remote and duplicate links excluded)", res.Images, wantImages)
	}
	if !reflect.DeepEqual(res.Bibliography, []string{"refs.bib"}) {
		t.Errorf("bibliography = %v, want [refs.bib]", res.Bibliography)
	}
	if res.CSL != "royal-society.csl" {
		t.Errorf("csl = %q, want royal-society.csl", res.CSL)
	}
}

func TestDiscoverBibliographyList(t *testing.T) {
	path := writeManuscript(t, `---
bibliography:
  - main.bib
  - extra.bib
---

Body.
`)

	res, err := Discover(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Bibliography, []string{"main.bib", "extra.bib"}) {
		t.Errorf("bibliography = %v, want both entries", res.Bibliography)
	}
}

func TestDiscoverNoFrontmatter(t *testing.T) {
	path := writeManuscript(t, "# Plain\n\nNo header, no images.\n")

	res, err := Discover(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.All()) != 0 {
		t.Errorf("resources = %v, want none", res.All())
	}
}

func TestCopyAll(t *testing.T) {
	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "submission")

	if err := os.MkdirAll(filepath.Join(srcDir, "figure"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "figure", "plot-1.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "refs.bib"), []byte("@article{a}"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := Resources{
		Images:       []string{"figure/plot-1.png", "figure/absent.png"},
		Bibliography: []string{"refs.bib"},
	}

	var log bytes.Buffer
	result, err := CopyAll(res, srcDir, outDir, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Copied != 2 {
		t.Errorf("copied = %d, want 2", result.Copied)
	}
	if result.Missing != 1 {
		t.Errorf("missing = %d, want 1", result.Missing)
	}
	if !strings.Contains(log.String(), "missing: figure/absent.png") {
		t.Errorf("log %q should report the missing figure", log.String())
	}

	data, err := os.ReadFile(filepath.Join(outDir, "figure", "plot-1.png"))
	if err != nil {
		t.Fatalf("copied figure unreadable: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("copied content = %q, want %q", data, "png")
	}
}

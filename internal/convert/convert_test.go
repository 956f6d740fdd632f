// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/rmd2tex/pkg/types"
)

// texWithTable is what pandoc would emit for a manuscript with one table.
const texWithTable = `\section{Results}
\begin{longtable}[]{lr}
\toprule
Name & Value\tabularnewline
\midrule
\endhead
Alice & 1\tabularnewline
\bottomrule
\end{longtable}
Closing prose.
`

// fakeRenderer writes canned markdown to the output path, or fails.
type fakeRenderer struct {
	output string
	err    error
}

func (f *fakeRenderer) Name() string { return "Rscript" }

func (f *fakeRenderer) Render(srcPath, outPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte(f.output), 0o644)
}

// fakeTexConverter writes canned LaTeX to the output path, or fails.
type fakeTexConverter struct {
	output string
	err    error
}

func (f *fakeTexConverter) Convert(mdPath, texPath string, cfg types.PandocConfig) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(texPath, []byte(f.output), 0o644)
}

// setupManuscript creates a minimal Rmd source and returns its Manuscript.
func setupManuscript(t *testing.T) (types.Manuscript, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "paper.Rmd")
	content := "---\ntitle: Test\n---\n\n# Intro\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.NewManuscript(src), dir
}

func TestConvertManuscript(t *testing.T) {
	m, dir := setupManuscript(t)
	outDir := filepath.Join(dir, "submission")

	var log bytes.Buffer
	result := ConvertManuscript(
		&fakeRenderer{output: "# Intro\n"},
		&fakeTexConverter{output: texWithTable},
		m,
		types.ConvertOptions{OutDir: outDir},
		&log,
	)

	if result.Status != types.ConversionDone {
		t.Fatalf("status = %q, want done (log: %s)", result.Status, log.String())
	}
	if result.TablesRewritten != 1 {
		t.Errorf("tables rewritten = %d, want 1", result.TablesRewritten)
	}

	data, err := os.ReadFile(result.TexPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	tex := string(data)
	if strings.Contains(tex, "longtable") {
		t.Error("output should contain no longtable tokens")
	}
	if !strings.Contains(tex, `\begin{tabledata}{lr}`) {
		t.Error("output should contain the rewritten tabledata block")
	}
	if !strings.Contains(tex, "Closing prose.") {
		t.Error("prose outside the table must survive")
	}

	// The intermediate markdown is removed by default.
	if _, err := os.Stat(filepath.Join(outDir, "paper.md")); !os.IsNotExist(err) {
		t.Error("intermediate markdown should have been removed")
	}
}

func TestConvertManuscriptKeepIntermediate(t *testing.T) {
	m, dir := setupManuscript(t)
	outDir := filepath.Join(dir, "submission")

	var log bytes.Buffer
	result := ConvertManuscript(
		&fakeRenderer{output: "# Intro\n"},
		&fakeTexConverter{output: "\\section{Intro}\n"},
		m,
		types.ConvertOptions{OutDir: outDir, KeepIntermediate: true},
		&log,
	)

	if result.Status != types.ConversionDone {
		t.Fatalf("status = %q, want done", result.Status)
	}
	if _, err := os.Stat(filepath.Join(outDir, "paper.md")); err != nil {
		t.Errorf("intermediate markdown should be kept: %v", err)
	}
}

func TestConvertManuscriptSkipsExisting(t *testing.T) {
	m, dir := setupManuscript(t)
	outDir := filepath.Join(dir, "submission")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "paper.tex"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	result := ConvertManuscript(
		&fakeRenderer{err: errors.New("should not be called")},
		&fakeTexConverter{},
		m,
		types.ConvertOptions{OutDir: outDir},
		&log,
	)

	if result.Status != types.ConversionNone {
		t.Errorf("status = %q, want none", result.Status)
	}
	if !strings.Contains(log.String(), "skipped:") {
		t.Errorf("log %q should report the skip", log.String())
	}
}

func TestConvertManuscriptForceRebuild(t *testing.T) {
	m, dir := setupManuscript(t)
	outDir := filepath.Join(dir, "submission")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "paper.tex"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	result := ConvertManuscript(
		&fakeRenderer{output: "# Intro\n"},
		&fakeTexConverter{output: "\\section{Intro}\n"},
		m,
		types.ConvertOptions{OutDir: outDir, Force: true},
		&log,
	)

	if result.Status != types.ConversionDone {
		t.Fatalf("status = %q, want done", result.Status)
	}
	data, _ := os.ReadFile(result.TexPath)
	if string(data) == "stale" {
		t.Error("force rebuild should overwrite the stale output")
	}
}

func TestConvertManuscriptFailures(t *testing.T) {
	tests := []struct {
		name     string
		renderer *fakeRenderer
		tex      *fakeTexConverter
		wantLog  string
	}{
		{
			name:     "render engine failure",
			renderer: &fakeRenderer{err: errors.New("knitr chunk error")},
			tex:      &fakeTexConverter{},
			wantLog:  "knitr chunk error",
		},
		{
			name:     "converter failure",
			renderer: &fakeRenderer{output: "# Intro\n"},
			tex:      &fakeTexConverter{err: errors.New("template not found")},
			wantLog:  "template not found",
		},
		{
			name:     "malformed table markup",
			renderer: &fakeRenderer{output: "# Intro\n"},
			tex:      &fakeTexConverter{output: "\\begin{longtable}[]{l}\nno end marker\n"},
			wantLog:  "malformed table markup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, dir := setupManuscript(t)

			var log bytes.Buffer
			result := ConvertManuscript(tt.renderer, tt.tex, m,
				types.ConvertOptions{OutDir: filepath.Join(dir, "submission")}, &log)

			if result.Status != types.ConversionFailed {
				t.Errorf("status = %q, want failed", result.Status)
			}
			if result.Err == nil {
				t.Error("result should carry the failure")
			}
			if !strings.Contains(log.String(), tt.wantLog) {
				t.Errorf("log %q should contain %q", log.String(), tt.wantLog)
			}
		})
	}
}

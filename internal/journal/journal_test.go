// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const samplePresets = `journals:
  - name: rsos
    pandoc:
      template: templates/rsos.latex
      csl: styles/royal-society.csl
      standalone: true
  - name: plain
    pandoc:
      standalone: true
`

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journals.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPresets(t *testing.T) {
	file, err := LoadPresets(writePresets(t, samplePresets))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := file.Names(); !reflect.DeepEqual(got, []string{"plain", "rsos"}) {
		t.Errorf("names = %v, want [plain rsos]", got)
	}

	p, ok := file.Find("rsos")
	if !ok {
		t.Fatal("rsos preset should exist")
	}
	if p.Pandoc.Template != "templates/rsos.latex" {
		t.Errorf("template = %q, want templates/rsos.latex", p.Pandoc.Template)
	}
	if !p.Pandoc.Standalone {
		t.Error("standalone should be set")
	}

	if _, ok := file.Find("missing"); ok {
		t.Error("missing preset should not be found")
	}
}

func TestLoadPresetsErrors(t *testing.T) {
	if _, err := LoadPresets(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadPresets(writePresets(t, ":\tnot yaml")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

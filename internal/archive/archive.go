// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive bundles a submission directory into a single zip file
// ready for upload to the collaboration platform.
// Implements: prd005-archive (R1);
//
//	docs/ARCHITECTURE § Archiving.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ZipDir writes the contents of dir into a zip archive at zipPath. Entries
// are stored with paths relative to dir. The archive itself is excluded
// when zipPath lies inside dir.
func ZipDir(dir, zipPath string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	absZip, _ := filepath.Abs(zipPath)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absZip {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archiving %s: %w", dir, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", zipPath, err)
	}
	return out.Close()
}

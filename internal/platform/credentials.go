// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform integrates with the LaTeX collaboration platform's git
// bridge: loading credentials and pushing a submission directory into a
// project.
// Implements: prd006-upload (R1-R3);
//
//	docs/ARCHITECTURE § Upload.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credential file names looked up under the credentials directory.
const (
	KeyGitToken  = "overleaf-git-token"
	KeyProjectID = "overleaf-project-id"
)

// LoadCredentials reads all files in dir and returns a map of filename to
// trimmed contents. Each file is one credential: the filename is the key
// and the file contents are the value. A missing directory or missing
// files are not errors; unreadable files produce a warning on stderr but
// do not abort.
func LoadCredentials(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credentials directory %s: %w", dir, err)
	}

	creds := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read credential %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			creds[name] = value
		}
	}

	return creds, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const binGit = "git"

// gitRunner abstracts git execution for testing.
type gitRunner interface {
	LookPath(file string) (string, error)
	RunInDir(dir, name string, args ...string) ([]byte, error)
}

// osGitRunner is the production runner backed by os/exec.
type osGitRunner struct{}

func (o *osGitRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osGitRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Uploader pushes a submission directory to a platform project through its
// git bridge.
type Uploader struct {
	exec gitRunner
}

// NewUploader creates an uploader, verifying that git exists on PATH.
func NewUploader() (*Uploader, error) {
	return newUploader(&osGitRunner{})
}

func newUploader(exec gitRunner) (*Uploader, error) {
	if _, err := exec.LookPath(binGit); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binGit, err)
	}
	return &Uploader{exec: exec}, nil
}

// Upload clones the project at projectURL into a temporary directory, syncs
// the files from srcDir into it, commits, and pushes. The token
// authenticates against the git bridge and never appears in errors.
func (u *Uploader) Upload(projectURL, token, srcDir string) error {
	cloneURL, err := authURL(projectURL, token)
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "rmd2tex-upload-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if out, err := u.exec.RunInDir("", binGit, "clone", "--depth", "1", cloneURL, tmp); err != nil {
		return gitError("cloning project", projectURL, out, err)
	}

	if err := syncDir(srcDir, tmp); err != nil {
		return fmt.Errorf("staging submission files: %w", err)
	}

	if out, err := u.exec.RunInDir(tmp, binGit, "add", "--all"); err != nil {
		return gitError("staging changes", projectURL, out, err)
	}

	out, err := u.exec.RunInDir(tmp, binGit, "commit", "-m", "Update submission")
	if err != nil {
		// An unchanged project is not a failure.
		if strings.Contains(string(out), "nothing to commit") {
			return nil
		}
		return gitError("committing changes", projectURL, out, err)
	}

	if out, err := u.exec.RunInDir(tmp, binGit, "push"); err != nil {
		return gitError("pushing to project", projectURL, out, err)
	}
	return nil
}

// authURL embeds the token as the git bridge password.
func authURL(projectURL, token string) (string, error) {
	parsed, err := url.Parse(projectURL)
	if err != nil {
		return "", fmt.Errorf("invalid project URL %s: %w", projectURL, err)
	}
	parsed.User = url.UserPassword("git", token)
	return parsed.String(), nil
}

// gitError wraps a git failure, reporting the clean project URL rather than
// the token-bearing clone URL.
func gitError(action, projectURL string, out []byte, err error) error {
	msg := strings.TrimSpace(string(out))
	if msg != "" {
		return fmt.Errorf("%s %s: %w: %s", action, projectURL, err, msg)
	}
	return fmt.Errorf("%s %s: %w", action, projectURL, err)
}

// syncDir copies every file under src into dst, preserving relative paths.
// The destination's .git directory is left untouched.
func syncDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

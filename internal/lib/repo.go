// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo describes one repository leaf from the settings tree: where it lives
// and where it comes from. Parent and URL come straight from the parser;
// Name and Path are derived once at construction.
type Repo struct {
	Parent string
	URL    string
	Name   string
	Path   string

	git string // binary to invoke, "git" when empty
}

func NewRepo(parent, url string) Repo {
	name := RepoName(url)
	return Repo{
		Parent: parent,
		URL:    url,
		Name:   name,
		Path:   filepath.Join(parent, name),
	}
}

// RepoName derives the local directory name git would use for a remote URL:
// the trailing ".git" is stripped, then the last path segment is taken, then
// any "user@host:" remnant before a colon is dropped. The result contains no
// separators, and normalizing an already-normalized name is a no-op.
func RepoName(url string) string {
	name := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (r Repo) Exists() bool {
	info, err := os.Stat(r.Path)
	return err == nil && info.IsDir()
}

func (r Repo) IsGitRepo() bool {
	info, err := os.Stat(filepath.Join(r.Path, ".git"))
	return err == nil && info.IsDir()
}

// RemoteURL returns the URL of the origin remote of the local clone.
func (r Repo) RemoteURL() (string, error) {
	out, err := r.run("config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (r Repo) Pull() (changed bool, err error) {
	headBefore, err := r.run("rev-parse", "HEAD")
	if err != nil {
		return false, err
	}
	if _, err := r.run("pull"); err != nil {
		return false, err
	}
	headAfter, err := r.run("rev-parse", "HEAD")
	if err != nil {
		return false, err
	}
	return headBefore != headAfter, nil
}

// Stash stashes the working tree. It reports whether anything was actually
// stashed, so callers know whether DropStash has an entry to drop.
func (r Repo) Stash() (stashed bool, err error) {
	out, err := r.run("stash")
	if err != nil {
		return false, err
	}
	return !strings.Contains(out, "No local changes to save"), nil
}

func (r Repo) DropStash() error {
	_, err := r.run("stash", "drop")
	return err
}

func (r Repo) run(args ...string) (string, error) {
	cmd := exec.Command(r.gitBin(), args...)
	cmd.Dir = r.Path
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

func (r Repo) gitBin() string {
	if r.git == "" {
		return "git"
	}
	return r.git
}

// clone runs "git clone <url>" with the parent directory as working
// directory, so git picks the target name itself.
func clone(gitBin, url, parent string, out io.Writer) error {
	if gitBin == "" {
		gitBin = "git"
	}
	cmd := exec.Command(gitBin, "clone", url)
	cmd.Dir = parent
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package lib

import "sort"

type Config struct {
	// SettingsFile is the path to the indentation-structured settings file.
	SettingsFile string
	// GitBin is the name or path of the git binary to invoke.
	GitBin string
	// TabWidth is the number of columns a tab counts for when measuring
	// indentation.
	TabWidth int
	// Home is the directory a leading "~" expands to.
	Home string

	Pull      bool
	ForcePull bool // stash and drop local changes before pulling
	Force     bool // re-clone repos whose remote URL does not match
	Quiet     bool
}

func (c Config) gitBin() string {
	if c.GitBin == "" {
		return "git"
	}
	return c.GitBin
}

// DirSet is the deduplicated set of directory paths implied by a settings
// tree.
type DirSet map[string]bool

// Sorted returns the paths in lexical order.
func (d DirSet) Sorted() []string {
	paths := make([]string, 0, len(d))
	for p := range d {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type Result struct {
	CreatedDirs []string
	Cloned      []RepoResult
	Pulled      []RepoResult
	Skipped     []SkippedRepo
	Warnings    []string
}

type RepoResult struct {
	Path   string
	Detail string
}

type SkippedRepo struct {
	Path   string
	Reason string
	Detail string
}

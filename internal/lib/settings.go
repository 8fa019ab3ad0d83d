// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// defaultTabWidth is the number of columns a tab counts for when measuring
// indentation.
const defaultTabWidth = 4

// level is one entry of the indent stack: the indentation width of a line
// and its trimmed content. Widths are strictly increasing from the bottom of
// the stack to the top.
type level struct {
	width   int
	segment string
}

// ParseSettings reads a settings tree from r and returns the set of
// directories it implies and the repositories to clone, in file order.
//
// Each non-blank line is a node; indentation depth (spaces or tabs, tabs
// expanded to a fixed width) denotes nesting. A line is a repository leaf if
// it looks like a git remote URL; every other line is a directory name whose
// path is the join of its ancestors. Blank lines are ignored.
//
// Parsing is a single pass over the lines with a local stack; given the same
// input and config it always returns the same result.
func ParseSettings(r io.Reader, cfg Config) (DirSet, []Repo, error) {
	tabWidth := cfg.TabWidth
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}

	dirs := make(DirSet)
	var repos []Repo
	var stack []level

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		content := strings.TrimSpace(line)
		if content == "" {
			continue
		}

		width := indentWidth(line, tabWidth)

		// Pop back to the nearest shallower ancestor. A dedent to a width
		// no ancestor ever used simply starts a new level there.
		for len(stack) > 0 && stack[len(stack)-1].width >= width {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, level{width: width, segment: content})

		if isRepoURL(content) {
			parent := expandHome(joinLevels(stack[:len(stack)-1]), cfg.Home)
			if parent == "" {
				// A top-level URL clones into the current directory.
				parent = "."
			}
			dirs[parent] = true
			repos = append(repos, NewRepo(parent, content))
		} else {
			dirs[expandHome(joinLevels(stack), cfg.Home)] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return dirs, repos, nil
}

// isRepoURL reports whether a trimmed settings line is a repository leaf.
// Both conditions are required so that a directory merely named with a .git
// suffix is not mistaken for a remote.
func isRepoURL(s string) bool {
	if !strings.HasSuffix(s, ".git") {
		return false
	}
	return strings.HasPrefix(s, "git@") || strings.HasPrefix(s, "https://")
}

// indentWidth measures the leading whitespace of line in columns, counting
// each tab as tabWidth columns so that mixed tab/space files line up.
func indentWidth(line string, tabWidth int) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}

func joinLevels(levels []level) string {
	segments := make([]string, len(levels))
	for i, l := range levels {
		segments[i] = l.segment
	}
	return filepath.Join(segments...)
}

// expandHome replaces a leading "~" with home. An empty home leaves the
// path untouched.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(home, path[2:])
	}
	return path
}

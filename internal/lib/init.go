// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package lib

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

type Initializer struct {
	Cfg Config
	out io.Writer
}

// Init materializes the settings tree: it parses the settings file, creates
// every directory it implies, clones each repository that is not present,
// and optionally pulls existing clones. Per-repository failures are recorded
// as warnings and never abort the run; only the preconditions (settings file
// readable, git binary present) are fatal.
func Init(cfg Config) error {
	out := io.Writer(os.Stderr)
	if cfg.Quiet {
		out = io.Discard
	}
	s := &Initializer{Cfg: cfg, out: out}
	result, err := s.run()
	if err != nil {
		return err
	}
	s.printResult(result)
	return nil
}

func (s *Initializer) log(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Initializer) run() (Result, error) {
	var result Result

	f, err := os.Open(s.Cfg.SettingsFile)
	if err != nil {
		return result, fmt.Errorf("settings file %s: %w", s.Cfg.SettingsFile, err)
	}
	dirs, repos, err := ParseSettings(f, s.Cfg)
	f.Close()
	if err != nil {
		return result, fmt.Errorf("settings file %s: %w", s.Cfg.SettingsFile, err)
	}

	if _, err := exec.LookPath(s.Cfg.gitBin()); err != nil {
		return result, fmt.Errorf("git binary not found: %w", err)
	}
	log.Debug().Int("dirs", len(dirs)).Int("repos", len(repos)).Msg("settings parsed")

	s.createDirs(&result, dirs)

	for _, repo := range repos {
		repo.git = s.Cfg.GitBin
		s.cloneRepo(&result, repo)
	}

	if s.Cfg.Pull || s.Cfg.ForcePull {
		for _, repo := range repos {
			repo.git = s.Cfg.GitBin
			s.pullRepo(&result, repo)
		}
	}

	return result, nil
}

func (s *Initializer) createDirs(result *Result, dirs DirSet) {
	for _, dir := range dirs.Sorted() {
		if _, err := os.Stat(dir); err == nil {
			log.Debug().Str("dir", dir).Msg("directory already exists")
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			result.Warnings = append(result.Warnings, "create directory failed: "+dir+": "+err.Error())
			continue
		}
		log.Info().Str("dir", dir).Msg("created directory")
		result.CreatedDirs = append(result.CreatedDirs, dir)
	}
}

func (s *Initializer) cloneRepo(result *Result, repo Repo) {
	if !repo.Exists() {
		log.Info().Str("repo", repo.Name).Str("url", repo.URL).Msg("cloning")
		if err := clone(s.Cfg.GitBin, repo.URL, repo.Parent, s.out); err != nil {
			result.Warnings = append(result.Warnings, "clone failed: "+repo.Path+": "+err.Error())
			return
		}
		result.Cloned = append(result.Cloned, RepoResult{Path: repo.Path})
		return
	}

	if !repo.IsGitRepo() {
		result.Skipped = append(result.Skipped, SkippedRepo{
			Path:   repo.Path,
			Reason: "not a git repository",
		})
		return
	}

	remote, err := repo.RemoteURL()
	if err != nil {
		result.Warnings = append(result.Warnings, "remote check failed: "+repo.Path+": "+err.Error())
		return
	}
	if remote == repo.URL {
		result.Skipped = append(result.Skipped, SkippedRepo{
			Path:   repo.Path,
			Reason: "already cloned",
		})
		return
	}

	if !s.Cfg.Force {
		result.Skipped = append(result.Skipped, SkippedRepo{
			Path:   repo.Path,
			Reason: "remote mismatch",
			Detail: "origin is " + remote,
		})
		return
	}

	log.Info().Str("repo", repo.Name).Str("old", remote).Str("new", repo.URL).Msg("re-cloning")
	if err := os.RemoveAll(repo.Path); err != nil {
		result.Warnings = append(result.Warnings, "remove failed: "+repo.Path+": "+err.Error())
		return
	}
	if err := clone(s.Cfg.GitBin, repo.URL, repo.Parent, s.out); err != nil {
		result.Warnings = append(result.Warnings, "clone failed: "+repo.Path+": "+err.Error())
		return
	}
	result.Cloned = append(result.Cloned, RepoResult{Path: repo.Path, Detail: "replaced " + remote})
}

func (s *Initializer) pullRepo(result *Result, repo Repo) {
	if !repo.Exists() {
		result.Skipped = append(result.Skipped, SkippedRepo{
			Path:   repo.Path,
			Reason: "pull skipped",
			Detail: "directory does not exist",
		})
		return
	}
	if !repo.IsGitRepo() {
		result.Skipped = append(result.Skipped, SkippedRepo{
			Path:   repo.Path,
			Reason: "pull skipped",
			Detail: "not a git repository",
		})
		return
	}

	var details []string
	if s.Cfg.ForcePull {
		stashed, err := repo.Stash()
		if err != nil {
			result.Warnings = append(result.Warnings, "stash failed: "+repo.Path+": "+err.Error())
			return
		}
		if stashed {
			if err := repo.DropStash(); err != nil {
				result.Warnings = append(result.Warnings, "stash drop failed: "+repo.Path+": "+err.Error())
				return
			}
			details = append(details, "discarded local changes")
		}
	}

	log.Info().Str("repo", repo.Name).Msg("pulling")
	changed, err := repo.Pull()
	if err != nil {
		result.Warnings = append(result.Warnings, "pull failed: "+repo.Path+": "+err.Error())
		return
	}
	if changed {
		details = append(details, "updated")
	} else {
		details = append(details, "up to date")
	}
	result.Pulled = append(result.Pulled, RepoResult{Path: repo.Path, Detail: strings.Join(details, ", ")})
}

func (s *Initializer) printResult(r Result) {
	if len(r.CreatedDirs) > 0 {
		s.log("Created: %d directories\n", len(r.CreatedDirs))
		for _, dir := range r.CreatedDirs {
			s.log("  - %s\n", dir)
		}
	}

	if len(r.Cloned) > 0 {
		s.log("Cloned: %d repos\n", len(r.Cloned))
		for _, repo := range r.Cloned {
			if repo.Detail != "" {
				s.log("  - %s (%s)\n", repo.Path, repo.Detail)
			} else {
				s.log("  - %s\n", repo.Path)
			}
		}
	}

	if len(r.Pulled) > 0 {
		s.log("Pulled: %d repos\n", len(r.Pulled))
		for _, repo := range r.Pulled {
			s.log("  - %s (%s)\n", repo.Path, repo.Detail)
		}
	}

	byReason := make(map[string][]SkippedRepo)
	var reasons []string
	for _, skip := range r.Skipped {
		if _, seen := byReason[skip.Reason]; !seen {
			reasons = append(reasons, skip.Reason)
		}
		byReason[skip.Reason] = append(byReason[skip.Reason], skip)
	}
	for _, reason := range reasons {
		skips := byReason[reason]
		s.log("Skipped (%s): %d repos\n", reason, len(skips))
		for _, skip := range skips {
			if skip.Detail != "" {
				s.log("  - %s (%s)\n", skip.Path, skip.Detail)
			} else {
				s.log("  - %s\n", skip.Path)
			}
		}
	}

	if len(r.Warnings) > 0 {
		s.log("Warnings:\n")
		for _, w := range r.Warnings {
			s.log("  - %s\n", w)
		}
	}
}

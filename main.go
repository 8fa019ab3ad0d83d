// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TomLBZ/GitInit/internal/lib"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var cfg lib.Config
	var verbose bool

	flag.BoolVar(&cfg.Pull, "pull", false, "pull the latest changes for existing clones")
	flag.BoolVar(&cfg.ForcePull, "forcepull", false, "discard local changes, then pull")
	flag.BoolVar(&cfg.Force, "force", false, "re-clone repos whose remote URL does not match the settings")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "suppress all output")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	cfg.SettingsFile = flag.Arg(0)
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = os.Getenv("GITINIT_SETTINGS")
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = "settings.txt"
	}

	cfg.GitBin = os.Getenv("GITINIT_GIT")
	if w := os.Getenv("GITINIT_TAB_WIDTH"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid GITINIT_TAB_WIDTH %q", w)
		}
		cfg.TabWidth = n
	}

	// A missing home dir just leaves "~" unexpanded.
	cfg.Home, _ = os.UserHomeDir()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch {
	case cfg.Quiet:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return lib.Init(cfg)
}

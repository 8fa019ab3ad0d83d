// Copyright 2026 TomLBZ
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bep/helpers/envhelpers"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestScripts(t *testing.T) {
	params := commonTestScriptsParam
	params.Dir = "testscripts"
	// params.TestWork = true
	// params.UpdateScripts = true
	testscript.Run(t, params)
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gitinit": func() int {
			main()
			return 0
		},
	}))
}

func testSetupFunc() func(env *testscript.Env) error {
	sourceDir, _ := os.Getwd()
	isGitHubActions := os.Getenv("GITHUB_ACTIONS") != ""
	return func(env *testscript.Env) error {
		var keyVals []string
		// Add some environment variables to the test script.
		keyVals = append(keyVals, "SOURCE", sourceDir)
		keyVals = append(keyVals, "GITHUB_ACTIONS", fmt.Sprintf("%v", isGitHubActions))
		envhelpers.SetEnvVars(&env.Vars, keyVals...)

		return nil
	}
}

var commonTestScriptsParam = testscript.Params{
	Setup: func(env *testscript.Env) error {
		return testSetupFunc()(env)
	},
	Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
		// tree lists a directory recursively to stdout as a simple tree,
		// marking git repositories and not descending into them.
		"tree": func(ts *testscript.TestScript, neg bool, args []string) {
			dirname := ts.MkAbs(args[0])

			err := filepath.WalkDir(dirname, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					return nil
				}
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				nodeType := "dir"
				if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
					nodeType = "git"
				}
				rel, err := filepath.Rel(dirname, path)
				if err != nil {
					return err
				}
				if rel == "." {
					fmt.Fprintf(ts.Stdout(), ". (%s)\n", nodeType)
					return nil
				}
				depth := strings.Count(rel, string(os.PathSeparator))
				prefix := strings.Repeat("  ", depth) + "└─"
				fmt.Fprintf(ts.Stdout(), "%s%s:%s/\n", prefix, nodeType, d.Name())
				if nodeType == "git" {
					return filepath.SkipDir
				}
				return nil
			})
			if err != nil {
				ts.Fatalf("%v", err)
			}
		},
	},
}

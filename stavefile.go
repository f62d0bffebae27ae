//go:build stave

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binDir = "bin"

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
	"p": TestProperties,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles both featurize-cli and featurize-bench binaries.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_CLI, Build_Bench)
	return nil
}

// Build_CLI compiles the featurize-cli binary with version information.
func Build_CLI() error {
	st.Deps(Init)
	return buildBinary("featurize-cli")
}

// Build_Bench compiles the featurize-bench binary with version information.
func Build_Bench() error {
	st.Deps(Init)
	return buildBinary("featurize-bench")
}

// buildBinary compiles ./cmd/<name> into bin/<name> unless it is up to date.
func buildBinary(name string) error {
	out := binDir + "/" + name
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild of %s: %w", name, err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestProperties runs the property tests with more generated cases.
// Reads RAPID_CHECKS (default 2000).
func TestProperties() error {
	st.Deps(Init)
	checks := os.Getenv("RAPID_CHECKS")
	if checks == "" {
		checks = "2000"
	}
	return sh.RunV("go", "test", "-race", "-run", "Properties|Property", ".", "-rapid.checks="+checks)
}

// TestShort runs tests in short mode (skips long-running tests).
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return fmt.Errorf("removing %s: %w", binDir, err)
	}
	return nil
}

// Bench namespace for benchmark-related targets.
type Bench st.Namespace

// Run reports vocabulary coverage for a corpus.
// Reads BENCH_CONFIG (default featurize.yaml) and BENCH_CORPUS (default testdata/corpus.jsonl).
func (Bench) Run() error {
	st.Deps(Build_Bench)

	configPath := os.Getenv("BENCH_CONFIG")
	if configPath == "" {
		configPath = "featurize.yaml"
	}
	corpusPath := os.Getenv("BENCH_CORPUS")
	if corpusPath == "" {
		corpusPath = "testdata/corpus.jsonl"
	}

	return sh.RunV("./"+binDir+"/featurize-bench",
		"-config", configPath,
		"-corpus", corpusPath,
	)
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target builds rsfmt.
var Default = Build

// Aliases for the targets used day to day.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"gold": Test.Golden,
	"cmp":  Bench.Rustfmt,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

const (
	binary    = "bin/rsfmt"
	mainPkg   = "./cmd/rsfmt"
	goldenDir = "pkg/format/testdata/golden"
)

// Build compiles bin/rsfmt when a Go source or go.mod changed.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Install puts rsfmt in $GOBIN.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Check is what to run before pushing: gofmt, lint, tests and the golden
// self-check.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Test.SelfCheck)
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Default runs the test suite under the race detector through gotestsum.
func (Test) Default() error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", "pkgname-and-test-fails", "--",
		"-race", "-p", procs, "./...", "-coverprofile=coverage.out")
}

// Golden rewrites the expected outputs of the formatter golden tests.
func (Test) Golden() error {
	return sh.RunV("go", "test", "./pkg/format", "-run", "TestGolden", "-update")
}

// SelfCheck runs the built binary in check mode over the golden outputs,
// which must already be formatted.
func (Test) SelfCheck() error {
	st.Deps(Build)
	outputs, err := filepath.Glob(filepath.Join(goldenDir, "*.golden.rs"))
	if err != nil {
		return fmt.Errorf("glob golden files: %w", err)
	}
	if len(outputs) == 0 {
		return errors.New("no golden outputs under " + goldenDir)
	}
	return sh.RunV(binary, append([]string{"format", "--check"}, outputs...)...)
}

// Default runs golangci-lint, fixing what it can unless CI is set.
func (Lint) Default() error {
	args := []string{"run", "./..."}
	if os.Getenv("CI") == "" {
		args = append(args, "--fix")
	}
	return sh.RunV("golangci-lint", args...)
}

// Fmt runs gofmt over the tree.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Gate is the CI pipeline: unformatted Go files, vet, lint, build, tests,
// the golden self-check and an untidy go.mod all fail it.
func (CI) Gate() error {
	unformatted, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if unformatted != "" {
		return fmt.Errorf("gofmt would change:\n%s", unformatted)
	}
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	st.SerialDeps(Lint.Default, Build, Test.Default, Test.SelfCheck, CI.ModTidy)
	return nil
}

// ModTidy fails when go mod tidy would edit go.mod.
func (CI) ModTidy() error {
	before, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if !bytes.Equal(before, after) {
		return errors.New("go.mod is not tidy; commit the result of go mod tidy")
	}
	return nil
}

// Rustfmt times rsfmt and rustfmt checking the crate in RSFMT_BENCH_DIR.
func (Bench) Rustfmt() error {
	st.Deps(Build)
	dir := os.Getenv("RSFMT_BENCH_DIR")
	if dir == "" {
		return errors.New("set RSFMT_BENCH_DIR to a directory of Rust sources")
	}
	if err := exec.Command("rustfmt", "--version").Run(); err != nil { //nolint:gosec // args are constant
		return errors.New("rustfmt not found; install with: rustup component add rustfmt")
	}

	files, err := rustFiles(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Comparing on %d files in %s\n", len(files), dir)

	for _, tool := range []struct {
		name string
		args []string
	}{
		{binary, append([]string{"format", "--check", "-q", "--output-format", "summary"}, dir)},
		{"rustfmt", append([]string{"--check", "--edition", "2021"}, files...)},
	} {
		start := time.Now()
		// A non-zero exit only means files would change.
		_ = exec.Command(tool.name, tool.args...).Run() //nolint:gosec // benchmark inputs come from the developer
		fmt.Printf("  %-10s %s\n", filepath.Base(tool.name), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// ldflags stamps the version, commit and build time into cmd/rsfmt.
func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}

// rustFiles lists the .rs files under dir, skipping hidden directories
// and target/.
func rustFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "target") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".rs" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

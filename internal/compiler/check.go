package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vibelang/vibe/internal/config"
	"github.com/vibelang/vibe/internal/testcase"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// NeedsExecution reports whether checking tc requires assembling and running the program.
func NeedsExecution(tc testcase.TestCase) bool {
	_, ok := tc.Expects(testcase.AssertionOutput)
	return ok
}

// CheckCase compiles one test case and verifies all of its assertions.
// Intermediate files are created in workDir and removed when the case passes.
func CheckCase(ctx context.Context, cfg *config.Config, tc testcase.TestCase, workDir string) error {
	baseName := unsafeNameChars.ReplaceAllString(tc.Name, "_")
	sourceName := baseName + ".vibe"

	var asmBuf bytes.Buffer
	err := Compile(&asmBuf, strings.NewReader(tc.Input), sourceName, Options{Target: cfg.Codegen.Target})

	if expected, ok := tc.Expects(testcase.AssertionCompileError); ok {
		if err == nil {
			return fmt.Errorf("expected compile error containing %q, but compilation succeeded", expected)
		}
		if !strings.Contains(err.Error(), expected) {
			return fmt.Errorf("expected compile error containing %q, got %q", expected, err.Error())
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("compilation error: %w", err)
	}

	asmText := asmBuf.String()
	if expected, ok := tc.Expects(testcase.AssertionAsm); ok {
		if err := checkAsm(asmText, expected); err != nil {
			return err
		}
	}

	expectedOutput, ok := tc.Expects(testcase.AssertionOutput)
	if !ok {
		return nil
	}

	artifacts := ArtifactsFor(filepath.Join(workDir, baseName))
	if err := os.WriteFile(artifacts.Asm, asmBuf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing assembly: %w", err)
	}
	if err := Assemble(ctx, cfg.Toolchain, artifacts.Asm, artifacts.Object); err != nil {
		return err
	}
	if err := Link(ctx, cfg.Toolchain, artifacts.Object, artifacts.Binary); err != nil {
		return err
	}

	actualOutput, err := Run(ctx, artifacts.Binary)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if actualOutput != expectedOutput {
		// Files are left for inspection.
		return fmt.Errorf("output mismatch:\nExpected: %q\nActual:   %q", expectedOutput, actualOutput)
	}

	cleanupFiles(artifacts.Asm, artifacts.Object, artifacts.Binary)
	return nil
}

// checkAsm verifies that every non-empty expected line appears as a line of the assembly.
// Leading and trailing whitespace is ignored on both sides.
func checkAsm(asmText, expected string) error {
	lines := make(map[string]bool)
	for _, line := range strings.Split(asmText, "\n") {
		lines[strings.TrimSpace(line)] = true
	}
	for _, want := range strings.Split(expected, "\n") {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		if !lines[want] {
			return fmt.Errorf("assembly does not contain line %q", want)
		}
	}
	return nil
}

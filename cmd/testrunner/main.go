package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vibelang/vibe/internal/compiler"
	"github.com/vibelang/vibe/internal/config"
	"github.com/vibelang/vibe/internal/testcase"
)

// findTestCases returns the cases whose name contains filter, or all cases when filter is empty.
func findTestCases(tests []testcase.TestCase, filter string) []testcase.TestCase {
	if filter == "" {
		return tests
	}
	var result []testcase.TestCase
	for _, test := range tests {
		if strings.Contains(test.Name, filter) {
			result = append(result, test)
		}
	}
	return result
}

func main() {
	testsDir := flag.String("dir", "tests", "directory with Markdown test files")
	workDir := flag.String("work", "", "directory for intermediate files (default: a temporary directory)")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tests, err := testcase.ExtractDir(*testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	testsToRun := findTestCases(tests, flag.Arg(0))
	if len(testsToRun) == 0 {
		fmt.Printf("No tests found in %s/\n", *testsDir)
		return
	}
	if len(testsToRun) == 1 {
		fmt.Printf("Found 1 test\n")
	} else {
		fmt.Printf("Found %d tests\n", len(testsToRun))
	}

	dir := *workDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "vibe-tests-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	haveToolchain := compiler.ToolchainAvailable(cfg.Toolchain)
	ctx := context.Background()

	passed := 0
	failed := 0
	skipped := 0

	for _, test := range testsToRun {
		fmt.Printf("Running test %s... ", test.Name)
		if compiler.NeedsExecution(test) && !haveToolchain {
			fmt.Println("SKIP - toolchain not available")
			skipped++
			continue
		}
		if err := compiler.CheckCase(ctx, cfg, test, dir); err != nil {
			fmt.Printf("FAIL - %s:%d: %v\n", test.File, test.Line, err)
			failed++
		} else {
			fmt.Println("PASS")
			passed++
		}
	}

	// Failed cases leave their files behind for inspection.
	if failed == 0 && *workDir == "" {
		os.RemoveAll(dir)
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed, %d skipped. All good!\n", passed, skipped)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed, %d skipped\n", passed, failed, skipped)
		fmt.Printf("Intermediate files kept in %s\n", dir)
		os.Exit(1)
	}
}

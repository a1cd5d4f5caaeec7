// Package testcase extracts end-to-end test cases from Markdown documents.
//
// Each test starts with a heading of the form "Test: <name>" and is followed by
// fenced code blocks. A "vibe" fence holds the program. The remaining fences are
// assertions: "output" is the exact expected stdout, "compile-error" is a substring
// of the expected compiler error, and "asm" lists lines the generated assembly must contain.
package testcase

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const InputFence = "vibe"

type AssertionType string

const (
	AssertionOutput       AssertionType = "output"
	AssertionCompileError AssertionType = "compile-error"
	AssertionAsm          AssertionType = "asm"
)

type Assertion struct {
	Type    AssertionType
	Content string
}

type TestCase struct {
	Name       string
	File       string
	Line       int
	Input      string
	Assertions []Assertion
}

// Expects returns the content of the first assertion of the given type.
func (tc *TestCase) Expects(typ AssertionType) (string, bool) {
	for _, a := range tc.Assertions {
		if a.Type == typ {
			return a.Content, true
		}
	}
	return "", false
}

// Extract parses a Markdown document and returns its test cases in document order.
func Extract(filename string, markdown []byte) ([]TestCase, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var testCases []TestCase
	var current *TestCase

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return fmt.Errorf("%s:%d: %w", filename, current.Line, err)
		}
		testCases = append(testCases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkSkipChildren, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: ")),
				File: filename,
				Line: lineNumber(n, markdown),
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			language := string(n.Language(markdown))
			content := codeBlockContent(n, markdown)
			line := lineNumber(n, markdown)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("%s:%d: %s fence found outside of test case", filename, line, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == InputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("%s:%d: multiple %s fences in test '%s'", filename, line, InputFence, current.Name)
				}
				current.Input = content
			case isAssertionFence(language):
				// Expected output keeps its trailing newline, since print always writes one.
				if AssertionType(language) != AssertionOutput {
					content = strings.TrimRight(content, "\n")
				}
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: content,
				})
			default:
				return ast.WalkStop, fmt.Errorf("%s:%d: unknown fence language '%s' in test '%s'", filename, line, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return testCases, nil
}

// ExtractDir extracts test cases from every .md file in dir, ordered by file name.
func ExtractDir(dir string) ([]TestCase, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var testCases []TestCase
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read test file: %w", err)
		}
		cases, err := Extract(path, data)
		if err != nil {
			return nil, err
		}
		testCases = append(testCases, cases...)
	}
	return testCases, nil
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionOutput, AssertionCompileError, AssertionAsm:
		return true
	}
	return false
}

func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no %s fence", tc.Name, InputFence)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	_, hasOutput := tc.Expects(AssertionOutput)
	_, hasError := tc.Expects(AssertionCompileError)
	if hasOutput && hasError {
		return fmt.Errorf("test '%s' expects both output and a compile error", tc.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func codeBlockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineNumber is the 1-based line of the node's first content line.
func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}

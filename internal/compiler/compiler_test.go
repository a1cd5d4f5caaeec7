package compiler

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vibelang/vibe/internal/codegen/common"
	"github.com/vibelang/vibe/internal/config"
	"github.com/vibelang/vibe/internal/testcase"
)

func TestCompile(t *testing.T) {
	var out bytes.Buffer
	err := Compile(&out, strings.NewReader(`fn main() { let x = 3; print(x); }`), "test.vibe", Options{})
	be.Err(t, err, nil)

	asm := out.String()
	be.True(t, strings.Contains(asm, ".globl _start\n"))
	be.True(t, strings.Contains(asm, "main:\n"))
	be.True(t, strings.Contains(asm, "__vibe_print_int:\n"))
}

func TestCompileErrors(t *testing.T) {
	var out bytes.Buffer
	err := Compile(&out, strings.NewReader(`fn main() { x = 1; }`), "test.vibe", Options{})
	be.Err(t, err, common.ErrUnboundVariable)
	be.True(t, strings.Contains(err.Error(), "test.vibe:1:13: unbound variable x"))
	be.Equal(t, out.Len(), 0)

	err = Compile(&out, strings.NewReader(`fn main() {`), "test.vibe", Options{})
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "error parsing program"))
	be.Equal(t, out.Len(), 0)

	err = Compile(&out, strings.NewReader(`fn main() {}`), "test.vibe", Options{Target: "pdp11"})
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown target: pdp11"))
}

func TestCompileLogs(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := Compile(&out, strings.NewReader(`fn main() {}`), "test.vibe", Options{Logger: logger})
	be.Err(t, err, nil)
	be.True(t, strings.Contains(logs.String(), "msg=\"parsed program\" file=test.vibe functions=1"))
	be.True(t, strings.Contains(logs.String(), "msg=\"generated assembly\""))
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.vibe")
	output := filepath.Join(dir, "prog.s")
	be.Err(t, os.WriteFile(input, []byte(`fn main() { print(1); }`), 0644), nil)

	be.Err(t, CompileFile(input, output, Options{Comments: true}), nil)
	data, err := os.ReadFile(output)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(data), "# 1:13 (print 1)"))
}

func TestCompileFileWritesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.vibe")
	output := filepath.Join(dir, "prog.s")
	be.Err(t, os.WriteFile(input, []byte(`fn main() { x = 1; }`), 0644), nil)

	err := CompileFile(input, output, Options{})
	be.Err(t, err, common.ErrUnboundVariable)
	_, err = os.Stat(output)
	be.True(t, os.IsNotExist(err))
}

func TestCompileFileMissingInput(t *testing.T) {
	err := CompileFile(filepath.Join(t.TempDir(), "nope.vibe"), "out.s", Options{})
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "error opening input file"))
}

func TestArtifactsFor(t *testing.T) {
	be.Equal(t, ArtifactsFor("build/prog"), Artifacts{
		Asm:    "build/prog.s",
		Object: "build/prog.o",
		Binary: "build/prog",
	})
}

func TestCheckAsm(t *testing.T) {
	asm := "main:\n  pushq %rbp\n  movq %rsp, %rbp\n"
	be.Err(t, checkAsm(asm, "pushq %rbp\n\n  movq %rsp, %rbp  \n"), nil)
	be.True(t, checkAsm(asm, "popq %rbp") != nil)
	// Whole lines only.
	be.True(t, checkAsm(asm, "pushq") != nil)
}

func TestCheckCaseWithoutExecution(t *testing.T) {
	cfg := config.Default()
	ctx := context.Background()

	pass := testcase.TestCase{
		Name:  "asm only",
		Input: `fn main() { print(10 - 3); }`,
		Assertions: []testcase.Assertion{
			{Type: testcase.AssertionAsm, Content: "subq %rcx, %rax"},
		},
	}
	be.True(t, !NeedsExecution(pass))
	be.Err(t, CheckCase(ctx, cfg, pass, t.TempDir()), nil)

	wrongAsm := pass
	wrongAsm.Assertions = []testcase.Assertion{{Type: testcase.AssertionAsm, Content: "addq %rcx, %rax"}}
	be.True(t, CheckCase(ctx, cfg, wrongAsm, t.TempDir()) != nil)

	expectedError := testcase.TestCase{
		Name:       "unbound",
		Input:      `fn main() { x = 1; }`,
		Assertions: []testcase.Assertion{{Type: testcase.AssertionCompileError, Content: "unbound variable x"}},
	}
	be.Err(t, CheckCase(ctx, cfg, expectedError, t.TempDir()), nil)

	unexpectedSuccess := expectedError
	unexpectedSuccess.Input = `fn main() { let x = 0; x = 1; }`
	err := CheckCase(ctx, cfg, unexpectedSuccess, t.TempDir())
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "compilation succeeded"))
}

func requireToolchain(t *testing.T, cfg *config.Config) {
	t.Helper()
	if !ToolchainAvailable(cfg.Toolchain) {
		t.Skip("x86_64 linux toolchain (as, ld) not available")
	}
}

func TestBuildAndRun(t *testing.T) {
	cfg := config.Default()
	requireToolchain(t, cfg)

	dir := t.TempDir()
	source := filepath.Join(dir, "prog.vibe")
	be.Err(t, os.WriteFile(source, []byte(`fn main() { let x = 3; print(x); }`), 0644), nil)

	ctx := context.Background()
	artifacts, err := Build(ctx, cfg, source, filepath.Join(dir, "prog"), BuildOptions{})
	be.Err(t, err, nil)

	_, err = os.Stat(artifacts.Asm)
	be.True(t, os.IsNotExist(err))
	_, err = os.Stat(artifacts.Object)
	be.True(t, os.IsNotExist(err))

	output, err := Run(ctx, artifacts.Binary)
	be.Err(t, err, nil)
	be.Equal(t, output, "3\n")
}

func TestBuildKeepsIntermediateFiles(t *testing.T) {
	cfg := config.Default()
	requireToolchain(t, cfg)

	dir := t.TempDir()
	source := filepath.Join(dir, "prog.vibe")
	be.Err(t, os.WriteFile(source, []byte(`fn main() {}`), 0644), nil)

	artifacts, err := Build(context.Background(), cfg, source, filepath.Join(dir, "prog"), BuildOptions{KeepIntermediate: true})
	be.Err(t, err, nil)
	_, err = os.Stat(artifacts.Asm)
	be.Err(t, err, nil)
	_, err = os.Stat(artifacts.Object)
	be.Err(t, err, nil)
}

func TestCorpus(t *testing.T) {
	cases, err := testcase.ExtractDir(filepath.Join("..", "..", "tests"))
	be.Err(t, err, nil)
	be.True(t, len(cases) > 0)

	cfg := config.Default()
	haveToolchain := ToolchainAvailable(cfg.Toolchain)

	for _, tc := range cases {
		t.Run(filepath.Base(tc.File)+"/"+tc.Name, func(t *testing.T) {
			if NeedsExecution(tc) && !haveToolchain {
				t.Skip("x86_64 linux toolchain (as, ld) not available")
			}
			if err := CheckCase(context.Background(), cfg, tc, t.TempDir()); err != nil {
				t.Errorf("%s:%d: %v", tc.File, tc.Line, err)
			}
		})
	}
}

package x86_64_linux

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/lexer"
	"github.com/vibelang/vibe/internal/parser"
)

func TestArgToString(t *testing.T) {
	testCases := []struct {
		arg      asm.Arg
		expected string
	}{
		{asm.RAX, "%rax"},
		{asm.AL, "%al"},
		{asm.Imm(42), "$42"},
		{asm.Imm(-1), "$-1"},
		{asm.DerefWithOffset(asm.RBP, -8), "-8(%rbp)"},
		{asm.DerefWithOffset(asm.RBP, -24), "-24(%rbp)"},
		{asm.RSI.AsDeref(), "(%rsi)"},
		{asm.Ref("main"), "main"},
		{asm.Ref(".L3"), ".L3"},
		{asm.RipRelative("__vibe_newline"), "__vibe_newline(%rip)"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			be.Equal(t, argToString(tc.arg), tc.expected)
		})
	}
}

func TestFormatLine(t *testing.T) {
	testCases := []struct {
		line     asm.Line
		expected string
	}{
		{asm.Op0("ret"), "  ret\n"},
		{asm.Op1("pushq", asm.RBP), "  pushq %rbp\n"},
		{asm.Op2("movq", asm.RAX, asm.DerefWithOffset(asm.RBP, -8)), "  movq %rax, -8(%rbp)\n"},
		{asm.Label(".L1"), ".L1:\n"},
		{asm.Comment("frame size: 16 bytes"), "  # frame size: 16 bytes\n"},
	}

	for _, tc := range testCases {
		var sb strings.Builder
		formatLine(&sb, tc.line)
		be.Equal(t, sb.String(), tc.expected)
	}
}

func TestFormatProgram(t *testing.T) {
	p := asm.Program{
		Functions: []asm.Function{
			{Name: "_start", Global: true, Lines: []asm.Line{asm.Op1("call", asm.Ref("main"))}},
			{Name: "main", Lines: []asm.Line{asm.Op0("ret")}},
		},
		Data: []asm.Data{{Label: "nl", Bytes: []byte{10}}},
	}

	var sb strings.Builder
	formatProgram(&sb, p)
	be.Equal(t, sb.String(), `.text

.globl _start
.type _start, @function
_start:
  call main
.size _start, .-_start

.type main, @function
main:
  ret
.size main, .-main

.section .rodata
nl:
  .byte 10
.section .note.GNU-stack,"",@progbits
`)
}

func TestCodeGenerator(t *testing.T) {
	lex := lexer.New(strings.NewReader(`fn main() { let x = 3; print(x); }`), "test.vibe")
	program, err := parser.New(lex).ParseProgram()
	be.Err(t, err, nil)

	cg := &CodeGenerator{}
	p, err := cg.Generate(program)
	be.Err(t, err, nil)

	var sb strings.Builder
	cg.Format(&sb, p)
	out := sb.String()

	for _, expected := range []string{
		".globl _start\n",
		"_start:\n  call main\n  movq $60, %rax\n  movq $0, %rdi\n  syscall\n",
		"main:\n  pushq %rbp\n  movq %rsp, %rbp\n  subq $16, %rsp\n",
		"  movq %rax, -8(%rbp)\n",
		"  call __vibe_print_int\n",
		"__vibe_print_int:\n",
		"  leaq __vibe_newline(%rip), %rsi\n",
		"__vibe_newline:\n  .byte 10\n",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
	be.True(t, !strings.Contains(out, ".globl main"))
}

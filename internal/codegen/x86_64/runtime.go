package x86_64

import "github.com/vibelang/vibe/internal/asm"

const (
	PRINT_INT = "__vibe_print_int"
	NEWLINE   = "__vibe_newline"

	// Enough for 19 digits and a sign.
	PRINT_BUFFER_SIZE = 32
)

// generatePrintRuntime emits the routine that prints the signed integer in rdi followed by a newline.
// Digits are produced least significant first into a buffer below rbp, so rsi walks downwards.
// The magnitude is divided as an unsigned value, which keeps the most negative int64 correct.
func generatePrintRuntime() asm.Function {
	lines := []asm.Line{
		asm.Op1("pushq", asm.RBP),
		asm.Op2("movq", asm.RSP, asm.RBP),
		asm.Op2("subq", asm.Imm(PRINT_BUFFER_SIZE), asm.RSP),
		asm.Op2("movq", asm.RDI, asm.RAX),
		asm.Op2("movq", asm.RBP, asm.RSI),

		// r9 is set when the value is negative.
		asm.Op2("movq", asm.Imm(0), asm.R9),
		asm.Op2("cmpq", asm.Imm(0), asm.RAX),
		asm.Op1("jge", asm.Ref(".Lprint_int_loop")),
		asm.Op2("movq", asm.Imm(1), asm.R9),
		asm.Op1("negq", asm.RAX),

		asm.Label(".Lprint_int_loop"),
		asm.Op2("movq", asm.Imm(0), asm.RDX),
		asm.Op2("movq", asm.Imm(10), asm.RCX),
		asm.Op1("divq", asm.RCX),
		asm.Op2("addq", asm.Imm('0'), asm.RDX),
		asm.Op1("decq", asm.RSI),
		asm.Op2("movb", asm.DL, asm.RSI.AsDeref()),
		asm.Op2("testq", asm.RAX, asm.RAX),
		asm.Op1("jne", asm.Ref(".Lprint_int_loop")),

		asm.Op2("cmpq", asm.Imm(0), asm.R9),
		asm.Op1("je", asm.Ref(".Lprint_int_write")),
		asm.Op1("decq", asm.RSI),
		asm.Op2("movb", asm.Imm('-'), asm.RSI.AsDeref()),

		asm.Label(".Lprint_int_write"),
		asm.Op2("movq", asm.RBP, asm.RDX),
		asm.Op2("subq", asm.RSI, asm.RDX),
		asm.Op2("movq", asm.Imm(SYSCALL_WRITE), asm.RAX),
		asm.Op2("movq", asm.Imm(STDOUT_FD), asm.RDI),
		asm.Op0("syscall"),

		asm.Op2("movq", asm.Imm(SYSCALL_WRITE), asm.RAX),
		asm.Op2("movq", asm.Imm(STDOUT_FD), asm.RDI),
		asm.Op2("leaq", asm.RipRelative(NEWLINE), asm.RSI),
		asm.Op2("movq", asm.Imm(1), asm.RDX),
		asm.Op0("syscall"),

		asm.Op2("movq", asm.RBP, asm.RSP),
		asm.Op1("popq", asm.RBP),
		asm.Op0("ret"),
	}

	return asm.Function{
		Name:  PRINT_INT,
		Lines: lines,
	}
}

func printRuntimeData() []asm.Data {
	return []asm.Data{
		{Label: NEWLINE, Bytes: []byte{'\n'}},
	}
}

package x86_64_linux

import (
	"fmt"
	"io"
	"strings"

	"github.com/vibelang/vibe/internal/asm"
)

func formatProgram(out io.Writer, p asm.Program) {
	fmt.Fprintf(out, ".text\n")
	for _, fn := range p.Functions {
		formatFunction(out, fn)
	}

	formatData(out, p.Data)

	// Marks the stack as non-executable for the linker.
	fmt.Fprintf(out, ".section .note.GNU-stack,\"\",@progbits\n")
}

func formatFunction(out io.Writer, fn asm.Function) {
	fmt.Fprintf(out, "\n")
	if fn.Global {
		fmt.Fprintf(out, ".globl %s\n", fn.Name)
	}
	fmt.Fprintf(out, ".type %s, @function\n", fn.Name)
	fmt.Fprintf(out, "%s:\n", fn.Name)

	for _, line := range fn.Lines {
		formatLine(out, line)
	}
	fmt.Fprintf(out, ".size %s, .-%s\n", fn.Name, fn.Name)
}

func formatLine(out io.Writer, line asm.Line) {
	if line.Label != "" {
		fmt.Fprintf(out, "%s:", line.Label)
	} else if line.Op != "" {
		fmt.Fprintf(out, "  %s", line.Op)

		if line.Arity >= 1 {
			fmt.Fprintf(out, " %s", argToString(line.Arg1))
		}
		if line.Arity >= 2 {
			fmt.Fprintf(out, ", %s", argToString(line.Arg2))
		}
	}

	if line.Comment != "" {
		fmt.Fprintf(out, "  # %s", line.Comment)
	}

	fmt.Fprintf(out, "\n")
}

func argToString(arg asm.Arg) string {
	var result string

	// RIP-relative addressing
	if arg.Label != "" && arg.Reg != "" {
		if arg.Offset != 0 {
			return fmt.Sprintf("%s+%d(%%%s)", arg.Label, arg.Offset, arg.Reg)
		}
		return fmt.Sprintf("%s(%%%s)", arg.Label, arg.Reg)
	}

	if arg.Deref && arg.Reg == "" {
		panic(fmt.Errorf("invalid arg %#v. dereferencing only supported for registers", arg))
	}

	if arg.Reg != "" {
		if arg.Offset != 0 {
			result = fmt.Sprintf("%d(%%%s)", arg.Offset, arg.Reg)
		} else if arg.Deref {
			result = fmt.Sprintf("(%%%s)", arg.Reg)
		} else {
			result = fmt.Sprintf("%%%s", arg.Reg)
		}
	} else if arg.Label != "" {
		result = arg.Label
	} else if arg.Imm != nil {
		result = fmt.Sprintf("$%d", *arg.Imm)
	} else {
		panic(fmt.Errorf("invalid arg %#v", arg))
	}

	return result
}

func formatData(out io.Writer, data []asm.Data) {
	if len(data) == 0 {
		return
	}

	fmt.Fprintf(out, "\n.section .rodata\n")
	for _, d := range data {
		fmt.Fprintf(out, "%s:\n", d.Label)
		bytes := make([]string, len(d.Bytes))
		for i, b := range d.Bytes {
			bytes[i] = fmt.Sprintf("%d", b)
		}
		fmt.Fprintf(out, "  .byte %s\n", strings.Join(bytes, ", "))
	}
}

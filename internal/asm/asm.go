package asm

import "github.com/vibelang/vibe/internal/util"

var (
	RAX = Arg{Reg: "rax"}
	RCX = Arg{Reg: "rcx"}
	RDX = Arg{Reg: "rdx"}
	RSI = Arg{Reg: "rsi"}
	RDI = Arg{Reg: "rdi"}
	RBP = Arg{Reg: "rbp"}
	RSP = Arg{Reg: "rsp"}
	R9  = Arg{Reg: "r9"}
	AL  = Arg{Reg: "al"}
	DL  = Arg{Reg: "dl"}
)

type Program struct {
	Functions []Function
	Data      []Data
}

type Function struct {
	Name string
	// Global functions are exported with .globl.
	Global bool
	Lines  []Line
}

type Line struct {
	Comment string
	Label   string
	Op      string
	Arity   int
	Arg1    Arg
	Arg2    Arg
}

type Arg struct {
	Reg    string
	Offset int
	Imm    *int64
	Label  string
	Deref  bool
}

func (a Arg) WithOffset(offset int) Arg {
	result := a
	result.Offset = offset
	return result
}

func (a Arg) AsDeref() Arg {
	result := a
	result.Deref = true
	return result
}

// Data is a labeled blob of read-only bytes.
type Data struct {
	Label string
	Bytes []byte
}

func Imm(value int64) Arg {
	return Arg{Imm: util.Int64Ptr(value)}
}

func DerefWithOffset(arg Arg, offset int) Arg {
	return arg.WithOffset(offset).AsDeref()
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

// RipRelative addresses a label relative to the instruction pointer.
func RipRelative(label string) Arg {
	return Arg{Label: label, Reg: "rip"}
}

func Op0(op string) Line {
	return Line{Op: op, Arity: 0}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Arity: 1, Arg1: arg}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Arity: 2, Arg1: arg1, Arg2: arg2}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}

// Labels returns all labels defined inside the function body, in order.
func (f Function) Labels() []string {
	var labels []string
	for _, line := range f.Lines {
		if line.Label != "" {
			labels = append(labels, line.Label)
		}
	}
	return labels
}

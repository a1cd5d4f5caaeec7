package x86_64_linux

import (
	"io"

	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen/x86_64"
)

type CodeGenerator struct {
	Options x86_64.Options
}

func (cg *CodeGenerator) Generate(program *ast.Program) (asm.Program, error) {
	return x86_64.Generate(program, cg.Options)
}

func (cg *CodeGenerator) Format(out io.Writer, p asm.Program) {
	formatProgram(out, p)
}

package common

import (
	"io"

	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
)

type CodeGenerator interface {
	Generate(*ast.Program) (asm.Program, error)
	Format(io.Writer, asm.Program)
}

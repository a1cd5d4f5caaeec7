package codegen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen/common"
	"github.com/vibelang/vibe/internal/codegen/x86_64"
	"github.com/vibelang/vibe/internal/codegen/x86_64_linux"
)

type Target int

const (
	TargetX86_64Linux Target = iota
)

const DefaultTarget = "x86_64-linux"

type Options = x86_64.Options

func TargetFromName(name string) (Target, error) {
	switch name {
	case "x86_64-linux", "amd64-linux":
		return TargetX86_64Linux, nil
	}
	return 0, fmt.Errorf("unknown target: %s", name)
}

// Generate writes the assembly for program to out. Nothing is written if generation fails.
func Generate(out io.Writer, target Target, program *ast.Program, options Options) error {
	var cg common.CodeGenerator
	switch target {
	case TargetX86_64Linux:
		cg = &x86_64_linux.CodeGenerator{Options: options}
	default:
		return fmt.Errorf("unknown target: %v", target)
	}

	asmProgram, err := cg.Generate(program)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	cg.Format(&buf, asmProgram)
	_, err = buf.WriteTo(out)
	return err
}

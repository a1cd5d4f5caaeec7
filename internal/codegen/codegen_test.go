package codegen

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vibelang/vibe/internal/codegen/common"
	"github.com/vibelang/vibe/internal/lexer"
	"github.com/vibelang/vibe/internal/parser"
)

func TestTargetFromName(t *testing.T) {
	target, err := TargetFromName(DefaultTarget)
	be.Err(t, err, nil)
	be.Equal(t, target, TargetX86_64Linux)

	_, err = TargetFromName("aarch64-darwin")
	be.True(t, err != nil)
}

func TestGenerateWritesNothingOnError(t *testing.T) {
	lex := lexer.New(strings.NewReader(`fn main() { print(1); x = 1; }`), "test.vibe")
	program, err := parser.New(lex).ParseProgram()
	be.Err(t, err, nil)

	var sb strings.Builder
	err = Generate(&sb, TargetX86_64Linux, program, Options{})
	be.Err(t, err, common.ErrUnboundVariable)
	be.Equal(t, sb.String(), "")
}

func TestGenerateComments(t *testing.T) {
	lex := lexer.New(strings.NewReader("fn main() {\n  print(1);\n}"), "test.vibe")
	program, err := parser.New(lex).ParseProgram()
	be.Err(t, err, nil)

	var plain, annotated strings.Builder
	be.Err(t, Generate(&plain, TargetX86_64Linux, program, Options{}), nil)
	be.Err(t, Generate(&annotated, TargetX86_64Linux, program, Options{Comments: true}), nil)

	be.True(t, !strings.Contains(plain.String(), "#"))
	be.True(t, strings.Contains(annotated.String(), "  # 2:3 (print 1)\n"))
}

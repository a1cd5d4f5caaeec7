package x86_64

import (
	"fmt"

	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen/common"
)

func generateBlock(cc *CodegenContext, block ast.Block) ([]asm.Line, error) {
	lines := []asm.Line{}
	for _, stmt := range block.Statements {
		stmtLines, err := generateStatement(cc, stmt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmtLines...)
	}
	return lines, nil
}

func generateStatement(cc *CodegenContext, stmt ast.Statement) ([]asm.Line, error) {
	lines := []asm.Line{}
	if cc.options.Comments {
		lines = append(lines, asm.Comment(statementComment(stmt)))
	}

	var (
		body []asm.Line
		err  error
	)
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		body, err = generateVariableDeclaration(cc, s)
	case *ast.Assignment:
		body, err = generateAssignment(cc, s)
	case *ast.Print:
		body, err = generatePrint(cc, s)
	case *ast.IfStatement:
		body, err = generateIf(cc, s)
	case *ast.ExpressionStatement:
		body, err = generateExpression(cc, s.Expression)
	default:
		return nil, common.NewError(common.ErrUnsupportedConstruct, fmt.Sprintf("%T", stmt), stmt.GetLocation())
	}
	if err != nil {
		return nil, err
	}
	return append(lines, body...), nil
}

// statementComment describes a statement in one line. Nested blocks are left out.
func statementComment(stmt ast.Statement) string {
	loc := stmt.GetLocation()
	switch s := stmt.(type) {
	case *ast.IfStatement:
		return fmt.Sprintf("%d:%d if %s", loc.Line, loc.Col, s.Condition)
	default:
		return fmt.Sprintf("%d:%d %s", loc.Line, loc.Col, stmt)
	}
}

func generateVariableDeclaration(cc *CodegenContext, decl *ast.VariableDeclaration) ([]asm.Line, error) {
	// The slot is bound before the initializer is lowered, so the initializer already sees the new binding.
	offset := cc.frame.Allocate(decl.Name)

	lines, err := generateExpression(cc, decl.Value)
	if err != nil {
		return nil, err
	}
	lines = append(lines, asm.Op2("movq", asm.RAX, asm.DerefWithOffset(asm.RBP, -offset)))
	return lines, nil
}

func generateAssignment(cc *CodegenContext, assign *ast.Assignment) ([]asm.Line, error) {
	offset, ok := cc.frame.Lookup(assign.Name)
	if !ok {
		return nil, common.NewError(common.ErrUnboundVariable, assign.Name, assign.Loc)
	}

	lines, err := generateExpression(cc, assign.Value)
	if err != nil {
		return nil, err
	}
	lines = append(lines, asm.Op2("movq", asm.RAX, asm.DerefWithOffset(asm.RBP, -offset)))
	return lines, nil
}

func generatePrint(cc *CodegenContext, print *ast.Print) ([]asm.Line, error) {
	lines, err := generateExpression(cc, print.Value)
	if err != nil {
		return nil, err
	}
	lines = append(lines,
		asm.Op2("movq", asm.RAX, asm.RDI),
		asm.Op1("call", asm.Ref(PRINT_INT)))
	return lines, nil
}

func generateIf(cc *CodegenContext, stmt *ast.IfStatement) ([]asm.Line, error) {
	// Both labels are always allocated. The else label is only emitted when there is an else branch.
	elseLabel := cc.allocLabel()
	endLabel := cc.allocLabel()

	falseTarget := endLabel
	if stmt.ElseBlock != nil {
		falseTarget = elseLabel
	}

	lines, err := generateExpression(cc, stmt.Condition)
	if err != nil {
		return nil, err
	}
	lines = append(lines,
		asm.Op2("cmpq", asm.Imm(0), asm.RAX),
		asm.Op1("je", asm.Ref(falseTarget)))

	thenLines, err := generateBlock(cc, stmt.ThenBlock)
	if err != nil {
		return nil, err
	}
	lines = append(lines, thenLines...)

	if stmt.ElseBlock != nil {
		elseLines, err := generateBlock(cc, *stmt.ElseBlock)
		if err != nil {
			return nil, err
		}
		lines = append(lines,
			asm.Op1("jmp", asm.Ref(endLabel)),
			asm.Label(elseLabel))
		lines = append(lines, elseLines...)
	}

	lines = append(lines, asm.Label(endLabel))
	return lines, nil
}

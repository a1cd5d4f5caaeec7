package x86_64

import (
	"fmt"
	"math"

	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen/common"
)

var comparisonOps = map[ast.Operator]string{
	ast.OpEq: "sete",
	ast.OpNe: "setne",
	ast.OpLt: "setl",
	ast.OpGt: "setg",
	ast.OpLe: "setle",
	ast.OpGe: "setge",
}

var arithmeticOps = map[ast.Operator]string{
	ast.OpAdd: "addq",
	ast.OpSub: "subq",
	ast.OpMul: "imulq",
}

// generateExpression emits code that leaves the value of expr in rax.
// Intermediate values live on the machine stack, and every push is matched by a pop.
func generateExpression(cc *CodegenContext, expr ast.Expression) ([]asm.Line, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return generateNumber(e), nil
	case *ast.Identifier:
		offset, ok := cc.frame.Lookup(e.Name)
		if !ok {
			return nil, common.NewError(common.ErrUnboundVariable, e.Name, e.Loc)
		}
		return []asm.Line{asm.Op2("movq", asm.DerefWithOffset(asm.RBP, -offset), asm.RAX)}, nil
	case *ast.BinaryOperation:
		if e.Operator.IsLogical() {
			return generateLogicalOperation(cc, e)
		}
		return generateBinaryOperation(cc, e)
	case *ast.Call:
		return generateCall(cc, e)
	default:
		return nil, common.NewError(common.ErrUnsupportedConstruct, fmt.Sprintf("%T", expr), expr.GetLocation())
	}
}

func generateNumber(n *ast.Number) []asm.Line {
	if n.Value < math.MinInt32 || n.Value > math.MaxInt32 {
		return []asm.Line{asm.Op2("movabsq", asm.Imm(n.Value), asm.RAX)}
	}
	return []asm.Line{asm.Op2("movq", asm.Imm(n.Value), asm.RAX)}
}

func generateBinaryOperation(cc *CodegenContext, op *ast.BinaryOperation) ([]asm.Line, error) {
	lines, err := generateExpression(cc, op.Left)
	if err != nil {
		return nil, err
	}
	lines = append(lines, asm.Op1("pushq", asm.RAX))

	right, err := generateExpression(cc, op.Right)
	if err != nil {
		return nil, err
	}
	lines = append(lines, right...)

	// Left operand in rax, right operand in rcx.
	lines = append(lines,
		asm.Op2("movq", asm.RAX, asm.RCX),
		asm.Op1("popq", asm.RAX))

	if instr, ok := arithmeticOps[op.Operator]; ok {
		lines = append(lines, asm.Op2(instr, asm.RCX, asm.RAX))
		return lines, nil
	}

	if op.Operator == ast.OpDiv {
		// Signed division truncating toward zero. rdx is clobbered.
		lines = append(lines,
			asm.Op0("cqo"),
			asm.Op1("idivq", asm.RCX))
		return lines, nil
	}

	if setInstr, ok := comparisonOps[op.Operator]; ok {
		lines = append(lines,
			asm.Op2("cmpq", asm.RCX, asm.RAX),
			asm.Op1(setInstr, asm.AL),
			asm.Op2("movzbq", asm.AL, asm.RAX))
		return lines, nil
	}

	return nil, common.NewError(common.ErrUnsupportedConstruct, string(op.Operator), op.Loc)
}

// generateLogicalOperation lowers && and || with short-circuit evaluation.
// The right operand is skipped entirely when the left one decides the result.
func generateLogicalOperation(cc *CodegenContext, op *ast.BinaryOperation) ([]asm.Line, error) {
	shortLabel := cc.allocLabel()
	endLabel := cc.allocLabel()

	jump := "je"
	shortValue := int64(0)
	if op.Operator == ast.OpOr {
		jump = "jne"
		shortValue = 1
	}

	lines, err := generateExpression(cc, op.Left)
	if err != nil {
		return nil, err
	}
	lines = append(lines,
		asm.Op2("testq", asm.RAX, asm.RAX),
		asm.Op1(jump, asm.Ref(shortLabel)))

	right, err := generateExpression(cc, op.Right)
	if err != nil {
		return nil, err
	}
	lines = append(lines, right...)
	lines = append(lines,
		asm.Op2("testq", asm.RAX, asm.RAX),
		asm.Op1("setne", asm.AL),
		asm.Op2("movzbq", asm.AL, asm.RAX),
		asm.Op1("jmp", asm.Ref(endLabel)),
		asm.Label(shortLabel),
		asm.Op2("movq", asm.Imm(shortValue), asm.RAX),
		asm.Label(endLabel))
	return lines, nil
}

// generateCall calls a user function. Functions take no arguments and return nothing,
// so the value of a call expression is always 0.
func generateCall(cc *CodegenContext, call *ast.Call) ([]asm.Line, error) {
	if _, ok := cc.functions[call.FunctionName]; !ok {
		return nil, common.NewError(common.ErrUndefinedFunction, call.FunctionName, call.Loc)
	}
	return []asm.Line{
		asm.Op1("call", asm.Ref(call.FunctionName)),
		asm.Op2("movq", asm.Imm(0), asm.RAX),
	}, nil
}

package ast

type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"

	OpEq Operator = "=="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpGt Operator = ">"
	OpLe Operator = "<="
	OpGe Operator = ">="

	OpAnd Operator = "&&"
	OpOr  Operator = "||"
)

// Binary operator precedence, higher binds tighter. Zero means not a binary operator.
var precedence = map[Operator]int{
	OpOr:  1,
	OpAnd: 2,
	OpEq:  3,
	OpNe:  3,
	OpLt:  4,
	OpGt:  4,
	OpLe:  4,
	OpGe:  4,
	OpAdd: 5,
	OpSub: 5,
	OpMul: 6,
	OpDiv: 6,
}

func (op Operator) Precedence() int {
	return precedence[op]
}

func (op Operator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return true
	}
	return false
}

func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

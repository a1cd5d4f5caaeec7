package ast

import (
	"fmt"
	"strings"

	"github.com/vibelang/vibe/internal/lexer"
)

type Location = lexer.Location

type AstNode interface {
	fmt.Stringer
	GetLocation() Location
}

type Program struct {
	Loc       Location
	Functions []Function
}

func (p *Program) GetLocation() Location {
	return p.Loc
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("(program")
	for _, fn := range p.Functions {
		sb.WriteString(" ")
		sb.WriteString(fn.String())
	}
	sb.WriteString(")")
	return sb.String()
}

type Function struct {
	Loc  Location
	Name string
	Body Block
}

func (f *Function) GetLocation() Location {
	return f.Loc
}

func (f *Function) String() string {
	return fmt.Sprintf("(fn %s %s)", f.Name, f.Body.String())
}

type Block struct {
	Loc        Location
	Statements []Statement
}

func (b *Block) GetLocation() Location {
	return b.Loc
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Statement types.

type Statement interface {
	AstNode
	isStatement()
}

type VariableDeclaration struct {
	Loc   Location
	Name  string
	Value Expression
}

func (d *VariableDeclaration) GetLocation() Location {
	return d.Loc
}

func (d *VariableDeclaration) isStatement() {}

func (d *VariableDeclaration) String() string {
	return fmt.Sprintf("(let %s %s)", d.Name, d.Value.String())
}

type Assignment struct {
	Loc   Location
	Name  string
	Value Expression
}

func (a *Assignment) GetLocation() Location {
	return a.Loc
}

func (a *Assignment) isStatement() {}

func (a *Assignment) String() string {
	return fmt.Sprintf("(= %s %s)", a.Name, a.Value.String())
}

type Print struct {
	Loc   Location
	Value Expression
}

func (p *Print) GetLocation() Location {
	return p.Loc
}

func (p *Print) isStatement() {}

func (p *Print) String() string {
	return fmt.Sprintf("(print %s)", p.Value.String())
}

type IfStatement struct {
	Loc       Location
	Condition Expression
	ThenBlock Block
	ElseBlock *Block
}

func (i *IfStatement) GetLocation() Location {
	return i.Loc
}

func (i *IfStatement) isStatement() {}

func (i *IfStatement) String() string {
	if i.ElseBlock == nil {
		return fmt.Sprintf("(if %s %s)", i.Condition.String(), i.ThenBlock.String())
	}
	return fmt.Sprintf("(if %s %s %s)", i.Condition.String(), i.ThenBlock.String(), i.ElseBlock.String())
}

// ExpressionStatement is an expression evaluated for its effects only.
type ExpressionStatement struct {
	Loc        Location
	Expression Expression
}

func (e *ExpressionStatement) GetLocation() Location {
	return e.Loc
}

func (e *ExpressionStatement) isStatement() {}

func (e *ExpressionStatement) String() string {
	return fmt.Sprintf("(expr %s)", e.Expression.String())
}

// Expression types.

type Expression interface {
	AstNode
	isExpression()
}

type Number struct {
	Loc   Location
	Value int64
}

func (n *Number) GetLocation() Location {
	return n.Loc
}

func (n *Number) isExpression() {}

func (n *Number) String() string {
	return fmt.Sprintf("%d", n.Value)
}

type Identifier struct {
	Loc  Location
	Name string
}

func (i *Identifier) GetLocation() Location {
	return i.Loc
}

func (i *Identifier) isExpression() {}

func (i *Identifier) String() string {
	return i.Name
}

type BinaryOperation struct {
	Loc      Location
	Left     Expression
	Operator Operator
	Right    Expression
}

func (b *BinaryOperation) GetLocation() Location {
	return b.Loc
}

func (b *BinaryOperation) isExpression() {}

func (b *BinaryOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Operator, b.Left.String(), b.Right.String())
}

// Call invokes a function defined in the same program. Calls take no arguments.
type Call struct {
	Loc          Location
	FunctionName string
}

func (c *Call) GetLocation() Location {
	return c.Loc
}

func (c *Call) isExpression() {}

func (c *Call) String() string {
	return fmt.Sprintf("(call %s)", c.FunctionName)
}

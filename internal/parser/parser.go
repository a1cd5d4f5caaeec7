package parser

import (
	"fmt"
	"strconv"

	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/lexer"
)

type Parser struct {
	lexer   *lexer.Lexer
	lexemes []lexer.Lexeme
	pos     int
}

func New(lex *lexer.Lexer) *Parser {
	return &Parser{lexer: lex}
}

func (p *Parser) fill(n int) error {
	for len(p.lexemes) <= p.pos+n {
		lex, err := p.lexer.Next()
		if err != nil {
			return err
		}
		p.lexemes = append(p.lexemes, lex)
	}
	return nil
}

func (p *Parser) consume() (lexer.Lexeme, error) {
	if err := p.fill(0); err != nil {
		return lexer.Lexeme{}, err
	}
	lex := p.lexemes[p.pos]
	p.pos++
	return lex, nil
}

func (p *Parser) peek() (lexer.Lexeme, error) {
	return p.peekAt(0)
}

// peekAt returns the lexeme n positions ahead without consuming anything.
func (p *Parser) peekAt(n int) (lexer.Lexeme, error) {
	if err := p.fill(n); err != nil {
		return lexer.Lexeme{}, err
	}
	return p.lexemes[p.pos+n], nil
}

func (p *Parser) expectPunctuation(str string) (lexer.Lexeme, error) {
	lex, err := p.consume()
	if err != nil {
		return lex, err
	}
	if !lex.IsPunctuation(str) {
		return lex, fmt.Errorf("%s: expected '%s', got %v", lex.Loc, str, lex)
	}
	return lex, nil
}

func (p *Parser) expectIdent(what string) (lexer.Lexeme, error) {
	lex, err := p.consume()
	if err != nil {
		return lex, err
	}
	if lex.Type != lexer.LEX_IDENT {
		return lex, fmt.Errorf("%s: expected %s, got %v", lex.Loc, what, lex)
	}
	return lex, nil
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Functions: []ast.Function{}}
	first := true

	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if first {
			program.Loc = lex.Loc
			first = false
		}
		if lex.Type == lexer.LEX_EOF {
			break
		}
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		program.Functions = append(program.Functions, *fn)
	}

	return program, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	lex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if !lex.IsKeyword("fn") {
		return nil, fmt.Errorf("%s: expected 'fn', got %v", lex.Loc, lex)
	}
	loc := lex.Loc

	nameLex, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Loc:  loc,
		Name: nameLex.Str,
		Body: *body,
	}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expectPunctuation("{")
	if err != nil {
		return nil, err
	}

	statements := []ast.Statement{}
	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if lex.IsPunctuation("}") {
			break
		}
		if lex.Type == lexer.LEX_EOF {
			return nil, fmt.Errorf("%s: unexpected end of input, expected '}'", lex.Loc)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	// consume '}'
	if _, err := p.consume(); err != nil {
		return nil, err
	}

	return &ast.Block{Loc: open.Loc, Statements: statements}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	lex, err := p.peek()
	if err != nil {
		return nil, err
	}

	if lex.IsKeyword("let") {
		return p.parseVariableDeclaration()
	} else if lex.IsKeyword("print") {
		return p.parsePrint()
	} else if lex.IsKeyword("if") {
		return p.parseIf()
	} else if lex.Type == lexer.LEX_IDENT {
		next, err := p.peekAt(1)
		if err != nil {
			return nil, err
		}
		if next.IsOperator("=") {
			return p.parseAssignment()
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Loc: lex.Loc, Expression: expr}, nil
}

func (p *Parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	// consume 'let'
	letLex, err := p.consume()
	if err != nil {
		return nil, err
	}

	nameLex, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}

	lex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if !lex.IsOperator("=") {
		return nil, fmt.Errorf("%s: expected '=' after variable name, got %v", lex.Loc, lex)
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}

	return &ast.VariableDeclaration{Loc: letLex.Loc, Name: nameLex.Str, Value: value}, nil
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	nameLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	// consume '='
	if _, err := p.consume(); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}

	return &ast.Assignment{Loc: nameLex.Loc, Name: nameLex.Str, Value: value}, nil
}

func (p *Parser) parsePrint() (*ast.Print, error) {
	printLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ast.Print{Loc: printLex.Loc, Value: value}, nil
}

func (p *Parser) parseIf() (*ast.IfStatement, error) {
	ifLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}

	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Loc: ifLex.Loc, Condition: condition, ThenBlock: *thenBlock}

	lex, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !lex.IsKeyword("else") {
		return stmt, nil
	}
	// consume 'else'
	if _, err := p.consume(); err != nil {
		return nil, err
	}

	lex, err = p.peek()
	if err != nil {
		return nil, err
	}
	if lex.IsKeyword("if") {
		// "else if" becomes an else block holding a single if statement.
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.ElseBlock = &ast.Block{Loc: nested.Loc, Statements: []ast.Statement{nested}}
		return stmt, nil
	}

	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.ElseBlock = elseBlock
	return stmt, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(1)
}

// parseBinary parses a chain of binary operators whose precedence is at least minPrec.
// All operators are left-associative.
func (p *Parser) parseBinary(minPrec int) (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if lex.Type != lexer.LEX_OPERATOR {
			return left, nil
		}
		op := ast.Operator(lex.Str)
		prec := op.Precedence()
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		// consume the operator
		if _, err := p.consume(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Loc: lex.Loc, Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	lex, err := p.consume()
	if err != nil {
		return nil, err
	}

	switch {
	case lex.Type == lexer.LEX_NUMBER:
		value, err := strconv.ParseInt(lex.Str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer literal %s: %w", lex.Loc, lex.Str, err)
		}
		return &ast.Number{Loc: lex.Loc, Value: value}, nil
	case lex.Type == lexer.LEX_IDENT:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.IsPunctuation("(") {
			if _, err := p.consume(); err != nil {
				return nil, err
			}
			if _, err := p.expectPunctuation(")"); err != nil {
				return nil, err
			}
			return &ast.Call{Loc: lex.Loc, FunctionName: lex.Str}, nil
		}
		return &ast.Identifier{Loc: lex.Loc, Name: lex.Str}, nil
	case lex.IsPunctuation("("):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunctuation(")"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, fmt.Errorf("%s: expected expression, got %v", lex.Loc, lex)
}

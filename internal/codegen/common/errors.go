package common

import (
	"errors"
	"fmt"

	"github.com/vibelang/vibe/internal/ast"
)

// Failure kinds. Every error returned by code generation wraps exactly one of them.
var (
	ErrUnboundVariable      = errors.New("unbound variable")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrUndefinedFunction    = errors.New("undefined function")
	ErrDuplicateFunction    = errors.New("duplicate function")
	ErrMissingEntryPoint    = errors.New("missing entry point")

	// ErrDuplicateLabel means the generator itself is broken, not the input program.
	ErrDuplicateLabel = errors.New("duplicate label")
)

type Error struct {
	Kind error
	// Name is the offending identifier, function, label or node kind.
	Name string
	Loc  ast.Location
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Name)
	}
	if e.Loc.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Loc, msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, name string, loc ast.Location) *Error {
	return &Error{Kind: kind, Name: name, Loc: loc}
}

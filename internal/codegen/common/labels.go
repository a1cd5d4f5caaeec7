package common

import (
	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
)

// VerifyLabels checks that every function name and every label in the program is defined once.
func VerifyLabels(p asm.Program) error {
	seen := make(map[string]struct{})
	define := func(label string) error {
		if _, ok := seen[label]; ok {
			return NewError(ErrDuplicateLabel, label, ast.Location{})
		}
		seen[label] = struct{}{}
		return nil
	}

	for _, fn := range p.Functions {
		if err := define(fn.Name); err != nil {
			return err
		}
		for _, label := range fn.Labels() {
			if err := define(label); err != nil {
				return err
			}
		}
	}
	for _, d := range p.Data {
		if err := define(d.Label); err != nil {
			return err
		}
	}
	return nil
}

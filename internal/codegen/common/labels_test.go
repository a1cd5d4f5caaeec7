package common

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
)

func TestVerifyLabels(t *testing.T) {
	p := asm.Program{
		Functions: []asm.Function{
			{Name: "main", Lines: []asm.Line{asm.Label(".L1"), asm.Op0("ret"), asm.Label(".L2")}},
			{Name: "helper", Lines: []asm.Line{asm.Label(".L3")}},
		},
		Data: []asm.Data{{Label: "nl", Bytes: []byte{10}}},
	}
	be.Err(t, VerifyLabels(p), nil)
}

func TestVerifyLabelsDuplicates(t *testing.T) {
	testCases := []struct {
		name  string
		p     asm.Program
		label string
	}{
		{
			name: "label in two functions",
			p: asm.Program{Functions: []asm.Function{
				{Name: "a", Lines: []asm.Line{asm.Label(".L1")}},
				{Name: "b", Lines: []asm.Line{asm.Label(".L1")}},
			}},
			label: ".L1",
		},
		{
			name: "label shadows function",
			p: asm.Program{Functions: []asm.Function{
				{Name: "main", Lines: []asm.Line{asm.Label("main")}},
			}},
			label: "main",
		},
		{
			name: "data label shadows function",
			p: asm.Program{
				Functions: []asm.Function{{Name: "nl"}},
				Data:      []asm.Data{{Label: "nl"}},
			},
			label: "nl",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyLabels(tc.p)
			be.Err(t, err, ErrDuplicateLabel)

			var cgErr *Error
			be.True(t, errors.As(err, &cgErr))
			be.Equal(t, cgErr.Name, tc.label)
		})
	}
}

func TestErrorString(t *testing.T) {
	loc := ast.Location{Filename: "prog.vibe", Line: 3, Col: 5}
	be.Equal(t, NewError(ErrUnboundVariable, "x", loc).Error(), "prog.vibe:3:5: unbound variable x")
	be.Equal(t, NewError(ErrMissingEntryPoint, "main", ast.Location{}).Error(), "missing entry point main")
	be.Equal(t, NewError(ErrUnsupportedConstruct, "", loc).Error(), "prog.vibe:3:5: unsupported construct")
}

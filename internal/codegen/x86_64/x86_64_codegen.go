package x86_64

import (
	"fmt"

	"github.com/vibelang/vibe/internal/asm"
	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen/common"
)

const (
	ENTRY_POINT   = "_start"
	MAIN_FUNCTION = "main"

	SYSCALL_WRITE = 1
	SYSCALL_EXIT  = 60
	STDOUT_FD     = 1
)

type Options struct {
	// Comments annotates the output with the source statement each block of instructions came from.
	Comments bool
}

// CodegenContext holds the state of one compilation. It must not be reused across programs.
type CodegenContext struct {
	options        Options
	functions      map[string]ast.Location
	nextLabelIndex int

	// Function-specific.
	frame *Frame
}

func newContext(options Options) *CodegenContext {
	return &CodegenContext{
		options:        options,
		functions:      make(map[string]ast.Location),
		nextLabelIndex: 1,
	}
}

// allocLabel returns a label that is unique across the whole program.
func (cc *CodegenContext) allocLabel() string {
	idx := cc.nextLabelIndex
	cc.nextLabelIndex++
	return fmt.Sprintf(".L%d", idx)
}

func Generate(program *ast.Program, options Options) (asm.Program, error) {
	asmProgram := asm.Program{}
	cc := newContext(options)

	for _, fn := range program.Functions {
		if isReservedName(fn.Name) {
			return asmProgram, common.NewError(common.ErrDuplicateFunction, fn.Name, fn.Loc)
		}
		if _, seen := cc.functions[fn.Name]; seen {
			return asmProgram, common.NewError(common.ErrDuplicateFunction, fn.Name, fn.Loc)
		}
		cc.functions[fn.Name] = fn.Loc
	}
	if _, ok := cc.functions[MAIN_FUNCTION]; !ok {
		return asmProgram, common.NewError(common.ErrMissingEntryPoint, MAIN_FUNCTION, program.Loc)
	}

	asmProgram.Functions = append(asmProgram.Functions, generateEntryPoint())

	for _, f := range program.Functions {
		fn, err := generateFunction(cc, f)
		if err != nil {
			return asmProgram, fmt.Errorf("error when generating code for function %s: %w", f.Name, err)
		}
		asmProgram.Functions = append(asmProgram.Functions, fn)
	}

	asmProgram.Functions = append(asmProgram.Functions, generatePrintRuntime())
	asmProgram.Data = append(asmProgram.Data, printRuntimeData()...)

	if err := common.VerifyLabels(asmProgram); err != nil {
		return asmProgram, err
	}

	return asmProgram, nil
}

func isReservedName(name string) bool {
	return name == ENTRY_POINT || name == PRINT_INT || name == NEWLINE
}

// generateEntryPoint calls main and then terminates the process with status 0.
func generateEntryPoint() asm.Function {
	return asm.Function{
		Name:   ENTRY_POINT,
		Global: true,
		Lines: []asm.Line{
			asm.Op1("call", asm.Ref(MAIN_FUNCTION)),
			asm.Op2("movq", asm.Imm(SYSCALL_EXIT), asm.RAX),
			asm.Op2("movq", asm.Imm(0), asm.RDI),
			asm.Op0("syscall"),
		},
	}
}

func generateFunction(cc *CodegenContext, fn ast.Function) (asm.Function, error) {
	result := asm.Function{
		Name: fn.Name,
	}

	cc.frame = NewFrame()

	// The body is generated first because the frame size is only known once every declaration has been seen.
	body, err := generateBlock(cc, fn.Body)
	if err != nil {
		return result, err
	}

	frameSize := cc.frame.StackSize()
	if cc.options.Comments {
		result.Lines = append(result.Lines,
			asm.Comment(fmt.Sprintf("frame size: %d bytes", frameSize)))
	}

	// Function prologue
	result.Lines = append(result.Lines,
		asm.Op1("pushq", asm.RBP),
		asm.Op2("movq", asm.RSP, asm.RBP))

	// Allocate stack space for locals
	if frameSize > 0 {
		result.Lines = append(result.Lines,
			asm.Op2("subq", asm.Imm(int64(frameSize)), asm.RSP))
	}

	result.Lines = append(result.Lines, body...)

	// Function epilogue
	result.Lines = append(result.Lines,
		asm.Op2("movq", asm.RBP, asm.RSP),
		asm.Op1("popq", asm.RBP),
		asm.Op0("ret"))

	return result, nil
}

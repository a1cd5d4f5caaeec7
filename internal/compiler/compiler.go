// Package compiler ties the front end, code generator and external toolchain into a pipeline.
package compiler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vibelang/vibe/internal/ast"
	"github.com/vibelang/vibe/internal/codegen"
	"github.com/vibelang/vibe/internal/lexer"
	"github.com/vibelang/vibe/internal/parser"
)

type Options struct {
	// Target name as accepted by codegen.TargetFromName. Empty means codegen.DefaultTarget.
	Target   string
	Comments bool
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func Parse(r io.Reader, filename string) (*ast.Program, error) {
	lex := lexer.New(r, filename)
	program, err := parser.New(lex).ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("error parsing program: %w", err)
	}
	return program, nil
}

// Generate writes the assembly for an already parsed program.
func Generate(out io.Writer, program *ast.Program, opts Options) error {
	targetName := opts.Target
	if targetName == "" {
		targetName = codegen.DefaultTarget
	}
	target, err := codegen.TargetFromName(targetName)
	if err != nil {
		return fmt.Errorf("error parsing target: %w", err)
	}

	if err := codegen.Generate(out, target, program, codegen.Options{Comments: opts.Comments}); err != nil {
		return fmt.Errorf("error generating machine code: %w", err)
	}
	return nil
}

// Compile reads a program from r and writes its assembly to out.
func Compile(out io.Writer, r io.Reader, filename string, opts Options) error {
	log := opts.logger()

	program, err := Parse(r, filename)
	if err != nil {
		return err
	}
	log.Debug("parsed program", "file", filename, "functions", len(program.Functions))

	var buf bytes.Buffer
	if err := Generate(&buf, program, opts); err != nil {
		return err
	}
	log.Debug("generated assembly", "file", filename, "bytes", buf.Len())

	_, err = buf.WriteTo(out)
	return err
}

// CompileFile compiles inputPath into outputPath. The output file is only created when compilation succeeds.
func CompileFile(inputPath, outputPath string, opts Options) error {
	inputFile, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("error opening input file: %w", err)
	}
	defer inputFile.Close()

	var buf bytes.Buffer
	if err := Compile(&buf, inputFile, inputPath, opts); err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	opts.logger().Debug("wrote assembly", "path", outputPath)
	return nil
}

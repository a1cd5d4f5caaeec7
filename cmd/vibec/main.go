package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/vibelang/vibe/internal/compiler"
	"github.com/vibelang/vibe/internal/config"
)

var (
	outputString string
	emitString   string
	dumpAst      bool
	verbose      bool
	noComments   bool
)

var rootCmd = &cobra.Command{
	Use:           "vibec [options] <input file>",
	Short:         "VibeLang compiler",
	Long:          "Compile a VibeLang source file to x86_64 Linux assembly (GNU as, AT&T syntax).",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputString, "output", "o", "", "output file name (- for stdout)")
	rootCmd.Flags().StringVarP(&emitString, "emit", "t", "asm", "what to emit: asm or ast")
	rootCmd.Flags().BoolVar(&dumpAst, "dump-ast", false, "dump the parsed syntax tree to stderr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log compilation stages to stderr")
	rootCmd.Flags().BoolVar(&noComments, "no-comments", false, "don't annotate the assembly with source statements")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// outputPath picks the assembly file name when -o is not given.
func outputPath(cfg *config.Config, inputFileName string) string {
	name := strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + ".s"
	if cfg.Codegen.OutputDir != "" {
		return filepath.Join(cfg.Codegen.OutputDir, filepath.Base(name))
	}
	return name
}

func run(inputFileName string) error {
	logger := newLogger()

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	logger.Debug("loaded config", "target", cfg.Codegen.Target, "comments", cfg.Codegen.Comments)

	inputFile, err := os.Open(inputFileName)
	if err != nil {
		return fmt.Errorf("error opening input file: %w", err)
	}
	defer inputFile.Close()

	program, err := compiler.Parse(inputFile, inputFileName)
	if err != nil {
		return err
	}
	logger.Debug("parsed program", "file", inputFileName, "functions", len(program.Functions))

	if dumpAst {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
		dumper.Fdump(os.Stderr, program)
	}

	var buf bytes.Buffer
	switch emitString {
	case "ast":
		fmt.Fprintf(&buf, "%s\n", program.String())
	case "asm":
		opts := compiler.Options{
			Target:   cfg.Codegen.Target,
			Comments: cfg.Codegen.Comments && !noComments,
			Logger:   logger,
		}
		if err := compiler.Generate(&buf, program, opts); err != nil {
			return err
		}
		logger.Debug("generated assembly", "bytes", buf.Len())
	default:
		return fmt.Errorf("unknown output kind: %s", emitString)
	}

	// The syntax tree goes to stdout unless a file is requested.
	if emitString == "ast" && outputString == "" {
		outputString = "-"
	}
	if outputString == "-" {
		_, err := buf.WriteTo(os.Stdout)
		return err
	}

	if outputString == "" {
		outputString = outputPath(cfg, inputFileName)
	}
	if err := os.WriteFile(outputString, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	fmt.Printf("Compilation successful. Assembly code written to %s\n", outputString)
	return nil
}

package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vibelang/vibe/internal/config"
)

type BuildOptions struct {
	// KeepIntermediate leaves the .s and .o files next to the binary.
	KeepIntermediate bool
	Options
}

// Artifacts are the files produced while building one binary.
type Artifacts struct {
	Asm    string
	Object string
	Binary string
}

func ArtifactsFor(binFile string) Artifacts {
	base := strings.TrimSuffix(binFile, filepath.Ext(binFile))
	return Artifacts{
		Asm:    base + ".s",
		Object: base + ".o",
		Binary: binFile,
	}
}

// ToolchainAvailable reports whether the generated code can be assembled, linked and executed on this machine.
func ToolchainAvailable(tc config.ToolchainConfig) bool {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		return false
	}
	if _, err := exec.LookPath(tc.Assembler); err != nil {
		return false
	}
	if _, err := exec.LookPath(tc.Linker); err != nil {
		return false
	}
	return true
}

func Assemble(ctx context.Context, tc config.ToolchainConfig, asmFile, objFile string) error {
	args := append(append([]string{}, tc.AssemblerFlags...), "-o", objFile, asmFile)
	cmd := exec.CommandContext(ctx, tc.Assembler, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembly failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func Link(ctx context.Context, tc config.ToolchainConfig, objFile, binFile string) error {
	args := append([]string{"-o", binFile, objFile}, tc.LinkerFlags...)
	cmd := exec.CommandContext(ctx, tc.Linker, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("linking failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Build compiles sourceFile into an executable at binFile.
func Build(ctx context.Context, cfg *config.Config, sourceFile, binFile string, opts BuildOptions) (Artifacts, error) {
	artifacts := ArtifactsFor(binFile)
	log := opts.logger()

	if opts.Target == "" {
		opts.Target = cfg.Codegen.Target
	}
	if err := CompileFile(sourceFile, artifacts.Asm, opts.Options); err != nil {
		return artifacts, err
	}

	err := Assemble(ctx, cfg.Toolchain, artifacts.Asm, artifacts.Object)
	if err == nil {
		log.Debug("assembled", "path", artifacts.Object)
		err = Link(ctx, cfg.Toolchain, artifacts.Object, artifacts.Binary)
	}

	if !opts.KeepIntermediate {
		cleanupFiles(artifacts.Asm, artifacts.Object)
	}
	if err != nil {
		return artifacts, err
	}
	log.Debug("linked", "path", artifacts.Binary)
	return artifacts, nil
}

// Run executes a built program and returns what it wrote to stdout.
func Run(ctx context.Context, binFile string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binFile)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), fmt.Errorf("exit status %d: %s", exitErr.ExitCode(), stderr.String())
		}
		return "", err
	}
	return stdout.String(), nil
}

// cleanupFiles removes the specified files, ignoring any errors.
func cleanupFiles(files ...string) {
	for _, file := range files {
		os.Remove(file)
	}
}

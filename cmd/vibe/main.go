package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vibelang/vibe/internal/compiler"
	"github.com/vibelang/vibe/internal/config"
)

var (
	outputFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "VibeLang build system",
	Long:  "A build system for the VibeLang programming language.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <file.vibe>",
	Short: "Build a VibeLang program",
	Long:  "Compile a VibeLang source file, assemble and link it into an executable binary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		keep, _ := cmd.Flags().GetBool("keep")
		binFile := outputFile
		if binFile == "" {
			binFile = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		}

		cmd.SilenceUsage = true
		artifacts, err := compiler.Build(cmd.Context(), cfg, args[0], binFile, buildOptions(cfg, keep))
		if err != nil {
			return err
		}

		fmt.Printf("Built %s\n", artifacts.Binary)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file.vibe>",
	Short: "Build and run a VibeLang program",
	Long:  "Build a VibeLang source file in a temporary directory and execute it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SilenceUsage = true

		tmpDir, err := os.MkdirTemp("", "vibe-run-")
		if err != nil {
			return fmt.Errorf("failed to create temporary directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		baseName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		artifacts, err := compiler.Build(cmd.Context(), cfg, args[0], filepath.Join(tmpDir, baseName), buildOptions(cfg, false))
		if err != nil {
			return err
		}

		output, err := compiler.Run(cmd.Context(), artifacts.Binary)
		fmt.Print(output)
		return err
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.FileName); err == nil {
			return fmt.Errorf("%s already exists", config.FileName)
		}
		if err := config.Save(".", config.Default()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.FileName)
		return nil
	},
}

func buildOptions(cfg *config.Config, keep bool) compiler.BuildOptions {
	return compiler.BuildOptions{
		KeepIntermediate: keep,
		Options: compiler.Options{
			Target:   cfg.Codegen.Target,
			Comments: cfg.Codegen.Comments,
			Logger:   slog.Default(),
		},
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build stages to stderr")
	buildCmd.Flags().BoolP("keep", "k", false, "Keep intermediate files (.s, .o)")
	buildCmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file name")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

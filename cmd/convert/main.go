// Command convert re-encodes every PNG and JPEG under an input directory as
// JPEG under an output directory, preserving the relative layout.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/imgconvert/internal/check"
	"github.com/backmassage/imgconvert/internal/codec"
	"github.com/backmassage/imgconvert/internal/config"
	"github.com/backmassage/imgconvert/internal/display"
	"github.com/backmassage/imgconvert/internal/logging"
	"github.com/backmassage/imgconvert/internal/pipeline"
	"github.com/backmassage/imgconvert/internal/progress"
	"github.com/backmassage/imgconvert/internal/term"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// errReported marks failures that were already written through the logger.
var errReported = errors.New("reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command with args and returns the process exit code.
// Per-file conversion failures never change the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.DefaultConfig()
	cmd := newRootCommand(&cfg, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "convert: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "convert <input_dir> <output_dir>",
		Short: "Convert PNG and JPEG images to JPEG, mirroring the directory tree",
		Long: "convert walks input_dir recursively, re-encodes every .png, .jpg and .jpeg\n" +
			"file as JPEG (quality 95) and writes it to the same relative path under\n" +
			"output_dir with a .jpg extension. Existing outputs are overwritten.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			config.ApplyFlags(cfg, flags)
			return config.ParseArgs(cfg, args)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute(cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("convert {{.Version}}\n")
	flags = config.BindFlags(cmd.Flags(), cfg)
	return cmd
}

func execute(cfg *config.Config, stdout, stderr io.Writer) error {
	// 1. Validate config; usage errors go straight to stderr.
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	log.SetOutput(stdout, stderr)

	display.PrintBanner(stdout)

	// 2. --check runs diagnostics only.
	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return errReported
		}
		return nil
	}

	// 3. The input must be an existing directory. Nothing is created under
	// the output path when it is not.
	if err := config.ValidateInputDir(cfg.InputDir); err != nil {
		log.Error("%v", err)
		return errReported
	}
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Cannot resolve input path %s: %v", cfg.InputDir, err)
		return errReported
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path %s: %v", cfg.OutputDir, err)
		return errReported
	}

	log.Info("=== convert v%s ===", version)
	log.Info("Run: %s (commit %s)", uuid.NewString(), commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Warn("%v; converted files will be picked up by the next run", err)
	}
	log.Info("")

	// 4. Convert. Per-file failures are tallied, never fatal.
	pipeline.Run(cfg, log, codec.NewJPEG(cfg.JPEGQuality), progressFactory(stderr))
	return nil
}

// progressFactory draws bars only when stderr is an interactive terminal.
func progressFactory(stderr io.Writer) progress.Factory {
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(f) {
		return progress.NewTerminal(f, term.Enabled())
	}
	return progress.Nop{}
}

// absPath returns the absolute path with symlinks resolved when the path
// exists, for comparing the input and output hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

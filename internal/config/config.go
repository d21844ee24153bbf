// Package config holds runtime configuration: defaults, CLI flag binding, and
// validation. Quality and concurrency are fixed constants, not user settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Fixed conversion parameters.
const (
	JPEGQuality     = 95     // Encoder quality, 0-100.
	OutputExtension = ".jpg" // Canonical extension of every output file.
	HeartbeatEvery  = 100    // Discovery progress update interval, in matches.
)

// Sentinel errors for the fatal startup checks.
var (
	ErrUsage              = errors.New("usage: convert <input_dir> <output_dir>")
	ErrInputNotFound      = errors.New("input directory does not exist")
	ErrInputNotDir        = errors.New("input path is not a directory")
	ErrOutputInsideInput  = errors.New("output directory is inside input directory")
	errInvalidColorMode   = errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	errInvalidJPEGQuality = errors.New("JPEG quality must be between 1 and 100")
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [ApplyFlags] and [ParseArgs], and passed by pointer to the
// packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Conversion. Not user-configurable.
	Workers     int // Default: runtime.NumCPU(), at least 1.
	JPEGQuality int // Fixed: 95.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the fixed conversion parameters and
// display defaults.
func DefaultConfig() Config {
	return Config{
		Workers:     DefaultWorkers(),
		JPEGQuality: JPEGQuality,
		ColorMode:   ColorAuto,
	}
}

// DefaultWorkers returns the detected CPU parallelism, never less than 1.
func DefaultWorkers() int {
	return max(runtime.NumCPU(), 1)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and the fixed parameters. When not in
// CheckOnly mode it also requires both directory paths.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errInvalidColorMode
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errInvalidJPEGQuality
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return ErrUsage
	}
	return nil
}

// ValidateInputDir reports whether path exists and is a directory. The
// returned error wraps [ErrInputNotFound] or [ErrInputNotDir].
func ValidateInputDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrInputNotDir, path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDir, path)
	}
	return nil
}

// ValidatePaths reports whether the resolved output directory lies inside
// (or equals) the resolved input directory. Such a layout still converts,
// but the next run will rediscover the outputs. Both arguments must be
// absolute, cleaned paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return ErrOutputInsideInput
	}
	return nil
}

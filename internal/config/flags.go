package config

// This file binds CLI flags onto a pflag.FlagSet owned by the cobra root
// command. Negated flags (e.g. --no-color) are applied after Parse so Config
// defaults hold unless set.

import (
	"github.com/spf13/pflag"
)

// Flags holds flag values that are applied to Config after parsing rather
// than bound directly to a Config field.
type Flags struct {
	forceColor bool
	noColor    bool
}

// BindFlags registers the display and utility flags on fs. There are
// deliberately no quality or worker-count flags.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{}
	defineDisplayFlags(fs, cfg, f)
	defineUtilityFlags(fs, cfg)
	return f
}

// defineDisplayFlags registers --color, --no-color, -v/--verbose, -l/--log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, f *Flags) {
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every per-file failure")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// defineUtilityFlags registers -c/--check.
func defineUtilityFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run codec diagnostics and exit")
}

// ApplyFlags copies negated and override flag values into cfg.
// --no-color wins over --color.
func ApplyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// ParseArgs sets InputDir and OutputDir from the positional arguments.
// Exactly two are required unless cfg.CheckOnly is set.
func ParseArgs(cfg *Config, args []string) error {
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return ErrUsage
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

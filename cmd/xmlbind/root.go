package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath     string
	cpuProfilePath string
	memProfilePath string

	cfg            config
	logger         *zap.Logger
	stopCPUProfile func() error
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xmlbind",
		Short: "Inspect and convert XML documents and OPC packages",
		Long: `xmlbind reads XML documents through typed bindings.

Documents may be plain or compressed with gzip, zstd, lz4 or s2; the
compression is detected from the file contents. OOXML packages (docx, xlsx,
pptx) are read as zip archives.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError{errors.New("a command is required")}
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./xmlbind.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("strict", false, "reject duplicate attributes and other well-formedness errors")
	flags.Int("max-depth", 0, "maximum element nesting (0 uses the default)")
	flags.Int("max-foreign-events", -1, "top-level events tolerated around the root element (-1 uses the default)")
	flags.StringVar(&a.cpuProfilePath, "cpuprofile", "", "write CPU profile to file")
	flags.StringVar(&a.memProfilePath, "memprofile", "", "write memory profile to file")

	root.AddCommand(a.inspectCommand())
	root.AddCommand(a.opcCommand())
	root.AddCommand(a.convertCommand())
	root.AddCommand(a.versionCommand())
	return root
}

// setup loads configuration and starts profiling before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	lvl, err := cfg.level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, lvl)
	if cfg.NoColor {
		color.NoColor = true
	}

	if a.cpuProfilePath != "" {
		stop, err := startCPUProfile(a.cpuProfilePath)
		if err != nil {
			return err
		}
		a.stopCPUProfile = stop
	}
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("compress", cfg.Compress),
		zap.Bool("strict", cfg.Strict),
	)
	return nil
}

// close stops profiling and flushes the logger.
func (a *app) close() error {
	var errs []error
	if a.stopCPUProfile != nil {
		errs = append(errs, a.stopCPUProfile())
		a.stopCPUProfile = nil
	}
	if a.memProfilePath != "" {
		errs = append(errs, writeMemProfile(a.memProfilePath))
	}
	if a.logger != nil {
		// Sync fails on unsyncable writers such as terminals and buffers.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleColor := color.New(color.FgCyan, color.Bold)
			if _, err := titleColor.Fprint(a.stdout, "xmlbind version: "); err != nil {
				return err
			}
			if err := writeln(a.stdout, Version); err != nil {
				return err
			}
			if _, err := titleColor.Fprint(a.stdout, "Go version: "); err != nil {
				return err
			}
			return writeln(a.stdout, runtime.Version())
		},
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs reporting a usage error.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usageError{fmt.Errorf("%s accepts between %d and %d arg(s), received %d", cmd.CommandPath(), lo, hi, len(args))}
		}
		return nil
	}
}

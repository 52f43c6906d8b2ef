package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/unbound-force/whiff/internal/config"
	"github.com/unbound-force/whiff/internal/delegate"
	"github.com/unbound-force/whiff/internal/loader"
	"github.com/unbound-force/whiff/internal/report"
	"github.com/unbound-force/whiff/internal/scan"
	"github.com/unbound-force/whiff/internal/taxonomy"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "whiff",
		Short: "Whiff: test smell detection for JUnit 5 suites",
		Long: `Whiff scans Java test sources and reports test smells such as
Assertion Roulette, Sleepy Test, Eager Test and General Fixture.
Findings are advisory; use --max-smells to turn them into a CI gate.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.configPath, "config", "",
		"path to config file (default: ./"+config.FileName+" if present)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(newDetectCmd(g))
	root.AddCommand(newDelegateCmd(g))
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	return root
}

// loadConfig resolves the configuration file. An explicit path must
// exist; the implicit ./.whiff.yaml is optional.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(config.FileName)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.Load(path)
}

// configureLogger applies the log settings from cfg to the package
// logger. When cfg.Log.File is set, output is also written to a
// rotating log file; the returned function closes it.
func configureLogger(stderr io.Writer, cfg config.LogConfig, verbose bool) (func() error, error) {
	level := charmlog.InfoLevel
	if cfg.Level != "" {
		parsed, err := charmlog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("%w: log.level: %v", config.ErrInvalidConfig, err)
		}
		level = parsed
	}
	if verbose {
		level = charmlog.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.File == "" {
		logger.SetOutput(stderr)
		return func() error { return nil }, nil
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	logger.SetOutput(io.MultiWriter(stderr, sink))
	return sink.Close, nil
}

// setup loads configuration and configures logging for a command.
func (g *globalOptions) setup(stderr io.Writer) (*config.Config, func() error, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := configureLogger(stderr, cfg.Log, g.verbose)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded", "path", g.configPath, "tests_dir", cfg.TestsDir)
	return cfg, closeLog, nil
}

// detectParams holds the parsed flags for the detect command.
type detectParams struct {
	ctx         context.Context
	cfg         *config.Config
	testsDir    string
	format      string
	breakdown   bool
	maxSmells   int
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// runDetect is the extracted, testable body of the detect command.
func runDetect(p detectParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}
	if p.maxSmells < 0 {
		return fmt.Errorf("invalid --max-smells %d: must be >= 0", p.maxSmells)
	}
	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := p.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dir := p.testsDir
	if dir == "" {
		dir = cfg.TestsDir
	}

	logger.Info("scanning tests", "dir", dir)
	loaded, err := loader.Load(ctx, dir, &cfg.Scan)
	if err != nil {
		return err
	}

	var warnings []string
	for _, s := range loaded.Skipped {
		logger.Warn("skipping unreadable file", "path", s.Path, "err", s.Reason)
		warnings = append(warnings, fmt.Sprintf("skipped %s: %s", s.Path, s.Reason))
	}
	logger.Info("loaded sources", "files", len(loaded.Units), "skipped", len(loaded.Skipped))

	summary, err := scan.Run(ctx, loaded.Units, scan.Options{Workers: cfg.Scan.Workers})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	logger.Info("scan complete", "files", len(summary.Files), "smells", summary.Total)

	if p.interactive {
		if err := runInteractiveDetect(summary); err != nil {
			return err
		}
	} else {
		meta := taxonomy.Metadata{
			WhiffVersion: version,
			GoVersion:    runtime.Version(),
			Warnings:     warnings,
		}
		if err := writeDetectReport(p.stdout, p.format, summary, meta, p.breakdown); err != nil {
			return err
		}
	}

	printCISummary(p.stderr, summary, p.maxSmells)

	return checkCIThresholds(summary, p.maxSmells)
}

// writeDetectReport outputs the scan summary in the requested format.
func writeDetectReport(w io.Writer, format string, summary taxonomy.ScanSummary, meta taxonomy.Metadata, breakdown bool) error {
	switch format {
	case "json":
		return report.WriteJSON(w, summary, meta)
	default:
		return report.WriteTextWithOptions(w, summary, report.TextOptions{Breakdown: breakdown})
	}
}

// printCISummary prints a one-line CI summary to stderr when a
// threshold is set.
func printCISummary(w io.Writer, summary taxonomy.ScanSummary, maxSmells int) {
	if maxSmells <= 0 {
		return
	}
	s := report.DefaultStyles()
	status := s.Pass.Render("PASS")
	if summary.Total > maxSmells {
		status = s.Fail.Render("FAIL")
	}
	fmt.Fprintf(w, "Smells: %d/%d (%s)\n", summary.Total, maxSmells, status)
}

// checkCIThresholds returns an error if the smell count exceeds the
// configured maximum.
func checkCIThresholds(summary taxonomy.ScanSummary, maxSmells int) error {
	if maxSmells > 0 && summary.Total > maxSmells {
		return fmt.Errorf("%d test smells exceed maximum %d", summary.Total, maxSmells)
	}
	return nil
}

func newDetectCmd(g *globalOptions) *cobra.Command {
	var (
		format      string
		workers     int
		maxSmells   int
		breakdown   bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "detect [tests-dir]",
		Short: "Detect test smells in Java test sources",
		Long: `Walk a test source directory (default: tests_dir from the config,
src/test/java) and report test smells per file. Each file is
classified independently; output is sorted by path and identical
input always produces identical output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stderr := cmd.ErrOrStderr()
			cfg, closeLog, err := g.setup(stderr)
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			if cmd.Flags().Changed("workers") {
				if workers < 0 {
					return fmt.Errorf("invalid --workers %d: must be >= 0", workers)
				}
				cfg.Scan.Workers = workers
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return runDetect(detectParams{
				ctx:         cmd.Context(),
				cfg:         cfg,
				testsDir:    dir,
				format:      format,
				breakdown:   breakdown,
				maxSmells:   maxSmells,
				interactive: interactive,
				stdout:      cmd.OutOrStdout(),
				stderr:      stderr,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0,
		"files classified concurrently (default: scan.workers, 0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&maxSmells, "max-smells", 0,
		"fail if the number of smells exceeds this (0 = no limit)")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false,
		"append a per-smell count table to text output")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")

	return cmd
}

// delegateParams holds the parsed flags for the delegate command.
type delegateParams struct {
	ctx      context.Context
	cfg      *config.Config
	testsDir string
	baseDir  string
	stdout   io.Writer
}

// runDelegate is the extracted, testable body of the delegate
// command. A non-zero detector exit is logged and not returned.
func runDelegate(p delegateParams) error {
	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := p.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dir := p.testsDir
	if dir == "" {
		dir = cfg.TestsDir
	}

	logger.Info("running external detector", "jar", cfg.Delegate.Jar, "dir", dir)
	res, err := delegate.Run(ctx, delegate.Options{
		Command:  cfg.Delegate.Command,
		Jar:      cfg.Delegate.Jar,
		TestsDir: dir,
		BaseDir:  p.baseDir,
	}, p.stdout)

	var exitErr *delegate.ExitError
	switch {
	case errors.As(err, &exitErr):
		logger.Warn("external detector failed", "code", exitErr.Code)
		return nil
	case err != nil:
		return err
	}

	logger.Info("external detector finished", "lines", res.Lines)
	return nil
}

func newDelegateCmd(g *globalOptions) *cobra.Command {
	var (
		jar     string
		command string
	)

	cmd := &cobra.Command{
		Use:   "delegate [tests-dir]",
		Short: "Run an external test smell detector",
		Long: `Run a pre-built detector archive as "<command> -jar <jar> <tests-dir>"
from the current directory, streaming its combined output. A non-zero
exit status is reported as a warning and does not fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			if jar != "" {
				cfg.Delegate.Jar = jar
			}
			if command != "" {
				cfg.Delegate.Command = command
			}

			baseDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return runDelegate(delegateParams{
				ctx:      cmd.Context(),
				cfg:      cfg,
				testsDir: dir,
				baseDir:  baseDir,
				stdout:   cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&jar, "jar", "",
		"detector archive (default: delegate.jar from the config)")
	cmd.Flags().StringVar(&command, "command", "",
		"launcher executable (default: delegate.command from the config)")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for Whiff scan output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of whiff detect --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}

// initParams holds the parsed flags for the init command.
type initParams struct {
	path   string
	force  bool
	stdout io.Writer
}

// runInit writes the default configuration file.
func runInit(p initParams) error {
	if err := config.Write(p.path, config.DefaultConfig(), p.force); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.stdout, "wrote %s\n", p.path)
	return err
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initParams{
				path:   config.FileName,
				force:  force,
				stdout: cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing config file")

	return cmd
}

// Package config loads and validates the .whiff.yaml project
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working
// directory when --config is not given.
const FileName = ".whiff.yaml"

// ErrInvalidConfig is returned when a configuration file cannot be
// parsed or holds values outside their allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrConfigExists is returned by Write when the target file already
// exists and overwriting was not requested.
var ErrConfigExists = errors.New("configuration file already exists")

// Config is the full Whiff configuration.
type Config struct {
	// TestsDir is the directory scanned for test sources, relative to
	// the working directory unless absolute.
	TestsDir string `yaml:"tests_dir"`

	Scan     ScanConfig     `yaml:"scan"`
	Log      LogConfig      `yaml:"log"`
	Delegate DelegateConfig `yaml:"delegate"`
}

// ScanConfig controls which files are read and how many are
// classified at once.
type ScanConfig struct {
	// Include restricts the scan to paths matching at least one
	// pattern. Empty means every file.
	Include []string `yaml:"include,omitempty"`

	// Exclude drops paths matching any pattern. Applied after Include.
	Exclude []string `yaml:"exclude"`

	// Extensions lists the file suffixes treated as test sources.
	Extensions []string `yaml:"extensions"`

	// Workers bounds concurrent classification. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Timeout bounds the directory walk. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig configures the CLI logger and its optional file sink.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DelegateConfig names the external detector run by "whiff delegate".
type DelegateConfig struct {
	// Command is the launcher executable, normally "java".
	Command string `yaml:"command"`

	// Jar is the detector archive passed as "-jar <Jar>".
	Jar string `yaml:"jar,omitempty"`
}

// logLevels are the accepted values of log.level.
var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns the configuration used when no file is
// present.
func DefaultConfig() *Config {
	return &Config{
		TestsDir: "src/test/java",
		Scan: ScanConfig{
			Exclude:    []string{"**/target/**", "**/build/**"},
			Extensions: []string{".java"},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Delegate: DelegateConfig{
			Command: "java",
		},
	}
}

// Load reads the configuration at path. Keys absent from the file
// keep their default values. A missing file is not an error: the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and glob syntax. Every failure wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TestsDir) == "" {
		return fmt.Errorf("%w: tests_dir must not be empty", ErrInvalidConfig)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("%w: scan.workers must be >= 0, got %d", ErrInvalidConfig, c.Scan.Workers)
	}
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("%w: scan.timeout must be >= 0, got %s", ErrInvalidConfig, c.Scan.Timeout)
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("%w: scan.extensions must list at least one suffix", ErrInvalidConfig)
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: scan.extensions entry %q must start with '.'", ErrInvalidConfig, ext)
		}
	}
	for _, p := range append(append([]string{}, c.Scan.Include...), c.Scan.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad glob pattern %q", ErrInvalidConfig, p)
		}
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", ErrInvalidConfig, c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// Write stores cfg at path. An existing file is replaced only when
// force is set; otherwise ErrConfigExists is returned.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrConfigExists)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

package complog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog/internal/constants"
)

const (
	// DefaultTimeFormat is the default time format for console lines.
	DefaultTimeFormat = "2006-01-02 15:04:05.000"
	// DefaultWorkers is the size of the shared file-write worker pool.
	DefaultWorkers = constants.DefaultWorkers
	// DefaultQueueSize is the default capacity of the dispatcher channel.
	DefaultQueueSize = constants.DefaultQueueSize
	// DefaultMaxLines is the default number of lines retained per component file.
	DefaultMaxLines = constants.DefaultMaxLines
	// LogFilePermissions are the default file permissions for log files.
	LogFilePermissions = 0o600
)

// ColorMode determines how console colors are handled.
type ColorMode uint8

const (
	// ColorModeAuto colors output only when it is a terminal.
	ColorModeAuto ColorMode = iota
	// ColorModeAlways forces color output.
	ColorModeAlways
	// ColorModeNever disables color output.
	ColorModeNever
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(mode string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return ColorModeAuto, nil
	case "always", "force", "true":
		return ColorModeAlways, nil
	case "never", "false":
		return ColorModeNever, nil
	default:
		return ColorModeAuto, ewrap.New("invalid color mode").WithMetadata("mode", mode)
	}
}

// FileConfig holds configuration specific to the per-component file logs.
type FileConfig struct {
	// Dir is the directory holding one file per component.
	Dir string
	// MaxLines is the number of lines each component file retains.
	MaxLines int
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
	// Disabled turns off file sinks: every component logger is console-only.
	Disabled bool
}

// ConsoleConfig holds configuration specific to the console sink.
type ConsoleConfig struct {
	// Output is where console lines are written.
	Output io.Writer
	// ColorMode controls ANSI coloring of console lines.
	ColorMode ColorMode
	// TimeFormat specifies the format for timestamps; empty disables them.
	TimeFormat string
	// LevelColors maps each verbosity to its ANSI color; nil uses DefaultLevelColors.
	LevelColors map[Level]string
	// Disabled discards console output.
	Disabled bool
}

// Config holds configuration for a component logger registry.
type Config struct {
	// Environment names the deployment environment and drives the default build context.
	Environment string
	// Workers is the size of the file-write worker pool.
	Workers int
	// QueueSize is the capacity of the dispatcher channel.
	QueueSize int
	// ThresholdPolicy selects how thresholds gate the two sinks.
	ThresholdPolicy ThresholdPolicy
	// ComponentLevels pins the initial threshold of named components.
	ComponentLevels map[string]Level
	// File configures the per-component file logs.
	File FileConfig
	// Console configures the console sink.
	Console ConsoleConfig
	// ErrorHandler receives collaborator failures that are never surfaced to callers.
	ErrorHandler func(error)
	// MetricsHandler receives dispatcher metrics snapshots.
	MetricsHandler DispatchMetricsHandler
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{
		Environment:     "",
		Workers:         DefaultWorkers,
		QueueSize:       DefaultQueueSize,
		ThresholdPolicy: ThresholdGateAll,
		ComponentLevels: make(map[string]Level),
		File: FileConfig{
			Dir:      filepath.Join(os.TempDir(), constants.DefaultLogDirName),
			MaxLines: DefaultMaxLines,
			FileMode: LogFilePermissions,
		},
		Console: ConsoleConfig{
			Output:      os.Stderr,
			ColorMode:   ColorModeAuto,
			TimeFormat:  DefaultTimeFormat,
			LevelColors: DefaultLevelColors(),
		},
		ErrorHandler:   nil,
		MetricsHandler: nil,
	}
}

// ProductionConfig returns a configuration for production builds: colors off and
// component loggers starting at ERROR.
func ProductionConfig() Config {
	config := DefaultConfig()
	config.Environment = "production"
	config.Console.ColorMode = ColorModeNever

	return config
}

// DevelopmentConfig returns a configuration for development builds: colors on and
// component loggers starting at DEBUG.
func DevelopmentConfig() Config {
	config := DefaultConfig()
	config.Environment = constants.NonProductionEnvironment
	config.Console.ColorMode = ColorModeAlways

	return config
}

// Validate normalizes zero values to their defaults and rejects invalid settings.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return ewrap.New("workers cannot be negative").WithMetadata("workers", c.Workers)
	}

	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}

	if c.QueueSize < 0 {
		return ewrap.New("queue size cannot be negative").WithMetadata("queue_size", c.QueueSize)
	}

	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}

	if !c.ThresholdPolicy.IsValid() {
		return ewrap.New("invalid threshold policy").WithMetadata("policy", c.ThresholdPolicy)
	}

	for name, level := range c.ComponentLevels {
		if !level.IsValid() {
			return ewrap.Wrap(ErrInvalidLevel, "invalid component level").
				WithMetadata("component", name).
				WithMetadata("level", level)
		}
	}

	if c.File.MaxLines < 0 {
		return ewrap.New("file max lines cannot be negative").WithMetadata("max_lines", c.File.MaxLines)
	}

	if c.File.FileMode == 0 {
		c.File.FileMode = LogFilePermissions
	}

	if c.Console.Output == nil {
		c.Console.Output = os.Stderr
	}

	if c.Console.LevelColors == nil {
		c.Console.LevelColors = DefaultLevelColors()
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = func(err error) { fmt.Fprintf(os.Stderr, "Error in component logger: %v\n", err) }
	}

	return nil
}

// BuildContext returns the build context implied by the configured environment.
func (c *Config) BuildContext() BuildContext {
	return EnvironmentBuildContext(c.Environment)
}

// FlushTimeout is the default time a registry waits for pending file writes.
const FlushTimeout time.Duration = constants.DefaultTimeout

// SetOutput resolves a console output name: "stdout", "stderr" or "discard"
// (case-insensitive).
func SetOutput(output string) (io.Writer, error) {
	name, ok := constants.ParseConsoleOutput(output)
	if !ok {
		return nil, ewrap.New("invalid console output").WithMetadata("output", output)
	}

	switch name {
	case constants.ConsoleStdout:
		return os.Stdout, nil
	case constants.ConsoleDiscard:
		return io.Discard, nil
	default:
		return os.Stderr, nil
	}
}

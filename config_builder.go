package complog

import (
	"io"
	"maps"
	"os"
)

// ConfigBuilder provides a fluent API for constructing registry configurations.
// It allows for more readable and chainable configuration setup.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new builder starting from DefaultConfig.
// This is the entry point for the fluent configuration API.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: DefaultConfig()}
}

// WithEnvironment sets the deployment environment that drives the default build context.
// Example: builder.WithEnvironment("development").
func (b *ConfigBuilder) WithEnvironment(environment string) *ConfigBuilder {
	b.config.Environment = environment

	return b
}

// WithWorkers sets the size of the file-write worker pool.
func (b *ConfigBuilder) WithWorkers(workers int) *ConfigBuilder {
	b.config.Workers = workers

	return b
}

// WithQueueSize sets the capacity of the dispatcher channel.
func (b *ConfigBuilder) WithQueueSize(size int) *ConfigBuilder {
	b.config.QueueSize = size

	return b
}

// WithThresholdPolicy selects how thresholds gate the two sinks.
func (b *ConfigBuilder) WithThresholdPolicy(policy ThresholdPolicy) *ConfigBuilder {
	b.config.ThresholdPolicy = policy

	return b
}

// WithComponentLevel pins the initial threshold of one component.
// Example: builder.WithComponentLevel("Net", WarnLevel).
func (b *ConfigBuilder) WithComponentLevel(component string, level Level) *ConfigBuilder {
	if b.config.ComponentLevels == nil {
		b.config.ComponentLevels = make(map[string]Level)
	}

	b.config.ComponentLevels[component] = level

	return b
}

// WithOutput sets the console destination.
// Example: builder.WithOutput(os.Stdout).
func (b *ConfigBuilder) WithOutput(output io.Writer) *ConfigBuilder {
	b.config.Console.Output = output

	return b
}

// WithConsoleOutput writes console lines to standard error.
func (b *ConfigBuilder) WithConsoleOutput() *ConfigBuilder {
	b.config.Console.Output = os.Stderr
	b.config.Console.Disabled = false

	return b
}

// WithoutConsole discards console output.
func (b *ConfigBuilder) WithoutConsole() *ConfigBuilder {
	b.config.Console.Disabled = true

	return b
}

// WithColorMode controls console coloring.
func (b *ConfigBuilder) WithColorMode(mode ColorMode) *ConfigBuilder {
	b.config.Console.ColorMode = mode

	return b
}

// WithLevelColor overrides the console color of one level.
func (b *ConfigBuilder) WithLevelColor(level Level, color string) *ConfigBuilder {
	colors := make(map[Level]string, len(b.config.Console.LevelColors)+1)
	maps.Copy(colors, b.config.Console.LevelColors)
	colors[level] = color

	b.config.Console.LevelColors = colors

	return b
}

// WithTimeFormat sets the console timestamp format.
// Example: builder.WithTimeFormat(time.RFC3339).
func (b *ConfigBuilder) WithTimeFormat(format string) *ConfigBuilder {
	b.config.Console.TimeFormat = format

	return b
}

// WithNoTimestamp removes timestamps from console lines.
func (b *ConfigBuilder) WithNoTimestamp() *ConfigBuilder {
	b.config.Console.TimeFormat = ""

	return b
}

// WithFileDir sets the directory holding the per-component files.
func (b *ConfigBuilder) WithFileDir(dir string) *ConfigBuilder {
	b.config.File.Dir = dir
	b.config.File.Disabled = false

	return b
}

// WithMaxLines sets the number of lines each component file retains.
func (b *ConfigBuilder) WithMaxLines(maxLines int) *ConfigBuilder {
	b.config.File.MaxLines = maxLines

	return b
}

// WithFileMode sets the permissions of new component files.
func (b *ConfigBuilder) WithFileMode(mode os.FileMode) *ConfigBuilder {
	b.config.File.FileMode = mode

	return b
}

// WithoutFiles makes every component logger console-only.
func (b *ConfigBuilder) WithoutFiles() *ConfigBuilder {
	b.config.File.Disabled = true

	return b
}

// WithErrorHandler sets the handler receiving collaborator failures.
func (b *ConfigBuilder) WithErrorHandler(handler func(error)) *ConfigBuilder {
	b.config.ErrorHandler = handler

	return b
}

// WithMetricsHandler sets the handler receiving dispatcher metrics.
func (b *ConfigBuilder) WithMetricsHandler(handler DispatchMetricsHandler) *ConfigBuilder {
	b.config.MetricsHandler = handler

	return b
}

// WithDevelopmentDefaults applies the development environment with forced colors.
func (b *ConfigBuilder) WithDevelopmentDefaults() *ConfigBuilder {
	development := DevelopmentConfig()

	b.config.Environment = development.Environment
	b.config.Console.ColorMode = development.Console.ColorMode

	return b
}

// WithProductionDefaults applies the production environment without colors.
func (b *ConfigBuilder) WithProductionDefaults() *ConfigBuilder {
	production := ProductionConfig()

	b.config.Environment = production.Environment
	b.config.Console.ColorMode = production.Console.ColorMode

	return b
}

// Build returns a copy of the configuration. Validation happens when the
// configuration is handed to a registry.
func (b *ConfigBuilder) Build() *Config {
	config := b.config
	config.ComponentLevels = maps.Clone(b.config.ComponentLevels)
	config.Console.LevelColors = maps.Clone(b.config.Console.LevelColors)

	return &config
}

package complog

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, os.Stderr, config.Console.Output)
	assert.Equal(t, DefaultWorkers, config.Workers)
	assert.Equal(t, 3, config.Workers)
	assert.Equal(t, DefaultQueueSize, config.QueueSize)
	assert.Equal(t, ThresholdGateAll, config.ThresholdPolicy)
	assert.Equal(t, DefaultTimeFormat, config.Console.TimeFormat)
	assert.Equal(t, ColorModeAuto, config.Console.ColorMode)
	assert.Equal(t, DefaultLevelColors(), config.Console.LevelColors)
	assert.Equal(t, DefaultMaxLines, config.File.MaxLines)
	assert.Equal(t, os.FileMode(LogFilePermissions), config.File.FileMode)
	assert.Equal(t, filepath.Join(os.TempDir(), "complog"), config.File.Dir)
	assert.Empty(t, config.ComponentLevels)
	assert.Nil(t, config.ErrorHandler)
}

func TestEnvironmentConfigs(t *testing.T) {
	production := ProductionConfig()
	assert.Equal(t, "production", production.Environment)
	assert.Equal(t, ColorModeNever, production.Console.ColorMode)

	development := DevelopmentConfig()
	assert.Equal(t, "development", development.Environment)
	assert.Equal(t, ColorModeAlways, development.Console.ColorMode)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
		check       func(*testing.T, Config)
	}{
		{
			name: "zero values get defaults",
			mutate: func(c *Config) {
				c.Workers = 0
				c.QueueSize = 0
				c.File.FileMode = 0
				c.Console.Output = nil
				c.Console.LevelColors = nil
			},
			check: func(t *testing.T, c Config) {
				t.Helper()

				assert.Equal(t, DefaultWorkers, c.Workers)
				assert.Equal(t, DefaultQueueSize, c.QueueSize)
				assert.Equal(t, os.FileMode(LogFilePermissions), c.File.FileMode)
				assert.Equal(t, os.Stderr, c.Console.Output)
				assert.Equal(t, DefaultLevelColors(), c.Console.LevelColors)
				assert.NotNil(t, c.ErrorHandler)
			},
		},
		{
			name:   "zero max lines is allowed",
			mutate: func(c *Config) { c.File.MaxLines = 0 },
			check: func(t *testing.T, c Config) {
				t.Helper()

				assert.Zero(t, c.File.MaxLines)
			},
		},
		{
			name:        "negative workers",
			mutate:      func(c *Config) { c.Workers = -1 },
			errContains: "workers cannot be negative",
		},
		{
			name:        "negative queue size",
			mutate:      func(c *Config) { c.QueueSize = -1 },
			errContains: "queue size cannot be negative",
		},
		{
			name:        "negative max lines",
			mutate:      func(c *Config) { c.File.MaxLines = -1 },
			errContains: "max lines cannot be negative",
		},
		{
			name:        "unknown policy",
			mutate:      func(c *Config) { c.ThresholdPolicy = ThresholdPolicy(9) },
			errContains: "invalid threshold policy",
		},
		{
			name:        "invalid component level",
			mutate:      func(c *Config) { c.ComponentLevels["Net"] = Level(42) },
			errContains: "invalid component level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)

				return
			}

			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestConfigBuildContext(t *testing.T) {
	config := DefaultConfig()

	config.Environment = "development"
	assert.Equal(t, DebugLevel, InitialLevel(config.BuildContext()))

	config.Environment = "production"
	assert.Equal(t, ErrorLevel, InitialLevel(config.BuildContext()))
}

func TestSetOutput(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantWriter io.Writer
		wantErr    bool
	}{
		{name: "stdout", output: "stdout", wantWriter: os.Stdout},
		{name: "stderr", output: "stderr", wantWriter: os.Stderr},
		{name: "mixed case", output: " StdErr ", wantWriter: os.Stderr},
		{name: "discard", output: "discard", wantWriter: io.Discard},
		{name: "file path", output: "app.log", wantErr: true},
		{name: "empty", output: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, err := SetOutput(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, writer)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWriter, writer)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		mode    string
		want    ColorMode
		wantErr bool
	}{
		{mode: "", want: ColorModeAuto},
		{mode: "auto", want: ColorModeAuto},
		{mode: "ALWAYS", want: ColorModeAlways},
		{mode: "force", want: ColorModeAlways},
		{mode: "never", want: ColorModeNever},
		{mode: "false", want: ColorModeNever},
		{mode: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := ParseColorMode(tt.mode)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultErrorHandlerDoesNotPanic(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	require.NotPanics(t, func() { config.ErrorHandler(io.ErrShortWrite) })
}

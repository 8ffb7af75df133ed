package configloader

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog"
)

const componentsKey = "components"

type rawComponent struct {
	Name  string `mapstructure:"name"  yaml:"name"`
	Level string `mapstructure:"level" yaml:"level"`
}

type rawConfig struct {
	Environment     string `mapstructure:"environment"      yaml:"environment"`
	Workers         *int   `mapstructure:"workers"          yaml:"workers"`
	QueueSize       *int   `mapstructure:"queue_size"       yaml:"queue_size"`
	ThresholdPolicy string `mapstructure:"threshold_policy" yaml:"threshold_policy"`
	File            struct {
		Dir      string `mapstructure:"dir"       yaml:"dir"`
		MaxLines *int   `mapstructure:"max_lines" yaml:"max_lines"`
		Disabled *bool  `mapstructure:"disabled"  yaml:"disabled"`
	} `mapstructure:"file" yaml:"file"`
	Console struct {
		Output     string  `mapstructure:"output"      yaml:"output"`
		Color      string  `mapstructure:"color"       yaml:"color"`
		TimeFormat *string `mapstructure:"time_format" yaml:"time_format"`
		Disabled   *bool   `mapstructure:"disabled"    yaml:"disabled"`
		// LevelColors maps level names to color names; YAML only.
		LevelColors map[string]string `mapstructure:"level_colors" yaml:"level_colors"`
	} `mapstructure:"console" yaml:"console"`
	Components []rawComponent `mapstructure:"-" yaml:"components"`
}

//nolint:cyclop,funlen // one branch per configuration key.
func applyRaw(raw rawConfig) (*complog.Config, error) {
	cfg := complog.DefaultConfig()

	if raw.Environment != "" {
		cfg.Environment = raw.Environment
	}

	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}

	if raw.QueueSize != nil {
		cfg.QueueSize = *raw.QueueSize
	}

	if raw.ThresholdPolicy != "" {
		policy, err := complog.ParseThresholdPolicy(raw.ThresholdPolicy)
		if err != nil {
			return nil, err
		}

		cfg.ThresholdPolicy = policy
	}

	if raw.File.Dir != "" {
		cfg.File.Dir = raw.File.Dir
	}

	if raw.File.MaxLines != nil {
		cfg.File.MaxLines = *raw.File.MaxLines
	}

	if raw.File.Disabled != nil {
		cfg.File.Disabled = *raw.File.Disabled
	}

	if raw.Console.Output != "" {
		writer, err := complog.SetOutput(raw.Console.Output)
		if err != nil {
			return nil, err
		}

		cfg.Console.Output = writer
	}

	if raw.Console.Color != "" {
		mode, err := complog.ParseColorMode(raw.Console.Color)
		if err != nil {
			return nil, err
		}

		cfg.Console.ColorMode = mode
	}

	if raw.Console.TimeFormat != nil {
		cfg.Console.TimeFormat = *raw.Console.TimeFormat
	}

	if raw.Console.Disabled != nil {
		cfg.Console.Disabled = *raw.Console.Disabled
	}

	for levelName, colorName := range raw.Console.LevelColors {
		level, err := complog.ParseLevel(levelName)
		if err != nil || !level.IsVerbosity() {
			return nil, ewrap.New("invalid level color").WithMetadata("level", levelName)
		}

		color, err := complog.ParseColor(colorName)
		if err != nil {
			return nil, err
		}

		cfg.Console.LevelColors[level] = color
	}

	for _, component := range raw.Components {
		level, err := complog.ParseLevel(component.Level)
		if err != nil {
			return nil, ewrap.Wrap(err, "invalid component level").
				WithMetadata("component", component.Name)
		}

		cfg.ComponentLevels[component.Name] = level
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"environment",
		"workers",
		"queue_size",
		"threshold_policy",
		"file.dir",
		"file.max_lines",
		"file.disabled",
		"console.output",
		"console.color",
		"console.time_format",
		"console.disabled",
		componentsKey,
	}
}

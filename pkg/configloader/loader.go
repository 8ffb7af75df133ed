// Package configloader builds complog.Config values from environment variables,
// YAML documents and files through viper.
//
// Keys mirror the Config layout: environment, workers, queue_size, threshold_policy,
// file.dir, file.max_lines, file.disabled, console.output, console.color,
// console.time_format, console.disabled and components. Environment variables
// uppercase the key and replace dots with underscores, after the prefix:
// COMPLOG_FILE_MAX_LINES sets file.max_lines.
//
// console.level_colors maps level names to color names ("bold_red") and is read
// from YAML only.
//
// Component levels are a list in YAML and "name=level" pairs in the environment:
//
//	components:
//	  - name: Net
//	    level: warn
//
//	COMPLOG_COMPONENTS="Net=warn,Sync=debug"
package configloader

import (
	"bytes"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/hyp3rd/complog"
)

const defaultEnvPrefix = "COMPLOG"

// FromEnv loads configuration sourced from environment variables using the provided prefix.
// Environment keys are normalized by uppercasing and replacing dots with underscores.
func FromEnv(prefix string) (*complog.Config, error) {
	viperInstance := viper.New()

	normalized := normalizePrefix(prefix)

	err := bindEnvironment(viperInstance, normalized)
	if err != nil {
		return nil, err
	}

	raw, err := loadRawFromViper(viperInstance)
	if err != nil {
		return nil, err
	}

	return applyRaw(raw)
}

// FromYAML loads configuration from a YAML document provided as bytes.
func FromYAML(data []byte) (*complog.Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to read YAML configuration")
	}

	raw, err := loadRawFromViper(viperInstance)
	if err != nil {
		return nil, err
	}

	return applyRaw(raw)
}

// FromFile loads configuration from a YAML file and merges environment overrides using the default prefix.
func FromFile(path string) (*complog.Config, error) {
	viperInstance := viper.New()

	err := bindEnvironment(viperInstance, defaultEnvPrefix)
	if err != nil {
		return nil, err
	}

	viperInstance.SetConfigFile(path)

	err = viperInstance.ReadInConfig()
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to read configuration file").
			WithMetadata("path", path)
	}

	raw, err := loadRawFromViper(viperInstance)
	if err != nil {
		return nil, err
	}

	return applyRaw(raw)
}

func loadRawFromViper(viperInstance *viper.Viper) (rawConfig, error) {
	var raw rawConfig

	for _, key := range allKeys() {
		if !viperInstance.IsSet(key) {
			continue
		}

		viperInstance.Set(key, viperInstance.Get(key))
	}

	err := viperInstance.Unmarshal(&raw)
	if err != nil {
		return rawConfig{}, ewrap.Wrap(err, "failed to decode configuration")
	}

	raw.Components, err = loadComponents(viperInstance)
	if err != nil {
		return rawConfig{}, err
	}

	return raw, nil
}

// loadComponents reads the components key, either as "name=level" pairs or as a
// list of name/level entries. Map keys are avoided because viper lowercases them.
func loadComponents(viperInstance *viper.Viper) ([]rawComponent, error) {
	if !viperInstance.IsSet(componentsKey) {
		return nil, nil
	}

	if pairs, ok := viperInstance.Get(componentsKey).(string); ok {
		return parseComponentPairs(pairs)
	}

	var components []rawComponent

	err := viperInstance.UnmarshalKey(componentsKey, &components)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to decode component levels")
	}

	return components, nil
}

func parseComponentPairs(pairs string) ([]rawComponent, error) {
	var components []rawComponent

	for pair := range strings.SplitSeq(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, level, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, ewrap.New("invalid component level pair").WithMetadata("pair", pair)
		}

		components = append(components, rawComponent{Name: strings.TrimSpace(name), Level: strings.TrimSpace(level)})
	}

	return components, nil
}

func bindEnvironment(viperInstance *viper.Viper, prefix string) error {
	replacer := strings.NewReplacer(".", "_")
	viperInstance.SetEnvKeyReplacer(replacer)

	if prefix != "" {
		viperInstance.SetEnvPrefix(prefix)
	}

	viperInstance.AutomaticEnv()

	errorGroup := ewrap.NewErrorGroup()

	for _, key := range allKeys() {
		err := viperInstance.BindEnv(key)
		if err != nil {
			errorGroup.Add(ewrap.Wrap(err, "failed to bind environment key").
				WithMetadata("key", key).
				WithMetadata("prefix", prefix))
		}
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return defaultEnvPrefix
	}

	prefix = strings.TrimSuffix(prefix, "_")
	prefix = strings.ReplaceAll(prefix, "-", "_")

	return strings.ToUpper(prefix)
}

// Package cli implements the complog command line, which inspects the
// per-component log files a registry writes.
package cli

import (
	"io"
	"os"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog/pkg/configloader"
)

// Factory carries the dependencies shared by every command.
type Factory struct {
	Out    io.Writer
	ErrOut io.Writer

	Version string

	// ConfigPath, when set, names a YAML configuration file. Otherwise the
	// configuration comes from COMPLOG_* environment variables.
	ConfigPath string
	// Dir overrides the log directory of the configuration.
	Dir string
}

// NewFactory returns a factory writing to the process standard streams.
func NewFactory(version string) *Factory {
	return &Factory{
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		Version: version,
	}
}

// LogDir resolves the directory holding the component log files.
func (f *Factory) LogDir() (string, error) {
	if f.Dir != "" {
		return f.Dir, nil
	}

	if f.ConfigPath != "" {
		config, err := configloader.FromFile(f.ConfigPath)
		if err != nil {
			return "", ewrap.Wrap(err, "loading configuration")
		}

		return config.File.Dir, nil
	}

	config, err := configloader.FromEnv("")
	if err != nil {
		return "", ewrap.Wrap(err, "loading configuration from environment")
	}

	return config.File.Dir, nil
}
